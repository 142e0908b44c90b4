package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Mayor Announces Budget", "mayor announces budget"},
		{"collapse whitespace", "  two\t spaces \n here ", "two spaces here"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips punctuation", "City Council Approves Budget!", "city council approves budget"},
		{"same key across punctuation variants", "Miners trapped: rescue underway?", "miners trapped rescue underway"},
		{"digits kept", "3 Injured in Hwy 17 Crash", "3 injured in hwy 17 crash"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.in))
		})
	}

	// Punctuation-only variants must produce identical keys.
	assert.Equal(t,
		NormalizeTitle("Miners Trapped — Rescue Underway"),
		NormalizeTitle("miners trapped, rescue underway"))
}

func TestSentences(t *testing.T) {
	got := Sentences("First sentence. Second one! Third? ")
	assert.Equal(t, []string{"First sentence", "Second one", "Third"}, got)
	assert.Empty(t, Sentences(""))
	assert.Empty(t, Sentences("..."))
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("First paragraph.\n\n  Second paragraph.  \n")
	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, got)
}

func TestAlphanumericRatio(t *testing.T) {
	assert.Equal(t, 0.0, AlphanumericRatio(""))
	assert.Equal(t, 1.0, AlphanumericRatio("abc123"))
	assert.InDelta(t, 0.5, AlphanumericRatio("ab!?"), 0.001)
}
