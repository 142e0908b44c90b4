package classifier

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeshore-media/newsdesk/internal/model"
)

// stubZeroShot returns canned ranked labels for every call.
type stubZeroShot struct {
	results  []LabelScore
	err      error
	panics   bool
	calls    atomic.Int32
	lastText string
}

func (s *stubZeroShot) ClassifyZeroShot(_ context.Context, text string, _ []string) ([]LabelScore, error) {
	s.calls.Add(1)
	s.lastText = text
	if s.panics {
		panic("inference backend exploded")
	}
	return s.results, s.err
}

func sportsCandidate() model.Candidate {
	return model.Candidate{
		Title:   "Wolves Win Season Opener in Overtime",
		Content: "The Sudbury Wolves beat the Soo Greyhounds four to three. The team opens the hockey season at home next week.",
	}
}

func labelFor(t *testing.T, c *Classifier, cat model.Category) string {
	t.Helper()
	for label, lc := range c.labelCats {
		if lc == cat {
			return label
		}
	}
	t.Fatalf("no label for category %s", cat)
	return ""
}

func TestClassify_SemanticPreferred(t *testing.T) {
	stub := &stubZeroShot{}
	c, err := New(DefaultConfig(), WithZeroShot(func() (ZeroShot, error) { return stub, nil }))
	require.NoError(t, err)

	stub.results = []LabelScore{
		{Label: labelFor(t, c, model.CategorySports), Score: 0.72},
		{Label: labelFor(t, c, model.CategoryCommunityEvents), Score: 0.18},
		{Label: labelFor(t, c, model.CategoryHealth), Score: 0.02},
	}

	result := c.Classify(context.Background(), sportsCandidate())
	assert.Equal(t, model.MethodSemantic, result.Method)
	assert.Equal(t, model.CategorySports, result.Primary)
	assert.InDelta(t, 72.0, result.Confidence, 0.01)
	assert.Equal(t, []model.Category{model.CategoryCommunityEvents}, result.Secondary)
}

func TestClassify_SemanticLowConfidenceFallsBack(t *testing.T) {
	stub := &stubZeroShot{}
	c, err := New(DefaultConfig(), WithZeroShot(func() (ZeroShot, error) { return stub, nil }))
	require.NoError(t, err)

	stub.results = []LabelScore{
		{Label: labelFor(t, c, model.CategoryHealth), Score: 0.12},
	}

	result := c.Classify(context.Background(), sportsCandidate())
	assert.Equal(t, model.MethodKeyword, result.Method)
	assert.Equal(t, model.CategorySports, result.Primary)
}

func TestClassify_SemanticErrorFallsBack(t *testing.T) {
	stub := &stubZeroShot{err: eris.New("inference timeout")}
	c, err := New(DefaultConfig(), WithZeroShot(func() (ZeroShot, error) { return stub, nil }))
	require.NoError(t, err)

	result := c.Classify(context.Background(), sportsCandidate())
	assert.Equal(t, model.MethodKeyword, result.Method)
	assert.Equal(t, model.CategorySports, result.Primary)
}

func TestClassify_SemanticPanicFallsBack(t *testing.T) {
	stub := &stubZeroShot{panics: true}
	c, err := New(DefaultConfig(), WithZeroShot(func() (ZeroShot, error) { return stub, nil }))
	require.NoError(t, err)

	result := c.Classify(context.Background(), sportsCandidate())
	assert.Equal(t, model.MethodKeyword, result.Method)

	// A panicking backend must not poison later records.
	again := c.Classify(context.Background(), sportsCandidate())
	assert.Equal(t, model.CategorySports, again.Primary)
}

func TestClassify_ProviderConstructedOnce(t *testing.T) {
	var constructions atomic.Int32
	stub := &stubZeroShot{results: []LabelScore{}}
	c, err := New(DefaultConfig(), WithZeroShot(func() (ZeroShot, error) {
		constructions.Add(1)
		return stub, nil
	}))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		c.Classify(context.Background(), sportsCandidate())
	}
	assert.Equal(t, int32(1), constructions.Load())
	assert.Equal(t, int32(4), stub.calls.Load())
}

func TestClassify_ProviderErrorDisablesSemantic(t *testing.T) {
	var constructions atomic.Int32
	c, err := New(DefaultConfig(), WithZeroShot(func() (ZeroShot, error) {
		constructions.Add(1)
		return nil, eris.New("model weights missing")
	}))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result := c.Classify(context.Background(), sportsCandidate())
		assert.Equal(t, model.MethodKeyword, result.Method)
	}
	assert.Equal(t, int32(1), constructions.Load(), "factory runs at most once")
}

func TestClassify_SemanticInputShape(t *testing.T) {
	stub := &stubZeroShot{}
	cfg := DefaultConfig()
	cfg.SemanticMaxWords = 20
	c, err := New(cfg, WithZeroShot(func() (ZeroShot, error) { return stub, nil }))
	require.NoError(t, err)

	candidate := model.Candidate{
		Title:   "Short Headline Here",
		Content: strings.Repeat("word ", 100),
	}
	c.Classify(context.Background(), candidate)

	words := strings.Fields(stub.lastText)
	assert.Len(t, words, 20, "input truncated to the configured word limit")
	// Title duplicated for emphasis.
	assert.Equal(t, []string{"Short", "Headline", "Here", "Short", "Headline", "Here"}, words[:6])
}
