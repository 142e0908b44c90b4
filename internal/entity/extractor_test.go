package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lakeshore-media/newsdesk/internal/model"
)

func TestExtractPeople(t *testing.T) {
	got := extractPeople("Mayor Paul Lefebvre met with Sarah Chen at the event. City Council adjourned.")
	assert.Contains(t, got, "Paul Lefebvre")
	assert.Contains(t, got, "Sarah Chen")
	assert.NotContains(t, got, "City Council", "stoplist entries are filtered")
}

func TestExtractPeople_Cap(t *testing.T) {
	var b strings.Builder
	names := []string{"Alice", "Brian", "Clara", "David", "Erica", "Frank", "Grace", "Henry", "Irene", "Jacob", "Karen", "Louis"}
	for i, first := range names {
		b.WriteString(first + " " + string(rune('A'+i)) + "ndersen ")
	}
	got := extractPeople(b.String())
	assert.Len(t, got, 10)
}

func TestExtractOrganizations(t *testing.T) {
	text := "Vale Ltd announced layoffs. Laurentian University responded, as did the City of Sudbury."
	got := extractOrganizations(text)
	assert.Contains(t, got, "Vale Ltd")
	assert.Contains(t, got, "Laurentian University")
	assert.Contains(t, got, "City of Sudbury")
}

func TestExtractLocations(t *testing.T) {
	text := "The storm hit Sudbury and parts of northern Ontario before moving toward the Town of Espanola."
	got := extractLocations(text)
	assert.Contains(t, got, "Sudbury")
	assert.Contains(t, got, "Ontario")
	assert.Contains(t, got, "Espanola")
}

func TestExtractDates(t *testing.T) {
	text := "The council meets Monday, with a follow-up on January 15, 2026 and a deadline of 3/1/2026. It was announced yesterday."
	got := extractDates(text)
	assert.Contains(t, got, "Monday")
	assert.Contains(t, got, "January 15, 2026")
	assert.Contains(t, got, "3/1/2026")
	assert.Contains(t, got, "yesterday")
	assert.LessOrEqual(t, len(got), 5)
}

func TestExtractMoney(t *testing.T) {
	text := "The project costs $1,500,000.00, up from 500,000 dollars, with 2 million more pledged."
	got := extractMoney(text)
	assert.Contains(t, got, "$1,500,000.00")
	assert.Contains(t, got, "2 million")
	assert.LessOrEqual(t, len(got), 5)
}

func TestExtractKeyPhrases(t *testing.T) {
	title := "Miners Rescued After Collapse"
	content := "The miners were rescued after rescue crews worked overnight. Crews celebrated the rescue with families of the miners."

	got := extractKeyPhrases(title, content)
	assert.NotEmpty(t, got)
	// Title words carry 3x weight: "miners" = 3+2, "rescued" = 3+1,
	// "rescue" appears twice in content plus never in title.
	assert.Equal(t, "miners", got[0])
	assert.NotContains(t, got, "the")
	assert.NotContains(t, got, "with")
	assert.LessOrEqual(t, len(got), 10)
}

func TestExtractKeyPhrases_Deterministic(t *testing.T) {
	title := "Budget Debate Continues"
	content := "Council members debated the budget. Debate over spending continued late into the evening."
	first := extractKeyPhrases(title, content)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, extractKeyPhrases(title, content))
	}
}

func TestExtract_Bundle(t *testing.T) {
	c := model.Candidate{
		Title: "Vale Ltd Confirms Miners Rescued at Totten Mine",
		Content: "Vale Ltd confirmed on Tuesday that all 39 miners trapped underground at Totten Mine " +
			"near Sudbury were rescued. Rescue crews worked through the night, spokesperson Daniele Rocha said. " +
			"The operation cost an estimated $2 million.",
	}
	got := Extract(c)
	assert.Contains(t, got.Organizations, "Vale Ltd")
	assert.Contains(t, got.Locations, "Sudbury")
	assert.Contains(t, got.Dates, "Tuesday")
	assert.Contains(t, got.MoneyAmounts, "2 million")
	assert.Contains(t, got.People, "Daniele Rocha")
	assert.NotEmpty(t, got.KeyPhrases)
}
