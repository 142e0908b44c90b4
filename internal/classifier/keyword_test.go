package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeshore-media/newsdesk/internal/model"
)

func newKeywordOnly(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(DefaultConfig())
	require.NoError(t, err)
	return c
}

func TestClassify_LocalGovernment(t *testing.T) {
	c := newKeywordOnly(t)

	result := c.Classify(context.Background(), model.Candidate{
		Title: "City Council Approves New Budget for Community Programs",
		Content: "The city council voted on Monday to approve the new municipal budget. " +
			"Mayor Johnson said officials worked for months on the spending plan, and the " +
			"committee recommended approval after reviewing infrastructure needs across " +
			"the city. Several residents spoke at the meeting before the vote.",
	})

	assert.Equal(t, model.CategoryLocalGovernment, result.Primary)
	assert.Equal(t, model.MethodKeyword, result.Method)
	assert.Greater(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 95.0)
}

func TestClassify_NoSignal(t *testing.T) {
	c := newKeywordOnly(t)

	result := c.Classify(context.Background(), model.Candidate{
		Title:   "Quiet Notes From Nowhere In Particular",
		Content: "Nothing notable happened. Things stayed calm. People went about quietly.",
	})

	assert.Equal(t, model.CategoryGeneral, result.Primary)
	assert.Zero(t, result.Confidence)
	assert.Empty(t, result.Secondary)
	for cat, score := range result.Scores {
		assert.Zero(t, score, "category %s", cat)
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	c := newKeywordOnly(t)

	for _, candidate := range []model.Candidate{
		{},
		{Title: "Only a headline"},
		{Content: "Only a body."},
	} {
		result := c.Classify(context.Background(), candidate)
		assert.Equal(t, model.CategoryGeneral, result.Primary)
		assert.Zero(t, result.Confidence)
	}
}

func TestClassify_ConfidenceCapped(t *testing.T) {
	c := newKeywordOnly(t)

	// Saturate one category so its raw share would exceed the cap.
	result := c.Classify(context.Background(), model.Candidate{
		Title: "Police Fire Emergency Crime Accident Intruder",
		Content: "Police investigated the crime after an emergency call about an intruder. " +
			"The arrest followed a robbery and assault investigation. Fire crews and an " +
			"ambulance responded. Court and legal action is expected over the theft and burglary.",
	})

	assert.Equal(t, model.CategoryPublicSafety, result.Primary)
	assert.LessOrEqual(t, result.Confidence, 95.0)
	for _, score := range result.Scores {
		assert.GreaterOrEqual(t, score, 0.0)
	}
}

func TestClassify_TieBreakAlphabetical(t *testing.T) {
	c := newKeywordOnly(t)

	// Exactly one weight-1.0 primary keyword for education ("graduation")
	// and one for sports ("baseball"); equal scores resolve to the
	// alphabetically first category.
	result := c.Classify(context.Background(), model.Candidate{
		Title:   "Two Quick Notes From Friday",
		Content: "Graduation was held downstate. Later word also arrived that baseball would resume.",
	})

	require.Equal(t, result.Scores[model.CategoryEducation], result.Scores[model.CategorySports],
		"test premise: scores must tie")
	assert.Equal(t, model.CategoryEducation, result.Primary)
	assert.Contains(t, result.Secondary, model.CategorySports)
}

func TestClassify_SecondaryCategories(t *testing.T) {
	c := newKeywordOnly(t)

	// Heavy public safety signal with a meaningful health presence.
	result := c.Classify(context.Background(), model.Candidate{
		Title: "Police Investigate Fire at Downtown Clinic",
		Content: "Police and fire crews responded to the emergency at the medical clinic. " +
			"Two patients were taken to hospital for treatment while the investigation continued.",
	})

	assert.Equal(t, model.CategoryPublicSafety, result.Primary)
	assert.LessOrEqual(t, len(result.Secondary), 2)
	assert.Contains(t, result.Secondary, model.CategoryHealth)
}

func TestClassify_Deterministic(t *testing.T) {
	c := newKeywordOnly(t)
	candidate := model.Candidate{
		Title:   "Storm Brings Heavy Snow to Region",
		Content: "The storm dropped thirty centimetres of snow. Weather warnings remain in effect for the region.",
	}
	first := c.Classify(context.Background(), candidate)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(context.Background(), candidate))
	}
	assert.Equal(t, model.CategoryEnvironmentWeather, first.Primary)
}

func TestProximityBonus(t *testing.T) {
	// Adjacent keywords earn close to the 2-point pair maximum;
	// scattered keywords earn nothing.
	clustered := proximityBonus("the council budget meeting", []string{"council", "budget", "meeting"})
	assert.Greater(t, clustered, 2.0)

	scattered := proximityBonus(
		"council alpha beta gamma delta epsilon zeta eta theta iota kappa lambda budget",
		[]string{"council", "budget"})
	assert.Zero(t, scattered)
}
