package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeshore-media/newsdesk/internal/analyzer"
	"github.com/lakeshore-media/newsdesk/internal/classifier"
	"github.com/lakeshore-media/newsdesk/internal/config"
	"github.com/lakeshore-media/newsdesk/internal/dedup"
	"github.com/lakeshore-media/newsdesk/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Analyzer:   analyzer.DefaultConfig(),
		Classifier: classifier.DefaultConfig(),
		Dedup:      dedup.DefaultConfig(),
		Pipeline:   config.PipelineConfig{Concurrency: 4},
	}
}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := testConfig()
	cls, err := classifier.New(cfg.Classifier)
	require.NoError(t, err)
	return New(cfg, cls)
}

func councilArticle() model.Candidate {
	return model.Candidate{
		Title: "City Council Approves New Budget for Community Programs",
		Content: "The city council voted on Monday to approve a new budget that increases " +
			"funding for community programs across the region. Mayor Johnson announced the " +
			"decision after a lengthy public meeting attended by dozens of residents.\n\n" +
			"According to officials, the budget allocates an additional two million dollars " +
			"to recreation centers and public libraries. Spokesperson Anna Reid confirmed " +
			"that spending will increase by eight percent over last year. The report also " +
			"includes findings from a resident survey conducted in the spring.",
		Source:    "example-news",
		SourceURL: "https://example.com/council-budget",
	}
}

func TestRun_QualityArticleClassified(t *testing.T) {
	p := testPipeline(t)

	result, err := p.Run(context.Background(), []model.Candidate{councilArticle()})
	require.NoError(t, err)

	require.Len(t, result.Categories, 1)
	list, ok := result.Categories[model.CategoryLocalGovernment]
	require.True(t, ok, "council story lands in local_government, got %v", result.Categories)
	require.Len(t, list, 1)

	a := list[0]
	assert.True(t, a.Quality.IsQuality)
	assert.Equal(t, model.MethodKeyword, a.Classification.Method)
	assert.False(t, a.Fallback)
	assert.False(t, a.AnalyzedAt.IsZero())
	assert.Equal(t, 1, result.Stats.Final)
}

func TestRun_JunkRejected(t *testing.T) {
	p := testPipeline(t)

	result, err := p.Run(context.Background(), []model.Candidate{
		{
			Title: "Click here for more info! Subscribe now to read",
			Content: "Subscribe to our newsletter. Follow us on every platform. " +
				"Click here for more info and accept our cookie policy today.",
			SourceURL: "https://example.com/junk",
		},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Categories)
	assert.Equal(t, 1, result.Stats.QualityRejected)
}

func TestRun_ShortRecordsGated(t *testing.T) {
	p := testPipeline(t)

	result, err := p.Run(context.Background(), []model.Candidate{
		{Title: "Tiny", Content: "Too short either way.", SourceURL: "https://example.com/tiny"},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Categories)
	assert.Equal(t, 1, result.Stats.QualityRejected)
}

func TestRun_CrossSourceDuplicatesCollapse(t *testing.T) {
	p := testPipeline(t)

	a := councilArticle()
	b := councilArticle()
	b.Title = "A different headline for the same link"

	result, err := p.Run(context.Background(), []model.Candidate{a, b})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.CrossSourceDups)
	require.Len(t, result.Categories[model.CategoryLocalGovernment], 1)
	assert.Equal(t, a.Title, result.Categories[model.CategoryLocalGovernment][0].Title,
		"first-seen record is the one retained")
}

func TestRun_StaleRecordsFiltered(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.MaxArticleDays = 7
	cls, err := classifier.New(cfg.Classifier)
	require.NoError(t, err)
	p := New(cfg, cls)

	stale := councilArticle()
	stale.PublicationDate = time.Now().AddDate(0, 0, -30).Format("2006-01-02")

	fresh := councilArticle()
	fresh.SourceURL = "https://example.com/fresh"
	fresh.Title = "Arena Construction Begins Downtown This Week"
	fresh.PublicationDate = time.Now().Format("2006-01-02")

	undated := councilArticle()
	undated.SourceURL = "https://example.com/undated"
	undated.Title = "Library Board Announces Expanded Weekend Hours"
	undated.PublicationDate = "sometime last week"

	result, err := p.Run(context.Background(), []model.Candidate{stale, fresh, undated})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Stale)
	assert.Equal(t, 2, result.Stats.Final, "unparseable dates are treated as fresh")
}

func TestRun_Deterministic(t *testing.T) {
	p := testPipeline(t)

	input := []model.Candidate{councilArticle()}
	for i := 0; i < 3; i++ {
		extra := councilArticle()
		extra.SourceURL = ""
		extra.Title = "Hospital Expands Emergency Department After Provincial Funding"
		extra.Content = "The regional hospital announced on Tuesday that its emergency department " +
			"will expand following new provincial health funding. Doctors and nurses said the " +
			"clinic upgrades address long patient wait times.\n\nOfficials reported that the " +
			"health unit will hire additional staff. According to the announcement, treatment " +
			"capacity should grow by a third over the coming year."
		input = append(input, extra)
	}

	first, err := p.Run(context.Background(), input)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, runErr := p.Run(context.Background(), input)
		require.NoError(t, runErr)
		assert.Equal(t, first.Stats, again.Stats)
		require.Equal(t, len(first.Categories), len(again.Categories))
		for cat, list := range first.Categories {
			other := again.Categories[cat]
			require.Len(t, other, len(list))
			for j := range list {
				assert.Equal(t, list[j].Title, other[j].Title)
				assert.Equal(t, list[j].Quality.Score, other[j].Quality.Score)
				assert.Equal(t, list[j].Classification, other[j].Classification)
			}
		}
	}
}

func TestRun_SortedByQualityScore(t *testing.T) {
	p := testPipeline(t)

	strong := councilArticle()

	weak := model.Candidate{
		Title:     "Committee Reviews Zoning Bylaw Amendments",
		SourceURL: "https://example.com/zoning",
		Content: "The planning committee reviewed proposed zoning bylaw amendments on Monday. " +
			"Council members said the city policy changes would be announced after further " +
			"public consultation with residents and the mayor's office this spring season.",
	}

	result, err := p.Run(context.Background(), []model.Candidate{weak, strong})
	require.NoError(t, err)

	list := result.Categories[model.CategoryLocalGovernment]
	require.Len(t, list, 2)
	assert.GreaterOrEqual(t, list[0].Quality.Score, list[1].Quality.Score)
}

func TestRun_ContextCanceled(t *testing.T) {
	p := testPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, []model.Candidate{councilArticle()})
	assert.Error(t, err)
}

func TestAnalyzeOne_PanicDegradesToBasicCheck(t *testing.T) {
	cfg := testConfig()
	// A nil classifier faults on first use; the record must still come
	// through via the basic heuristic.
	p := &Pipeline{
		cfg:      cfg,
		analyzer: analyzer.New(cfg.Analyzer),
		deduper:  dedup.New(cfg.Dedup),
	}

	got := p.analyzeOne(context.Background(), councilArticle())
	require.NotNil(t, got)
	assert.True(t, got.Fallback)
	assert.True(t, got.Quality.IsQuality)
	assert.Equal(t, model.CategoryGeneral, got.Classification.Primary)
}

func TestFallbackArticle_RejectsJunk(t *testing.T) {
	p := testPipeline(t)

	got := p.fallbackArticle(model.Candidate{Title: "Menu", Content: "Home About Contact"})
	assert.Nil(t, got)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2026-08-12", true},
		{"2026-08-12T10:30:00Z", true},
		{"January 2, 2026", true},
		{"Jan 2, 2026", true},
		{"yesterday afternoon", false},
		{"", false},
	}
	for _, tt := range tests {
		_, ok := parseDate(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
	}
}
