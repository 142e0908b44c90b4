package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeshore-media/newsdesk/internal/config"
	"github.com/lakeshore-media/newsdesk/internal/model"
)

func configWithDriver(driver string) config.StoreConfig {
	return config.StoreConfig{Driver: driver}
}

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "newsdesk_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleRunResult() *model.RunResult {
	return &model.RunResult{
		Categories: map[model.Category][]model.Article{
			model.CategoryPublicSafety: {
				{
					Candidate: model.Candidate{
						Title:     "Fire crews contain warehouse blaze",
						Source:    "daily-times",
						SourceURL: "https://example.com/blaze",
					},
					Quality:        model.QualityAnalysis{Score: 88, IsQuality: true},
					Classification: model.Classification{Primary: model.CategoryPublicSafety, Confidence: 72.5, Method: model.MethodKeyword},
				},
				{
					Candidate: model.Candidate{
						Title:  "Police report drop in downtown thefts",
						Source: "daily-times",
					},
					Quality:        model.QualityAnalysis{Score: 70, IsQuality: true},
					Classification: model.Classification{Primary: model.CategoryPublicSafety, Confidence: 60, Method: model.MethodKeyword},
				},
			},
			model.CategoryHealth: {
				{
					Candidate: model.Candidate{
						Title:  "Clinic adds weekend hours",
						Source: "northern-post",
					},
					Quality:        model.QualityAnalysis{Score: 65, IsQuality: true},
					Classification: model.Classification{Primary: model.CategoryHealth, Confidence: 55, Method: model.MethodSemantic},
				},
			},
		},
		Stats: model.RunStats{Input: 5, QualityRejected: 2, Final: 3},
	}
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "batch-2026-08-12")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "batch-2026-08-12", got.Label)
	assert.Nil(t, got.Result)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "batch")
	require.NoError(t, err)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusRunning, got.Status)

	err = s.UpdateRunStatus(ctx, "no-such-run", model.RunStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_SaveRunResult_RoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "batch")
	require.NoError(t, err)

	result := sampleRunResult()
	require.NoError(t, s.SaveRunResult(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, result.Stats, got.Result.Stats)
	assert.Len(t, got.Result.Categories[model.CategoryPublicSafety], 2)

	articles, err := s.ListArticles(ctx, run.ID, "")
	require.NoError(t, err)
	require.Len(t, articles, 3)

	safety, err := s.ListArticles(ctx, run.ID, model.CategoryPublicSafety)
	require.NoError(t, err)
	require.Len(t, safety, 2)
	assert.Equal(t, "Fire crews contain warehouse blaze", safety[0].Title)
	assert.Equal(t, 88, safety[0].Quality.Score)
	assert.Equal(t, model.CategoryPublicSafety, safety[0].Classification.Primary)
}

func TestSQLite_SaveRunResult_Replaces(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "batch")
	require.NoError(t, err)

	require.NoError(t, s.SaveRunResult(ctx, run.ID, sampleRunResult()))
	require.NoError(t, s.SaveRunResult(ctx, run.ID, sampleRunResult()))

	articles, err := s.ListArticles(ctx, run.ID, "")
	require.NoError(t, err)
	assert.Len(t, articles, 3, "re-saving a run does not duplicate its articles")
}

func TestSQLite_SaveRunResult_UnknownRun(t *testing.T) {
	s := newTestSQLite(t)

	err := s.SaveRunResult(context.Background(), "no-such-run", sampleRunResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.CreateRun(ctx, "first")
	require.NoError(t, err)
	b, err := s.CreateRun(ctx, "second")
	require.NoError(t, err)
	require.NoError(t, s.UpdateRunStatus(ctx, b.ID, model.RunStatusFailed))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, b.ID, failed[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_ListSources(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "batch")
	require.NoError(t, err)
	require.NoError(t, s.SaveRunResult(ctx, run.ID, sampleRunResult()))

	stats, err := s.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "daily-times", stats[0].Source)
	assert.Equal(t, 2, stats[0].Articles)
	assert.Equal(t, "northern-post", stats[1].Source)
	assert.Equal(t, 1, stats[1].Articles)

	// Tallies accumulate across runs.
	second, err := s.CreateRun(ctx, "batch-2")
	require.NoError(t, err)
	require.NoError(t, s.SaveRunResult(ctx, second.ID, sampleRunResult()))

	stats, err = s.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats[0].Articles)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), configWithDriver("oracle"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpen_SQLiteDefault(t *testing.T) {
	cfg := configWithDriver("")
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "open_test.db")

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)
}
