// Package store persists analysis runs and their articles behind a
// driver-agnostic interface. SQLite is the default backend for single
// node use; Postgres serves shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lakeshore-media/newsdesk/internal/config"
	"github.com/lakeshore-media/newsdesk/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis runs.
type Store interface {
	CreateRun(ctx context.Context, label string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	SaveRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// ListArticles returns the persisted articles of a run, optionally
	// restricted to one category, in quality order.
	ListArticles(ctx context.Context, runID string, category model.Category) ([]model.Article, error)

	// ListSources returns per-source publication tallies across runs.
	ListSources(ctx context.Context) ([]model.SourceStat, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the Store named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
