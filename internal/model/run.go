package model

import "time"

// RunStatus tracks an analysis run through its lifecycle.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunStats summarizes what happened to the input batch at each stage.
type RunStats struct {
	Input           int `json:"input"`
	CrossSourceDups int `json:"cross_source_duplicates"`
	Stale           int `json:"stale"`
	QualityRejected int `json:"quality_rejected"`
	Fallbacks       int `json:"fallbacks"`
	Analyzed        int `json:"analyzed"`
	Final           int `json:"final"`
}

// RunResult is the outcome of one analysis run: articles grouped by
// primary category, each list deduplicated and sorted by quality score.
type RunResult struct {
	Categories map[Category][]Article `json:"categories"`
	Stats      RunStats               `json:"stats"`
}

// SourceStat is a per-source publication tally across runs.
type SourceStat struct {
	Source     string    `json:"source"`
	Articles   int       `json:"articles"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Run is a persisted analysis run.
type Run struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
