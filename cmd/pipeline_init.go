package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lakeshore-media/newsdesk/internal/classifier"
	"github.com/lakeshore-media/newsdesk/internal/ingest"
	"github.com/lakeshore-media/newsdesk/internal/model"
	"github.com/lakeshore-media/newsdesk/internal/store"
	"github.com/lakeshore-media/newsdesk/pkg/zeroshot"
)

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// newClassifier builds the classifier, injecting the Claude zero-shot
// strategy when it is enabled and a key is configured. The provider runs
// lazily on first classification, so a bad key surfaces as a logged
// keyword fallback rather than a startup failure.
func newClassifier() (*classifier.Classifier, error) {
	var opts []classifier.Option
	if cfg.Classifier.SemanticEnabled && cfg.Anthropic.Key != "" {
		opts = append(opts, classifier.WithZeroShot(func() (classifier.ZeroShot, error) {
			zs, err := zeroshot.New(zeroshot.Config{
				APIKey:     cfg.Anthropic.Key,
				Model:      cfg.Anthropic.Model,
				RatePerSec: cfg.Anthropic.RatePerSec,
			})
			if err != nil {
				return nil, err
			}
			return zeroShotAdapter{zs}, nil
		}))
	}
	return classifier.New(cfg.Classifier, opts...)
}

// zeroShotAdapter bridges pkg/zeroshot, which knows nothing about the
// classifier package, to the injected ZeroShot capability.
type zeroShotAdapter struct {
	inner *zeroshot.Classifier
}

func (a zeroShotAdapter) ClassifyZeroShot(ctx context.Context, text string, labels []string) ([]classifier.LabelScore, error) {
	ranked, err := a.inner.ClassifyZeroShot(ctx, text, labels)
	if err != nil {
		return nil, err
	}
	out := make([]classifier.LabelScore, len(ranked))
	for i, r := range ranked {
		out[i] = classifier.LabelScore{Label: r.Label, Score: r.Score}
	}
	return out, nil
}

// loadCandidates dispatches on the input extension.
func loadCandidates(path, sheetName string, sheetIndex int) ([]model.Candidate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ingest.LoadJSON(path)
	case ".xlsx":
		return ingest.LoadXLSX(path, ingest.XLSXOptions{SheetName: sheetName, SheetIndex: sheetIndex})
	default:
		return nil, eris.Errorf("unsupported input format: %s (want .json or .xlsx)", path)
	}
}
