// Package pipeline orchestrates the full analysis run: cross-source
// dedup, quality gating, classification, entity extraction, and the
// cross-category and intra-category dedup passes. Records are analyzed
// concurrently but results preserve input order, so a run over the same
// input is always reproducible.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lakeshore-media/newsdesk/internal/analyzer"
	"github.com/lakeshore-media/newsdesk/internal/classifier"
	"github.com/lakeshore-media/newsdesk/internal/config"
	"github.com/lakeshore-media/newsdesk/internal/dedup"
	"github.com/lakeshore-media/newsdesk/internal/entity"
	"github.com/lakeshore-media/newsdesk/internal/model"
)

// Pipeline wires the analysis stages together.
type Pipeline struct {
	cfg        *config.Config
	analyzer   *analyzer.Analyzer
	classifier *classifier.Classifier
	deduper    *dedup.Deduper
}

// New creates a Pipeline. The classifier is injected because its
// construction (category profiles, optional zero-shot provider) is the
// caller's concern.
func New(cfg *config.Config, cls *classifier.Classifier) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		analyzer:   analyzer.New(cfg.Analyzer),
		classifier: cls,
		deduper:    dedup.New(cfg.Dedup),
	}
}

// Run processes a candidate batch end to end.
func (p *Pipeline) Run(ctx context.Context, candidates []model.Candidate) (*model.RunResult, error) {
	log := zap.L()
	stats := model.RunStats{Input: len(candidates)}

	unique := p.deduper.CrossSource(candidates)
	stats.CrossSourceDups = len(candidates) - len(unique)

	if p.cfg.Pipeline.MaxArticleDays > 0 {
		fresh := make([]model.Candidate, 0, len(unique))
		cutoff := time.Now().AddDate(0, 0, -p.cfg.Pipeline.MaxArticleDays)
		for _, c := range unique {
			if t, ok := parseDate(c.PublicationDate); ok && t.Before(cutoff) {
				stats.Stale++
				continue
			}
			fresh = append(fresh, c)
		}
		unique = fresh
	}

	// Analyze concurrently, writing by index so output order matches
	// input order regardless of scheduling.
	articles := make([]*model.Article, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency())

	for i, c := range unique {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			articles[i] = p.analyzeOne(gctx, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: analyze batch")
	}

	kept := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if a == nil {
			stats.QualityRejected++
			continue
		}
		if a.Fallback {
			stats.Fallbacks++
		}
		kept = append(kept, *a)
	}
	stats.Analyzed = len(kept)

	kept = p.deduper.CrossCategory(kept)

	categories := make(map[model.Category][]model.Article)
	var catOrder []model.Category
	for _, a := range kept {
		if _, ok := categories[a.Classification.Primary]; !ok {
			catOrder = append(catOrder, a.Classification.Primary)
		}
		categories[a.Classification.Primary] = append(categories[a.Classification.Primary], a)
	}

	for _, cat := range catOrder {
		list := p.deduper.IntraCategory(categories[cat])
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Quality.Score > list[j].Quality.Score
		})
		categories[cat] = list
		stats.Final += len(list)
	}

	log.Info("pipeline: run complete",
		zap.Int("input", stats.Input),
		zap.Int("cross_source_duplicates", stats.CrossSourceDups),
		zap.Int("stale", stats.Stale),
		zap.Int("quality_rejected", stats.QualityRejected),
		zap.Int("fallbacks", stats.Fallbacks),
		zap.Int("final", stats.Final),
		zap.Int("categories", len(categories)),
	)

	return &model.RunResult{Categories: categories, Stats: stats}, nil
}

// analyzeOne runs the full analysis for a single candidate. A nil
// return means the record was rejected. A panic anywhere in the
// analysis chain is contained to this record: the basic heuristic
// decides pass or fail and a degraded article is emitted on pass.
func (p *Pipeline) analyzeOne(ctx context.Context, c model.Candidate) (out *model.Article) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("pipeline: analysis panic, degrading to basic check",
				zap.String("title", c.Title),
				zap.Any("panic", r),
			)
			out = p.fallbackArticle(c)
		}
	}()

	if len(c.Title) < p.cfg.Analyzer.MinTitleChars || len(c.Content) < p.cfg.Analyzer.MinContentChars {
		return nil
	}

	quality := p.analyzer.Analyze(c)
	if !quality.IsQuality {
		zap.L().Debug("pipeline: quality rejected",
			zap.String("title", c.Title),
			zap.Int("score", quality.Score),
			zap.Strings("reasons", quality.Reasons),
		)
		return nil
	}

	return &model.Article{
		Candidate:      c,
		Quality:        quality,
		Classification: p.classifier.Classify(ctx, c),
		Entities:       entity.Extract(c),
		AnalyzedAt:     time.Now().UTC(),
	}
}

// fallbackArticle applies the basic pass/fail heuristic after the full
// analyzer faulted. Records that pass keep flowing with a threshold
// score and the general category so one bad record cannot sink a batch.
func (p *Pipeline) fallbackArticle(c model.Candidate) *model.Article {
	if !p.analyzer.BasicCheck(c) {
		return nil
	}
	return &model.Article{
		Candidate: c,
		Quality: model.QualityAnalysis{
			Score:     p.cfg.Analyzer.QualityThreshold,
			IsQuality: true,
			Reasons:   []string{"Basic quality check only"},
		},
		Classification: model.Classification{
			Primary: model.CategoryGeneral,
			Method:  model.MethodKeyword,
		},
		AnalyzedAt: time.Now().UTC(),
		Fallback:   true,
	}
}

func (p *Pipeline) concurrency() int {
	if n := p.cfg.Pipeline.Concurrency; n > 0 {
		return n
	}
	return 1
}

// dateLayouts covers the formats scrapers actually emit. Publication
// dates are free-form; anything unparseable is treated as fresh rather
// than silently dropped.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02/01/2006",
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
