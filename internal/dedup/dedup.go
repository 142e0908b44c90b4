// Package dedup implements the three duplicate-resolution passes:
// cross-source on raw candidates before analysis, cross-category on
// classified articles, and intra-category on each category's final
// list. Every pass is idempotent; ordering only matters for the
// first-seen-wins tie-break, which follows input insertion order so
// results are reproducible.
package dedup

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lakeshore-media/newsdesk/internal/config"
	"github.com/lakeshore-media/newsdesk/internal/model"
	"github.com/lakeshore-media/newsdesk/internal/textnorm"
)

// DefaultConfig returns a DedupConfig with the calibrated defaults.
func DefaultConfig() config.DedupConfig {
	return config.DedupConfig{
		SubstringMinTitleLen: 20,
		StoryMinOverlap:      3,
		StoryOverlapShare:    0.6,
	}
}

// Deduper runs the duplicate-resolution passes.
type Deduper struct {
	cfg config.DedupConfig
}

// New creates a Deduper.
func New(cfg config.DedupConfig) *Deduper {
	return &Deduper{cfg: cfg}
}

// CrossSource strips duplicates from a raw candidate batch: exact URL
// matches, identical normalized titles, and substring containment
// between longer normalized titles. The first-seen record is kept.
func (d *Deduper) CrossSource(candidates []model.Candidate) []model.Candidate {
	seenURLs := make(map[string]struct{}, len(candidates))
	var seenTitles []string
	unique := make([]model.Candidate, 0, len(candidates))

	for _, c := range candidates {
		url := c.SourceURL
		if url != "" {
			if _, dup := seenURLs[url]; dup {
				continue
			}
		}

		normTitle := textnorm.NormalizeTitle(c.Title)
		if d.titleSeen(normTitle, seenTitles) {
			continue
		}

		unique = append(unique, c)
		if url != "" {
			seenURLs[url] = struct{}{}
		}
		seenTitles = append(seenTitles, normTitle)
	}

	if removed := len(candidates) - len(unique); removed > 0 {
		zap.L().Debug("dedup: cross-source pass removed duplicates",
			zap.Int("removed", removed),
			zap.Int("kept", len(unique)),
		)
	}
	return unique
}

// titleSeen reports whether normTitle duplicates any already-seen title:
// exact match, or substring containment either way for titles longer
// than the configured minimum.
func (d *Deduper) titleSeen(normTitle string, seen []string) bool {
	for _, prev := range seen {
		if normTitle == prev {
			return true
		}
		if len(normTitle) > d.cfg.SubstringMinTitleLen &&
			(contains(normTitle, prev) || contains(prev, normTitle)) {
			return true
		}
	}
	return false
}

func contains(s, sub string) bool {
	return sub != "" && strings.Contains(s, sub)
}

// CrossCategory resolves the same article landing in multiple categories
// via different extraction paths. Articles are grouped by source URL
// (preferred) or normalized title; only the highest-confidence record in
// each group survives, with first-seen winning ties. Records with
// neither URL nor title cannot be grouped and are dropped.
func (d *Deduper) CrossCategory(articles []model.Article) []model.Article {
	type group struct {
		best  model.Article
		order int
	}
	groups := make(map[string]*group, len(articles))
	var keyOrder []string

	for _, a := range articles {
		key := a.SourceURL
		if key == "" {
			key = textnorm.NormalizeTitle(a.Title)
		}
		if key == "" {
			continue
		}

		g, ok := groups[key]
		if !ok {
			groups[key] = &group{best: a, order: len(keyOrder)}
			keyOrder = append(keyOrder, key)
			continue
		}
		if a.Classification.Confidence > g.best.Classification.Confidence {
			g.best = a
		}
	}

	unique := make([]model.Article, 0, len(keyOrder))
	for _, key := range keyOrder {
		unique = append(unique, groups[key].best)
	}

	if removed := len(articles) - len(unique); removed > 0 {
		zap.L().Debug("dedup: cross-category pass removed duplicates",
			zap.Int("removed", removed),
		)
	}
	return unique
}

// IntraCategory strips duplicates within one category's article list:
// exact URL and title matching as in CrossSource, plus same-event
// detection through story keyword overlap. First-seen wins.
func (d *Deduper) IntraCategory(articles []model.Article) []model.Article {
	if len(articles) <= 1 {
		return articles
	}

	type story struct {
		normTitle string
		keywords  map[string]struct{}
	}

	seenURLs := make(map[string]struct{}, len(articles))
	var seenStories []story
	unique := make([]model.Article, 0, len(articles))

	for _, a := range articles {
		if a.SourceURL != "" {
			if _, dup := seenURLs[a.SourceURL]; dup {
				continue
			}
		}

		normTitle := textnorm.NormalizeTitle(a.Title)
		keywords := StoryKeywords(a.Title, a.Content)

		dup := false
		for _, s := range seenStories {
			if normTitle == s.normTitle ||
				(len(normTitle) > d.cfg.SubstringMinTitleLen &&
					(contains(normTitle, s.normTitle) || contains(s.normTitle, normTitle))) {
				dup = true
				break
			}
			if SameEvent(keywords, s.keywords, d.cfg.StoryMinOverlap, d.cfg.StoryOverlapShare) {
				dup = true
				zap.L().Debug("dedup: same-event duplicate detected",
					zap.String("title", a.Title),
				)
				break
			}
		}
		if dup {
			continue
		}

		unique = append(unique, a)
		if a.SourceURL != "" {
			seenURLs[a.SourceURL] = struct{}{}
		}
		seenStories = append(seenStories, story{normTitle: normTitle, keywords: keywords})
	}

	return unique
}
