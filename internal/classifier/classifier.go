// Package classifier assigns topical categories to news candidates. Two
// strategies exist: an optional injected zero-shot classifier consulted
// first, and the weighted keyword model of record that every result can
// fall back to. Failure of the zero-shot path for one record never
// surfaces to the caller; the record is classified by keywords instead.
package classifier

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lakeshore-media/newsdesk/internal/config"
	"github.com/lakeshore-media/newsdesk/internal/model"
	"github.com/lakeshore-media/newsdesk/internal/textnorm"
)

// LabelScore is one ranked label from a zero-shot classification call.
type LabelScore struct {
	Label string
	Score float64
}

// ZeroShot is the injected semantic classification capability. The
// engine does not implement it; implementations rank the given labels
// against the text with scores in [0,1].
type ZeroShot interface {
	ClassifyZeroShot(ctx context.Context, text string, labels []string) ([]LabelScore, error)
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithZeroShot injects a zero-shot classifier factory. The factory runs
// at most once per Classifier, on first use, guarded for concurrent
// callers. A factory error disables the semantic strategy permanently
// for this process; classification continues on keywords.
func WithZeroShot(provider func() (ZeroShot, error)) Option {
	return func(c *Classifier) { c.provider = provider }
}

// DefaultConfig returns a ClassifierConfig with the calibrated defaults.
func DefaultConfig() config.ClassifierConfig {
	return config.ClassifierConfig{
		SemanticMinScore:     0.20,
		SemanticSecondary:    0.15,
		SemanticMaxWords:     400,
		SecondaryShare:       0.3,
		KeywordConfidenceCap: 95,
	}
}

// Classifier assigns categories. Construct with New; safe for concurrent
// use once constructed.
type Classifier struct {
	cfg      config.ClassifierConfig
	profiles map[model.Category]Profile
	// order holds the profile categories alphabetically; it is the
	// documented tie-break order for equal maximal keyword scores.
	order []model.Category

	labels    []string
	labelCats map[string]model.Category

	provider func() (ZeroShot, error)
	initOnce sync.Once
	zeroShot ZeroShot
}

// New creates a Classifier over the category model. The categories file
// named by cfg.CategoriesFile, when set, overrides built-in profiles.
func New(cfg config.ClassifierConfig, opts ...Option) (*Classifier, error) {
	profiles, err := LoadProfiles(cfg.CategoriesFile)
	if err != nil {
		return nil, err
	}

	order := make([]model.Category, 0, len(profiles))
	for cat := range profiles {
		order = append(order, cat)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	c := &Classifier{
		cfg:       cfg,
		profiles:  profiles,
		order:     order,
		labelCats: make(map[string]model.Category, len(profiles)),
	}
	for _, cat := range order {
		if desc := profiles[cat].Description; desc != "" {
			c.labels = append(c.labels, desc)
			c.labelCats[desc] = cat
		}
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Classify assigns a primary category (and up to two secondaries) to the
// candidate. The zero-shot strategy is consulted first when injected;
// any error, panic, or low-confidence result falls through to keywords.
func (c *Classifier) Classify(ctx context.Context, candidate model.Candidate) model.Classification {
	title := strings.TrimSpace(candidate.Title)
	content := strings.TrimSpace(candidate.Content)

	if title == "" || content == "" {
		return model.Classification{
			Primary: model.CategoryGeneral,
			Method:  model.MethodKeyword,
		}
	}

	if c.provider != nil {
		if result, ok := c.classifySemantic(ctx, title, content); ok {
			return result
		}
	}

	return c.classifyKeyword(title, content)
}

// classifySemantic runs the injected zero-shot strategy. ok is false
// whenever the result should not be used: uninitialized or failed
// classifier, call error, panic, or top score under the accept threshold.
func (c *Classifier) classifySemantic(ctx context.Context, title, content string) (result model.Classification, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("classifier: zero-shot panicked, falling back to keywords",
				zap.Any("panic", r),
			)
			ok = false
		}
	}()

	c.initOnce.Do(func() {
		zs, err := c.provider()
		if err != nil {
			zap.L().Warn("classifier: zero-shot unavailable, keyword strategy only",
				zap.Error(err),
			)
			return
		}
		c.zeroShot = zs
	})
	if c.zeroShot == nil {
		return model.Classification{}, false
	}

	// Title appears twice for emphasis; truncate to respect the
	// underlying model's context limit.
	words := textnorm.Words(title + " " + title + " " + content)
	if len(words) > c.cfg.SemanticMaxWords {
		words = words[:c.cfg.SemanticMaxWords]
	}
	text := strings.Join(words, " ")

	ranked, err := c.zeroShot.ClassifyZeroShot(ctx, text, c.labels)
	if err != nil {
		zap.L().Debug("classifier: zero-shot call failed, falling back to keywords",
			zap.Error(err),
		)
		return model.Classification{}, false
	}
	if len(ranked) == 0 {
		return model.Classification{}, false
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	top := ranked[0]
	primary, known := c.labelCats[top.Label]
	if !known || top.Score < c.cfg.SemanticMinScore {
		zap.L().Debug("classifier: zero-shot confidence too low, falling back to keywords",
			zap.Float64("score", top.Score),
		)
		return model.Classification{}, false
	}

	var secondary []model.Category
	for i := 1; i < len(ranked) && len(secondary) < 2; i++ {
		if ranked[i].Score <= c.cfg.SemanticSecondary {
			break
		}
		if cat, mapped := c.labelCats[ranked[i].Label]; mapped {
			secondary = append(secondary, cat)
		}
	}

	scores := make(map[model.Category]float64, len(ranked))
	for _, ls := range ranked {
		if cat, mapped := c.labelCats[ls.Label]; mapped {
			scores[cat] = math.Round(ls.Score*1000) / 10
		}
	}

	return model.Classification{
		Primary:    primary,
		Confidence: math.Round(top.Score*1000) / 10,
		Secondary:  secondary,
		Method:     model.MethodSemantic,
		Scores:     scores,
	}, true
}

// Categories returns the scored categories in tie-break order.
func (c *Classifier) Categories() []model.Category {
	out := make([]model.Category, len(c.order))
	copy(out, c.order)
	return out
}
