package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the configuration for the given run mode. Modes:
// "analyze" requires only analysis settings, "serve" additionally
// requires a usable port, "store" requires a database URL.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "analyze":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "store":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Analyzer.QualityThreshold < 0 || c.Analyzer.QualityThreshold > 100 {
		errs = append(errs, "analyzer.quality_threshold must be between 0 and 100")
	}
	if c.Classifier.SemanticMinScore < 0 || c.Classifier.SemanticMinScore > 1 {
		errs = append(errs, "classifier.semantic_min_score must be between 0 and 1")
	}
	if c.Classifier.SemanticSecondary < 0 || c.Classifier.SemanticSecondary > 1 {
		errs = append(errs, "classifier.semantic_secondary_min must be between 0 and 1")
	}
	if c.Classifier.KeywordConfidenceCap <= 0 || c.Classifier.KeywordConfidenceCap > 100 {
		errs = append(errs, "classifier.keyword_confidence_cap must be between 1 and 100")
	}
	if c.Dedup.StoryOverlapShare < 0 || c.Dedup.StoryOverlapShare > 1 {
		errs = append(errs, "dedup.story_overlap_share must be between 0 and 1")
	}
	if c.Pipeline.Concurrency < 1 || c.Pipeline.Concurrency > 64 {
		errs = append(errs, fmt.Sprintf("pipeline.concurrency must be between 1 and 64, got %d", c.Pipeline.Concurrency))
	}
	if c.Classifier.SemanticEnabled && c.Anthropic.Key == "" {
		errs = append(errs, "anthropic.key is required when classifier.semantic_enabled is set")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
