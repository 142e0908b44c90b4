package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Analyzer   AnalyzerConfig   `yaml:"analyzer" mapstructure:"analyzer"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Dedup      DedupConfig      `yaml:"dedup" mapstructure:"dedup"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnalyzerConfig holds the quality-analysis tunables. The thresholds
// default to the values the scoring model was calibrated with; they are
// configuration, not law.
type AnalyzerConfig struct {
	QualityThreshold int `yaml:"quality_threshold" mapstructure:"quality_threshold"`
	MinTitleChars    int `yaml:"min_title_chars" mapstructure:"min_title_chars"`
	MinContentChars  int `yaml:"min_content_chars" mapstructure:"min_content_chars"`
	SubstantialWords int `yaml:"substantial_words" mapstructure:"substantial_words"`
	DetailedWords    int `yaml:"detailed_words" mapstructure:"detailed_words"`
	JunkThreshold    int `yaml:"junk_threshold" mapstructure:"junk_threshold"`
}

// ClassifierConfig holds classification strategy settings.
type ClassifierConfig struct {
	// CategoriesFile optionally points at a YAML file overriding the
	// built-in category keyword tables.
	CategoriesFile string `yaml:"categories_file" mapstructure:"categories_file"`
	// SemanticEnabled gates the optional zero-shot strategy; the keyword
	// strategy is always available regardless.
	SemanticEnabled      bool    `yaml:"semantic_enabled" mapstructure:"semantic_enabled"`
	SemanticMinScore     float64 `yaml:"semantic_min_score" mapstructure:"semantic_min_score"`
	SemanticSecondary    float64 `yaml:"semantic_secondary_min" mapstructure:"semantic_secondary_min"`
	SemanticMaxWords     int     `yaml:"semantic_max_words" mapstructure:"semantic_max_words"`
	SecondaryShare       float64 `yaml:"secondary_share" mapstructure:"secondary_share"`
	KeywordConfidenceCap float64 `yaml:"keyword_confidence_cap" mapstructure:"keyword_confidence_cap"`
}

// DedupConfig holds duplicate-detection tunables.
type DedupConfig struct {
	SubstringMinTitleLen int     `yaml:"substring_min_title_len" mapstructure:"substring_min_title_len"`
	StoryMinOverlap      int     `yaml:"story_min_overlap" mapstructure:"story_min_overlap"`
	StoryOverlapShare    float64 `yaml:"story_overlap_share" mapstructure:"story_overlap_share"`
}

// PipelineConfig configures batch orchestration.
type PipelineConfig struct {
	Concurrency    int `yaml:"concurrency" mapstructure:"concurrency"`
	MaxArticleDays int `yaml:"max_article_days" mapstructure:"max_article_days"`
}

// AnthropicConfig holds credentials for the optional zero-shot classifier.
type AnthropicConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	Model      string  `yaml:"model" mapstructure:"model"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NEWSDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "newsdesk.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("analyzer.quality_threshold", 60)
	v.SetDefault("analyzer.min_title_chars", 10)
	v.SetDefault("analyzer.min_content_chars", 100)
	v.SetDefault("analyzer.substantial_words", 50)
	v.SetDefault("analyzer.detailed_words", 200)
	v.SetDefault("analyzer.junk_threshold", 2)
	v.SetDefault("classifier.semantic_enabled", false)
	v.SetDefault("classifier.semantic_min_score", 0.20)
	v.SetDefault("classifier.semantic_secondary_min", 0.15)
	v.SetDefault("classifier.semantic_max_words", 400)
	v.SetDefault("classifier.secondary_share", 0.3)
	v.SetDefault("classifier.keyword_confidence_cap", 95)
	v.SetDefault("dedup.substring_min_title_len", 20)
	v.SetDefault("dedup.story_min_overlap", 3)
	v.SetDefault("dedup.story_overlap_share", 0.6)
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.max_article_days", 0) // 0 disables the recency filter
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.rate_per_sec", 2)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
