package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/peekknuf/appprofile/internal/clean"
)

// OutlierRule is a per-category exclusion threshold on installs
type OutlierRule struct {
	Category  string  `mapstructure:"category"`
	Threshold float64 `mapstructure:"threshold"`
}

type Sources struct {
	AppStore    string `mapstructure:"appstore"`
	Marketplace string `mapstructure:"marketplace"`
	DataDir     string `mapstructure:"data_dir"`
}

type Filters struct {
	NonASCIILimit int    `mapstructure:"non_ascii_limit"`
	PaidLabel     string `mapstructure:"paid_label"`
}

type Dedupe struct {
	TieBreak string `mapstructure:"tie_break"`
}

type Metrics struct {
	PopularCutoff float64 `mapstructure:"popular_cutoff"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

// Config is the full set of knobs of a run
type Config struct {
	Sources  Sources       `mapstructure:"sources"`
	Filters  Filters       `mapstructure:"filters"`
	Dedupe   Dedupe        `mapstructure:"dedupe"`
	Metrics  Metrics       `mapstructure:"metrics"`
	Outliers []OutlierRule `mapstructure:"outliers"`
	Log      Log           `mapstructure:"log"`
}

// DefaultOutliers are the per-category install thresholds used when the
// config lists none.
func DefaultOutliers() []OutlierRule {
	return []OutlierRule{
		{Category: "COMMUNICATION", Threshold: 100000000},
		{Category: "NEWS_AND_MAGAZINES", Threshold: 100000000},
		{Category: "ENTERTAINMENT", Threshold: 10000000},
		{Category: "BOOKS_AND_REFERENCE", Threshold: 10000000},
		{Category: "PHOTOGRAPHY", Threshold: 10000000},
	}
}

// SetDefaults registers the scalar defaults on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sources.appstore", "AppleStore.csv")
	v.SetDefault("sources.marketplace", "googleplaystore.csv")
	v.SetDefault("sources.data_dir", "")
	v.SetDefault("filters.non_ascii_limit", clean.DefaultNonASCIILimit)
	v.SetDefault("filters.paid_label", clean.DefaultPaidLabel)
	v.SetDefault("dedupe.tie_break", clean.KeepFirst.String())
	v.SetDefault("metrics.popular_cutoff", 10000000)
	v.SetDefault("log.level", "info")
}

// Load unmarshals v into a validated Config
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Outliers) == 0 {
		cfg.Outliers = DefaultOutliers()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with
func (c Config) Validate() error {
	if c.Filters.NonASCIILimit < 0 {
		return fmt.Errorf("filters.non_ascii_limit must be >= 0, got %d", c.Filters.NonASCIILimit)
	}
	if _, err := clean.ParseTieBreak(c.Dedupe.TieBreak); err != nil {
		return fmt.Errorf("dedupe.tie_break: %w", err)
	}
	for _, rule := range c.Outliers {
		if rule.Category == "" {
			return fmt.Errorf("outliers: rule without category")
		}
		if rule.Threshold <= 0 {
			return fmt.Errorf("outliers: threshold for %s must be > 0", rule.Category)
		}
	}
	return nil
}

// TieBreak returns the parsed dedupe policy
func (c Config) TieBreak() clean.TieBreak {
	tb, _ := clean.ParseTieBreak(c.Dedupe.TieBreak)
	return tb
}
