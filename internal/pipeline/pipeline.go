package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/peekknuf/appprofile/internal/clean"
	"github.com/peekknuf/appprofile/internal/config"
	"github.com/peekknuf/appprofile/internal/connectors"
	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/schema"
	"github.com/peekknuf/appprofile/internal/stats"
)

// Stage names, in the order Run reports them
const (
	StageLoadAppStore    = "load app store export"
	StageLoadMarketplace = "load marketplace export"
	StageRepair          = "drop malformed rows"
	StageDeduplicate     = "deduplicate"
	StageLanguage        = "filter by name script"
	StagePrice           = "keep free apps"
	StageFrequency       = "frequency tables"
	StageMetrics         = "category averages"
	StageOutliers        = "outlier-adjusted averages"
)

// Stages lists every stage Run goes through
var Stages = []string{
	StageLoadAppStore, StageLoadMarketplace, StageRepair, StageDeduplicate,
	StageLanguage, StagePrice, StageFrequency, StageMetrics, StageOutliers,
}

// Sources are the resolved paths of the two exports
type Sources struct {
	AppStore    string
	Marketplace string
}

// ResolveSources applies the data directory lookup when one is configured
func ResolveSources(cfg config.Sources) (Sources, error) {
	if cfg.DataDir == "" {
		return Sources{AppStore: cfg.AppStore, Marketplace: cfg.Marketplace}, nil
	}
	found, err := connectors.LocateSources(cfg.DataDir, cfg.AppStore, cfg.Marketplace)
	if err != nil {
		return Sources{}, fmt.Errorf("%w: %v", dataset.ErrSourceUnavailable, err)
	}
	return Sources{AppStore: found[cfg.AppStore], Marketplace: found[cfg.Marketplace]}, nil
}

// SourceSummary counts the rows that survive each stage for one export
type SourceSummary struct {
	Path          string
	Loaded        int
	Malformed     int
	Deduplicated  int
	PrimaryScript int
	Free          int
}

// Adjusted is a category average taken with its outliers left out
type Adjusted struct {
	Group    stats.Group
	Outliers []string
}

// Result is everything a run produced
type Result struct {
	AppStore    SourceSummary
	Marketplace SourceSummary
	Duplicates  clean.DuplicateSurvey

	FreeAppStore    dataset.Table
	FreeMarketplace dataset.Table

	AppStoreGenres        stats.FrequencyTable
	MarketplaceGenres     stats.FrequencyTable
	MarketplaceCategories stats.FrequencyTable

	AppStoreRatings     stats.MetricTable
	MarketplaceInstalls stats.MetricTable

	Adjusted       []Adjusted
	Recommendation *stats.Group
}

type Pipeline struct {
	cfg     config.Config
	logger  zerolog.Logger
	onStage func(stage string)
}

func New(cfg config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger}
}

// OnStage registers a callback invoked as each stage completes
func (p *Pipeline) OnStage(fn func(stage string)) {
	p.onStage = fn
}

func (p *Pipeline) done(stage string) {
	if p.onStage != nil {
		p.onStage(stage)
	}
}

// Run executes every stage over both exports. Any error ends the run.
func (p *Pipeline) Run(src Sources) (*Result, error) {
	res := &Result{
		AppStore:    SourceSummary{Path: src.AppStore},
		Marketplace: SourceSummary{Path: src.Marketplace},
	}

	ios, err := dataset.Load(src.AppStore)
	if err != nil {
		return nil, err
	}
	res.AppStore.Loaded = ios.Len()
	p.logger.Info().Str("path", src.AppStore).Int("rows", ios.Len()).Int("columns", ios.Width()).Msg("loaded export")
	p.done(StageLoadAppStore)

	android, err := dataset.Load(src.Marketplace)
	if err != nil {
		return nil, err
	}
	res.Marketplace.Loaded = android.Len()
	p.logger.Info().Str("path", src.Marketplace).Int("rows", android.Len()).Int("columns", android.Width()).Msg("loaded export")
	p.done(StageLoadMarketplace)

	iosLayout, err := schema.AppStore.Bind(ios.Header)
	if err != nil {
		return nil, err
	}
	androidLayout, err := schema.Marketplace.Bind(android.Header)
	if err != nil {
		return nil, err
	}

	ios, res.AppStore.Malformed = dataset.Repair(ios)
	android, res.Marketplace.Malformed = dataset.Repair(android)
	p.logger.Debug().Int("appstore", res.AppStore.Malformed).Int("marketplace", res.Marketplace.Malformed).Msg("dropped malformed rows")
	p.done(StageRepair)

	appName := androidLayout.Column(schema.App)
	res.Duplicates = clean.SurveyDuplicates(android, appName)
	android, err = clean.Deduplicate(android, appName, androidLayout.Column(schema.Reviews), p.cfg.TieBreak())
	if err != nil {
		return nil, fmt.Errorf("deduplicate %s: %w", src.Marketplace, err)
	}
	res.AppStore.Deduplicated = ios.Len()
	res.Marketplace.Deduplicated = android.Len()
	p.logger.Info().
		Int("duplicates", len(res.Duplicates.Duplicates)).
		Int("unique", res.Duplicates.Unique).
		Str("tie_break", p.cfg.TieBreak().String()).
		Msg("deduplicated marketplace export")
	p.done(StageDeduplicate)

	limit := p.cfg.Filters.NonASCIILimit
	ios = clean.PrimaryScript(ios, iosLayout.Column(schema.TrackName), limit)
	android = clean.PrimaryScript(android, appName, limit)
	res.AppStore.PrimaryScript = ios.Len()
	res.Marketplace.PrimaryScript = android.Len()
	p.done(StageLanguage)

	ios, err = clean.FreeByPrice(ios, iosLayout.Column(schema.Price))
	if err != nil {
		return nil, fmt.Errorf("price filter %s: %w", src.AppStore, err)
	}
	android = clean.FreeByType(android, androidLayout.Column(schema.Type), p.cfg.Filters.PaidLabel)
	res.AppStore.Free = ios.Len()
	res.Marketplace.Free = android.Len()
	res.FreeAppStore = ios
	res.FreeMarketplace = android
	p.logger.Info().Int("appstore", ios.Len()).Int("marketplace", android.Len()).Msg("free apps retained")
	p.done(StagePrice)

	res.AppStoreGenres = stats.Frequency(ios, iosLayout.Column(schema.PrimeGenre))
	res.MarketplaceGenres = stats.Frequency(android, androidLayout.Column(schema.Genres))
	res.MarketplaceCategories = stats.Frequency(android, androidLayout.Column(schema.Category))
	p.done(StageFrequency)

	res.AppStoreRatings, err = stats.MeanBy(ios, iosLayout.Column(schema.PrimeGenre), iosLayout.Column(schema.RatingCountTot))
	if err != nil {
		return nil, fmt.Errorf("rating averages: %w", err)
	}
	category, installs := androidLayout.Column(schema.Category), androidLayout.Column(schema.Installs)
	res.MarketplaceInstalls, err = stats.MeanBy(android, category, installs, stats.WithPopularCutoff(p.cfg.Metrics.PopularCutoff))
	if err != nil {
		return nil, fmt.Errorf("install averages: %w", err)
	}
	p.done(StageMetrics)

	groups := make([]stats.Group, 0, len(p.cfg.Outliers))
	for _, rule := range p.cfg.Outliers {
		g, err := stats.CategoryMean(android, category, installs, rule.Category, rule.Threshold)
		if err != nil {
			return nil, fmt.Errorf("average for %s: %w", rule.Category, err)
		}
		rows, err := stats.Outliers(android, category, installs, rule.Category, rule.Threshold)
		if err != nil {
			return nil, fmt.Errorf("outliers for %s: %w", rule.Category, err)
		}
		adj := Adjusted{Group: g}
		for _, row := range rows {
			adj.Outliers = append(adj.Outliers, appName.Value(row))
		}
		res.Adjusted = append(res.Adjusted, adj)
		groups = append(groups, g)
	}
	if best, err := stats.Recommend(groups); err == nil {
		res.Recommendation = &best
	} else {
		p.logger.Warn().Err(err).Msg("no recommendation")
	}
	p.done(StageOutliers)

	return res, nil
}
