package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/venturelink/match-engine/internal/advisor"
	"github.com/venturelink/match-engine/internal/engine"
	"github.com/venturelink/match-engine/internal/ideas"
	"github.com/venturelink/match-engine/internal/insight"
	"github.com/venturelink/match-engine/internal/match"
	"github.com/venturelink/match-engine/internal/places"
	"github.com/venturelink/match-engine/internal/registry"
	"github.com/venturelink/match-engine/internal/resilience"
	"github.com/venturelink/match-engine/internal/valuation"
	"github.com/venturelink/match-engine/pkg/foursquare"
	"github.com/venturelink/match-engine/pkg/textgen"
)

// engineEnv holds the initialized registry and engine shared by commands.
type engineEnv struct {
	Registry registry.Registry
	Engine   *engine.Engine
}

// Close releases resources held by the environment.
func (ee *engineEnv) Close() {
	if ee.Registry != nil {
		_ = ee.Registry.Close()
	}
}

// initEngine sets up the registry backend, the places provider, the text
// generation stack, and the engine. Callers should defer env.Close().
func initEngine(ctx context.Context) (*engineEnv, error) {
	reg, err := initRegistry(ctx)
	if err != nil {
		return nil, err
	}
	if err := reg.Migrate(ctx); err != nil {
		_ = reg.Close()
		return nil, eris.Wrap(err, "migrate registry")
	}

	retryCfg := resilience.FromConfig(cfg.Retry.MaxAttempts, cfg.Retry.BackoffMs)

	// Places provider (optional; without it registration skips geocoding
	// and every analysis degrades to an empty market).
	var provider places.Provider
	if cfg.Foursquare.Key != "" {
		provider = foursquare.NewClient(cfg.Foursquare.Key,
			foursquare.WithBaseURL(cfg.Foursquare.BaseURL),
			foursquare.WithRateLimit(cfg.Foursquare.RateLimit),
			foursquare.WithRetry(retryCfg),
		)
	} else {
		zap.L().Warn("MATCH_FOURSQUARE_KEY not set, market analysis disabled")
	}

	completer := initCompleter(retryCfg)

	var gen *ideas.Generator
	if completer != nil {
		gen = ideas.NewGenerator(completer, ideas.Config{
			Count:           cfg.Ideas.MaxIdeas,
			MaxBudgetFactor: cfg.Ideas.BudgetHeadroom,
		})
	}

	adv := advisor.New(completer, advisor.Config{
		CapYears:           float64(cfg.Valuation.RentCapitalizationYears),
		FallbackMarketRent: cfg.Market.OverviewBaseRent,
	})

	analyzer := insight.NewAnalyzer(insight.DefaultConfig())

	valCfg := valuation.DefaultConfig()
	valCfg.RentCapitalizationYears = cfg.Valuation.RentCapitalizationYears
	valCfg.BasePricePerSqft = cfg.Valuation.BasePricePerSqft
	valuer := valuation.NewEstimator(valCfg)

	eng := engine.New(reg, provider, analyzer, valuer, match.NewDefaultScorer(), gen, adv, engine.Config{
		RegistrationBaseRent: cfg.Market.RegistrationBaseRent,
		OverviewBaseRent:     cfg.Market.OverviewBaseRent,
		AffordabilityFloor:   cfg.Scoring.AffordabilityFloor,
		OverviewFloor:        cfg.Scoring.OverviewFloor,
		TopMatches:           cfg.Scoring.TopMatches,
		Cascade: places.CascadeConfig{
			MinUnique:     cfg.Lookup.MinUnique,
			SmallRadiusM:  cfg.Lookup.SmallRadiusM,
			MediumRadiusM: cfg.Lookup.MediumRadiusM,
			LargeRadiusM:  cfg.Lookup.LargeRadiusM,
			Limit:         cfg.Lookup.Limit,
		},
	})

	return &engineEnv{Registry: reg, Engine: eng}, nil
}

func initRegistry(ctx context.Context) (registry.Registry, error) {
	switch cfg.Store.Driver {
	case "", "memory":
		zap.L().Info("using in-memory registry")
		return registry.NewMemory(), nil
	case "sqlite":
		zap.L().Info("using sqlite registry", zap.String("path", cfg.Store.Path))
		return registry.NewSQLite(cfg.Store.Path)
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store.database_url is required for the postgres driver")
		}
		zap.L().Info("using postgres registry")
		return registry.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initCompleter picks the text-generation backend. Returns nil when the
// selected provider has no key; idea generation and generative advice then
// degrade gracefully.
func initCompleter(retryCfg resilience.RetryConfig) textgen.Completer {
	switch cfg.Textgen.Provider {
	case "anthropic":
		if cfg.Anthropic.Key == "" {
			zap.L().Warn("MATCH_ANTHROPIC_KEY not set, idea generation disabled")
			return nil
		}
		return textgen.NewResilient(
			textgen.NewAnthropic(cfg.Anthropic.Key, cfg.Anthropic.Model, int64(cfg.Anthropic.MaxTokens)),
			retryCfg,
		)
	default:
		if cfg.Mistral.Key == "" {
			zap.L().Warn("MATCH_MISTRAL_KEY not set, idea generation disabled")
			return nil
		}
		return textgen.NewResilient(
			textgen.NewMistral(cfg.Mistral.Key,
				textgen.WithMistralBaseURL(cfg.Mistral.BaseURL),
				textgen.WithMistralModel(cfg.Mistral.Model),
			),
			retryCfg,
		)
	}
}
