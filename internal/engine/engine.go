// Package engine orchestrates registration, market analysis, matching, and
// idea generation over injected providers and a registry.
package engine

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/venturelink/match-engine/internal/advisor"
	"github.com/venturelink/match-engine/internal/ideas"
	"github.com/venturelink/match-engine/internal/insight"
	"github.com/venturelink/match-engine/internal/match"
	"github.com/venturelink/match-engine/internal/model"
	"github.com/venturelink/match-engine/internal/places"
	"github.com/venturelink/match-engine/internal/registry"
	"github.com/venturelink/match-engine/internal/valuation"
)

// ErrInvalidInput marks a registration or update rejected before any side
// effect. The wrapped message names the offending field.
var ErrInvalidInput = eris.New("engine: invalid input")

// Config tunes the engine's orchestration knobs. The two base rents and two
// floors intentionally differ between the registration flow and the
// aggregate overview flow.
type Config struct {
	RegistrationBaseRent float64
	OverviewBaseRent     float64
	AffordabilityFloor   float64
	OverviewFloor        float64
	TopMatches           int
	Cascade              places.CascadeConfig
	OverviewConcurrency  int
}

// DefaultConfig returns the standard engine settings.
func DefaultConfig() Config {
	return Config{
		RegistrationBaseRent: 25000,
		OverviewBaseRent:     50000,
		AffordabilityFloor:   0.30,
		OverviewFloor:        0.15,
		TopMatches:           5,
		Cascade:              places.DefaultCascadeConfig(),
		OverviewConcurrency:  5,
	}
}

// Engine wires the registry, providers, and scoring components together.
// The places provider, idea generator, and advisor may be nil; the affected
// features degrade rather than fail.
type Engine struct {
	reg      registry.Registry
	provider places.Provider
	analyzer *insight.Analyzer
	valuer   *valuation.Estimator
	scorer   *match.Scorer
	ideaGen  *ideas.Generator
	advisor  *advisor.Advisor
	cfg      Config
}

// New creates an engine. reg, analyzer, valuer, and scorer are required.
func New(
	reg registry.Registry,
	provider places.Provider,
	analyzer *insight.Analyzer,
	valuer *valuation.Estimator,
	scorer *match.Scorer,
	ideaGen *ideas.Generator,
	adv *advisor.Advisor,
	cfg Config,
) *Engine {
	if cfg.RegistrationBaseRent <= 0 {
		cfg.RegistrationBaseRent = 25000
	}
	if cfg.OverviewBaseRent <= 0 {
		cfg.OverviewBaseRent = 50000
	}
	if cfg.AffordabilityFloor <= 0 {
		cfg.AffordabilityFloor = 0.30
	}
	if cfg.OverviewFloor <= 0 {
		cfg.OverviewFloor = 0.15
	}
	if cfg.TopMatches <= 0 {
		cfg.TopMatches = 5
	}
	if cfg.Cascade.MinUnique == 0 {
		cfg.Cascade = places.DefaultCascadeConfig()
	}
	if cfg.OverviewConcurrency <= 0 {
		cfg.OverviewConcurrency = 5
	}
	return &Engine{
		reg:      reg,
		provider: provider,
		analyzer: analyzer,
		valuer:   valuer,
		scorer:   scorer,
		ideaGen:  ideaGen,
		advisor:  adv,
		cfg:      cfg,
	}
}

// analyzeAt fetches nearby businesses through the lookup cascade and derives
// a market insight. Without a provider or usable location the insight is
// empty with Unknown competition, never a guess.
func (e *Engine) analyzeAt(ctx context.Context, loc model.Location, category string, baseRent float64) (model.MarketInsight, []model.NearbyBusiness) {
	if e.provider == nil || (!loc.HasCoordinates() && loc.City == "") {
		ins := e.analyzer.Analyze(loc, nil, baseRent)
		return ins, nil
	}
	businesses := places.NearbyBusinesses(ctx, e.provider, loc, category, e.cfg.Cascade)
	return e.analyzer.Analyze(loc, businesses, baseRent), businesses
}

// AnalysisReport is the result of an ad-hoc location analysis.
type AnalysisReport struct {
	Insight model.MarketInsight        `json:"insight"`
	Profile insight.CompetitionProfile `json:"competition_profile"`
	Summary string                     `json:"summary"`
}

// AnalyzeLocation runs an ad-hoc market analysis at the given coordinates.
func (e *Engine) AnalyzeLocation(ctx context.Context, lat, lng float64, category string) (AnalysisReport, error) {
	loc := model.Location{Latitude: lat, Longitude: lng}
	if !loc.HasCoordinates() {
		return AnalysisReport{}, eris.Wrap(ErrInvalidInput, "coordinates are required")
	}

	ins, businesses := e.analyzeAt(ctx, loc, category, e.cfg.OverviewBaseRent)
	return AnalysisReport{
		Insight: ins,
		Profile: insight.Profile(businesses),
		Summary: advisor.MarketSummary(ins),
	}, nil
}
