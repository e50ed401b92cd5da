// Package valuation estimates property monetary value from listing
// attributes and market insight, using a strict priority of methods.
package valuation

import (
	"fmt"

	"github.com/venturelink/match-engine/internal/attrs"
	"github.com/venturelink/match-engine/internal/model"
)

// Method names which rule produced an estimate.
type Method string

const (
	MethodAskingPrice Method = "asking_price"
	MethodRent        Method = "rent_capitalization"
	MethodArea        Method = "area_model"
	MethodNone        Method = "none"
)

// Config holds the estimator's tunables.
type Config struct {
	// RentCapitalizationYears converts monthly rent into value:
	// rent * 12 * years.
	RentCapitalizationYears int `yaml:"rent_capitalization_years" mapstructure:"rent_capitalization_years"`

	// BasePricePerSqft anchors the area fallback model.
	BasePricePerSqft float64 `yaml:"base_price_per_sqft" mapstructure:"base_price_per_sqft"`

	// FootTrafficFactor lifts the area model by foot traffic:
	// 1 + factor*score.
	FootTrafficFactor float64 `yaml:"foot_traffic_factor" mapstructure:"foot_traffic_factor"`

	CompetitionMultipliers map[model.CompetitionLevel]float64 `yaml:"competition_multipliers" mapstructure:"competition_multipliers"`
	TypeMultipliers        map[string]float64                 `yaml:"type_multipliers" mapstructure:"type_multipliers"`
}

// DefaultConfig returns the standard estimator table.
func DefaultConfig() Config {
	return Config{
		RentCapitalizationYears: 20,
		BasePricePerSqft:        10000,
		FootTrafficFactor:       0.5,
		CompetitionMultipliers: map[model.CompetitionLevel]float64{
			model.CompetitionLow:     0.8,
			model.CompetitionMedium:  1.0,
			model.CompetitionHigh:    1.3,
			model.CompetitionUnknown: 1.0,
		},
		TypeMultipliers: map[string]float64{
			"retail":    1.2,
			"office":    1.1,
			"warehouse": 0.8,
		},
	}
}

// Estimate is a deterministic valuation with the method that produced it.
type Estimate struct {
	Value  float64 `json:"value"`
	Method Method  `json:"method"`
}

// PriceSuggestion is the full pricing output for a property, with a range
// around the point estimate.
type PriceSuggestion struct {
	SuggestedPrice float64 `json:"suggested_price"`
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
	Reasoning      string  `json:"reasoning"`
}

// Estimator computes property values.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an Estimator with the given config.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Estimate values a property. Priority: asking price verbatim, then rent
// capitalization, then the area model scaled by market conditions. Given
// identical inputs the result is identical; no hidden randomness.
func (e *Estimator) Estimate(details attrs.Map, insight model.MarketInsight) Estimate {
	if asking, ok := details.Float("asking_price"); ok && asking > 0 {
		return Estimate{Value: asking, Method: MethodAskingPrice}
	}

	if rent, ok := details.Float("current_rent"); ok && rent > 0 {
		return Estimate{
			Value:  rent * 12 * float64(e.cfg.RentCapitalizationYears),
			Method: MethodRent,
		}
	}

	area, ok := details.Float("area_sqft")
	if !ok || area <= 0 {
		return Estimate{Method: MethodNone}
	}

	compMult, ok := e.cfg.CompetitionMultipliers[insight.Competition]
	if !ok {
		compMult = 1.0
	}
	typeMult := 1.0
	if m, ok := e.cfg.TypeMultipliers[details.StrOr("property_type", "")]; ok {
		typeMult = m
	}
	footMult := 1 + e.cfg.FootTrafficFactor*insight.FootTraffic

	return Estimate{
		Value:  area * e.cfg.BasePricePerSqft * compMult * footMult * typeMult,
		Method: MethodArea,
	}
}

// SuggestPrice wraps Estimate with a ±20% range and a reasoning line.
func (e *Estimator) SuggestPrice(details attrs.Map, insight model.MarketInsight) PriceSuggestion {
	est := e.Estimate(details, insight)
	return PriceSuggestion{
		SuggestedPrice: est.Value,
		MinPrice:       est.Value * 0.8,
		MaxPrice:       est.Value * 1.2,
		Reasoning: fmt.Sprintf("Based on %s competition and %.2f foot traffic score",
			insight.Competition, insight.FootTraffic),
	}
}
