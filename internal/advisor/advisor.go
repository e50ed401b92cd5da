// Package advisor produces pricing and positioning guidance for a property
// listing, generatively when a provider is available and from market data
// alone when it is not.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/venturelink/match-engine/internal/attrs"
	"github.com/venturelink/match-engine/internal/extract"
	"github.com/venturelink/match-engine/internal/model"
	"github.com/venturelink/match-engine/pkg/textgen"
)

// RentAnalysis compares the listed rent with the market.
type RentAnalysis struct {
	CurrentRent    string `json:"current_rent"`
	MarketAverage  string `json:"market_average"`
	Recommendation string `json:"recommendation"`
}

// PriceAnalysis assesses the sale side of a listing.
type PriceAnalysis struct {
	CurrentPrice        string `json:"current_price"`
	MarketValueEstimate string `json:"market_value_estimate"`
	Recommendation      string `json:"recommendation"`
}

// Analysis is the full advisory report for one property.
type Analysis struct {
	PricingStrategy     string        `json:"pricing_strategy"`
	RentAnalysis        RentAnalysis  `json:"rent_analysis"`
	PriceAnalysis       PriceAnalysis `json:"price_analysis"`
	TargetFranchises    []string      `json:"target_franchises"`
	TargetEntrepreneurs []string      `json:"target_entrepreneurs"`
	PositioningAdvice   string        `json:"positioning_advice"`
	InvestmentPotential string        `json:"investment_potential"`
}

// Config tunes the advisor's deterministic arithmetic.
type Config struct {
	// CapYears converts annual rent into a sale price. Default 20.
	CapYears float64

	// FallbackMarketRent stands in when the market insight reports no
	// average rent. Default 50000.
	FallbackMarketRent float64
}

// DefaultConfig returns the standard advisor settings.
func DefaultConfig() Config {
	return Config{CapYears: 20, FallbackMarketRent: 50000}
}

// Advisor generates property advice. A nil or failing completer degrades to
// the data-driven fallback; the advisor itself never returns an error.
type Advisor struct {
	completer textgen.Completer
	cfg       Config
}

// New creates an advisor. completer may be nil, which forces fallback mode.
func New(completer textgen.Completer, cfg Config) *Advisor {
	if cfg.CapYears <= 0 {
		cfg.CapYears = 20
	}
	if cfg.FallbackMarketRent <= 0 {
		cfg.FallbackMarketRent = 50000
	}
	return &Advisor{completer: completer, cfg: cfg}
}

// Analyze produces an advisory report for the owner's listing given the
// current market insight.
func (a *Advisor) Analyze(ctx context.Context, owner model.PropertyOwner, ins model.MarketInsight) Analysis {
	if a.completer == nil {
		return a.Fallback(owner, ins)
	}

	reply, err := a.completer.Complete(ctx, textgen.Request{Prompt: a.buildPrompt(owner, ins)})
	if err != nil {
		zap.L().Warn("property analysis completion failed, using data-driven fallback",
			zap.String("owner_id", owner.ID),
			zap.Error(err),
		)
		return a.Fallback(owner, ins)
	}

	var out Analysis
	if err := extract.Decode(reply, extract.Object, &out); err != nil {
		zap.L().Warn("property analysis reply was not parseable, using data-driven fallback",
			zap.String("owner_id", owner.ID),
			zap.Error(err),
		)
		return a.Fallback(owner, ins)
	}
	return out
}

func (a *Advisor) buildPrompt(owner model.PropertyOwner, ins model.MarketInsight) string {
	details := attrs.Map(owner.Details)
	size := details.FloatOr("area_sqft", 1000)
	propType := details.StrOr("property_type", "commercial")

	rentInfo := "Not for rent"
	if rent, ok := details.Float("current_rent"); ok && rent > 0 {
		rentInfo = fmt.Sprintf("Monthly Rent: %.0f", rent)
	}
	priceInfo := "Not for sale"
	if price, ok := details.Float("asking_price"); ok && price > 0 {
		priceInfo = fmt.Sprintf("Sale Price: %.0f", price)
	}

	city, state := "Unknown", "Unknown"
	if owner.Location != nil {
		if owner.Location.City != "" {
			city = owner.Location.City
		}
		if owner.Location.State != "" {
			state = owner.Location.State
		}
	}

	var sb strings.Builder
	sb.WriteString("You are a commercial real estate advisor. Analyze this property listing.\n\n")
	sb.WriteString("PROPERTY:\n")
	fmt.Fprintf(&sb, "- Type: %s\n", propType)
	fmt.Fprintf(&sb, "- Size: %.0f sq ft\n", size)
	fmt.Fprintf(&sb, "- Location: %s, %s\n", city, state)
	fmt.Fprintf(&sb, "- %s\n- %s\n\n", rentInfo, priceInfo)
	sb.WriteString("MARKET DATA:\n")
	fmt.Fprintf(&sb, "- Average Market Rent: %.0f\n", ins.AverageRent)
	fmt.Fprintf(&sb, "- Competition Level: %s\n", ins.Competition)
	fmt.Fprintf(&sb, "- Foot Traffic Score: %.2f\n", ins.FootTraffic)
	fmt.Fprintf(&sb, "- Total Nearby Businesses: %d\n", ins.Trends.TotalBusinesses)
	if len(ins.DemandCategories) > 0 {
		fmt.Fprintf(&sb, "- High-Demand Categories: %s\n", strings.Join(ins.DemandCategories, ", "))
	}
	sb.WriteString(`
Respond with ONLY valid JSON in this exact shape:
{
  "pricing_strategy": "...",
  "rent_analysis": {"current_rent": "...", "market_average": "...", "recommendation": "..."},
  "price_analysis": {"current_price": "...", "market_value_estimate": "...", "recommendation": "..."},
  "target_franchises": ["..."],
  "target_entrepreneurs": ["..."],
  "positioning_advice": "...",
  "investment_potential": "..."
}

Use the actual numbers provided above, not generic values.
`)
	return sb.String()
}
