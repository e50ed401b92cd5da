package advisor

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/venturelink/match-engine/internal/attrs"
	"github.com/venturelink/match-engine/internal/model"
)

var titler = cases.Title(language.English)

// Fallback computes the advisory report from listing and market data alone.
// Rent scales the market average by size per 1000 sq ft; the sale estimate
// capitalizes that rent over the configured horizon.
func (a *Advisor) Fallback(owner model.PropertyOwner, ins model.MarketInsight) Analysis {
	details := attrs.Map(owner.Details)
	size := details.FloatOr("area_sqft", 1000)
	propType := details.StrOr("property_type", "commercial")
	currentRent := details.FloatOr("current_rent", 0)
	askingPrice := details.FloatOr("asking_price", 0)

	competition := ins.Competition
	if competition == "" || competition == model.CompetitionUnknown {
		competition = model.CompetitionMedium
	}
	marketRent := ins.AverageRent
	if marketRent <= 0 {
		marketRent = a.cfg.FallbackMarketRent
	}

	estimatedRent := marketRent * (size / 1000)
	estimatedSale := estimatedRent * 12 * a.cfg.CapYears

	currentPrice := fmt.Sprintf("%.0f", askingPrice)
	if askingPrice <= 0 {
		currentPrice = "0 (Not for sale)"
	}

	return Analysis{
		PricingStrategy: fmt.Sprintf(
			"Based on %s property (%.0f sq ft) in %s competition area. Recommended rent: %.0f/month, Sale price: %.0f",
			propType, size, competition, estimatedRent, estimatedSale),
		RentAnalysis: RentAnalysis{
			CurrentRent:   fmt.Sprintf("%.0f", currentRent),
			MarketAverage: fmt.Sprintf("%.0f", marketRent),
			Recommendation: fmt.Sprintf(
				"Market average rent: %.0f. For %.0f sq ft %s property, recommended rent range: %.0f - %.0f/month",
				marketRent, size, propType, estimatedRent*0.8, estimatedRent*1.2),
		},
		PriceAnalysis: PriceAnalysis{
			CurrentPrice: currentPrice,
			MarketValueEstimate: fmt.Sprintf(
				"Based on market rent of %.0f for %.0f years, estimated value: %.0f",
				marketRent, a.cfg.CapYears, estimatedSale),
			Recommendation: fmt.Sprintf(
				"Estimated market value for %.0f sq ft %s property: %.0f based on %s competition and market rent data",
				size, propType, estimatedSale, competition),
		},
		TargetFranchises: []string{
			"Retail franchises", "Service businesses", "Food & beverage",
			"Healthcare services", "Educational centers",
		},
		TargetEntrepreneurs: []string{
			"Small business owners", "Service providers", "Retail entrepreneurs",
			"Healthcare professionals", "Educational institutions",
		},
		PositioningAdvice: fmt.Sprintf(
			"Position as premium %s space in %s competition market. Highlight %.0f sq ft size and location advantages",
			propType, competition, size),
		InvestmentPotential: fmt.Sprintf(
			"ROI potential: 8-12%% based on %.0f market rent. %.0f sq ft %s property suitable for long-term investment",
			marketRent, size, propType),
	}
}

// MarketSummary renders a short human-readable digest of a market insight,
// suitable for CLI output and API responses.
func MarketSummary(ins model.MarketInsight) string {
	var sb strings.Builder

	place := ins.Location.City
	if place == "" {
		place = fmt.Sprintf("%.4f, %.4f", ins.Location.Latitude, ins.Location.Longitude)
	} else {
		place = titler.String(place)
	}

	fmt.Fprintf(&sb, "Market summary for %s: ", place)
	fmt.Fprintf(&sb, "%d nearby businesses, %s competition, foot traffic %.2f, average rent %.0f.",
		ins.Trends.TotalBusinesses, ins.Competition, ins.FootTraffic, ins.AverageRent)

	if len(ins.DemandCategories) > 0 {
		cats := make([]string, len(ins.DemandCategories))
		for i, c := range ins.DemandCategories {
			cats[i] = titler.String(c)
		}
		fmt.Fprintf(&sb, " In demand: %s.", strings.Join(cats, ", "))
	}
	return sb.String()
}
