// Package ideas generates budget-aware business ideas for a location using
// a text-generation provider, grounded in live market data.
package ideas

import (
	"fmt"
	"strings"

	"github.com/venturelink/match-engine/internal/insight"
	"github.com/venturelink/match-engine/internal/model"
)

// PromptInput carries everything the prompt needs about the entrepreneur and
// the market at their location.
type PromptInput struct {
	Budget       float64
	SeedIdea     string
	Location     model.Location
	Insight      model.MarketInsight
	Profile      insight.CompetitionProfile
	NearbySample []model.NearbyBusiness
	Count        int
}

// BuildPrompt renders the idea-generation prompt. When a seed idea is
// present the first two ideas must be derivations of it, marked with
// is_entrepreneur_idea.
func BuildPrompt(in PromptInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a business consultant. Generate exactly %d business ideas for an entrepreneur with a budget of %.0f INR", in.Count, in.Budget)
	if in.Location.City != "" {
		fmt.Fprintf(&sb, " in %s", in.Location.City)
	}
	sb.WriteString(".\n\n")

	if in.SeedIdea != "" {
		fmt.Fprintf(&sb, "The entrepreneur's own idea is: %q.\n", in.SeedIdea)
		sb.WriteString("Ideas #1 and #2 MUST be refined variations of the entrepreneur's own idea and MUST set \"is_entrepreneur_idea\": true. The remaining ideas are alternatives and set it to false.\n\n")
	}

	sb.WriteString("Local market data:\n")
	fmt.Fprintf(&sb, "- Total nearby businesses: %d\n", in.Profile.TotalBusinesses)
	fmt.Fprintf(&sb, "- Direct competitors: %d\n", in.Profile.DirectCompetitors)
	fmt.Fprintf(&sb, "- Market saturation: %s\n", in.Profile.Saturation)
	fmt.Fprintf(&sb, "- Competition level: %s\n", in.Insight.Competition)
	fmt.Fprintf(&sb, "- Foot traffic score: %.2f\n", in.Insight.FootTraffic)
	if len(in.Insight.DemandCategories) > 0 {
		fmt.Fprintf(&sb, "- Popular categories: %s\n", strings.Join(in.Insight.DemandCategories, ", "))
	}
	if len(in.NearbySample) > 0 {
		sb.WriteString("- Sample of nearby businesses:\n")
		for i, b := range in.NearbySample {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&sb, "  - %s (%s)\n", b.Name, b.Category)
		}
	}

	sb.WriteString("\nScore confidence as follows: start at 70. Add 10 for High market potential or 5 for Medium. Add 10 for Low risk or 5 for Medium. Add 10 for Low competition or 5 for Medium. Add 10 for Excellent location fit or 5 for Good. Cap at 95.\n")

	sb.WriteString(`
Respond with ONLY a JSON array, no prose, where each element has exactly these fields:
[
  {
    "concept": "short description of the business",
    "startup_cost": 500000,
    "market_potential": "High|Medium|Low",
    "risk_level": "High|Medium|Low",
    "competition_level": "High|Medium|Low",
    "market_saturation": "Very High|High|Moderate|Low|Very Low",
    "confidence_score": 85,
    "location_advantage": "Excellent|Good|Fair",
    "competitive_advantages": "what sets this apart locally",
    "is_entrepreneur_idea": false
  }
]
`)
	fmt.Fprintf(&sb, "\nEvery startup_cost must be within the %.0f INR budget.\n", in.Budget)

	return sb.String()
}
