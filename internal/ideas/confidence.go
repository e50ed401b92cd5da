package ideas

import (
	"strings"

	"github.com/venturelink/match-engine/internal/model"
)

// Score computes a confidence score from an idea's qualitative factors.
// Base 70; each favorable factor adds 10, each middling one adds 5; capped
// at 95. Provider-reported scores are discarded in favor of this so that
// confidence stays consistent across providers.
func Score(idea model.BusinessIdea) int {
	score := 70

	switch strings.ToLower(idea.MarketPotential) {
	case "high":
		score += 10
	case "medium":
		score += 5
	}

	switch strings.ToLower(idea.RiskLevel) {
	case "low":
		score += 10
	case "medium":
		score += 5
	}

	switch strings.ToLower(idea.Competition) {
	case "low":
		score += 10
	case "medium":
		score += 5
	}

	switch strings.ToLower(idea.LocationAdvantage) {
	case "excellent":
		score += 10
	case "good":
		score += 5
	}

	if score > 95 {
		score = 95
	}
	return score
}
