package insight

import (
	"strings"

	"github.com/venturelink/match-engine/internal/model"
)

// SaturationLevel is the finer 5-tier competition classification used only
// by the business-idea path. It is deliberately kept separate from the
// 3-tier CompetitionLevel used for market analysis and valuation.
type SaturationLevel string

const (
	SaturationUnknown  SaturationLevel = "Unknown"
	SaturationVeryLow  SaturationLevel = "Very Low"
	SaturationLow      SaturationLevel = "Low"
	SaturationModerate SaturationLevel = "Moderate"
	SaturationHigh     SaturationLevel = "High"
	SaturationVeryHigh SaturationLevel = "Very High"
)

// CompetitionProfile summarizes the competitive landscape for idea
// generation.
type CompetitionProfile struct {
	TotalBusinesses   int             `json:"total_businesses"`
	Level             SaturationLevel `json:"competition_level"`
	DirectCompetitors int             `json:"direct_competitors"`
	Saturation        SaturationLevel `json:"market_saturation"`
	AverageRating     float64         `json:"average_rating"`
	TopCategories     []string        `json:"top_categories,omitempty"`
}

// competitiveCategories are keywords marking a business as a likely direct
// competitor for consumer-facing concepts.
var competitiveCategories = []string{
	"restaurant", "cafe", "food", "retail", "shop", "store", "market",
	"grocery", "supermarket", "boutique", "mall", "plaza", "center",
	"bakery", "seafood", "vegetarian", "vegan",
}

// Profile classifies competition for the idea-generation path. Thresholds
// differ from the 3-tier market classifier: <5, <15, <30, <50.
func Profile(businesses []model.NearbyBusiness) CompetitionProfile {
	total := len(businesses)

	level := SaturationVeryLow
	switch {
	case total >= 30:
		level = SaturationHigh
	case total >= 15:
		level = SaturationModerate
	case total >= 5:
		level = SaturationLow
	}

	saturation := SaturationUnknown
	switch {
	case total == 0:
		saturation = SaturationUnknown
	case total < 5:
		saturation = SaturationVeryLow
	case total < 15:
		saturation = SaturationLow
	case total < 30:
		saturation = SaturationModerate
	case total < 50:
		saturation = SaturationHigh
	default:
		saturation = SaturationVeryHigh
	}

	direct := 0
	var ratingSum float64
	var rated int
	for _, b := range businesses {
		cat := strings.ToLower(b.Category)
		for _, kw := range competitiveCategories {
			if strings.Contains(cat, kw) {
				direct++
				break
			}
		}
		if b.Rating != nil {
			ratingSum += *b.Rating
			rated++
		}
	}

	var avgRating float64
	if rated > 0 {
		avgRating = ratingSum / float64(rated)
	}

	return CompetitionProfile{
		TotalBusinesses:   total,
		Level:             level,
		DirectCompetitors: direct,
		Saturation:        saturation,
		AverageRating:     avgRating,
		TopCategories:     topCategories(businesses, 5),
	}
}
