// Package insight turns raw nearby-business listings into normalized market
// indicators: competition level, foot-traffic score, demand categories, and
// an estimated average rent.
package insight

import (
	"github.com/venturelink/match-engine/internal/model"
)

// Config holds the analyzer's weight and threshold table.
type Config struct {
	RatingWeight     float64 `yaml:"rating_weight" mapstructure:"rating_weight"`
	PopularityWeight float64 `yaml:"popularity_weight" mapstructure:"popularity_weight"`
	DensityWeight    float64 `yaml:"density_weight" mapstructure:"density_weight"`

	// PopularityCap and DensityCap normalize their terms to [0,1].
	PopularityCap float64 `yaml:"popularity_cap" mapstructure:"popularity_cap"`
	DensityCap    float64 `yaml:"density_cap" mapstructure:"density_cap"`

	// 3-tier competition thresholds on total business count.
	LowMax    int `yaml:"low_max" mapstructure:"low_max"`
	MediumMax int `yaml:"medium_max" mapstructure:"medium_max"`

	// Rent model: baseRent scaled by competition then lifted by foot traffic.
	RentMultipliers       map[model.CompetitionLevel]float64 `yaml:"rent_multipliers" mapstructure:"rent_multipliers"`
	FootTrafficRentFactor float64                            `yaml:"foot_traffic_rent_factor" mapstructure:"foot_traffic_rent_factor"`

	TopCategories int `yaml:"top_categories" mapstructure:"top_categories"`
}

// DefaultConfig returns the standard analyzer table.
func DefaultConfig() Config {
	return Config{
		RatingWeight:     0.4,
		PopularityWeight: 0.3,
		DensityWeight:    0.3,
		PopularityCap:    100,
		DensityCap:       50,
		LowMax:           10,
		MediumMax:        30,
		RentMultipliers: map[model.CompetitionLevel]float64{
			model.CompetitionHigh:   1.5,
			model.CompetitionMedium: 1.2,
			model.CompetitionLow:    0.8,
		},
		FootTrafficRentFactor: 0.5,
		TopCategories:         5,
	}
}

// Analyzer converts business listings into MarketInsight values. Analysis is
// a pure function of its inputs: identical snapshots produce identical
// insights.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an Analyzer with the given config.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze computes the market insight for a location from its nearby
// businesses. An empty or missing listing yields competition Unknown with
// zeroed scores; the analyzer never fails past its own boundary.
func (a *Analyzer) Analyze(loc model.Location, businesses []model.NearbyBusiness, baseRent float64) model.MarketInsight {
	if len(businesses) == 0 {
		return model.MarketInsight{
			Location:    loc,
			Competition: model.CompetitionUnknown,
		}
	}

	total := len(businesses)

	var ratingSum float64
	var rated int
	var popSum float64
	var withPop int
	for _, b := range businesses {
		if b.Rating != nil {
			ratingSum += *b.Rating
			rated++
		}
		if b.Popularity != nil {
			popSum += *b.Popularity
			withPop++
		}
	}

	var avgRating, avgPopularity float64
	if rated > 0 {
		avgRating = ratingSum / float64(rated)
	}
	if withPop > 0 {
		avgPopularity = popSum / float64(withPop)
	}

	demand := topCategories(businesses, a.cfg.TopCategories)

	competition := model.CompetitionHigh
	switch {
	case total < a.cfg.LowMax:
		competition = model.CompetitionLow
	case total < a.cfg.MediumMax:
		competition = model.CompetitionMedium
	}

	footTraffic := a.cfg.RatingWeight*(avgRating/5) +
		a.cfg.PopularityWeight*minF(avgPopularity/a.cfg.PopularityCap, 1) +
		a.cfg.DensityWeight*minF(float64(total)/a.cfg.DensityCap, 1)
	footTraffic = clamp01(footTraffic)

	rent := baseRent * a.cfg.RentMultipliers[competition] * (1 + a.cfg.FootTrafficRentFactor*footTraffic)

	return model.MarketInsight{
		Location:         loc,
		AverageRent:      rent,
		FootTraffic:      footTraffic,
		Competition:      competition,
		DemandCategories: demand,
		Trends: model.MarketTrends{
			TotalBusinesses:   total,
			AverageRating:     avgRating,
			AveragePopularity: avgPopularity,
			TopCategories:     demand,
		},
	}
}

// topCategories tallies category frequency and returns the top n in
// descending order, ties broken by first-seen order.
func topCategories(businesses []model.NearbyBusiness, n int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string
	for _, b := range businesses {
		if b.Category == "" {
			continue
		}
		if _, seen := counts[b.Category]; !seen {
			firstSeen[b.Category] = len(order)
			order = append(order, b.Category)
		}
		counts[b.Category]++
	}

	// Insertion sort over the discovery-ordered list keeps the tie-break
	// stable without an extra comparator dance.
	sorted := make([]string, len(order))
	copy(sorted, order)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0; j-- {
			a, b := sorted[j-1], sorted[j]
			if counts[b] > counts[a] || (counts[b] == counts[a] && firstSeen[b] < firstSeen[a]) {
				sorted[j-1], sorted[j] = b, a
			} else {
				break
			}
		}
	}

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
