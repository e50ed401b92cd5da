package places

import (
	"context"

	"go.uber.org/zap"

	"github.com/venturelink/match-engine/internal/model"
)

// CascadeConfig tunes the multi-strategy lookup.
type CascadeConfig struct {
	// MinUnique stops the cascade once this many unique results have
	// accumulated.
	MinUnique int

	SmallRadiusM  int
	MediumRadiusM int
	LargeRadiusM  int
	Limit         int
}

// DefaultCascadeConfig returns the standard cascade radii and threshold.
func DefaultCascadeConfig() CascadeConfig {
	return CascadeConfig{
		MinUnique:     5,
		SmallRadiusM:  5000,
		MediumRadiusM: 10000,
		LargeRadiusM:  15000,
		Limit:         50,
	}
}

// NearbyBusinesses compensates for providers that return nothing for narrow
// queries. Strategies run in order: category query at a small radius, empty
// query at a medium radius, then an empty city-scoped query at a large
// radius. Each widening stage drops the category filter; only the first
// stage narrows. Each stage runs only while the accumulated unique count is
// below the threshold. Stage failures contribute empty results rather than
// aborting the cascade.
func NearbyBusinesses(ctx context.Context, p Provider, loc model.Location, category string, cfg CascadeConfig) []model.NearbyBusiness {
	stages := []SearchRequest{
		{Query: category, Lat: loc.Latitude, Lng: loc.Longitude, RadiusM: cfg.SmallRadiusM, Limit: cfg.Limit},
		{Query: "", Lat: loc.Latitude, Lng: loc.Longitude, RadiusM: cfg.MediumRadiusM, Limit: cfg.Limit},
	}
	if loc.City != "" {
		stages = append(stages, SearchRequest{Query: "", Near: loc.City, RadiusM: cfg.LargeRadiusM, Limit: cfg.Limit})
	}

	seen := make(map[string]bool)
	var out []model.NearbyBusiness
	for i, req := range stages {
		if len(out) >= cfg.MinUnique {
			break
		}

		results, err := p.Search(ctx, req)
		if err != nil {
			zap.L().Warn("nearby lookup stage failed",
				zap.Int("stage", i+1),
				zap.String("query", req.Query),
				zap.Error(err),
			)
			continue
		}

		for _, b := range results {
			// Dedupe by provider ID; entries without one are always kept.
			if b.ID != "" {
				if seen[b.ID] {
					continue
				}
				seen[b.ID] = true
			}
			out = append(out, b)
		}
	}

	return out
}
