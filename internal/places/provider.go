// Package places defines the pluggable nearby-business provider contract
// and the multi-strategy lookup cascade built on top of it.
package places

import (
	"context"

	"github.com/venturelink/match-engine/internal/model"
)

// SearchRequest describes a nearby-business query. Either coordinates or a
// free-text Near scope is set; Query may be empty, meaning "any category".
type SearchRequest struct {
	Query   string
	Lat     float64
	Lng     float64
	Near    string // city-name scope; mutually exclusive with coordinates
	RadiusM int
	Limit   int
}

// GeocodeResult is an explicit found/not-found outcome; a miss is not an
// error.
type GeocodeResult struct {
	Matched  bool
	Location model.Location
}

// Provider is the external places/geocoding service consumed by the engine.
// Implementations retry transient failures internally; a hard failure
// surfaces as an error and the caller degrades to an empty result.
type Provider interface {
	// Geocode resolves a postal/pincode string to coordinates and
	// administrative names.
	Geocode(ctx context.Context, pincode string) (GeocodeResult, error)

	// Search returns nearby businesses for the request.
	Search(ctx context.Context, req SearchRequest) ([]model.NearbyBusiness, error)
}
