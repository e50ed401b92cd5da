package match

import (
	"math"

	"github.com/venturelink/match-engine/internal/model"
)

const earthRadiusKm = 6371

// ApproxKm returns a cheap flat-plane distance estimate: Euclidean distance
// in degrees scaled by 111 km per degree. Good enough for coarse proximity
// bonuses; use HaversineKm where the weight table calls for real distance.
func ApproxKm(a, b model.Location) float64 {
	dlat := a.Latitude - b.Latitude
	dlng := a.Longitude - b.Longitude
	return math.Sqrt(dlat*dlat+dlng*dlng) * 111
}

// HaversineKm returns the great-circle distance between two locations.
func HaversineKm(a, b model.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dlat := (b.Latitude - a.Latitude) * math.Pi / 180
	dlng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}
