// Package model defines the core entities of the matching engine.
package model

import "time"

// EntrepreneurType classifies how an entrepreneur participates in the market.
type EntrepreneurType string

const (
	TypeInvestor  EntrepreneurType = "investor"
	TypeIdeaOwner EntrepreneurType = "idea_owner"
	TypeBoth      EntrepreneurType = "both"
)

// Valid reports whether t is one of the known entrepreneur types.
func (t EntrepreneurType) Valid() bool {
	switch t {
	case TypeInvestor, TypeIdeaOwner, TypeBoth:
		return true
	}
	return false
}

// CompetitionLevel is the coarse 3-tier classification of nearby business
// density used by market analysis and valuation.
type CompetitionLevel string

const (
	CompetitionUnknown CompetitionLevel = "Unknown"
	CompetitionLow     CompetitionLevel = "Low"
	CompetitionMedium  CompetitionLevel = "Medium"
	CompetitionHigh    CompetitionLevel = "High"
)

// Location is a geocoded place. Immutable once resolved; entities cache the
// resolved value from their registration pincode.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Country   string  `json:"country,omitempty"`
	Pincode   string  `json:"pincode,omitempty"`
}

// HasCoordinates reports whether the location carries usable coordinates.
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// NearbyBusiness is a single places-provider result. Fetched per analysis
// request and never persisted.
type NearbyBusiness struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Category   string   `json:"category,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Popularity *float64 `json:"popularity,omitempty"`
	DistanceM  int      `json:"distance_m,omitempty"`
	Location   Location `json:"location"`
}

// MarketTrends holds the raw aggregates behind a MarketInsight.
type MarketTrends struct {
	TotalBusinesses   int      `json:"total_businesses"`
	AverageRating     float64  `json:"average_rating"`
	AveragePopularity float64  `json:"average_popularity"`
	TopCategories     []string `json:"top_categories,omitempty"`
}

// MarketInsight is the normalized market signal for a location. Derived on
// every request from fresh provider data; never stored.
type MarketInsight struct {
	Location         Location         `json:"location"`
	AverageRent      float64          `json:"average_rent"`
	FootTraffic      float64          `json:"foot_traffic_score"` // 0..1
	Competition      CompetitionLevel `json:"competition_level"`
	DemandCategories []string         `json:"demand_categories,omitempty"`
	Trends           MarketTrends     `json:"trends"`
}

// PropertyOwner is a registered property listing.
type PropertyOwner struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Details   map[string]any `json:"property_details"`
	Location  *Location      `json:"location,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// FranchiseCompany is a registered franchise looking for locations and
// franchisees.
type FranchiseCompany struct {
	ID           string         `json:"id"`
	CompanyName  string         `json:"company_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	Requirements map[string]any `json:"franchise_requirements"`
	Location     *Location      `json:"location,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Entrepreneur is a registered investor or idea owner.
type Entrepreneur struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone,omitempty"`
	Type         EntrepreneurType `json:"entrepreneur_type"`
	Budget       float64          `json:"budget"`
	Pincode      string           `json:"pincode,omitempty"`
	BusinessIdea string           `json:"business_idea,omitempty"`
	Preferences  map[string]any   `json:"investment_preferences,omitempty"`
	Location     *Location        `json:"location,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// MatchResult pairs an entity with a bounded compatibility score. Produced
// fresh per request.
type MatchResult struct {
	EntityID        string   `json:"entity_id"`
	EntityName      string   `json:"entity_name"`
	Kind            string   `json:"kind"` // "property_owner", "franchise", "entrepreneur"
	Score           float64  `json:"match_score"` // always in [0,1]
	Reasoning       string   `json:"reasoning,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// BusinessIdea is a single generated business concept.
type BusinessIdea struct {
	Concept              string  `json:"concept"`
	StartupCost          float64 `json:"startup_cost"`
	MarketPotential      string  `json:"market_potential"`
	RiskLevel            string  `json:"risk_level"`
	Competition          string  `json:"competition_level"`
	MarketSaturation     string  `json:"market_saturation,omitempty"`
	Confidence           int     `json:"confidence_score"` // 70..95
	LocationAdvantage    string  `json:"location_advantage,omitempty"`
	CompetitiveAdvantage string  `json:"competitive_advantages,omitempty"`
	FromSeed             bool    `json:"is_entrepreneur_idea"`
}
