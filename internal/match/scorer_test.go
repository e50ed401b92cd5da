package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelink/match-engine/internal/model"
)

func testOwner(details map[string]any, loc *model.Location) *model.PropertyOwner {
	return &model.PropertyOwner{
		ID:       "prop-1",
		Name:     "Ravi Kumar",
		Details:  details,
		Location: loc,
	}
}

func TestEntrepreneurFranchiseFullScoreClampsAtOne(t *testing.T) {
	s := NewDefaultScorer()

	ent := &model.Entrepreneur{
		ID:     "ent-1",
		Name:   "Asha",
		Type:   model.TypeInvestor,
		Budget: 900000,
	}
	fr := &model.FranchiseCompany{
		ID:          "fr-1",
		CompanyName: "RetailCo",
		Requirements: map[string]any{
			"category":            "retail",
			"investment_required": 500000.0,
		},
	}

	// base 0.6 + 0.2 affinity + 0.2 headroom = 1.0 exactly.
	res, ok := s.EntrepreneurFranchise(ent, fr)
	require.True(t, ok)
	assert.Equal(t, 1.0, res.Score)
}

func TestEntrepreneurFranchiseExcludesUnaffordable(t *testing.T) {
	s := NewDefaultScorer()

	ent := &model.Entrepreneur{Type: model.TypeInvestor, Budget: 100000}
	fr := &model.FranchiseCompany{
		Requirements: map[string]any{
			"category":            "retail",
			"investment_required": 500000.0,
		},
	}

	_, ok := s.EntrepreneurFranchise(ent, fr)
	assert.False(t, ok)
}

func TestPropertyEntrepreneurScoring(t *testing.T) {
	s := NewDefaultScorer()

	owner := testOwner(map[string]any{"property_type": "commercial"},
		&model.Location{Latitude: 12.97, Longitude: 77.59})

	tests := []struct {
		name   string
		ent    *model.Entrepreneur
		value  float64
		floor  float64
		want   float64
		wantOK bool
	}{
		{
			name: "all factors fire and clamp to 1",
			ent: &model.Entrepreneur{
				Type:     model.TypeInvestor,
				Budget:   5000000,
				Location: &model.Location{Latitude: 12.98, Longitude: 77.60},
			},
			value: 1000000, want: 1.0, wantOK: true,
		},
		{
			name: "floor and base only",
			ent: &model.Entrepreneur{
				Type:   model.TypeIdeaOwner,
				Budget: 350000, // >= 0.30 floor, < 0.5 budget bonus
			},
			value: 1000000, want: 0.8, wantOK: true, // base + commercial affinity + floor bonus
		},
		{
			name: "below affordability floor excluded",
			ent: &model.Entrepreneur{
				Type:   model.TypeInvestor,
				Budget: 100000,
			},
			value: 1000000, wantOK: false,
		},
		{
			name: "relaxed overview floor admits smaller budget",
			ent: &model.Entrepreneur{
				Type:   model.TypeInvestor,
				Budget: 200000,
			},
			value: 1000000, floor: 0.15, want: 0.8, wantOK: true, // base + affinity + floor bonus
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := s.PropertyEntrepreneur(owner, tt.ent, tt.value, tt.floor)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.InDelta(t, tt.want, res.Score, 1e-9)
			assert.LessOrEqual(t, res.Score, 1.0)
		})
	}
}

func TestPropertyFranchiseScoring(t *testing.T) {
	s := NewDefaultScorer()

	owner := testOwner(map[string]any{
		"property_type": "retail",
		"area_sqft":     2000.0,
	}, &model.Location{Latitude: 12.9716, Longitude: 77.5946})

	fr := &model.FranchiseCompany{
		ID:          "fr-2",
		CompanyName: "CafeChain",
		Requirements: map[string]any{
			"category":  "food_beverage",
			"area_size": 1000.0,
		},
		Location: &model.Location{Latitude: 12.9750, Longitude: 77.6000}, // well under 10km
	}

	// area 0.4*(1000/2000)=0.2, type 0.3, distance 0.3 => 0.8
	res, ok := s.PropertyFranchise(owner, fr)
	require.True(t, ok)
	assert.InDelta(t, 0.8, res.Score, 1e-9)
}

func TestPropertyFranchiseBelowThreshold(t *testing.T) {
	s := NewDefaultScorer()

	owner := testOwner(map[string]any{
		"property_type": "warehouse",
		"area_sqft":     10000.0,
	}, nil)
	fr := &model.FranchiseCompany{
		Requirements: map[string]any{
			"category":  "education",
			"area_size": 500.0,
		},
	}

	// area 0.4*(500/10000)=0.02, no type match, no location => below 0.3
	_, ok := s.PropertyFranchise(owner, fr)
	assert.False(t, ok)
}

func TestPropertyFranchiseIndustrialPartialAffinity(t *testing.T) {
	s := NewDefaultScorer()

	owner := testOwner(map[string]any{
		"property_type": "industrial",
		"area_sqft":     1000.0,
	}, nil)
	fr := &model.FranchiseCompany{
		Requirements: map[string]any{
			"category":  "healthcare",
			"area_size": 1000.0,
		},
	}

	// area 0.4*1.0 + partial type 0.2 = 0.6
	res, ok := s.PropertyFranchise(owner, fr)
	require.True(t, ok)
	assert.InDelta(t, 0.6, res.Score, 1e-9)
}

func TestScoresAlwaysWithinBounds(t *testing.T) {
	s := NewScorer(
		PropertyEntrepreneurWeights{
			Base: 0.9, TypeAffinity: 0.9, BudgetBonus: 0.9, BudgetBonusRatio: 0.5,
			FloorBonus: 0.9, ProximityBonus: 0.9, ProximityKm: 50,
			AffordabilityFloor: 0.1, MinScore: 0,
		},
		DefaultPropertyFranchiseWeights(),
		DefaultEntrepreneurFranchiseWeights(),
	)

	owner := testOwner(map[string]any{"property_type": "retail"},
		&model.Location{Latitude: 1, Longitude: 1})
	ent := &model.Entrepreneur{
		Type: model.TypeInvestor, Budget: 1e9,
		Location: &model.Location{Latitude: 1, Longitude: 1},
	}

	res, ok := s.PropertyEntrepreneur(owner, ent, 1000, 0)
	require.True(t, ok)
	assert.Equal(t, 1.0, res.Score)
}
