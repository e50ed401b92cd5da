package match

import (
	"fmt"

	"github.com/venturelink/match-engine/internal/attrs"
	"github.com/venturelink/match-engine/internal/model"
)

// Scorer computes compatibility scores between entity pairs using explicit
// weight tables.
type Scorer struct {
	pe PropertyEntrepreneurWeights
	pf PropertyFranchiseWeights
	ef EntrepreneurFranchiseWeights
}

// NewScorer creates a Scorer from the given weight tables.
func NewScorer(pe PropertyEntrepreneurWeights, pf PropertyFranchiseWeights, ef EntrepreneurFranchiseWeights) *Scorer {
	return &Scorer{pe: pe, pf: pf, ef: ef}
}

// NewDefaultScorer creates a Scorer with the default weight tables.
func NewDefaultScorer() *Scorer {
	return NewScorer(
		DefaultPropertyEntrepreneurWeights(),
		DefaultPropertyFranchiseWeights(),
		DefaultEntrepreneurFranchiseWeights(),
	)
}

// PropertyEntrepreneur scores an entrepreneur against a property with the
// given estimated value. The floor parameter overrides the table's
// affordability floor when non-zero, so the overview flow can relax it per
// call site. Returns ok=false when the candidate is excluded (below the
// floor or below the reporting threshold).
func (s *Scorer) PropertyEntrepreneur(owner *model.PropertyOwner, ent *model.Entrepreneur, estimatedValue float64, floor float64) (model.MatchResult, bool) {
	w := s.pe
	if floor > 0 {
		w.AffordabilityFloor = floor
	}

	// Affordability gate: below the floor the candidate is excluded, not
	// scored low.
	if ent.Budget < estimatedValue*w.AffordabilityFloor {
		return model.MatchResult{}, false
	}

	score := w.Base

	propType := attrs.Map(owner.Details).StrOr("property_type", "")
	if entrepreneurPropertyAffinity(ent.Type, propType) {
		score += w.TypeAffinity
	}

	if ent.Budget >= estimatedValue*w.BudgetBonusRatio {
		score += w.BudgetBonus
	}

	if ent.Budget >= estimatedValue*w.AffordabilityFloor {
		score += w.FloorBonus
	}

	if owner.Location != nil && ent.Location != nil &&
		owner.Location.HasCoordinates() && ent.Location.HasCoordinates() {
		if ApproxKm(*owner.Location, *ent.Location) < w.ProximityKm {
			score += w.ProximityBonus
		}
	}

	score = clamp01(score)
	if score < w.MinScore {
		return model.MatchResult{}, false
	}

	return model.MatchResult{
		EntityID:   ent.ID,
		EntityName: ent.Name,
		Kind:       "entrepreneur",
		Score:      score,
		Reasoning: fmt.Sprintf("Budget compatible (%.0f), %s type, estimated property value %.0f",
			ent.Budget, ent.Type, estimatedValue),
	}, true
}

// PropertyFranchise scores a franchise against a property: area-ratio term,
// category affinity term, and a Haversine distance term. Candidates below
// the minimum total do not qualify.
func (s *Scorer) PropertyFranchise(owner *model.PropertyOwner, fr *model.FranchiseCompany) (model.MatchResult, bool) {
	w := s.pf

	details := attrs.Map(owner.Details)
	reqs := attrs.Map(fr.Requirements)

	propArea := details.FloatOr("area_sqft", 0)
	reqArea := reqs.FloatOr("area_size", 0)

	var areaTerm float64
	if propArea > 0 && reqArea > 0 {
		areaTerm = w.AreaWeight * (min(propArea, reqArea) / max(propArea, reqArea))
	}

	propType := details.StrOr("property_type", "")
	category := reqs.StrOr("category", "")
	var typeTerm float64
	switch {
	case propertyFranchiseAffinity[propType][category]:
		typeTerm = w.FullAffinity
	case propType == "industrial" && industrialFranchiseAffinity[category]:
		typeTerm = w.PartialAffinity
	}

	var distTerm float64
	if owner.Location != nil && fr.Location != nil &&
		owner.Location.HasCoordinates() && fr.Location.HasCoordinates() {
		switch km := HaversineKm(*owner.Location, *fr.Location); {
		case km <= w.NearKm:
			distTerm = w.NearBonus
		case km <= w.MidKm:
			distTerm = w.MidBonus
		case km <= w.FarKm:
			distTerm = w.FarBonus
		}
	}

	score := clamp01(areaTerm + typeTerm + distTerm)
	if score < w.MinScore {
		return model.MatchResult{}, false
	}

	return model.MatchResult{
		EntityID:   fr.ID,
		EntityName: fr.CompanyName,
		Kind:       "franchise",
		Score:      score,
		Reasoning: fmt.Sprintf("Area: %.1f, Type: %.1f, Location: %.1f",
			areaTerm, typeTerm, distTerm),
	}, true
}

// EntrepreneurFranchise scores a franchise opportunity for an entrepreneur.
// Candidates whose required investment exceeds the budget are excluded.
func (s *Scorer) EntrepreneurFranchise(ent *model.Entrepreneur, fr *model.FranchiseCompany) (model.MatchResult, bool) {
	w := s.ef

	investment := attrs.Map(fr.Requirements).FloatOr("investment_required", 0)
	if ent.Budget < investment {
		return model.MatchResult{}, false
	}

	score := w.Base

	category := attrs.Map(fr.Requirements).StrOr("category", "")
	if entrepreneurFranchiseAffinity(ent.Type, category) {
		score += w.CategoryAffinity
	}

	if investment > 0 && ent.Budget >= investment*w.HeadroomRatio {
		score += w.HeadroomBonus
	}

	score = clamp01(score)
	if score < w.MinScore {
		return model.MatchResult{}, false
	}

	return model.MatchResult{
		EntityID:   fr.ID,
		EntityName: fr.CompanyName,
		Kind:       "franchise",
		Score:      score,
		Reasoning: fmt.Sprintf("Budget compatible (%.0f), %s type, franchise investment %.0f",
			ent.Budget, ent.Type, investment),
	}, true
}

func entrepreneurPropertyAffinity(t model.EntrepreneurType, propType string) bool {
	switch t {
	case model.TypeInvestor:
		return investorPropertyTypes[propType]
	case model.TypeIdeaOwner:
		return ideaOwnerPropertyTypes[propType]
	case model.TypeBoth:
		return investorPropertyTypes[propType] || ideaOwnerPropertyTypes[propType]
	}
	return false
}

func entrepreneurFranchiseAffinity(t model.EntrepreneurType, category string) bool {
	switch t {
	case model.TypeInvestor:
		return investorFranchiseCategories[category]
	case model.TypeIdeaOwner:
		return ideaOwnerFranchiseCategories[category]
	case model.TypeBoth:
		return investorFranchiseCategories[category] || ideaOwnerFranchiseCategories[category]
	}
	return false
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
