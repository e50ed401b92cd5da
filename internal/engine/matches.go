package engine

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/venturelink/match-engine/internal/advisor"
	"github.com/venturelink/match-engine/internal/attrs"
	"github.com/venturelink/match-engine/internal/ideas"
	"github.com/venturelink/match-engine/internal/insight"
	"github.com/venturelink/match-engine/internal/model"
	"github.com/venturelink/match-engine/internal/valuation"
)

// PropertyReport is the full recommendation set for one property listing.
type PropertyReport struct {
	Owner               model.PropertyOwner       `json:"owner"`
	Insight             *model.MarketInsight      `json:"insight,omitempty"`
	Advice              *advisor.Analysis         `json:"advice,omitempty"`
	EntrepreneurMatches []model.MatchResult       `json:"entrepreneur_matches"`
	FranchiseMatches    []model.MatchResult       `json:"franchise_matches"`
	SuggestedPrice      *valuation.PriceSuggestion `json:"suggested_price,omitempty"`
}

// FranchiseReport lists properties compatible with a franchise.
type FranchiseReport struct {
	Franchise       model.FranchiseCompany `json:"franchise"`
	PropertyMatches []model.MatchResult    `json:"property_matches"`
}

// EntrepreneurReport is the full opportunity set for one entrepreneur.
type EntrepreneurReport struct {
	Entrepreneur     model.Entrepreneur   `json:"entrepreneur"`
	Insight          *model.MarketInsight `json:"insight,omitempty"`
	PropertyMatches  []model.MatchResult  `json:"property_matches"`
	FranchiseMatches []model.MatchResult  `json:"franchise_matches"`
	Ideas            []model.BusinessIdea `json:"business_ideas"`
}

// rankMatches orders a match list by score descending and keeps the top n.
// The sort is stable, so equal scores retain registration order.
func rankMatches(rs []model.MatchResult, n int) []model.MatchResult {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Score > rs[j].Score })
	if n > 0 && len(rs) > n {
		rs = rs[:n]
	}
	return rs
}

// PropertyRecommendations builds the full report for a listing: fresh market
// insight, advisory analysis, qualified entrepreneurs and franchises, and a
// suggested price.
func (e *Engine) PropertyRecommendations(ctx context.Context, ownerID string) (PropertyReport, error) {
	owner, err := e.reg.GetPropertyOwner(ctx, ownerID)
	if err != nil {
		return PropertyReport{}, err
	}

	report := PropertyReport{
		Owner:               *owner,
		EntrepreneurMatches: []model.MatchResult{},
		FranchiseMatches:    []model.MatchResult{},
	}

	var ins model.MarketInsight
	if owner.Location != nil && owner.Location.HasCoordinates() {
		ins, _ = e.analyzeAt(ctx, *owner.Location, "", e.cfg.OverviewBaseRent)
		report.Insight = &ins
		if e.advisor != nil {
			advice := e.advisor.Analyze(ctx, *owner, ins)
			report.Advice = &advice
		}
	}

	details := attrs.Map(owner.Details)
	value := e.valuer.Estimate(details, ins)

	ents, err := e.reg.ListEntrepreneurs(ctx)
	if err != nil {
		return PropertyReport{}, err
	}
	for i := range ents {
		if r, ok := e.scorer.PropertyEntrepreneur(owner, &ents[i], value.Value, e.cfg.AffordabilityFloor); ok {
			report.EntrepreneurMatches = append(report.EntrepreneurMatches, r)
		}
	}

	frs, err := e.reg.ListFranchises(ctx)
	if err != nil {
		return PropertyReport{}, err
	}
	for i := range frs {
		if r, ok := e.scorer.PropertyFranchise(owner, &frs[i]); ok {
			report.FranchiseMatches = append(report.FranchiseMatches, r)
		}
	}

	report.EntrepreneurMatches = rankMatches(report.EntrepreneurMatches, e.cfg.TopMatches)
	report.FranchiseMatches = rankMatches(report.FranchiseMatches, e.cfg.TopMatches)

	if value.Method != valuation.MethodNone {
		sp := e.valuer.SuggestPrice(details, ins)
		report.SuggestedPrice = &sp
	}

	return report, nil
}

// FranchiseMatches lists registered properties that fit a franchise's
// requirements. Results carry the property's identity.
func (e *Engine) FranchiseMatches(ctx context.Context, franchiseID string) (FranchiseReport, error) {
	fr, err := e.reg.GetFranchise(ctx, franchiseID)
	if err != nil {
		return FranchiseReport{}, err
	}

	report := FranchiseReport{Franchise: *fr, PropertyMatches: []model.MatchResult{}}

	owners, err := e.reg.ListPropertyOwners(ctx)
	if err != nil {
		return FranchiseReport{}, err
	}
	for i := range owners {
		if r, ok := e.scorer.PropertyFranchise(&owners[i], fr); ok {
			report.PropertyMatches = append(report.PropertyMatches, model.MatchResult{
				EntityID:   owners[i].ID,
				EntityName: owners[i].Name,
				Kind:       "property_owner",
				Score:      r.Score,
				Reasoning:  r.Reasoning,
			})
		}
	}

	report.PropertyMatches = rankMatches(report.PropertyMatches, e.cfg.TopMatches)
	return report, nil
}

// EntrepreneurOpportunities builds the full opportunity report: compatible
// properties, affordable franchises, and generated business ideas. Idea
// generation failures degrade to an empty list; the matches still stand.
func (e *Engine) EntrepreneurOpportunities(ctx context.Context, entrepreneurID string) (EntrepreneurReport, error) {
	ent, err := e.reg.GetEntrepreneur(ctx, entrepreneurID)
	if err != nil {
		return EntrepreneurReport{}, err
	}

	report := EntrepreneurReport{
		Entrepreneur:     *ent,
		PropertyMatches:  []model.MatchResult{},
		FranchiseMatches: []model.MatchResult{},
		Ideas:            []model.BusinessIdea{},
	}

	var ins model.MarketInsight
	var businesses []model.NearbyBusiness
	located := ent.Location != nil && ent.Location.HasCoordinates()
	if located {
		ins, businesses = e.analyzeAt(ctx, *ent.Location, "", e.cfg.OverviewBaseRent)
		report.Insight = &ins
	}

	owners, err := e.reg.ListPropertyOwners(ctx)
	if err != nil {
		return EntrepreneurReport{}, err
	}
	for i := range owners {
		details := attrs.Map(owners[i].Details)
		// The entrepreneur's market must not scale another property's
		// value; candidate valuation carries no market multipliers.
		value := e.valuer.Estimate(details, model.MarketInsight{})
		if r, ok := e.scorer.PropertyEntrepreneur(&owners[i], ent, value.Value, e.cfg.AffordabilityFloor); ok {
			report.PropertyMatches = append(report.PropertyMatches, model.MatchResult{
				EntityID:   owners[i].ID,
				EntityName: owners[i].Name,
				Kind:       "property_owner",
				Score:      r.Score,
				Reasoning:  r.Reasoning,
			})
		}
	}

	frs, err := e.reg.ListFranchises(ctx)
	if err != nil {
		return EntrepreneurReport{}, err
	}
	for i := range frs {
		if r, ok := e.scorer.EntrepreneurFranchise(ent, &frs[i]); ok {
			report.FranchiseMatches = append(report.FranchiseMatches, r)
		}
	}

	report.PropertyMatches = rankMatches(report.PropertyMatches, e.cfg.TopMatches)
	report.FranchiseMatches = rankMatches(report.FranchiseMatches, e.cfg.TopMatches)

	if e.ideaGen != nil && located {
		generated, err := e.ideaGen.Generate(ctx, ideas.PromptInput{
			Budget:       ent.Budget,
			SeedIdea:     ent.BusinessIdea,
			Location:     *ent.Location,
			Insight:      ins,
			Profile:      insight.Profile(businesses),
			NearbySample: businesses,
		})
		if err != nil {
			zap.L().Warn("idea generation unavailable",
				zap.String("entrepreneur_id", ent.ID),
				zap.Error(err),
			)
		} else {
			report.Ideas = generated
		}
	}

	return report, nil
}
