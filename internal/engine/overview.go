package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/venturelink/match-engine/internal/advisor"
	"github.com/venturelink/match-engine/internal/attrs"
	"github.com/venturelink/match-engine/internal/model"
	"github.com/venturelink/match-engine/internal/registry"
	"github.com/venturelink/match-engine/internal/valuation"
)

// OverviewEntry is the per-property slice of the market overview.
type OverviewEntry struct {
	OwnerID             string               `json:"owner_id"`
	OwnerName           string               `json:"owner_name"`
	Insight             *model.MarketInsight `json:"insight,omitempty"`
	EstimatedValue      valuation.Estimate   `json:"estimated_value"`
	EntrepreneurMatches []model.MatchResult  `json:"entrepreneur_matches"`
	Summary             string               `json:"summary,omitempty"`
}

// Overview aggregates market state across every registered property.
type Overview struct {
	Entries []OverviewEntry `json:"entries"`
	Counts  registry.Counts `json:"counts"`
}

// MarketOverview analyzes every listed property concurrently. Entry order
// matches registration order regardless of completion order. The overview
// uses the relaxed affordability floor so weaker-but-plausible matches
// surface in the aggregate view.
func (e *Engine) MarketOverview(ctx context.Context) (Overview, error) {
	owners, err := e.reg.ListPropertyOwners(ctx)
	if err != nil {
		return Overview{}, err
	}
	ents, err := e.reg.ListEntrepreneurs(ctx)
	if err != nil {
		return Overview{}, err
	}
	counts, err := e.reg.Counts(ctx)
	if err != nil {
		return Overview{}, err
	}

	entries := make([]OverviewEntry, len(owners))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.OverviewConcurrency)
	for i := range owners {
		g.Go(func() error {
			entries[i] = e.overviewEntry(gctx, &owners[i], ents)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	return Overview{Entries: entries, Counts: counts}, nil
}

func (e *Engine) overviewEntry(ctx context.Context, owner *model.PropertyOwner, ents []model.Entrepreneur) OverviewEntry {
	entry := OverviewEntry{
		OwnerID:             owner.ID,
		OwnerName:           owner.Name,
		EntrepreneurMatches: []model.MatchResult{},
	}

	var ins model.MarketInsight
	if owner.Location != nil && owner.Location.HasCoordinates() {
		ins, _ = e.analyzeAt(ctx, *owner.Location, "", e.cfg.OverviewBaseRent)
		entry.Insight = &ins
		entry.Summary = advisor.MarketSummary(ins)
	}

	value := e.valuer.Estimate(attrs.Map(owner.Details), ins)
	entry.EstimatedValue = value

	for i := range ents {
		if r, ok := e.scorer.PropertyEntrepreneur(owner, &ents[i], value.Value, e.cfg.OverviewFloor); ok {
			entry.EntrepreneurMatches = append(entry.EntrepreneurMatches, r)
		}
	}
	entry.EntrepreneurMatches = rankMatches(entry.EntrepreneurMatches, e.cfg.TopMatches)

	return entry
}
