package ideas

import (
	"context"

	"go.uber.org/zap"

	"github.com/venturelink/match-engine/internal/attrs"
	"github.com/venturelink/match-engine/internal/extract"
	"github.com/venturelink/match-engine/internal/model"
	"github.com/venturelink/match-engine/pkg/textgen"
)

// Config tunes the generator.
type Config struct {
	// Count is how many ideas to request and return. Default 4.
	Count int

	// MaxBudgetFactor drops ideas whose startup cost exceeds this multiple
	// of the entrepreneur's budget. Default 1.2.
	MaxBudgetFactor float64
}

// DefaultConfig returns the standard generator settings.
func DefaultConfig() Config {
	return Config{Count: 4, MaxBudgetFactor: 1.2}
}

// Generator produces business ideas via a text-generation provider.
type Generator struct {
	completer textgen.Completer
	cfg       Config
}

// NewGenerator creates a generator. Zero-valued config fields fall back to
// defaults.
func NewGenerator(completer textgen.Completer, cfg Config) *Generator {
	if cfg.Count <= 0 {
		cfg.Count = 4
	}
	if cfg.MaxBudgetFactor <= 0 {
		cfg.MaxBudgetFactor = 1.2
	}
	return &Generator{completer: completer, cfg: cfg}
}

// rawIdea tolerates the loose types generative output produces; costs arrive
// as numbers or currency strings, and scores sometimes as floats.
type rawIdea struct {
	Concept              string  `json:"concept"`
	StartupCost          any     `json:"startup_cost"`
	MarketPotential      string  `json:"market_potential"`
	RiskLevel            string  `json:"risk_level"`
	Competition          string  `json:"competition_level"`
	MarketSaturation     string  `json:"market_saturation"`
	LocationAdvantage    string  `json:"location_advantage"`
	CompetitiveAdvantage string  `json:"competitive_advantages"`
	Confidence           float64 `json:"confidence_score"`
	FromSeed             bool    `json:"is_entrepreneur_idea"`
}

// Generate asks the provider for ideas and post-processes the reply: costs
// are coerced to numbers, confidence is recomputed locally, ideas beyond the
// affordability ceiling are dropped, and the list is truncated to the
// configured count. An unparseable reply degrades to an empty list; a missing
// credential is a real error.
func (g *Generator) Generate(ctx context.Context, in PromptInput) ([]model.BusinessIdea, error) {
	in.Count = g.cfg.Count

	reply, err := g.completer.Complete(ctx, textgen.Request{Prompt: BuildPrompt(in)})
	if err != nil {
		return nil, err
	}

	var raw []rawIdea
	if err := extract.Decode(reply, extract.Array, &raw); err != nil {
		zap.L().Warn("idea generation reply was not parseable, returning no ideas",
			zap.Int("reply_len", len(reply)),
			zap.Error(err),
		)
		return []model.BusinessIdea{}, nil
	}

	ceiling := in.Budget * g.cfg.MaxBudgetFactor
	out := make([]model.BusinessIdea, 0, g.cfg.Count)
	for _, r := range raw {
		cost, ok := attrs.CoerceFloat(r.StartupCost)
		if !ok {
			zap.L().Debug("dropping idea with unusable startup cost", zap.String("concept", r.Concept))
			continue
		}
		if ceiling > 0 && cost > ceiling {
			continue
		}

		idea := model.BusinessIdea{
			Concept:              r.Concept,
			StartupCost:          cost,
			MarketPotential:      r.MarketPotential,
			RiskLevel:            r.RiskLevel,
			Competition:          r.Competition,
			MarketSaturation:     r.MarketSaturation,
			LocationAdvantage:    r.LocationAdvantage,
			CompetitiveAdvantage: r.CompetitiveAdvantage,
			FromSeed:             r.FromSeed,
		}
		idea.Confidence = Score(idea)

		out = append(out, idea)
		if len(out) >= g.cfg.Count {
			break
		}
	}

	return out, nil
}
