package ideas

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelink/match-engine/internal/insight"
	"github.com/venturelink/match-engine/internal/model"
	"github.com/venturelink/match-engine/pkg/textgen"
)

type fixedCompleter struct {
	reply  string
	err    error
	prompt string
}

func (f *fixedCompleter) Complete(ctx context.Context, req textgen.Request) (string, error) {
	f.prompt = req.Prompt
	return f.reply, f.err
}

func TestGenerateFiltersByAffordability(t *testing.T) {
	c := &fixedCompleter{reply: `[
		{"concept":"Cloud kitchen","startup_cost":400000,"market_potential":"High","risk_level":"Medium","competition_level":"Medium","is_entrepreneur_idea":true},
		{"concept":"Boutique gym","startup_cost":700000,"market_potential":"High","risk_level":"Low","competition_level":"Low"},
		{"concept":"Cafe","startup_cost":650000,"market_potential":"Medium","risk_level":"Medium","competition_level":"High"},
		{"concept":"Tuition center","startup_cost":450000,"market_potential":"Medium","risk_level":"Low","competition_level":"Low"}
	]`}
	g := NewGenerator(c, DefaultConfig())

	got, err := g.Generate(context.Background(), PromptInput{Budget: 500000})
	require.NoError(t, err)

	// Ceiling is 1.2 * 500000 = 600000.
	require.Len(t, got, 2)
	assert.Equal(t, "Cloud kitchen", got[0].Concept)
	assert.True(t, got[0].FromSeed)
	assert.Equal(t, "Tuition center", got[1].Concept)
	assert.False(t, got[1].FromSeed)
}

func TestGenerateCoercesCurrencyStrings(t *testing.T) {
	c := &fixedCompleter{reply: `[
		{"concept":"Juice bar","startup_cost":"₹4,50,000","market_potential":"High","risk_level":"Low","competition_level":"Low"}
	]`}
	g := NewGenerator(c, DefaultConfig())

	got, err := g.Generate(context.Background(), PromptInput{Budget: 500000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 450000.0, got[0].StartupCost)
}

func TestGenerateRecomputesConfidence(t *testing.T) {
	c := &fixedCompleter{reply: `[
		{"concept":"Pharmacy","startup_cost":300000,"market_potential":"High","risk_level":"Low","competition_level":"Low","location_advantage":"Excellent","confidence_score":10}
	]`}
	g := NewGenerator(c, DefaultConfig())

	got, err := g.Generate(context.Background(), PromptInput{Budget: 500000})
	require.NoError(t, err)
	require.Len(t, got, 1)

	// 70 + 10 + 10 + 10 + 10, capped at 95; the reported 10 is discarded.
	assert.Equal(t, 95, got[0].Confidence)
}

func TestGenerateToleratesRepairableJSON(t *testing.T) {
	c := &fixedCompleter{reply: "```json\n[{concept: 'Food truck', startup_cost: 350000, market_potential: High, risk_level: Medium, competition_level: Low,}]\n```"}
	g := NewGenerator(c, DefaultConfig())

	got, err := g.Generate(context.Background(), PromptInput{Budget: 500000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Food truck", got[0].Concept)
	assert.Equal(t, "High", got[0].MarketPotential)
}

func TestGenerateDegradesOnUnparseableReply(t *testing.T) {
	c := &fixedCompleter{reply: "I'm sorry, I can't produce ideas right now."}
	g := NewGenerator(c, DefaultConfig())

	got, err := g.Generate(context.Background(), PromptInput{Budget: 500000})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGenerateSurfacesMissingCredential(t *testing.T) {
	c := &fixedCompleter{err: textgen.ErrMissingCredential}
	g := NewGenerator(c, DefaultConfig())

	_, err := g.Generate(context.Background(), PromptInput{Budget: 500000})
	assert.True(t, eris.Is(err, textgen.ErrMissingCredential))
}

func TestGenerateTruncatesToConfiguredCount(t *testing.T) {
	c := &fixedCompleter{reply: `[
		{"concept":"a","startup_cost":1},
		{"concept":"b","startup_cost":2},
		{"concept":"c","startup_cost":3},
		{"concept":"d","startup_cost":4},
		{"concept":"e","startup_cost":5},
		{"concept":"f","startup_cost":6}
	]`}
	g := NewGenerator(c, DefaultConfig())

	got, err := g.Generate(context.Background(), PromptInput{Budget: 500000})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestPromptMentionsSeedDerivation(t *testing.T) {
	c := &fixedCompleter{reply: "[]"}
	g := NewGenerator(c, DefaultConfig())

	_, err := g.Generate(context.Background(), PromptInput{
		Budget:   800000,
		SeedIdea: "organic grocery delivery",
		Location: model.Location{City: "Pune"},
		Profile:  insight.CompetitionProfile{TotalBusinesses: 12, Saturation: insight.SaturationLow},
	})
	require.NoError(t, err)

	assert.Contains(t, c.prompt, "organic grocery delivery")
	assert.Contains(t, c.prompt, "is_entrepreneur_idea")
	assert.Contains(t, c.prompt, "exactly 4 business ideas")
	assert.Contains(t, c.prompt, "Pune")
}
