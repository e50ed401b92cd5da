package textgen

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// Anthropic is a Completer backed by the official anthropic-sdk-go.
type Anthropic struct {
	client    sdk.Client
	model     string
	hasKey    bool
	maxTokens int64
}

// NewAnthropic creates an Anthropic-backed completer. Model and maxTokens
// fall back to defaults when zero-valued.
func NewAnthropic(apiKey, model string, maxTokens int64) *Anthropic {
	if model == "" {
		model = defaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Anthropic{
		client:    sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		hasKey:    apiKey != "",
		maxTokens: maxTokens,
	}
}

// Complete sends a single-turn message and concatenates the text blocks of
// the reply.
func (c *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	if !c.hasKey {
		return "", ErrMissingCredential
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = req.MaxTokens
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = sdk.Float(*req.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	var sb strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}
