package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/venturelink/match-engine/internal/resilience"
)

const (
	defaultMistralBaseURL = "https://api.mistral.ai"
	defaultMistralModel   = "mistral-small-latest"
)

// MistralOption configures the Mistral client.
type MistralOption func(*Mistral)

// WithMistralBaseURL overrides the default API base URL.
func WithMistralBaseURL(url string) MistralOption {
	return func(c *Mistral) {
		c.baseURL = url
	}
}

// WithMistralModel overrides the default model.
func WithMistralModel(model string) MistralOption {
	return func(c *Mistral) {
		c.model = model
	}
}

// WithMistralHTTPClient overrides the default http.Client.
func WithMistralHTTPClient(hc *http.Client) MistralOption {
	return func(c *Mistral) {
		c.http = hc
	}
}

// Mistral performs chat completions against the Mistral API. It satisfies
// Completer.
type Mistral struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewMistral creates a Mistral API client.
func NewMistral(apiKey string, opts ...MistralOption) *Mistral {
	c := &Mistral{
		apiKey:  apiKey,
		baseURL: defaultMistralBaseURL,
		model:   defaultMistralModel,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralChatRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	Temperature *float64         `json:"temperature,omitempty"`
	MaxTokens   *int64           `json:"max_tokens,omitempty"`
}

type mistralChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int            `json:"index"`
		Message mistralMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the request to POST /v1/chat/completions and returns the
// first choice's content.
func (c *Mistral) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingCredential
	}

	msgs := make([]mistralMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, mistralMessage{Role: "system", Content: req.System})
	}
	msgs = append(msgs, mistralMessage{Role: "user", Content: req.Prompt})

	chatReq := mistralChatRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = &req.MaxTokens
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", eris.Wrap(err, "mistral: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "mistral: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "mistral: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "mistral: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("mistral: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(err, resp.StatusCode)
		}
		return "", err
	}

	var result mistralChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "mistral: unmarshal response")
	}
	if len(result.Choices) == 0 {
		return "", eris.New("mistral: response contained no choices")
	}

	return result.Choices[0].Message.Content, nil
}
