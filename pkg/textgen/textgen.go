// Package textgen abstracts the text-generation providers used for idea
// generation and property analysis.
package textgen

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrMissingCredential is returned when a provider has no API key configured.
// Callers that can degrade (idea generation, advisor analysis) surface this
// to the user instead of retrying.
var ErrMissingCredential = eris.New("textgen: missing API key")

// Request is a single completion request. System may be empty.
type Request struct {
	System      string
	Prompt      string
	Temperature *float64
	MaxTokens   int64
}

// Completer produces a text completion for a request. Implementations wrap
// one concrete provider; resilience is layered on via NewResilient.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
