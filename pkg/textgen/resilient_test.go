package textgen

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelink/match-engine/internal/resilience"
)

type scriptedCompleter struct {
	calls int
	fn    func(call int) (string, error)
}

func (s *scriptedCompleter) Complete(ctx context.Context, req Request) (string, error) {
	s.calls++
	return s.fn(s.calls)
}

func TestResilientRetriesTransientFailures(t *testing.T) {
	inner := &scriptedCompleter{fn: func(call int) (string, error) {
		if call < 3 {
			return "", resilience.NewTransientError(eris.New("overloaded"), 529)
		}
		return "ok", nil
	}}

	r := NewResilient(inner, resilience.RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond})

	got, err := r.Complete(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, inner.calls)
}

func TestResilientDoesNotRetryMissingCredential(t *testing.T) {
	inner := &scriptedCompleter{fn: func(int) (string, error) {
		return "", ErrMissingCredential
	}}

	r := NewResilient(inner, resilience.RetryConfig{MaxAttempts: 3, Backoff: time.Millisecond})

	_, err := r.Complete(context.Background(), Request{Prompt: "hi"})
	assert.True(t, eris.Is(err, ErrMissingCredential))
	assert.Equal(t, 1, inner.calls)
}
