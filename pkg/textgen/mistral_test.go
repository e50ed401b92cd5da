package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelink/match-engine/internal/resilience"
)

func TestMistralComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req mistralChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral-small-latest", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "be terse", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Write([]byte(`{"id":"cmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"[]"}}]}`))
	}))
	defer srv.Close()

	c := NewMistral("secret", WithMistralBaseURL(srv.URL))

	got, err := c.Complete(context.Background(), Request{System: "be terse", Prompt: "generate ideas"})
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestMistralMissingKey(t *testing.T) {
	c := NewMistral("")

	_, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	assert.True(t, eris.Is(err, ErrMissingCredential))
}

func TestMistralServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewMistral("secret", WithMistralBaseURL(srv.URL))

	_, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestMistralBadRequestIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewMistral("secret", WithMistralBaseURL(srv.URL))

	_, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestMistralEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cmpl-2","choices":[]}`))
	}))
	defer srv.Close()

	c := NewMistral("secret", WithMistralBaseURL(srv.URL))

	_, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	assert.Error(t, err)
}
