package geminiservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"health-assistant/internal/llm"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := zerolog.Nop()
	return NewClient(Config{APIKey: "k", Model: "gemini-test", BaseURL: srv.URL + "/"}, &logger)
}

func TestGenerateSendsPromptAndJoinsParts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		var payload GeminiPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Contents, 1)
		assert.Equal(t, "how am I?", payload.Contents[0].Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Eat "},{"text":"greens."}]},"finishReason":"STOP"}]}`))
	})

	out, err := c.Generate(context.Background(), "how am I?")
	require.NoError(t, err)
	assert.Equal(t, "Eat greens.", out)
}

func TestGenerateNoCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, llm.ErrNoContent)
}

func TestGenerateBlockedPrompt(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, llm.ErrNoContent)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGenerateEmptyPartsWithFinishReason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))
	})

	_, err := c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, llm.ErrNoContent)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGenerateNon200IsAPIError(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	_, err := c.Generate(context.Background(), "p")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "quota exceeded")
	assert.Equal(t, 1, calls, "no retries")
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	c := NewClient(Config{}, nil)
	_, err := c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Generate(ctx, "p")
	require.Error(t, err)
	assert.NotErrorIs(t, err, llm.ErrNoContent)
}

func TestGenerateTransportErrorOmitsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	deadURL := srv.URL
	srv.Close()

	c := NewClient(Config{APIKey: "SECRET-KEY-123", BaseURL: deadURL, Timeout: time.Second}, nil)
	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"}, nil)
	assert.Equal(t, DefaultModel, c.cfg.Model)
	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, requestTimeout, c.httpClient.Timeout)
}
