package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spigell/askme/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(zap.NewNop(), Options{APIKey: "secret", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestGenerateContent(t *testing.T) {
	var got completionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, contentType, r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  I enjoy Go.  "}}]}`))
	})

	out, err := c.GenerateContent(context.Background(), "Do you like Go?")
	require.NoError(t, err)
	assert.Equal(t, "I enjoy Go.", out)

	assert.Equal(t, defaultModel, got.Model)
	assert.Equal(t, maxTokens, got.MaxTokens)
	assert.InDelta(t, temperature, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Do you like Go?", got.Messages[0].Content)
	assert.Equal(t, defaultModel, c.Model())
}

func TestGenerateContentBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"insufficient balance"}`, http.StatusPaymentRequired)
	})

	_, err := c.GenerateContent(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
	assert.Contains(t, err.Error(), "insufficient balance")
}

func TestGenerateContentEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.GenerateContent(context.Background(), "hi")
	assert.True(t, errors.Is(err, ai.ErrEmptyResponse), "got %v", err)
}

func TestGenerateContentHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.GenerateContent(ctx, "slow question")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}
