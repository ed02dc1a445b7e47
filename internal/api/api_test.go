package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/askme/internal/learned"
	"github.com/spigell/askme/internal/profile"
	"github.com/spigell/askme/internal/resolver"
	"github.com/spigell/askme/internal/storage"
)

const testToken = "s3cret"

func testProfile() *profile.Profile {
	return &profile.Profile{
		Identity: profile.Identity{Name: "Jane Doe"},
		Skills:   profile.Skills{Languages: []string{"Python", "Go"}},
	}
}

func newTestResolver(t *testing.T, withStore bool) *resolver.Resolver {
	t.Helper()

	var cache *learned.Cache
	if withStore {
		store, err := storage.OpenSQLite(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		cache = learned.NewCache(store, zap.NewNop())
	} else {
		cache = learned.NewCache(nil, zap.NewNop())
	}
	require.NoError(t, cache.Reload(context.Background()))

	return resolver.New(cache, testProfile(), nil, zap.NewNop(), resolver.Config{})
}

func newTestHandler(t *testing.T, withStore bool, token string) (http.Handler, *resolver.Resolver) {
	t.Helper()
	r := newTestResolver(t, withStore)
	return NewHandler(Deps{Resolver: r, Logger: zap.NewNop(), AdminToken: token, Version: "test"}), r
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, true, "")
	rr := do(t, h, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var body healthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test", body.Version)
	assert.True(t, body.Store)
	assert.Len(t, body.Tiers, 5)
}

func TestChat(t *testing.T) {
	h, _ := newTestHandler(t, true, "")
	rr := do(t, h, http.MethodPost, "/chat", `{"question":"What are your skills?"}`, "")

	require.Equal(t, http.StatusOK, rr.Code)
	var body chatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, resolver.TierProfile, body.Tier)
	assert.Contains(t, body.Response, "Python")
	assert.False(t, body.AIGenerated)
}

func TestChatFallbackWithoutProvider(t *testing.T) {
	h, r := newTestHandler(t, true, "")
	rr := do(t, h, http.MethodPost, "/chat", `{"question":"asdkjalksd random gibberish"}`, "")

	require.Equal(t, http.StatusOK, rr.Code)
	var body chatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, resolver.TierFallback, body.Tier)
	assert.Contains(t, body.Response, "asdkjalksd random gibberish")
	assert.Equal(t, 0, r.Cache().Len())
}

func TestChatInvalidBody(t *testing.T) {
	h, _ := newTestHandler(t, true, "")
	rr := do(t, h, http.MethodPost, "/chat", "{invalid", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t, true, "")
	rr := do(t, h, http.MethodOptions, "/chat", "", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	h, _ := newTestHandler(t, true, "")

	rr := do(t, h, http.MethodGet, "/health", "", "")
	_, err := uuid.Parse(rr.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, id)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, id, rr.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.NotEqual(t, "not-a-uuid", rr.Header().Get(requestIDHeader))
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	h, _ := newTestHandler(t, true, "")
	rr := do(t, h, http.MethodGet, "/admin/stats", "", "anything")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	h, _ := newTestHandler(t, true, testToken)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/admin/stats", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/admin/stats", "", "wrong").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/admin/stats", "", testToken).Code)
}

func TestAdminWithoutStore(t *testing.T) {
	h, _ := newTestHandler(t, false, testToken)

	for _, path := range []string{"/admin/answers", "/admin/stats"} {
		rr := do(t, h, http.MethodGet, path, "", testToken)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code, path)
	}
	rr := do(t, h, http.MethodPost, "/admin/answers", `{"question":"q","answer":"a"}`, testToken)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestAdminAnswerLifecycle(t *testing.T) {
	h, r := newTestHandler(t, true, testToken)

	rr := do(t, h, http.MethodPost, "/admin/answers", `{"question":"What is your favourite editor?","answer":"Neovim"}`, testToken)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created learned.Answer
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, "what_is_your_favourite_editor_", created.ID)
	assert.False(t, created.AIGenerated)

	chat := do(t, h, http.MethodPost, "/chat", `{"question":"What is your favourite editor?"}`, "")
	var answer chatResponse
	require.NoError(t, json.NewDecoder(chat.Body).Decode(&answer))
	assert.Equal(t, resolver.TierLearned, answer.Tier)
	assert.Equal(t, "Neovim", answer.Response)

	rr = do(t, h, http.MethodPut, "/admin/answers/"+created.ID, `{"question":"What is your favourite editor?","answer":"Neovim, with a few plugins"}`, testToken)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated learned.Answer
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
	assert.True(t, updated.Reviewed)
	assert.Equal(t, "Neovim, with a few plugins", updated.Answer)

	rr = do(t, h, http.MethodGet, "/admin/answers/"+created.ID, "", testToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/admin/answers", "", testToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []learned.Answer
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&all))
	assert.Len(t, all, 1)

	rr = do(t, h, http.MethodGet, "/admin/stats", "", testToken)
	var stats learned.Stats
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&stats))
	assert.Equal(t, learned.Stats{Total: 1, Manual: 1, Reviewed: 1}, stats)

	rr = do(t, h, http.MethodDelete, "/admin/answers/"+created.ID, "", testToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, r.Cache().Len())

	rr = do(t, h, http.MethodGet, "/admin/answers/"+created.ID, "", testToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(t, h, http.MethodDelete, "/admin/answers/"+created.ID, "", testToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(t, h, http.MethodPut, "/admin/answers/missing", `{"question":"q","answer":"a"}`, testToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminRejectsBlankAnswer(t *testing.T) {
	h, _ := newTestHandler(t, true, testToken)

	rr := do(t, h, http.MethodPost, "/admin/answers", `{"question":"  ","answer":"x"}`, testToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/admin/answers", `not json`, testToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminReload(t *testing.T) {
	h, _ := newTestHandler(t, true, testToken)

	rr := do(t, h, http.MethodPost, "/admin/reload", "", testToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"loaded":0}`, rr.Body.String())
}

func TestWidgetAndEmbed(t *testing.T) {
	h, _ := newTestHandler(t, true, "")

	rr := do(t, h, http.MethodGet, "/widget", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "fetch('chat'")

	rr = do(t, h, http.MethodGet, "/embed.js", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/javascript", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "widget.src = 'http://example.com/widget'")

	req := httptest.NewRequest(http.MethodGet, "/embed.js", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "me.example.org")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Contains(t, rr.Body.String(), "widget.src = 'https://me.example.org/widget'")

	req = httptest.NewRequest(http.MethodGet, "/embed.js", nil)
	req.Header.Set("X-Forwarded-Host", "evil';alert(1);'")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.NotContains(t, rr.Body.String(), "alert")
}
