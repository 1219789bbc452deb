package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/jwt"
	"github.com/coderhuBypassion/BriefBank/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "app-test-secret"

func newTestApp(t *testing.T) *App {
	t.Helper()
	return newTestAppWithRedis(t, "enable: false")
}

func newTestAppWithRedis(t *testing.T, redisYAML string) *App {
	t.Helper()
	cfg, err := config.Parse([]byte(`
env: test
seed: true
database:
  driver: sqlite
redis:
  `+redisYAML+`
auth:
  jwt_secret: `+testSecret+`
paths:
  logs: `+t.TempDir()+`
`), "test")
	require.NoError(t, err)

	a, err := New(nil, cfg, testutil.OpenDB(t))
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func call(t *testing.T, a *App, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	a := newTestApp(t)

	w := call(t, a, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, a, http.MethodGet, "/api/decks?sort=a-z", "")
	require.Equal(t, http.StatusOK, w.Code)
	var decks []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decks))
	assert.Len(t, decks, 5)
	assert.Equal(t, "Airbnb Series A Pitch Deck", decks[0]["title"])

	w = call(t, a, http.MethodGet, "/api/decks/featured", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decks))
	assert.Len(t, decks, 3)

	assert.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/deck/1", "").Code)
	assert.Equal(t, http.StatusNotFound, call(t, a, http.MethodGet, "/api/nowhere", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, call(t, a, http.MethodPut, "/api/decks", "").Code)

	w = call(t, a, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "briefbank_requests_total")
}

func TestAuthenticatedFlow(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, http.StatusUnauthorized, call(t, a, http.MethodGet, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, a, http.MethodPost, "/api/summarize/1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, a, http.MethodGet, "/api/me", "garbage").Code)

	token, err := jwt.Sign(testSecret, "user_app", "app@example.com", time.Hour)
	require.NoError(t, err)

	w := call(t, a, http.MethodGet, "/api/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"clerkId":"user_app"`)

	// Seeded decks 1-3 carry summaries; serving one is free.
	w = call(t, a, http.MethodPost, "/api/summarize/1", token)
	require.Equal(t, http.StatusOK, w.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, true, res["cached"])
	assert.EqualValues(t, 0, res["summariesUsed"])

	// Deck 4 needs extraction, which is not configured here.
	assert.Equal(t, http.StatusBadGateway, call(t, a, http.MethodPost, "/api/summarize/4", token).Code)

	assert.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/deck/2", token).Code)
	assert.Equal(t, http.StatusCreated, call(t, a, http.MethodPost, "/api/deck/2/save", token).Code)
	assert.Equal(t, http.StatusConflict, call(t, a, http.MethodPost, "/api/deck/2/save", token).Code)

	w = call(t, a, http.MethodGet, "/api/recent-views", token)
	require.Equal(t, http.StatusOK, w.Code)
	var recent struct {
		Decks []map[string]any `json:"decks"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recent))
	require.Len(t, recent.Decks, 1)
	assert.EqualValues(t, 2, recent.Decks[0]["id"])
	assert.Equal(t, 1, recent.Count)

	w = call(t, a, http.MethodGet, "/api/me/usage", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"savedDecks":1`)
}

func TestListingCacheWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newTestAppWithRedis(t, "enable: true\n  url: redis://"+mr.Addr())

	w := call(t, a, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":true`)

	first := call(t, a, http.MethodGet, "/api/decks/featured", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "miss", first.Header().Get("x-briefbank-cache"))
	second := call(t, a, http.MethodGet, "/api/decks/featured", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("x-briefbank-cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	token, err := jwt.Sign(testSecret, "user_cache", "cache@example.com", time.Hour)
	require.NoError(t, err)
	authed := call(t, a, http.MethodGet, "/api/decks/featured", token)
	require.Equal(t, http.StatusOK, authed.Code)
	assert.Empty(t, authed.Header().Get("x-briefbank-cache"))

	// Deck detail is never cached.
	assert.Empty(t, call(t, a, http.MethodGet, "/api/deck/1", "").Header().Get("x-briefbank-cache"))
}

func TestSummaryLockOutlivesPipeline(t *testing.T) {
	cfg, err := config.Parse([]byte("ai:\n  timeout: 4m\nextraction:\n  timeout: 3m\n"), "test")
	require.NoError(t, err)
	pipeline, lockTTL := summaryTimings(cfg)
	assert.Equal(t, 7*time.Minute, pipeline)
	assert.Greater(t, lockTTL, pipeline)

	cfg.AI.Timeout, cfg.Extraction.Timeout = 0, 0
	pipeline, lockTTL = summaryTimings(cfg)
	assert.Equal(t, fallbackSummaryTimeout, pipeline)
	assert.Equal(t, pipeline+lockMargin, lockTTL)
}

func TestMatchOriginPattern(t *testing.T) {
	tests := []struct {
		pattern, origin string
		want            bool
	}{
		{"briefbank.app", "https://briefbank.app", true},
		{"*.briefbank.app", "https://www.briefbank.app", true},
		{"*.briefbank.app", "https://briefbank.app.evil.com", false},
		{"localhost:*", "http://localhost:5173", true},
		{"localhost:*", "http://localhost", false},
		{"briefbank.app", "https://other.app", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchOriginPattern(tt.pattern, extractOriginHost(tt.origin)), tt.pattern+" "+tt.origin)
	}
}
