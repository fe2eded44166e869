package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mockinterview/api/internal/config"
	"mockinterview/api/internal/events"
	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/prompts"
	"mockinterview/api/internal/testhelpers"

	"go.uber.org/zap"
)

func testDeps(t *testing.T) dependencies {
	t.Helper()
	pm, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("prompt manager: %v", err)
	}
	return dependencies{
		db:            testhelpers.SetupTestDB(t),
		provider:      llm.NewMockProvider(),
		promptManager: pm,
		publisher:     events.NoopPublisher{},
	}
}

func testConfig(env string) *config.Config {
	return &config.Config{
		Environment:    env,
		Provider:       "gemini",
		AITimeout:      time.Second,
		AllowedOrigins: []string{"*"},
	}
}

func do(router http.Handler, method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewRouterServesAPI(t *testing.T) {
	router := newRouter(testConfig("development"), testDeps(t), zap.NewNop())

	if rec := do(router, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected /healthz to be registered, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/readyz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected /readyz to be ready, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := do(router, http.MethodPost, "/api/sessions", `{"topic":"Go"}`, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "sessionId") {
		t.Fatalf("expected session to be created, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(router, http.MethodGet, "/api/sessions", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected session list, got %d", rec.Code)
	}

	if rec := do(router, http.MethodPost, "/api/testing/clear-database", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected clear-database in development, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/metrics", "", nil); !strings.Contains(rec.Body.String(), "mockinterview_http_requests_total") {
		t.Fatal("expected request metrics to be exported")
	}
}

func TestClearDatabaseHiddenOutsideDevelopment(t *testing.T) {
	router := newRouter(testConfig("production"), testDeps(t), zap.NewNop())

	rec := do(router, http.MethodPost, "/api/testing/clear-database", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected clear-database to be absent in production, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	router := newRouter(testConfig("production"), testDeps(t), zap.NewNop())

	rec := do(router, http.MethodOptions, "/api/sessions", "", map[string]string{
		"Origin":                        "http://example.com",
		"Access-Control-Request-Method": "POST",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected preflight 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}

	if rec := do(router, http.MethodOptions, "/api/topics", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected bare OPTIONS 200, got %d", rec.Code)
	}
}

func TestNewProviderFallsBackToDisabled(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	provider := newProvider("gemini", zap.NewNop())
	if _, ok := provider.(*llm.DisabledProvider); !ok {
		t.Fatalf("expected disabled provider without an API key, got %T", provider)
	}

	provider = newProvider("unknown", zap.NewNop())
	if provider.GetProviderName() != "unknown" {
		t.Fatalf("unexpected provider name %s", provider.GetProviderName())
	}
}

func TestNewPublisher(t *testing.T) {
	if _, ok := newPublisher(&config.Config{}, zap.NewNop()).(events.NoopPublisher); !ok {
		t.Fatal("expected noop publisher without REDIS_ADDR")
	}

	publisher := newPublisher(&config.Config{RedisAddr: "localhost:6379", EventsChannel: "c"}, zap.NewNop())
	defer publisher.Close()
	if _, ok := publisher.(*events.RedisPublisher); !ok {
		t.Fatalf("expected redis publisher, got %T", publisher)
	}
}
