package routers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mockinterview/api/internal/config"
	"mockinterview/api/internal/handlers"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func walkRoutes(t *testing.T, router *chi.Mux) map[string]bool {
	t.Helper()
	paths := map[string]bool{}
	if err := chi.Walk(router, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		paths[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("failed walking routes: %v", err)
	}
	return paths
}

func TestHealthRoutes(t *testing.T) {
	router := chi.NewRouter()
	handler := handlers.NewHealthHandler(nil, nil, nil, &config.Config{Provider: "gemini"})

	HealthRoutes(router, handler)

	for _, path := range []string{"/healthz", "/metrics"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s route not registered correctly, got status %d", path, rec.Code)
		}
	}
}

func TestSessionRoutesRegistersEndpoints(t *testing.T) {
	router := chi.NewRouter()
	SessionRoutes(router, handlers.NewSessionHandler(nil, nil, nil, nil, zap.NewNop()))

	paths := walkRoutes(t, router)
	expected := []string{
		"POST /api/sessions/",
		"GET /api/sessions/",
		"GET /api/topics",
		"GET /api/sessions/{sessionId}/",
		"DELETE /api/sessions/{sessionId}/",
		"POST /api/sessions/{sessionId}/turn",
		"GET /api/sessions/{sessionId}/history",
		"POST /api/sessions/{sessionId}/question",
		"POST /api/sessions/{sessionId}/feedback",
		"PUT /api/sessions/{sessionId}/end",
	}
	for _, route := range expected {
		if !paths[route] {
			t.Fatalf("expected route %s to be registered, have %v", route, paths)
		}
	}
}

func TestTestingRoutes(t *testing.T) {
	router := chi.NewRouter()
	TestingRoutes(router, handlers.NewTestingHandler(nil, zap.NewNop()))

	if !walkRoutes(t, router)["POST /api/testing/clear-database"] {
		t.Fatal("expected clear-database route to be registered")
	}
}
