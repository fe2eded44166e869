package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Get("/api/sessions/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/sessions/{sessionId}", "404"))

	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/sessions/{sessionId}", "404"))
	if after-before != 2 {
		t.Fatalf("expected 2 requests recorded under one route label, got %v", after-before)
	}
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(aiFallbacks.WithLabelValues("feedback"))
	RecordFallback("feedback")
	if got := testutil.ToFloat64(aiFallbacks.WithLabelValues("feedback")); got != before+1 {
		t.Fatalf("expected fallback counter to increase, got %v", got)
	}

	before = testutil.ToFloat64(sessionsEnded.WithLabelValues("swept"))
	RecordSessionEnded("swept")
	if got := testutil.ToFloat64(sessionsEnded.WithLabelValues("swept")); got != before+1 {
		t.Fatalf("expected sessions ended counter to increase, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordFallback("question")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "mockinterview_ai_fallbacks_total") {
		t.Fatalf("expected fallback metric in exposition output")
	}
}
