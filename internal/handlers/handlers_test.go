package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mockinterview/api/internal/interviewer"
	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/middleware"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/prompts"
	"mockinterview/api/internal/repositories"
	"mockinterview/api/internal/testhelpers"
)

type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn == nil {
		return nil
	}
	return m.pingFn(ctx)
}

type mockTemplates struct {
	templates []string
}

func (m *mockTemplates) GetTemplates() []string {
	return m.templates
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.SessionEndedEvent
	err    error
}

func (p *recordingPublisher) PublishSessionEnded(_ context.Context, event models.SessionEndedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// failingStore fails every call with a storage error.
type failingStore struct{}

var errStorage = errors.New("connection refused")

func (failingStore) CreateSession(context.Context, string, *models.SessionMetadata) (*models.InterviewSession, error) {
	return nil, errStorage
}
func (failingStore) GetSession(context.Context, string) (*models.InterviewSession, error) {
	return nil, errStorage
}
func (failingStore) GetAllSessions(context.Context, models.SessionFilter) ([]models.InterviewSession, error) {
	return nil, errStorage
}
func (failingStore) EndSession(context.Context, string, repositories.SessionUpdate) (*models.InterviewSession, error) {
	return nil, errStorage
}
func (failingStore) GetAllTopics(context.Context) ([]string, error) { return nil, errStorage }
func (failingStore) DeleteSession(context.Context, string) error     { return errStorage }
func (failingStore) ClearDatabase(context.Context) error             { return errStorage }

type testEnv struct {
	router    *chi.Mux
	sessions  *repositories.SessionRepository
	turns     *repositories.TurnRepository
	provider  *llm.MockProvider
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T, responses ...llm.MockResponse) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)

	env := &testEnv{
		sessions:  repositories.NewSessionRepository(db),
		turns:     repositories.NewTurnRepository(db),
		provider:  llm.NewMockProvider(responses...),
		publisher: &recordingPublisher{},
	}
	ai := interviewer.NewService(env.provider, pm, zap.NewNop(), time.Second)
	handler := NewSessionHandler(env.sessions, env.turns, ai, env.publisher, zap.NewNop())
	env.router = sessionRouter(handler)
	return env
}

func sessionRouter(h *SessionHandler) *chi.Mux {
	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.CreateSessionRequest]()).Post("/api/sessions", h.CreateSessionHandler)
	r.Get("/api/sessions", h.ListSessionsHandler)
	r.Get("/api/topics", h.ListTopicsHandler)
	r.Get("/api/sessions/{sessionId}", h.GetSessionHandler)
	r.Delete("/api/sessions/{sessionId}", h.DeleteSessionHandler)
	r.Post("/api/sessions/{sessionId}/turn", h.CreateTurnHandler)
	r.Get("/api/sessions/{sessionId}/history", h.GetHistoryHandler)
	r.Post("/api/sessions/{sessionId}/question", h.QuestionHandler)
	r.With(middleware.ValidateRequest[*models.FeedbackRequest]()).Post("/api/sessions/{sessionId}/feedback", h.FeedbackHandler)
	r.Put("/api/sessions/{sessionId}/end", h.EndSessionHandler)
	return r
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, env.router, method, path, body)
}

func serve(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

func (env *testEnv) createSession(t *testing.T, topic string, metadata map[string]any) string {
	t.Helper()
	body := map[string]any{"topic": topic}
	if metadata != nil {
		body["metadata"] = metadata
	}
	rec := env.do(t, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.CreateSessionResponse](t, rec).SessionID
}
