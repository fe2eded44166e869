package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mockinterview/api/internal/events"
	"mockinterview/api/internal/interviewer"
	"mockinterview/api/internal/metrics"
	"mockinterview/api/internal/middleware"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/repositories"
	"mockinterview/api/internal/utils"
)

type SessionHandler struct {
	sessions    SessionStore
	turns       TurnStore
	interviewer Interviewer
	publisher   events.Publisher
	logger      *zap.Logger
}

func NewSessionHandler(sessions SessionStore, turns TurnStore, ai Interviewer, publisher events.Publisher, logger *zap.Logger) *SessionHandler {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &SessionHandler{
		sessions:    sessions,
		turns:       turns,
		interviewer: ai,
		publisher:   publisher,
		logger:      logger,
	}
}

func (h *SessionHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateSessionRequest](r)

	session, err := h.sessions.CreateSession(r.Context(), req.Topic, req.Metadata)
	if err != nil {
		h.internalError(w, "Failed to create session", err, "")
		return
	}

	h.logger.Info("Session created", zap.String("session_id", session.ID), zap.String("topic", session.Topic))
	utils.JSON(w, http.StatusOK, models.CreateSessionResponse{SessionID: session.ID})
}

// CreateTurnHandler records one turn. The session is checked before the body so an unknown id is always 404.
func (h *SessionHandler) CreateTurnHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if _, ok := h.loadSession(w, r, sessionID); !ok {
		return
	}

	req, errResp := middleware.Bind[*models.CreateTurnRequest](r)
	if errResp != nil {
		utils.JSON(w, http.StatusBadRequest, *errResp)
		return
	}

	turnNumber := 0
	if req.TurnNumber != nil {
		turnNumber = *req.TurnNumber
	} else {
		next, err := h.turns.NextTurnNumber(r.Context(), sessionID)
		if err != nil {
			h.internalError(w, "Failed to create turn", err, sessionID)
			return
		}
		turnNumber = next
	}

	turn, err := h.turns.CreateTurn(r.Context(), &models.ConversationTurn{
		SessionID:       sessionID,
		TurnNumber:      turnNumber,
		Speaker:         req.Speaker,
		TextContent:     req.TextContent,
		FeedbackContent: req.FeedbackContent,
		Metadata:        req.Metadata,
	})
	if err != nil {
		h.internalError(w, "Failed to create turn", err, sessionID)
		return
	}

	utils.JSON(w, http.StatusOK, models.CreateTurnResponse{Success: true, TurnID: turn.ID})
}

func (h *SessionHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.SessionFilter{Topic: query.Get("topic")}
	if filter.Topic == models.AllTopicsLabel {
		filter.Topic = ""
	}

	window, ok := models.ParseTimeWindow(query.Get("time"))
	if !ok {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "validation_error",
			Message: "Invalid query parameters",
			Details: []models.ValidationErrorDetail{{
				Field:  "time",
				Reason: "time must be one of: Last 7 days, Last 30 days, Last 3 months, All time",
			}},
		})
		return
	}
	filter.Window = window

	sessions, err := h.sessions.GetAllSessions(r.Context(), filter)
	if err != nil {
		h.internalError(w, "Failed to fetch sessions", err, "")
		return
	}
	utils.JSON(w, http.StatusOK, sessions)
}

func (h *SessionHandler) ListTopicsHandler(w http.ResponseWriter, r *http.Request) {
	topics, err := h.sessions.GetAllTopics(r.Context())
	if err != nil {
		h.internalError(w, "Failed to fetch topics", err, "")
		return
	}
	utils.JSON(w, http.StatusOK, topics)
}

func (h *SessionHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r, chi.URLParam(r, "sessionId"))
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *SessionHandler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if _, ok := h.loadSession(w, r, sessionID); !ok {
		return
	}

	history, err := h.turns.GetSessionHistory(r.Context(), sessionID)
	if err != nil {
		h.internalError(w, "Failed to fetch session history", err, sessionID)
		return
	}
	utils.JSON(w, http.StatusOK, history)
}

// QuestionHandler returns the next question without storing it; the client records it as an AI turn.
func (h *SessionHandler) QuestionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	session, ok := h.loadSession(w, r, sessionID)
	if !ok {
		return
	}

	history, err := h.turns.GetSessionHistory(r.Context(), sessionID)
	if err != nil {
		h.internalError(w, "Failed to generate question", err, sessionID)
		return
	}

	question := h.interviewer.GenerateQuestion(r.Context(), session.Topic, difficulty(session), history)
	utils.JSON(w, http.StatusOK, models.QuestionResponse{Question: question})
}

func (h *SessionHandler) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.FeedbackRequest](r)
	sessionID := chi.URLParam(r, "sessionId")
	session, ok := h.loadSession(w, r, sessionID)
	if !ok {
		return
	}

	history, err := h.turns.GetSessionHistory(r.Context(), sessionID)
	if err != nil {
		h.internalError(w, "Failed to generate feedback", err, sessionID)
		return
	}

	feedback := h.interviewer.GenerateFeedback(r.Context(), req.Question, req.Answer, session.Topic, difficulty(session), history)
	utils.JSON(w, http.StatusOK, feedback)
}

// EndSessionHandler closes a session. Sessions with no answers get an end time only;
// otherwise the summary, overall score and metrics are written in the same update.
func (h *SessionHandler) EndSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	session, ok := h.loadSession(w, r, sessionID)
	if !ok {
		return
	}
	if session.IsEnded() {
		h.sessionEnded(w)
		return
	}

	history, err := h.turns.GetSessionHistory(r.Context(), sessionID)
	if err != nil {
		h.internalError(w, "Failed to end session", err, sessionID)
		return
	}

	userTurns := interviewer.CountUserTurns(history)
	reason := "empty"
	var update repositories.SessionUpdate
	if userTurns > 0 {
		summary := h.interviewer.GenerateSessionSummary(r.Context(), session.Topic, difficulty(session), history)
		update.Summary = &summary.Summary
		update.OverallScore = &summary.OverallScore
		update.PerformanceMetrics = summary.Metrics()
		reason = "summarized"
	}

	ended, err := h.sessions.EndSession(r.Context(), sessionID, update)
	switch {
	case errors.Is(err, repositories.ErrSessionAlreadyEnded):
		h.sessionEnded(w)
		return
	case errors.Is(err, repositories.ErrSessionNotFound):
		h.sessionNotFound(w)
		return
	case err != nil:
		h.internalError(w, "Failed to end session", err, sessionID)
		return
	}
	metrics.RecordSessionEnded(reason)

	event := models.SessionEndedEvent{
		SessionID:    ended.ID,
		Topic:        ended.Topic,
		EndTime:      derefTime(ended.EndTime),
		OverallScore: ended.OverallScore,
		UserTurns:    userTurns,
	}
	if err := h.publisher.PublishSessionEnded(r.Context(), event); err != nil {
		h.logger.Warn("Failed to publish session ended event", zap.String("session_id", sessionID), zap.Error(err))
	}

	h.logger.Info("Session ended",
		zap.String("session_id", sessionID),
		zap.Int("user_turns", userTurns),
		zap.String("reason", reason))
	utils.JSON(w, http.StatusOK, models.EndSessionResponse{Success: true, Session: ended})
}

func (h *SessionHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	err := h.sessions.DeleteSession(r.Context(), sessionID)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		h.sessionNotFound(w)
		return
	}
	if err != nil {
		h.internalError(w, "Failed to delete session", err, sessionID)
		return
	}
	utils.JSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// loadSession writes the 404 or 500 response itself and reports whether the caller may continue.
func (h *SessionHandler) loadSession(w http.ResponseWriter, r *http.Request, sessionID string) (*models.InterviewSession, bool) {
	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		h.sessionNotFound(w)
		return nil, false
	}
	if err != nil {
		h.internalError(w, "Failed to fetch session", err, sessionID)
		return nil, false
	}
	return session, true
}

func (h *SessionHandler) sessionNotFound(w http.ResponseWriter) {
	utils.JSONError(w, http.StatusNotFound, "session_not_found", "Session not found")
}

func (h *SessionHandler) sessionEnded(w http.ResponseWriter) {
	utils.JSONError(w, http.StatusConflict, "session_ended", "Session has already ended")
}

func (h *SessionHandler) internalError(w http.ResponseWriter, message string, err error, sessionID string) {
	h.logger.Error(message, zap.Error(err), zap.String("session_id", sessionID))
	utils.JSONError(w, http.StatusInternalServerError, "internal_error", message)
}

func difficulty(session *models.InterviewSession) string {
	if session.Metadata == nil {
		return ""
	}
	return session.Metadata.Difficulty
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
