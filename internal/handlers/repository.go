package handlers

import (
	"context"

	"mockinterview/api/internal/models"
	"mockinterview/api/internal/repositories"
)

// SessionStore is the session persistence the handlers depend on.
type SessionStore interface {
	CreateSession(ctx context.Context, topic string, metadata *models.SessionMetadata) (*models.InterviewSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	GetAllSessions(ctx context.Context, filter models.SessionFilter) ([]models.InterviewSession, error)
	EndSession(ctx context.Context, sessionID string, update repositories.SessionUpdate) (*models.InterviewSession, error)
	GetAllTopics(ctx context.Context) ([]string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// TurnStore is the conversation-turn persistence the handlers depend on.
type TurnStore interface {
	CreateTurn(ctx context.Context, turn *models.ConversationTurn) (*models.ConversationTurn, error)
	NextTurnNumber(ctx context.Context, sessionID string) (int, error)
	GetSessionHistory(ctx context.Context, sessionID string) ([]models.ConversationTurn, error)
}

// Interviewer generates questions, feedback and summaries. Its methods never fail.
type Interviewer interface {
	GenerateQuestion(ctx context.Context, topic, difficulty string, history []models.ConversationTurn) string
	GenerateFeedback(ctx context.Context, question, answer, topic, difficulty string, history []models.ConversationTurn) models.AnswerFeedback
	GenerateSessionSummary(ctx context.Context, topic, difficulty string, history []models.ConversationTurn) models.SessionSummary
}

// DatabaseCleaner wipes all interview data.
type DatabaseCleaner interface {
	ClearDatabase(ctx context.Context) error
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TemplateLister exposes the loaded prompt modes.
type TemplateLister interface {
	GetTemplates() []string
}
