package models

import "time"

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type CreateTurnResponse struct {
	Success bool   `json:"success"`
	TurnID  string `json:"turnId"`
}

type QuestionResponse struct {
	Question string `json:"question"`
}

type EndSessionResponse struct {
	Success bool              `json:"success"`
	Session *InterviewSession `json:"session"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SessionEndedEvent is published once a session has been ended.
type SessionEndedEvent struct {
	SessionID    string    `json:"sessionId"`
	Topic        string    `json:"topic"`
	EndTime      time.Time `json:"endTime"`
	OverallScore *float64  `json:"overallScore,omitempty"`
	UserTurns    int       `json:"userTurns"`
}
