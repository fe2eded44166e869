package models

import (
	"fmt"
	"strings"
)

type CreateSessionRequest struct {
	Topic    string           `json:"topic"`
	Metadata *SessionMetadata `json:"metadata,omitempty"`
}

// implements the Validator interface
func (r *CreateSessionRequest) Validate() error {
	var details []ValidationErrorDetail

	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		details = append(details, ValidationErrorDetail{Field: "topic", Reason: "topic is required"})
	} else if len(r.Topic) > MaxTopicLength {
		details = append(details, ValidationErrorDetail{
			Field:  "topic",
			Reason: fmt.Sprintf("topic must be at most %d characters", MaxTopicLength),
		})
	}

	// difficulty is stored as sent; prompt lookup normalizes it
	if r.Metadata != nil {
		if r.Metadata.QuestionCount != nil && *r.Metadata.QuestionCount < 0 {
			details = append(details, ValidationErrorDetail{Field: "metadata.questionCount", Reason: "must not be negative"})
		}
		if r.Metadata.Duration != nil && *r.Metadata.Duration < 0 {
			details = append(details, ValidationErrorDetail{Field: "metadata.duration", Reason: "must not be negative"})
		}
	}

	return validationError(details)
}

type CreateTurnRequest struct {
	// TurnNumber is optional; when nil the server assigns the next number.
	TurnNumber      *int          `json:"turnNumber,omitempty"`
	Speaker         Speaker       `json:"speaker"`
	TextContent     string        `json:"textContent"`
	FeedbackContent *string       `json:"feedbackContent,omitempty"`
	Metadata        *TurnMetadata `json:"metadata,omitempty"`
}

func (r *CreateTurnRequest) Validate() error {
	var details []ValidationErrorDetail

	if r.TurnNumber != nil && *r.TurnNumber < 1 {
		details = append(details, ValidationErrorDetail{Field: "turnNumber", Reason: "turnNumber must be a positive integer"})
	}
	if !r.Speaker.Valid() {
		details = append(details, ValidationErrorDetail{Field: "speaker", Reason: "speaker must be one of: AI, User"})
	}
	if strings.TrimSpace(r.TextContent) == "" {
		details = append(details, ValidationErrorDetail{Field: "textContent", Reason: "textContent is required"})
	}
	if r.FeedbackContent != nil && r.Speaker == SpeakerUser {
		details = append(details, ValidationErrorDetail{Field: "feedbackContent", Reason: "feedbackContent is only allowed on AI turns"})
	}
	if r.Metadata != nil && r.Metadata.Confidence != nil {
		if c := *r.Metadata.Confidence; c < 0 || c > 1 {
			details = append(details, ValidationErrorDetail{Field: "metadata.confidence", Reason: "confidence must be between 0 and 1"})
		}
	}

	return validationError(details)
}

type FeedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (r *FeedbackRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" || strings.TrimSpace(r.Answer) == "" {
		return &ErrorResponse{
			Code:    "validation_error",
			Message: "Question and answer are required",
		}
	}
	return nil
}

func validationError(details []ValidationErrorDetail) error {
	if len(details) == 0 {
		return nil
	}
	return &ErrorResponse{
		Code:    "validation_error",
		Message: "Invalid request data",
		Details: details,
	}
}
