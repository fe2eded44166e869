package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// InterviewSession is one complete mock-interview attempt.
// EndTime, Summary, OverallScore and PerformanceMetrics stay nil until the session is ended.
type InterviewSession struct {
	ID                 string              `gorm:"primaryKey;size:36" json:"id"`
	StartTime          time.Time           `gorm:"not null;index" json:"startTime"`
	EndTime            *time.Time          `json:"endTime"`
	Topic              string              `gorm:"type:text;not null;index" json:"topic"`
	Summary            *string             `gorm:"type:text" json:"summary"`
	OverallScore       *float64            `gorm:"type:numeric(3,1)" json:"overallScore"`
	Metadata           *SessionMetadata    `json:"metadata"`
	PerformanceMetrics *PerformanceMetrics `json:"performanceMetrics"`
	Turns              []ConversationTurn  `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

func (s *InterviewSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IsEnded reports whether the session-end operation already ran.
func (s *InterviewSession) IsEnded() bool {
	return s.EndTime != nil
}

// ConversationTurn is one message in a session, authored by the AI interviewer or the user.
type ConversationTurn struct {
	ID              string        `gorm:"primaryKey;size:36" json:"id"`
	SessionID       string        `gorm:"size:36;not null;index" json:"sessionId"`
	TurnNumber      int           `gorm:"not null" json:"turnNumber"`
	Speaker         Speaker       `gorm:"type:text;not null" json:"speaker"`
	TextContent     string        `gorm:"type:text;not null" json:"textContent"`
	FeedbackContent *string       `gorm:"type:text" json:"feedbackContent"`
	Timestamp       time.Time     `gorm:"not null" json:"timestamp"`
	Metadata        *TurnMetadata `json:"metadata"`
}

func (ConversationTurn) TableName() string {
	return "conversation_turns"
}

func (t *ConversationTurn) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// User is the legacy account table kept for compatibility. Password holds a bcrypt hash.
type User struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type SessionMetadata struct {
	Difficulty    string `json:"difficulty,omitempty"`
	QuestionCount *int   `json:"questionCount,omitempty"`
	Duration      *int   `json:"duration,omitempty"`
}

type PerformanceMetrics struct {
	TechnicalScore      float64  `json:"technicalScore"`
	CommunicationScore  float64  `json:"communicationScore"`
	ProblemSolvingScore float64  `json:"problemSolvingScore"`
	Recommendations     []string `json:"recommendations,omitempty"`
}

type TurnMetadata struct {
	Score      *float64 `json:"score,omitempty"`
	Duration   *int     `json:"duration,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

func (m SessionMetadata) Value() (driver.Value, error)    { return jsonValue(m) }
func (m *SessionMetadata) Scan(src any) error             { return jsonScan(src, m) }
func (m PerformanceMetrics) Value() (driver.Value, error) { return jsonValue(m) }
func (m *PerformanceMetrics) Scan(src any) error          { return jsonScan(src, m) }
func (m TurnMetadata) Value() (driver.Value, error)       { return jsonValue(m) }
func (m *TurnMetadata) Scan(src any) error                { return jsonScan(src, m) }

func (SessionMetadata) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

func (PerformanceMetrics) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

func (TurnMetadata) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsonColumnType(db)
}

// jsonb on postgres, plain text elsewhere
func jsonColumnType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}
