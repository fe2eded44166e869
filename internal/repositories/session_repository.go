package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mockinterview/api/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db, Now: utcNow}
}

// SessionUpdate carries the fields to change; nil fields are left untouched.
type SessionUpdate struct {
	EndTime            *time.Time
	Summary            *string
	OverallScore       *float64
	Metadata           *models.SessionMetadata
	PerformanceMetrics *models.PerformanceMetrics
}

func (u SessionUpdate) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if u.EndTime != nil {
		cols["end_time"] = u.EndTime.UTC()
	}
	if u.Summary != nil {
		cols["summary"] = *u.Summary
	}
	if u.OverallScore != nil {
		cols["overall_score"] = *u.OverallScore
	}
	if u.Metadata != nil {
		cols["metadata"] = *u.Metadata
	}
	if u.PerformanceMetrics != nil {
		cols["performance_metrics"] = *u.PerformanceMetrics
	}
	return cols
}

func (r *SessionRepository) CreateSession(ctx context.Context, topic string, metadata *models.SessionMetadata) (*models.InterviewSession, error) {
	session := &models.InterviewSession{
		StartTime: r.Now(),
		Topic:     topic,
		Metadata:  metadata,
	}
	if err := r.DB.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.DB.WithContext(ctx).First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return &session, nil
}

// GetAllSessions returns sessions newest first, restricted by exact topic and time window when set.
func (r *SessionRepository) GetAllSessions(ctx context.Context, filter models.SessionFilter) ([]models.InterviewSession, error) {
	sessions := []models.InterviewSession{}
	query := r.DB.WithContext(ctx).Model(&models.InterviewSession{})
	if filter.Topic != "" {
		query = query.Where("topic = ?", filter.Topic)
	}
	if filter.Window > 0 {
		query = query.Where("start_time >= ?", r.Now().Add(-time.Duration(filter.Window)))
	}
	if err := query.Order("start_time DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) UpdateSession(ctx context.Context, sessionID string, update SessionUpdate) (*models.InterviewSession, error) {
	if cols := update.columns(); len(cols) > 0 {
		err := r.DB.WithContext(ctx).
			Model(&models.InterviewSession{}).
			Where("id = ?", sessionID).
			Updates(cols).Error
		if err != nil {
			return nil, fmt.Errorf("update session %s: %w", sessionID, err)
		}
	}
	return r.GetSession(ctx, sessionID)
}

// EndSession applies update only if the session has not been ended yet,
// so end_time is written at most once even under concurrent requests.
func (r *SessionRepository) EndSession(ctx context.Context, sessionID string, update SessionUpdate) (*models.InterviewSession, error) {
	if update.EndTime == nil {
		now := r.Now()
		update.EndTime = &now
	}
	result := r.DB.WithContext(ctx).
		Model(&models.InterviewSession{}).
		Where("id = ? AND end_time IS NULL", sessionID).
		Updates(update.columns())
	if result.Error != nil {
		return nil, fmt.Errorf("end session %s: %w", sessionID, result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetSession(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, ErrSessionAlreadyEnded
	}
	return r.GetSession(ctx, sessionID)
}

// GetAllTopics returns each distinct topic once, alphabetically.
func (r *SessionRepository) GetAllTopics(ctx context.Context) ([]string, error) {
	topics := []string{}
	err := r.DB.WithContext(ctx).
		Model(&models.InterviewSession{}).
		Distinct("topic").
		Order("topic").
		Pluck("topic", &topics).Error
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// DeleteSession removes a session; its turns go with it through the cascade.
func (r *SessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// sqlite connections opened without foreign_keys=on skip the cascade
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.ConversationTurn{}).Error; err != nil {
			return fmt.Errorf("delete turns of session %s: %w", sessionID, err)
		}
		result := tx.Delete(&models.InterviewSession{}, "id = ?", sessionID)
		if result.Error != nil {
			return fmt.Errorf("delete session %s: %w", sessionID, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
}

// EndStaleSessions closes sessions still open after startedBefore and returns how many were closed.
func (r *SessionRepository) EndStaleSessions(ctx context.Context, startedBefore time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).
		Model(&models.InterviewSession{}).
		Where("end_time IS NULL AND start_time < ?", startedBefore.UTC()).
		Update("end_time", r.Now())
	if result.Error != nil {
		return 0, fmt.Errorf("end stale sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ClearDatabase truncates all session and turn data. Callers gate it to development.
func (r *SessionRepository) ClearDatabase(ctx context.Context) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&models.ConversationTurn{}).Error; err != nil {
			return fmt.Errorf("clear turns: %w", err)
		}
		if err := global.Delete(&models.InterviewSession{}).Error; err != nil {
			return fmt.Errorf("clear sessions: %w", err)
		}
		return nil
	})
}

// Ping checks the underlying connection for readiness probes.
func (r *SessionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func utcNow() time.Time {
	return time.Now().UTC()
}
