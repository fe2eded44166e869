package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mockinterview/api/internal/models"

	"gorm.io/gorm"
)

type TurnRepository struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewTurnRepository(db *gorm.DB) *TurnRepository {
	return &TurnRepository{DB: db, Now: utcNow}
}

// CreateTurn inserts a turn with a fresh id and timestamp. Turn numbers are not checked for uniqueness.
func (r *TurnRepository) CreateTurn(ctx context.Context, turn *models.ConversationTurn) (*models.ConversationTurn, error) {
	turn.ID = ""
	turn.Timestamp = r.Now()
	if err := r.DB.WithContext(ctx).Create(turn).Error; err != nil {
		return nil, fmt.Errorf("create turn for session %s: %w", turn.SessionID, err)
	}
	return turn, nil
}

// NextTurnNumber returns one past the highest turn number recorded for the session.
func (r *TurnRepository) NextTurnNumber(ctx context.Context, sessionID string) (int, error) {
	var highest int
	err := r.DB.WithContext(ctx).
		Model(&models.ConversationTurn{}).
		Where("session_id = ?", sessionID).
		Select("COALESCE(MAX(turn_number), 0)").
		Scan(&highest).Error
	if err != nil {
		return 0, fmt.Errorf("next turn number for session %s: %w", sessionID, err)
	}
	return highest + 1, nil
}

// GetSessionHistory returns the session's turns ordered by turn number.
func (r *TurnRepository) GetSessionHistory(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	turns := []models.ConversationTurn{}
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("turn_number ASC").
		Order("timestamp ASC").
		Find(&turns).Error
	if err != nil {
		return nil, fmt.Errorf("history for session %s: %w", sessionID, err)
	}
	return turns, nil
}

func (r *TurnRepository) GetTurn(ctx context.Context, turnID string) (*models.ConversationTurn, error) {
	var turn models.ConversationTurn
	err := r.DB.WithContext(ctx).First(&turn, "id = ?", turnID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTurnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get turn %s: %w", turnID, err)
	}
	return &turn, nil
}
