package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mockinterview/api/internal/metrics"
)

// StaleSessionCloser ends sessions that were started before a cutoff and never ended.
type StaleSessionCloser interface {
	EndStaleSessions(ctx context.Context, startedBefore time.Time) (int64, error)
}

// SweeperConfig controls the abandoned-session sweep.
type SweeperConfig struct {
	Enabled  bool
	Schedule string        // cron expression, e.g. "@every 1h" or "0 * * * *"
	MaxAge   time.Duration // sessions open longer than this are closed
}

// SessionSweeper periodically closes interview sessions nobody ended.
// Closed sessions get an end time only; no summary is generated for them.
type SessionSweeper struct {
	sessions StaleSessionCloser
	config   SweeperConfig
	logger   *zap.Logger
	cron     *cron.Cron
	now      func() time.Time
}

func NewSessionSweeper(sessions StaleSessionCloser, config SweeperConfig, logger *zap.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		config:   config,
		logger:   logger,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start schedules the sweep. It is a no-op when the sweeper is disabled.
func (s *SessionSweeper) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Session sweeper disabled")
		return nil
	}
	if s.config.MaxAge <= 0 {
		return fmt.Errorf("session max age must be positive, got %s", s.config.MaxAge)
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("Session sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Session sweeper started",
		zap.String("schedule", s.config.Schedule),
		zap.Duration("max_age", s.config.MaxAge))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *SessionSweeper) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce closes every session older than MaxAge and returns how many were closed.
func (s *SessionSweeper) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.config.MaxAge)
	closed, err := s.sessions.EndStaleSessions(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for i := int64(0); i < closed; i++ {
		metrics.RecordSessionEnded("swept")
	}
	if closed > 0 {
		s.logger.Info("Closed abandoned sessions", zap.Int64("count", closed), zap.Time("cutoff", cutoff))
	}
	return closed, nil
}
