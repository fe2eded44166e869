package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mockinterview/api/internal/models"
)

// Publisher announces finished sessions to other services.
type Publisher interface {
	PublishSessionEnded(ctx context.Context, event models.SessionEndedEvent) error
	Close() error
}

// RedisPublisher sends events on a Redis pub/sub channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisPublisher(addr, channel string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		rdb:     redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
		logger:  logger,
	}
}

func (p *RedisPublisher) PublishSessionEnded(ctx context.Context, event models.SessionEndedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal session ended event: %w", err)
	}
	receivers, err := p.rdb.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	p.logger.Debug("Published session ended event",
		zap.String("session_id", event.SessionID),
		zap.Int64("receivers", receivers))
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

// NoopPublisher drops events; used when Redis is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishSessionEnded(context.Context, models.SessionEndedEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
