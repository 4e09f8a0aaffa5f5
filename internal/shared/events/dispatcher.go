package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"empire-server/internal/shared/redis"
)

// Dispatcher forwards domain events to whatever transport delivers them
// to clients. Publish failures are logged, never propagated: losing a
// notification must not roll back the state change that produced it.
type Dispatcher interface {
	Publish(ctx context.Context, event Event)
}

// RedisDispatcher publishes events as JSON on a Redis pub/sub channel.
type RedisDispatcher struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisDispatcher(client *redis.Client, channel string, logger *slog.Logger) *RedisDispatcher {
	return &RedisDispatcher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (d *RedisDispatcher) Publish(ctx context.Context, event Event) {
	logger := d.logger.With(
		"component", "event_dispatcher",
		"event_type", event.Type,
		"event_id", event.ID,
		"player_id", event.PlayerID,
	)

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err)
		return
	}

	if err := d.client.Publish(ctx, d.channel, payload).Err(); err != nil {
		logger.Error("Failed to publish event", "error", err, "channel", d.channel)
		return
	}

	logger.Debug("Event published", "channel", d.channel)
}

// LogDispatcher writes events to the log. Used when Redis is disabled
// and as the default in tests.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Publish(_ context.Context, event Event) {
	d.logger.Info("Domain event",
		"component", "event_dispatcher",
		"event_type", event.Type,
		"event_id", event.ID,
		"player_id", event.PlayerID,
		"occurred_at", event.OccurredAt,
	)
}
