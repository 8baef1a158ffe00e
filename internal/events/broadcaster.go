package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/npc-dialog/pkg/dialog"
	"github.com/redis/go-redis/v9"
)

// Event is the message published for each conversation transition.
type Event struct {
	Type       dialog.TransitionKind `json:"type"`
	SessionID  string                `json:"session_id"`
	Transition dialog.Transition     `json:"transition"`
	Timestamp  time.Time             `json:"timestamp"`
}

// Channel returns the pub/sub channel for a play session.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("dialog-events:%s", sessionID.String())
}

// Broadcaster publishes conversation transitions to Redis Pub/Sub so other
// processes can follow a play session.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
	now         func() time.Time
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
		now:         time.Now,
	}
}

// Connect parses redisURL, checks the connection and returns a broadcaster
// that owns the client.
func Connect(ctx context.Context, redisURL string, logger *slog.Logger) (*Broadcaster, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to Redis for event broadcasting", "addr", opt.Addr)
	return NewBroadcaster(rdb, logger), nil
}

// Close closes the Redis connection
func (b *Broadcaster) Close() error {
	return b.redisClient.Close()
}

// Publish sends one transition to the session channel.
func (b *Broadcaster) Publish(ctx context.Context, sessionID uuid.UUID, t dialog.Transition) error {
	event := Event{
		Type:       t.Kind,
		SessionID:  sessionID.String(),
		Transition: t,
		Timestamp:  b.now().UTC(),
	}
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"character", t.Character,
	)
	return nil
}

// PublishAll sends transitions in order and stops at the first failure.
func (b *Broadcaster) PublishAll(ctx context.Context, sessionID uuid.UUID, ts []dialog.Transition) error {
	for _, t := range ts {
		if err := b.Publish(ctx, sessionID, t); err != nil {
			return err
		}
	}
	return nil
}
