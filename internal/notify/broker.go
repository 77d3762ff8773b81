package notify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/elplano-go-api/internal/observability"
)

// Broker publishes notifications on a redis channel and a NATS subject so
// delivery workers can pick them up. Either transport may be absent.
type Broker struct {
	redis   *redis.Client
	channel string
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewBroker constructs the broker notifier. base names both the redis channel
// and the NATS subject ("<base>.notifications").
func NewBroker(redisClient *redis.Client, natsConn *nats.Conn, base string, logger zerolog.Logger) *Broker {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "elplano"
	}
	name := base + ".notifications"

	return &Broker{
		redis:   redisClient,
		channel: name,
		nats:    natsConn,
		subject: name,
		logger:  logger.With().Str("component", "notify_broker").Logger(),
	}
}

// Channel returns the redis channel notifications are published on.
func (b *Broker) Channel() string {
	return b.channel
}

// Notify implements Notifier.
func (b *Broker) Notify(ctx context.Context, notification Notification) {
	payload, err := json.Marshal(stamp(notification))
	if err != nil {
		b.logger.Error().Err(err).Str("type", notification.Type).Msg("failed to encode notification")
		return
	}

	if b.redis != nil {
		outcome := "ok"
		if err := b.redis.Publish(ctx, b.channel, payload).Err(); err != nil {
			outcome = "error"
			b.logger.Error().Err(err).Str("channel", b.channel).Msg("failed to publish notification to redis")
		}
		observability.NotificationsPublished().WithLabelValues("redis", outcome).Inc()
	}

	if b.nats != nil {
		outcome := "ok"
		if err := b.nats.Publish(b.subject, payload); err != nil {
			outcome = "error"
			b.logger.Error().Err(err).Str("subject", b.subject).Msg("failed to publish notification to nats")
		}
		observability.NotificationsPublished().WithLabelValues("nats", outcome).Inc()
	}
}
