package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/containrrr/shoutrrr"
	"github.com/rs/zerolog"

	"github.com/noah-isme/elplano-go-api/internal/observability"
)

// SendFunc delivers one message to a shoutrrr service URL.
type SendFunc func(url, message string) error

// Shoutrrr delivers notifications to every configured service URL.
type Shoutrrr struct {
	urls   []string
	send   SendFunc
	logger zerolog.Logger
}

// NewShoutrrr constructs a notifier over the given service URLs. Blank URLs are
// dropped.
func NewShoutrrr(urls []string, logger zerolog.Logger) *Shoutrrr {
	return NewShoutrrrWithSender(urls, shoutrrr.Send, logger)
}

// NewShoutrrrWithSender is NewShoutrrr with a custom transport.
func NewShoutrrrWithSender(urls []string, send SendFunc, logger zerolog.Logger) *Shoutrrr {
	cleaned := make([]string, 0, len(urls))
	for _, url := range urls {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	return &Shoutrrr{
		urls:   cleaned,
		send:   send,
		logger: logger.With().Str("component", "notify_shoutrrr").Logger(),
	}
}

// Notify implements Notifier.
func (s *Shoutrrr) Notify(_ context.Context, notification Notification) {
	message := notification.Message
	if notification.Title != "" {
		message = fmt.Sprintf("%s\n\n%s", notification.Title, notification.Message)
	}

	for _, url := range s.urls {
		outcome := "ok"
		if err := s.send(url, message); err != nil {
			outcome = "error"
			s.logger.Warn().Err(err).Str("type", notification.Type).Msg("failed to deliver notification")
		}
		observability.NotificationsPublished().WithLabelValues("shoutrrr", outcome).Inc()
	}
}
