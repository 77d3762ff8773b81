package notify

import (
	"context"
	"time"
)

// Notification types.
const (
	TypeInvitation = "invitation"
)

// Notification is a message for someone outside the request that caused it.
type Notification struct {
	Type           string                 `json:"type"`
	RecipientEmail string                 `json:"recipient_email,omitempty"`
	RecipientID    *uint                  `json:"recipient_id,omitempty"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Data           map[string]interface{} `json:"data,omitempty"`
	SentAt         time.Time              `json:"sent_at"`
}

// Notifier delivers notifications. Delivery is fire-and-forget: failures are
// logged by the implementation and never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}

// Nop drops every notification.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Notification) {}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, notification Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, notification)
		}
	}
}

func stamp(notification Notification) Notification {
	if notification.SentAt.IsZero() {
		notification.SentAt = time.Now().UTC()
	}
	return notification
}
