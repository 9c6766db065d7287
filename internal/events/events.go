// Package events describes the activity events the storefront emits after a
// user action succeeds. Delivery is best effort.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Type names an activity.
type Type string

const (
	SessionSignedIn  Type = "session.signed_in"
	SessionSignedUp  Type = "session.signed_up"
	SessionLoggedOut Type = "session.logged_out"
	CartUpdated      Type = "cart.updated"
	CartCheckedOut   Type = "cart.checked_out"
	ReviewAdded      Type = "review.added"
	StockIncreased   Type = "stock.increased"
)

// Event is one activity record.
type Event struct {
	Type       Type           `json:"type"`
	UserID     string         `json:"userId,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// New builds an Event stamped with the current time.
func New(t Type, userID string, payload map[string]any) Event {
	return Event{Type: t, UserID: userID, Payload: payload, OccurredAt: time.Now().UTC()}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Emit publishes event and logs, rather than returns, any failure.
func Emit(ctx context.Context, p Publisher, logger *zap.Logger, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish activity event",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}
