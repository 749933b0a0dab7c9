package events

import (
	"context"

	"github.com/shrush07/puff-n-sip-backend/internal/domain"
)

// Publisher emits order lifecycle events for downstream consumers.
// Publishing is best effort: a failed publish never unwinds the order
// state transition that triggered it.
type Publisher interface {
	OrderCompleted(ctx context.Context, order *domain.Order) error
}

// NopPublisher drops every event. Used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) OrderCompleted(context.Context, *domain.Order) error {
	return nil
}
