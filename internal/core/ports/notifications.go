package ports

import (
	"context"
	"time"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/kernel"
)

// EventPublisher delivers committed events to the notification bus.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.Event) error
}

// PackagingQueue receives the one-way signal that a part has finished routing.
type PackagingQueue interface {
	NotifyRoutingCompleted(ctx context.Context, partID kernel.UUID, at time.Time) error
}
