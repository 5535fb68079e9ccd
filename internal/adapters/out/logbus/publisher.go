// Package logbus is the notification bus used when no broker is configured:
// every event is written to the structured log instead.
package logbus

import (
	"context"
	"log/slog"
	"time"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/kernel"
)

type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger.With("component", "logbus")}
}

func (p *Publisher) Publish(ctx context.Context, evts ...events.Event) error {
	for _, evt := range evts {
		p.logger.InfoContext(ctx, "event",
			"topic", evt.Topic(),
			"subject", evt.Subject(),
			"occurred_at", evt.OccurredAt(),
			"data", evt,
		)
	}
	return nil
}

func (p *Publisher) NotifyRoutingCompleted(ctx context.Context, partID kernel.UUID, at time.Time) error {
	return p.Publish(ctx, events.PackagingReady{PartID: partID.String(), At: at})
}
