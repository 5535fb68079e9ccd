package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/kernel"
	"production/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
)

// Publisher puts committed events on the notification bus, one topic per event
// kind, and doubles as the packaging queue.
type Publisher struct {
	producer *Producer
	breaker  *gobreaker.CircuitBreaker
	source   string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewPublisher(producer *Producer, config Config, m *metrics.Metrics, logger *slog.Logger) *Publisher {
	logger = logger.With("component", "kafka_publisher")
	return &Publisher{
		producer: producer,
		breaker:  newBreaker(config.Breaker, m, logger),
		source:   config.Source,
		metrics:  m,
		logger:   logger,
	}
}

// Publish writes evts grouped by topic, keeping their order within a topic.
// A failed topic does not stop the others.
func (p *Publisher) Publish(ctx context.Context, evts ...events.Event) error {
	batches, order, err := p.batch(ctx, evts)
	if err != nil {
		return err
	}

	var errList []error
	for _, topic := range order {
		msgs := batches[topic]
		start := time.Now()
		err := execute(p.breaker, func() error {
			return p.producer.Write(ctx, topic, msgs...)
		})
		if p.metrics != nil {
			p.metrics.RecordPublish(topic, len(msgs), err == nil, time.Since(start))
		}
		if err != nil {
			errList = append(errList, err)
			continue
		}
		p.logger.DebugContext(ctx, "events published", "topic", topic, "count", len(msgs))
	}
	return errors.Join(errList...)
}

// NotifyRoutingCompleted signals packaging that a part has left routing.
func (p *Publisher) NotifyRoutingCompleted(ctx context.Context, partID kernel.UUID, at time.Time) error {
	return p.Publish(ctx, events.PackagingReady{PartID: partID.String(), At: at})
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

func (p *Publisher) batch(ctx context.Context, evts []events.Event) (map[string][]kafka.Message, []string, error) {
	propagator := otel.GetTextMapPropagator()
	batches := make(map[string][]kafka.Message)
	var order []string

	for _, evt := range evts {
		ce, err := newCloudEvent(p.source, evt)
		if err != nil {
			return nil, nil, err
		}
		msg, err := ce.message()
		if err != nil {
			return nil, nil, err
		}
		propagator.Inject(ctx, headerCarrier{msg: &msg})

		topic := evt.Topic()
		if _, ok := batches[topic]; !ok {
			order = append(order, topic)
		}
		batches[topic] = append(batches[topic], msg)
	}
	return batches, order, nil
}
