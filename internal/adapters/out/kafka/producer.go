package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// WriterFactory opens a writer for one topic.
type WriterFactory func(topic string) MessageWriter

// Producer keeps one writer per topic, created on first use.
type Producer struct {
	mu        sync.Mutex
	writers   map[string]MessageWriter
	newWriter WriterFactory
}

func NewProducer(config Config) *Producer {
	return NewProducerWithWriters(func(topic string) MessageWriter {
		return &kafka.Writer{
			Addr:         kafka.TCP(config.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: config.BatchTimeout,
			WriteTimeout: config.WriteTimeout,
			RequiredAcks: kafka.RequiredAcks(config.RequiredAcks),
			Async:        false,
		}
	})
}

func NewProducerWithWriters(newWriter WriterFactory) *Producer {
	return &Producer{
		writers:   make(map[string]MessageWriter),
		newWriter: newWriter,
	}
}

func (p *Producer) writer(topic string) MessageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

// Write sends msgs to topic in one batch.
func (p *Producer) Write(ctx context.Context, topic string, msgs ...kafka.Message) error {
	if err := p.writer(topic).WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errList []error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close writer for topic %s: %w", topic, err))
		}
	}
	p.writers = make(map[string]MessageWriter)
	return errors.Join(errList...)
}
