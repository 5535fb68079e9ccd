package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"production/internal/core/domain/events"
	"production/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
)

const (
	specVersion     = "1.0"
	dataContentType = "application/json"
	typePrefix      = "production."
)

// CloudEvent is the JSON envelope every message carries.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	ID              string          `json:"id"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

func newCloudEvent(source string, evt events.Event) (CloudEvent, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("failed to marshal %s event: %w", evt.Topic(), err)
	}
	return CloudEvent{
		SpecVersion:     specVersion,
		Type:            typePrefix + evt.Topic(),
		Source:          source,
		Subject:         evt.Subject(),
		ID:              kernel.NewUUID().String(),
		Time:            evt.OccurredAt().UTC(),
		DataContentType: dataContentType,
		Data:            data,
	}, nil
}

// message keys the envelope by subject so every event of a pallet or part
// lands on the same partition.
func (ce CloudEvent) message() (kafka.Message, error) {
	value, err := json.Marshal(ce)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal envelope %s: %w", ce.ID, err)
	}
	return kafka.Message{
		Key:   []byte(ce.Subject),
		Value: value,
		Headers: []kafka.Header{
			{Key: "ce-specversion", Value: []byte(ce.SpecVersion)},
			{Key: "ce-type", Value: []byte(ce.Type)},
			{Key: "ce-source", Value: []byte(ce.Source)},
			{Key: "ce-id", Value: []byte(ce.ID)},
			{Key: "ce-time", Value: []byte(ce.Time.Format(time.RFC3339))},
			{Key: "content-type", Value: []byte(ce.DataContentType)},
		},
		Time: ce.Time,
	}, nil
}
