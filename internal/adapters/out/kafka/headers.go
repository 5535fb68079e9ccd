package kafka

import (
	"strings"

	"github.com/segmentio/kafka-go"
)

// headerCarrier lets the OpenTelemetry propagator write trace context into
// message headers. Trace headers are prefixed like the CloudEvents ones.
type headerCarrier struct {
	msg *kafka.Message
}

const traceHeaderPrefix = "ce-"

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == traceHeaderPrefix+key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if h.Key == traceHeaderPrefix+key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafka.Header{Key: traceHeaderPrefix + key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		if key, ok := strings.CutPrefix(h.Key, traceHeaderPrefix); ok {
			keys = append(keys, key)
		}
	}
	return keys
}
