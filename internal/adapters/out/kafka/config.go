package kafka

import "time"

type Config struct {
	Brokers []string
	// Source is the CloudEvents source attribute of every published event.
	Source string

	BatchTimeout time.Duration
	WriteTimeout time.Duration
	RequiredAcks int // 0: no ack, 1: leader ack, -1: all replicas ack

	Breaker BreakerConfig
}

type BreakerConfig struct {
	Name                  string
	MaxRequests           uint32        // requests let through while half-open
	Interval              time.Duration // closed-state window after which counts reset
	Timeout               time.Duration // open-state duration before half-open
	FailureThreshold      uint32
	FailureRatioThreshold float64
	MinRequestsToTrip     uint32
}

func DefaultConfig(brokers ...string) Config {
	return Config{
		Brokers:      brokers,
		Source:       "/production/routing",
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		RequiredAcks: -1,
		Breaker: BreakerConfig{
			Name:                  "kafka-producer",
			MaxRequests:           3,
			Interval:              60 * time.Second,
			Timeout:               30 * time.Second,
			FailureThreshold:      5,
			FailureRatioThreshold: 0.5,
			MinRequestsToTrip:     10,
		},
	}
}
