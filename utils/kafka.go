package utils

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter returns a synchronous writer for topic, or nil when no brokers
// are configured.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

// NewKafkaReader returns a consumer-group reader for topic, or nil when no
// brokers are configured.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
}
