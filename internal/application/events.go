package application

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const EventApplicationSubmitted = "application.submitted"

// Event is published for downstream processing of applications.
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ApplicationID uint      `json:"applicationId"`
	FarmerID      uint      `json:"farmerId"`
	SchemeID      uint      `json:"schemeId"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewPublisher publishes to w, or discards events when w is nil.
func NewPublisher(w *kafka.Writer) Publisher {
	if w == nil {
		return noopPublisher{}
	}
	return &kafkaPublisher{writer: w}
}

func (p *kafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(e.FarmerID), 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	})
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
