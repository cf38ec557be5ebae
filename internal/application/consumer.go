package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ReviewDecision is the payload read from the review topic.
type ReviewDecision struct {
	ApplicationID   uint       `json:"applicationId"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes"`
	BenefitReceived *float64   `json:"benefitReceived"`
	ReceivedAt      *time.Time `json:"receivedAt"`
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reviewer applies a review decision.
type Reviewer interface {
	Review(ctx context.Context, id uint, req ReviewRequest) (*Application, error)
}

// ReviewConsumer applies review decisions published by the department back office.
type ReviewConsumer struct {
	reader   MessageReader
	reviewer Reviewer
	logger   *zap.Logger
}

func NewReviewConsumer(reader MessageReader, reviewer Reviewer, logger *zap.Logger) *ReviewConsumer {
	return &ReviewConsumer{reader: reader, reviewer: reviewer, logger: logger}
}

// Run consumes until ctx is cancelled. Decisions that cannot be applied are
// logged and committed so they do not block the partition.
func (c *ReviewConsumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	c.logger.Info("✅ review consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("review consumer stopped")
				return nil
			}
			return fmt.Errorf("fetch review decision: %w", err)
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("review decision commit failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func (c *ReviewConsumer) handle(ctx context.Context, msg kafka.Message) {
	var d ReviewDecision
	if err := json.Unmarshal(msg.Value, &d); err != nil || d.ApplicationID == 0 {
		c.logger.Warn("❌ malformed review decision", zap.Int64("offset", msg.Offset), zap.ByteString("value", msg.Value))
		return
	}

	_, err := c.reviewer.Review(ctx, d.ApplicationID, ReviewRequest{
		Status:          d.Status,
		Notes:           d.Notes,
		BenefitReceived: d.BenefitReceived,
		ReceivedAt:      d.ReceivedAt,
	})
	switch {
	case err == nil:
		c.logger.Info("review decision applied", zap.Uint("application_id", d.ApplicationID), zap.String("status", d.Status))
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrApplicationNotFound), errors.Is(err, ErrValidation):
		c.logger.Warn("review decision rejected", zap.Uint("application_id", d.ApplicationID), zap.Error(err))
	default:
		c.logger.Error("review decision failed", zap.Uint("application_id", d.ApplicationID), zap.Error(err))
	}
}
