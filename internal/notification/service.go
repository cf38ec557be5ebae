package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrValidation = errors.New("validation failed")

// StreamChannel is the redis pub/sub channel carrying a farmer's new notifications.
func StreamChannel(farmerID uint) string {
	return "notifications:farmer:" + strconv.FormatUint(uint64(farmerID), 10)
}

type Service interface {
	Create(ctx context.Context, n *Notification) error
	// Deliver fans out an already stored notification to push and stream subscribers.
	Deliver(ctx context.Context, n *Notification)
	List(ctx context.Context, farmerID uint, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, farmerID, id uint) error
	MarkAllRead(ctx context.Context, farmerID uint) (int64, error)
	UnreadCount(ctx context.Context, farmerID uint) (int64, error)
	RegisterDevice(ctx context.Context, farmerID uint, req RegisterDeviceRequest) error
	Subscribe(ctx context.Context, farmerID uint) (*redis.PubSub, error)
}

type service struct {
	repo   Repository
	push   Channel
	rdb    *redis.Client
	logger *zap.Logger
}

// NewService builds the notification service. push and rdb may be nil.
func NewService(repo Repository, push Channel, rdb *redis.Client, logger *zap.Logger) Service {
	return &service{repo: repo, push: push, rdb: rdb, logger: logger}
}

func Validate(n *Notification) error {
	if n.FarmerID == 0 {
		return fmt.Errorf("%w: farmer is required", ErrValidation)
	}
	if n.Title == "" || n.Message == "" {
		return fmt.Errorf("%w: title and message are required", ErrValidation)
	}
	if !validTypes[n.Type] {
		return fmt.Errorf("%w: invalid notification type %q", ErrValidation, n.Type)
	}
	return nil
}

func (s *service) Create(ctx context.Context, n *Notification) error {
	if n.Type == "" {
		n.Type = TypeInfo
	}
	if err := Validate(n); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	s.Deliver(ctx, n)
	return nil
}

// Deliver is best effort: failures are logged, never returned.
func (s *service) Deliver(ctx context.Context, n *Notification) {
	if s.rdb != nil {
		payload, _ := json.Marshal(n)
		if err := s.rdb.Publish(ctx, StreamChannel(n.FarmerID), payload).Err(); err != nil {
			s.logger.Warn("notification publish failed", zap.Uint("farmer_id", n.FarmerID), zap.Error(err))
		}
	}

	if s.push == nil {
		return
	}
	tokens, err := s.repo.ActiveTokens(ctx, n.FarmerID)
	if err != nil {
		s.logger.Warn("device token lookup failed", zap.Uint("farmer_id", n.FarmerID), zap.Error(err))
		return
	}
	if len(tokens) == 0 {
		return
	}

	data := map[string]string{
		"notificationId": strconv.FormatUint(uint64(n.ID), 10),
		"type":           n.Type,
		"actionUrl":      n.ActionURL,
	}
	stale, err := s.push.Send(ctx, tokens, n.Title, n.Message, data)
	if err != nil {
		s.logger.Warn("push delivery incomplete", zap.Uint("farmer_id", n.FarmerID), zap.Error(err))
	}
	if len(stale) > 0 {
		if err := s.repo.DeactivateTokens(ctx, stale); err != nil {
			s.logger.Warn("stale token cleanup failed", zap.Error(err))
		}
	}
}

func (s *service) List(ctx context.Context, farmerID uint, limit int) ([]Notification, error) {
	return s.repo.ListByFarmer(ctx, farmerID, limit)
}

func (s *service) MarkRead(ctx context.Context, farmerID, id uint) error {
	return s.repo.MarkRead(ctx, farmerID, id)
}

func (s *service) MarkAllRead(ctx context.Context, farmerID uint) (int64, error) {
	return s.repo.MarkAllRead(ctx, farmerID)
}

func (s *service) UnreadCount(ctx context.Context, farmerID uint) (int64, error) {
	return s.repo.UnreadCount(ctx, farmerID)
}

func (s *service) RegisterDevice(ctx context.Context, farmerID uint, req RegisterDeviceRequest) error {
	if req.Token == "" {
		return fmt.Errorf("%w: token is required", ErrValidation)
	}
	switch req.Platform {
	case "", "android", "ios", "web":
	default:
		return fmt.Errorf("%w: invalid platform %q", ErrValidation, req.Platform)
	}
	return s.repo.UpsertDevice(ctx, &DeviceToken{FarmerID: farmerID, Token: req.Token, Platform: req.Platform})
}

// ErrStreamUnavailable is returned by Subscribe when redis is not configured.
var ErrStreamUnavailable = errors.New("notification stream unavailable")

func (s *service) Subscribe(ctx context.Context, farmerID uint) (*redis.PubSub, error) {
	if s.rdb == nil {
		return nil, ErrStreamUnavailable
	}
	sub := s.rdb.Subscribe(ctx, StreamChannel(farmerID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	return sub, nil
}
