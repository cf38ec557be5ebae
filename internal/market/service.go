package market

import (
	"context"

	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

type ProfileSource interface {
	GetProfile(ctx context.Context, farmerID uint) (*farmer.Farmer, error)
}

type Service interface {
	ForFarmer(ctx context.Context, farmerID uint) ([]Price, error)
}

type service struct {
	profiles ProfileSource
	provider Provider
	fallback Provider
	logger   *zap.Logger
}

func NewService(profiles ProfileSource, provider Provider, logger *zap.Logger) Service {
	return &service{profiles: profiles, provider: provider, fallback: NewMockProvider(), logger: logger}
}

func (s *service) ForFarmer(ctx context.Context, farmerID uint) ([]Price, error) {
	f, err := s.profiles.GetProfile(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	prices, err := s.provider.Prices(ctx, f.State, f.District)
	if err != nil || len(prices) == 0 {
		s.logger.Warn("⚠️ market provider failed, using generated prices", zap.Uint("farmer_id", farmerID), zap.Error(err))
		return s.fallback.Prices(ctx, f.State, f.District)
	}
	return prices, nil
}
