package weather

import (
	"context"

	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

type ProfileSource interface {
	GetProfile(ctx context.Context, farmerID uint) (*farmer.Farmer, error)
}

type Service interface {
	ForFarmer(ctx context.Context, farmerID uint) (*Report, error)
}

type service struct {
	profiles ProfileSource
	provider Provider
	fallback Provider
	logger   *zap.Logger
}

// NewService uses provider for lookups and falls back to mock data when it fails.
func NewService(profiles ProfileSource, provider Provider, logger *zap.Logger) Service {
	return &service{
		profiles: profiles,
		provider: provider,
		fallback: NewMockProvider(),
		logger:   logger,
	}
}

func LocationOf(f *farmer.Farmer) Location {
	return Location{
		District:  f.District,
		State:     f.State,
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
	}
}

func (s *service) ForFarmer(ctx context.Context, farmerID uint) (*Report, error) {
	f, err := s.profiles.GetProfile(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	loc := LocationOf(f)

	report, err := s.provider.Current(ctx, loc)
	if err != nil {
		s.logger.Warn("⚠️ weather provider failed, using fallback data", zap.Uint("farmer_id", farmerID), zap.Error(err))
		return s.fallback.Current(ctx, loc)
	}
	return report, nil
}
