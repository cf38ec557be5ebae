package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrTranslationUnavailable = errors.New("translation service not available")
)

type ProfileSource interface {
	GetProfile(ctx context.Context, farmerID uint) (*farmer.Farmer, error)
}

type Service interface {
	Translate(ctx context.Context, req TranslateRequest) (*Translation, error)
	FarmingTips(ctx context.Context, farmerID uint) ([]string, error)
	SchemeInsights(ctx context.Context, f *farmer.Farmer, schemes []scheme.Scheme) (map[uint]scheme.Insight, error)
}

type service struct {
	provider   Provider
	profiles   ProfileSource
	configured bool
	logger     *zap.Logger
}

// NewService wraps provider. configured is false when provider is the mock,
// in which case translation is reported as unavailable.
func NewService(provider Provider, configured bool, profiles ProfileSource, logger *zap.Logger) Service {
	return &service{provider: provider, profiles: profiles, configured: configured, logger: logger}
}

func (s *service) Translate(ctx context.Context, req TranslateRequest) (*Translation, error) {
	if !s.configured {
		return nil, ErrTranslationUnavailable
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}
	if _, ok := languageNames[req.TargetLanguage]; !ok {
		return nil, fmt.Errorf("%w: unsupported language %q", ErrValidation, req.TargetLanguage)
	}

	out, err := s.provider.Translate(ctx, req)
	if err != nil {
		s.logger.Warn("translation failed, returning untranslated text", zap.String("target", req.TargetLanguage), zap.Error(err))
		return identity(req), nil
	}
	return out, nil
}

func (s *service) FarmingTips(ctx context.Context, farmerID uint) ([]string, error) {
	f, err := s.profiles.GetProfile(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	tips, err := s.provider.FarmingTips(ctx, f)
	if err != nil || len(tips) == 0 {
		if err != nil {
			s.logger.Warn("farming tips failed, using defaults", zap.Uint("farmer_id", farmerID), zap.Error(err))
		}
		return append([]string(nil), defaultTips...), nil
	}
	return tips, nil
}

func (s *service) SchemeInsights(ctx context.Context, f *farmer.Farmer, schemes []scheme.Scheme) (map[uint]scheme.Insight, error) {
	return s.provider.SchemeInsights(ctx, f, schemes)
}
