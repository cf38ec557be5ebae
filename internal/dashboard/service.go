package dashboard

import (
	"context"
	"time"

	"github.com/krishimitra/farmer-portal-backend/internal/application"
	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

// Stats are the dashboard counters for one farmer.
type Stats struct {
	ActiveSchemes int     `json:"activeSchemes"`
	TotalBenefits float64 `json:"totalBenefits"`
	TotalLandArea float64 `json:"totalLandArea"`
	ActiveCrops   int     `json:"activeCrops"`
}

type ProfileSource interface {
	GetProfile(ctx context.Context, farmerID uint) (*farmer.Farmer, error)
}

type ApplicationSource interface {
	List(ctx context.Context, farmerID uint) ([]application.Application, error)
}

type Service interface {
	GetStats(ctx context.Context, farmerID uint) (*Stats, error)
}

type service struct {
	profiles     ProfileSource
	applications ApplicationSource
	now          func() time.Time
}

func NewService(profiles ProfileSource, applications ApplicationSource) Service {
	return &service{profiles: profiles, applications: applications, now: time.Now}
}

// GetStats recomputes the counters from the farmer's records on every call.
func (s *service) GetStats(ctx context.Context, farmerID uint) (*Stats, error) {
	profile, err := s.profiles.GetProfile(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.List(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	return Aggregate(profile, apps, s.now().Year()), nil
}

// Aggregate folds a farmer's records into Stats. Crops count as active when
// their cultivation year equals year.
func Aggregate(profile *farmer.Farmer, apps []application.Application, year int) *Stats {
	stats := &Stats{TotalLandArea: profile.TotalLandArea()}

	for _, a := range apps {
		switch a.Status {
		case application.StatusPending, application.StatusApproved:
			stats.ActiveSchemes++
		case application.StatusCompleted:
			if a.BenefitReceived != nil {
				stats.TotalBenefits += *a.BenefitReceived
			}
		}
	}

	for _, c := range profile.Crops {
		if c.Year == year {
			stats.ActiveCrops++
		}
	}
	return stats
}
