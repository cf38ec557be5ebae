package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishimitra/farmer-portal-backend/internal/application"
	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

type stubProfiles struct {
	profile *farmer.Farmer
	err     error
}

func (s stubProfiles) GetProfile(context.Context, uint) (*farmer.Farmer, error) {
	return s.profile, s.err
}

type stubApplications []application.Application

func (s stubApplications) List(context.Context, uint) ([]application.Application, error) {
	return s, nil
}

func amount(v float64) *float64 { return &v }

func TestGetStats(t *testing.T) {
	profile := &farmer.Farmer{
		ID:    1,
		Lands: []farmer.Land{{Area: 2.5}, {Area: 1.5}},
		Crops: []farmer.Crop{{CropName: "rice", Year: 2025}, {CropName: "wheat", Year: 2025}, {CropName: "cotton", Year: 2024}},
	}
	apps := stubApplications{
		{Status: application.StatusPending},
		{Status: application.StatusApproved},
		{Status: application.StatusRejected},
		{Status: application.StatusCompleted, BenefitReceived: amount(6000)},
		{Status: application.StatusCompleted, BenefitReceived: amount(2500)},
		{Status: application.StatusCompleted},
	}

	svc := NewService(stubProfiles{profile: profile}, apps).(*service)
	svc.now = func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) }

	stats, err := svc.GetStats(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, &Stats{
		ActiveSchemes: 2,
		TotalBenefits: 8500,
		TotalLandArea: 4.0,
		ActiveCrops:   2,
	}, stats)
}

func TestGetStats_EmptyFarmer(t *testing.T) {
	svc := NewService(stubProfiles{profile: &farmer.Farmer{ID: 1}}, stubApplications(nil))

	stats, err := svc.GetStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, stats)
}

func TestGetStats_UnknownFarmer(t *testing.T) {
	svc := NewService(stubProfiles{err: farmer.ErrFarmerNotFound}, stubApplications(nil))

	_, err := svc.GetStats(context.Background(), 1)
	assert.ErrorIs(t, err, farmer.ErrFarmerNotFound)
}
