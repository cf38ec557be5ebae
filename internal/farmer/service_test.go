package farmer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/testutil"
)

func newTestService(t *testing.T) (*service, uint) {
	t.Helper()
	db := testutil.NewDB(t, &Farmer{}, &Land{}, &Crop{}, &Livestock{}, &auditlog.AuditLog{})
	audit := auditlog.NewService(auditlog.NewRepository(db), zap.NewNop())
	svc := NewService(NewRepository(db), audit, zap.NewNop()).(*service)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.ProvisionProfile(context.Background(), 42))
	farmerID, err := svc.FarmerIDForUser(context.Background(), 42)
	require.NoError(t, err)
	return svc, farmerID
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestProvisionProfile_Blank(t *testing.T) {
	svc, farmerID := newTestService(t)

	profile, err := svc.GetProfile(context.Background(), farmerID)
	require.NoError(t, err)

	assert.Equal(t, uint(42), profile.UserID)
	assert.Equal(t, "en", profile.Language)
	assert.False(t, profile.IsComplete())
	assert.Empty(t, profile.Lands)
}

func TestFarmerIDForUser_Unknown(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.FarmerIDForUser(context.Background(), 7)
	assert.ErrorIs(t, err, ErrFarmerNotFound)
}

func TestUpdateProfile_Partial(t *testing.T) {
	svc, farmerID := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, farmerID, UpdateProfileRequest{
		Name:     strPtr("Rajesh Kumar"),
		State:    strPtr("maharashtra"),
		District: strPtr("Pune"),
		Age:      intPtr(35),
		Category: strPtr("General"),
	})
	require.NoError(t, err)

	profile, err := svc.UpdateProfile(ctx, farmerID, UpdateProfileRequest{Village: strPtr("Hadapsar")})
	require.NoError(t, err)

	assert.Equal(t, "Rajesh Kumar", profile.Name)
	assert.Equal(t, "Hadapsar", profile.Village)
	assert.Equal(t, "general", profile.Category)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 35, *profile.Age)
	assert.True(t, profile.IsComplete())
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc, farmerID := newTestService(t)

	tests := []struct {
		name string
		req  UpdateProfileRequest
	}{
		{"aadhar length", UpdateProfileRequest{AadharNumber: strPtr("1234")}},
		{"pincode letters", UpdateProfileRequest{Pincode: strPtr("41100A")}},
		{"ifsc shape", UpdateProfileRequest{IFSCCode: strPtr("SBIN123")}},
		{"category", UpdateProfileRequest{Category: strPtr("vip")}},
		{"language", UpdateProfileRequest{Language: strPtr("fr")}},
		{"age", UpdateProfileRequest{Age: intPtr(-3)}},
		{"zero age", UpdateProfileRequest{Age: intPtr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(context.Background(), farmerID, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAddLand(t *testing.T) {
	svc, farmerID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddLand(ctx, farmerID, LandRequest{Area: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddLand(ctx, farmerID, LandRequest{Area: 1, LandType: "swamp"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddLand(ctx, 999, LandRequest{Area: 1})
	assert.ErrorIs(t, err, ErrFarmerNotFound)

	_, err = svc.AddLand(ctx, farmerID, LandRequest{Area: 2.5, LandType: LandIrrigated})
	require.NoError(t, err)
	_, err = svc.AddLand(ctx, farmerID, LandRequest{Area: 1.8, LandType: LandRainFed})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, farmerID)
	require.NoError(t, err)
	assert.Len(t, profile.Lands, 2)
	assert.InDelta(t, 4.3, profile.TotalLandArea(), 1e-9)
}

func TestUpdateLand_OwnedOnly(t *testing.T) {
	svc, farmerID := newTestService(t)
	ctx := context.Background()

	land, err := svc.AddLand(ctx, farmerID, LandRequest{Area: 2})
	require.NoError(t, err)

	updated, err := svc.UpdateLand(ctx, farmerID, land.ID, LandRequest{Area: 3, SoilType: "black"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, updated.Area)

	_, err = svc.UpdateLand(ctx, farmerID+1, land.ID, LandRequest{Area: 3})
	assert.ErrorIs(t, err, ErrLandNotFound)
}

func TestAddCrop(t *testing.T) {
	svc, farmerID := newTestService(t)
	ctx := context.Background()

	crop, err := svc.AddCrop(ctx, farmerID, CropRequest{CropName: " wheat ", Season: SeasonRabi})
	require.NoError(t, err)
	assert.Equal(t, "wheat", crop.CropName)
	assert.Equal(t, 2026, crop.Year, "year defaults to the current year")

	_, err = svc.AddCrop(ctx, farmerID, CropRequest{CropName: "rice", Season: "monsoon"})
	assert.ErrorIs(t, err, ErrValidation)

	foreign := uint(12345)
	_, err = svc.AddCrop(ctx, farmerID, CropRequest{CropName: "rice", LandID: &foreign})
	assert.ErrorIs(t, err, ErrValidation)

	land, err := svc.AddLand(ctx, farmerID, LandRequest{Area: 1})
	require.NoError(t, err)
	crop, err = svc.AddCrop(ctx, farmerID, CropRequest{CropName: "rice", LandID: &land.ID, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 2025, crop.Year)
}

func TestLivestock(t *testing.T) {
	svc, farmerID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddLivestock(ctx, farmerID, LivestockRequest{AnimalType: "cow", Count: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddLivestock(ctx, farmerID, LivestockRequest{AnimalType: "camel", Count: 1})
	assert.ErrorIs(t, err, ErrValidation)

	animal, err := svc.AddLivestock(ctx, farmerID, LivestockRequest{AnimalType: "buffalo", Count: 2})
	require.NoError(t, err)

	animal, err = svc.UpdateLivestock(ctx, farmerID, animal.ID, LivestockRequest{AnimalType: "buffalo", Count: 3, Breed: "Murrah"})
	require.NoError(t, err)
	assert.Equal(t, 3, animal.Count)
	assert.Equal(t, "Murrah", animal.Breed)
}
