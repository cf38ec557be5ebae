package scheme

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/internal/testutil"
)

type fakeEngagement struct {
	bookmarks map[uint]bool
	statuses  map[uint]string
}

func (f fakeEngagement) BookmarkedSchemeIDs(context.Context, uint) (map[uint]bool, error) {
	return f.bookmarks, nil
}

func (f fakeEngagement) LatestApplicationStatuses(context.Context, uint) (map[uint]string, error) {
	return f.statuses, nil
}

type fakeInsights struct {
	err   error
	calls int
}

func (f *fakeInsights) SchemeInsights(_ context.Context, _ *farmer.Farmer, schemes []Scheme) (map[uint]Insight, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uint]Insight)
	for _, s := range schemes {
		out[s.ID] = Insight{Reasoning: "fits " + s.Name, NextSteps: []string{"visit office"}}
	}
	return out, nil
}

type fixture struct {
	svc      Service
	repo     Repository
	farmers  farmer.Repository
	farmerID uint
}

func newFixture(t *testing.T, engagement EngagementLookup, insights InsightProvider) fixture {
	t.Helper()
	db := testutil.NewDB(t, &Scheme{}, &farmer.Farmer{}, &farmer.Land{}, &farmer.Crop{}, &farmer.Livestock{}, &auditlog.AuditLog{})
	audit := auditlog.NewService(auditlog.NewRepository(db), zap.NewNop())

	repo := NewRepository(db)
	farmers := farmer.NewRepository(db)
	ctx := context.Background()

	f := &farmer.Farmer{UserID: 1, Language: "en"}
	require.NoError(t, farmers.CreateFarmer(ctx, f))

	svc := NewService(repo, farmers, engagement, insights, audit, DefaultPolicy(), zap.NewNop())
	return fixture{svc: svc, repo: repo, farmers: farmers, farmerID: f.ID}
}

func (fx fixture) completeProfile(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, fx.farmers.UpdateFarmer(ctx, fx.farmerID, map[string]interface{}{
		"name": "Asha", "state": "maharashtra", "district": "Pune", "age": 30, "category": "general",
	}))
	require.NoError(t, fx.farmers.CreateLand(ctx, &farmer.Land{FarmerID: fx.farmerID, Area: 1.5}))
	require.NoError(t, fx.farmers.CreateCrop(ctx, &farmer.Crop{FarmerID: fx.farmerID, CropName: "rice", Year: 2026}))
}

func (fx fixture) seed(t *testing.T, schemes ...Scheme) []Scheme {
	t.Helper()
	for i := range schemes {
		require.NoError(t, fx.repo.Create(context.Background(), &schemes[i]))
	}
	return schemes
}

func TestRecommend_UnknownFarmer(t *testing.T) {
	fx := newFixture(t, nil, nil)

	_, err := fx.svc.Recommend(context.Background(), 999)
	assert.ErrorIs(t, err, farmer.ErrFarmerNotFound)
}

func TestRecommend_IncompleteProfileFallsBack(t *testing.T) {
	insights := &fakeInsights{}
	fx := newFixture(t, nil, insights)
	fx.seed(t,
		Scheme{Name: "retired", SchemeType: TypeCentral, IsActive: false},
		Scheme{Name: "a", SchemeType: TypeCentral, IsActive: true, TargetStates: []string{"punjab"}},
		Scheme{Name: "b", SchemeType: TypeCentral, IsActive: true},
		Scheme{Name: "c", SchemeType: TypeState, IsActive: true, LandSizeMin: floatPtr(100)},
		Scheme{Name: "d", SchemeType: TypeCentral, IsActive: true},
	)

	recs, err := fx.svc.Recommend(context.Background(), fx.farmerID)
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{recs[0].Scheme.Name, recs[1].Scheme.Name, recs[2].Scheme.Name})
	for _, r := range recs {
		assert.False(t, r.Scored)
	}
	assert.Zero(t, insights.calls)
}

func TestRecommend_RanksAndDecorates(t *testing.T) {
	engagement := &fakeEngagement{}
	fx := newFixture(t, engagement, &fakeInsights{})
	fx.completeProfile(t)
	schemes := fx.seed(t,
		Scheme{Name: "punjab only", SchemeType: TypeState, IsActive: true, TargetStates: []string{"punjab"}},
		Scheme{Name: "rice growers", SchemeType: TypeCentral, IsActive: true, TargetCrops: []string{"Rice"}, LandSizeMax: floatPtr(2), AgeMin: intPtr(18), AgeMax: intPtr(70)},
		Scheme{Name: "large cotton farms", SchemeType: TypeCentral, IsActive: true, TargetStates: []string{"punjab"}, TargetCrops: []string{"cotton"}, LandSizeMin: floatPtr(10)},
	)
	engagement.bookmarks = map[uint]bool{schemes[0].ID: true}
	engagement.statuses = map[uint]string{schemes[1].ID: "pending"}

	recs, err := fx.svc.Recommend(context.Background(), fx.farmerID)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "rice growers", recs[0].Scheme.Name)
	assert.Equal(t, 100, recs[0].MatchPercentage)
	assert.Equal(t, "pending", recs[0].ApplicationStatus)
	assert.False(t, recs[0].IsBookmarked)
	assert.Equal(t, "fits rice growers", recs[0].Reasoning)

	assert.Equal(t, "punjab only", recs[1].Scheme.Name)
	assert.Equal(t, 75, recs[1].MatchPercentage)
	assert.True(t, recs[1].IsBookmarked)
}

func TestRecommend_InsightFailureIgnored(t *testing.T) {
	insights := &fakeInsights{err: errors.New("quota exceeded")}
	fx := newFixture(t, nil, insights)
	fx.completeProfile(t)
	fx.seed(t, Scheme{Name: "open", SchemeType: TypeCentral, IsActive: true})

	recs, err := fx.svc.Recommend(context.Background(), fx.farmerID)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, 100, recs[0].MatchPercentage)
	assert.Empty(t, recs[0].Reasoning)
	assert.Equal(t, 1, insights.calls)
}

func TestList_Filters(t *testing.T) {
	fx := newFixture(t, nil, nil)
	fx.seed(t,
		Scheme{Name: "national", SchemeType: TypeCentral, IsActive: true},
		Scheme{Name: "maharashtra", SchemeType: TypeState, IsActive: true, TargetStates: []string{"maharashtra"}},
		Scheme{Name: "punjab cotton", SchemeType: TypeState, IsActive: true, TargetStates: []string{"punjab"}, TargetCrops: []string{"cotton"}},
		Scheme{Name: "hidden", SchemeType: TypeCentral, IsActive: false},
	)
	ctx := context.Background()

	names := func(schemes []Scheme) []string {
		out := make([]string, len(schemes))
		for i, s := range schemes {
			out[i] = s.Name
		}
		return out
	}

	all, err := fx.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"national", "maharashtra", "punjab cotton"}, names(all))

	byState, err := fx.svc.List(ctx, ListFilter{State: "Maharashtra"})
	require.NoError(t, err)
	assert.Equal(t, []string{"national", "maharashtra"}, names(byState))

	byCrop, err := fx.svc.List(ctx, ListFilter{Crop: "cotton"})
	require.NoError(t, err)
	assert.Equal(t, []string{"national", "maharashtra", "punjab cotton"}, names(byCrop))
}

func TestGetForFarmer(t *testing.T) {
	fx := newFixture(t, nil, nil)
	fx.completeProfile(t)
	schemes := fx.seed(t, Scheme{Name: "punjab only", SchemeType: TypeState, IsActive: true, TargetStates: []string{"punjab"}})

	detail, err := fx.svc.GetForFarmer(context.Background(), schemes[0].ID, fx.farmerID)
	require.NoError(t, err)
	assert.Equal(t, 75, detail.MatchPercentage)
	assert.Len(t, detail.Criteria, 4)

	_, err = fx.svc.GetForFarmer(context.Background(), 12345, fx.farmerID)
	assert.ErrorIs(t, err, ErrSchemeNotFound)
}

func TestCreateAndUpdate(t *testing.T) {
	fx := newFixture(t, nil, nil)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, SchemeRequest{Name: "x", SchemeType: "galactic"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = fx.svc.Create(ctx, SchemeRequest{Name: "x", SchemeType: TypeCentral, AgeMin: intPtr(60), AgeMax: intPtr(18)})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := fx.svc.Create(ctx, SchemeRequest{
		Name:         "Drip Subsidy",
		SchemeType:   TypeState,
		TargetStates: []string{" Maharashtra ", ""},
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{"maharashtra"}, []string(created.TargetStates))

	inactive := false
	updated, err := fx.svc.Update(ctx, created.ID, SchemeRequest{Name: "Drip Subsidy", SchemeType: TypeState, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Empty(t, updated.TargetStates)

	active, err := fx.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)
}
