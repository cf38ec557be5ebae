package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

func mockAt(ts time.Time) *MockProvider {
	return &MockProvider{now: func() time.Time { return ts }}
}

func TestMockProvider_StableWithinADay(t *testing.T) {
	ctx := context.Background()
	morning := mockAt(time.Date(2025, 8, 4, 5, 0, 0, 0, time.UTC))
	evening := mockAt(time.Date(2025, 8, 4, 20, 0, 0, 0, time.UTC))

	a, err := morning.Prices(ctx, "Maharashtra", "Nashik")
	require.NoError(t, err)
	b, err := evening.Prices(ctx, "Maharashtra", "Nashik")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	next, err := mockAt(time.Date(2025, 8, 5, 5, 0, 0, 0, time.UTC)).Prices(ctx, "Maharashtra", "Nashik")
	require.NoError(t, err)
	assert.NotEqual(t, a, next)
}

func TestMockProvider_Shape(t *testing.T) {
	prices, err := mockAt(time.Date(2025, 8, 4, 5, 0, 0, 0, time.UTC)).Prices(context.Background(), "Tamil Nadu", "Salem")
	require.NoError(t, err)
	require.Len(t, prices, 10)

	assert.Equal(t, "rice-0", prices[0].ID)
	assert.Equal(t, "turmeric-9", prices[9].ID)
	assert.Equal(t, "Salem Mandi", prices[0].Market)
	assert.Equal(t, "2025-08-04", prices[0].Date)

	for i, p := range prices {
		base := commodities[i].basePrice * 1.12
		assert.InDelta(t, base, float64(p.Price), base*0.1+1, p.Commodity)
		assert.Equal(t, p.Price-int(base+0.5), p.Change, p.Commodity)
	}
}

func TestMockProvider_UnknownLocation(t *testing.T) {
	prices, err := NewMockProvider().Prices(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", prices[0].State)
	assert.Equal(t, "Unknown", prices[0].District)
}

func TestRegionalMultiplier(t *testing.T) {
	assert.Equal(t, 0.95, regionalMultiplier("Uttar Pradesh"))
	assert.Equal(t, 1.04, regionalMultiplier("telangana"))
	assert.Equal(t, 1.0, regionalMultiplier("Goa"))
}

const mandiPage = `<html><body>
<table>
  <thead><tr><th>Commodity</th><th>Variety</th><th>Market</th><th>Modal Price (Rs./Quintal)</th><th>Previous Price</th></tr></thead>
  <tbody>
    <tr><td>Onion</td><td>Red</td><td>Lasalgaon</td><td>₹1,850</td><td>1,800</td></tr>
    <tr><td>Tomato</td><td>Local</td><td></td><td>2,400.40</td><td></td></tr>
    <tr><td>Garlic</td><td>Desi</td><td>Pimpalgaon</td><td>NR</td><td></td></tr>
  </tbody>
</table></body></html>`

func TestMandiProvider(t *testing.T) {
	var gotDistrict string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDistrict = r.URL.Query().Get("district")
		_, _ = w.Write([]byte(mandiPage))
	}))
	defer srv.Close()

	p := NewMandiProvider(srv.URL)
	p.now = func() time.Time { return time.Date(2025, 8, 4, 9, 0, 0, 0, time.UTC) }

	prices, err := p.Prices(context.Background(), "Maharashtra", "Nashik")
	require.NoError(t, err)
	assert.Equal(t, "Nashik", gotDistrict)
	require.Len(t, prices, 2)

	assert.Equal(t, Price{
		ID: "onion-0", Commodity: "Onion", Variety: "Red", Market: "Lasalgaon",
		District: "Nashik", State: "Maharashtra", Price: 1850, Unit: "quintal",
		Date: "2025-08-04", Change: 50, ChangePercent: 2.78,
	}, prices[0])
	assert.Equal(t, 2400, prices[1].Price)
	assert.Equal(t, "Nashik Mandi", prices[1].Market)
	assert.Zero(t, prices[1].Change)
}

func TestMandiProvider_NoTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>maintenance</p></body></html>`))
	}))
	defer srv.Close()

	_, err := NewMandiProvider(srv.URL).Prices(context.Background(), "Punjab", "Ludhiana")
	assert.ErrorIs(t, err, ErrNoPrices)
}

type brokenProvider struct{}

func (brokenProvider) Prices(context.Context, string, string) ([]Price, error) {
	return nil, errors.New("site down")
}

type stubProfiles struct{}

func (stubProfiles) GetProfile(context.Context, uint) (*farmer.Farmer, error) {
	return &farmer.Farmer{State: "Punjab", District: "Ludhiana"}, nil
}

func TestService_FallsBackToMock(t *testing.T) {
	svc := NewService(stubProfiles{}, NewCachedProvider(brokenProvider{}, nil, zap.NewNop()), zap.NewNop())

	prices, err := svc.ForFarmer(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, prices, 10)
	assert.Equal(t, "Ludhiana Mandi", prices[0].Market)
}
