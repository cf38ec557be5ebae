package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

var fixedNow = time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)

func TestMockProvider(t *testing.T) {
	m := &MockProvider{now: func() time.Time { return fixedNow }}

	t.Run("known location", func(t *testing.T) {
		r, err := m.Current(context.Background(), Location{District: "Guntur", State: "Andhra Pradesh"})
		require.NoError(t, err)

		assert.Equal(t, "Guntur, Andhra Pradesh", r.Location)
		assert.Equal(t, 28, r.Temperature)
		assert.Equal(t, "Partly Cloudy", r.Condition)
		assert.Equal(t, 65, r.Humidity)
		assert.Equal(t, 12, r.WindSpeed)
		assert.Equal(t, defaultAdvice, r.FarmingAdvice)
		require.Len(t, r.Forecast, 3)
		assert.Equal(t, Forecast{Date: "2025-03-11", TempHigh: 30, TempLow: 22, Condition: "Sunny"}, r.Forecast[0])
		assert.Equal(t, 60, r.Forecast[2].Precipitation)
		assert.Empty(t, r.Alerts)
	})

	t.Run("unknown location", func(t *testing.T) {
		r, err := m.Current(context.Background(), Location{State: "Punjab"})
		require.NoError(t, err)

		assert.Equal(t, "Punjab", r.Location)
		assert.Zero(t, r.Temperature)
		assert.Zero(t, r.Humidity)
		assert.Contains(t, r.Condition, "please update your location")
	})
}

func TestAdvice(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		temp, hum float64
		want      string
	}{
		{"rain wins over heat", "Rain", 38, 90, "Rain expected"},
		{"heat", "Clear", 36, 40, "High temperature alert"},
		{"cold", "Clouds", 12, 40, "Cool weather"},
		{"humid", "Clouds", 25, 75, "High humidity detected"},
		{"default", "Clear", 25, 50, "Good conditions for irrigation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, advice(tt.condition, tt.temp, tt.hum), tt.want)
		})
	}
}

func TestAlerts(t *testing.T) {
	got := alerts(41, 85, 11, fixedNow)
	require.Len(t, got, 3)
	assert.Equal(t, "heat_wave", got[0].Type)
	assert.Equal(t, "high", got[0].Severity)
	assert.Equal(t, "2025-03-11T06:00:00Z", got[0].EndTime)
	assert.Equal(t, "high_humidity", got[1].Type)
	assert.Equal(t, "strong_wind", got[2].Type)

	assert.Empty(t, alerts(40, 80, 10, fixedNow), "thresholds are exclusive")
}

const currentJSON = `{"main":{"temp":31.6,"humidity":55},"weather":[{"main":"Clear","description":"clear sky"}],"wind":{"speed":5}}`

const forecastJSON = `{"list":[
 {"dt_txt":"2025-03-10 09:00:00","main":{"temp":30.2},"weather":[{"description":"clear sky"}]},
 {"dt_txt":"2025-03-10 12:00:00","main":{"temp":33.7},"weather":[{"description":"few clouds"}],"rain":{"3h":1.4}},
 {"dt_txt":"2025-03-11 00:00:00","main":{"temp":21.4},"weather":[{"description":"light rain"}],"rain":{"3h":2.2}},
 {"dt_txt":"2025-03-11 03:00:00","main":{"temp":20.6},"weather":[{"description":"light rain"}]}
]}`

func TestOpenWeatherProvider(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/weather":
			gotQuery = r.URL.Query().Get("q")
			_, _ = w.Write([]byte(currentJSON))
		case "/forecast":
			_, _ = w.Write([]byte(forecastJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider("key")
	p.baseURL = srv.URL
	p.now = func() time.Time { return fixedNow }

	r, err := p.Current(context.Background(), Location{District: "Guntur", State: "Andhra Pradesh"})
	require.NoError(t, err)

	assert.Equal(t, "Guntur,Andhra Pradesh,IN", gotQuery)
	assert.Equal(t, 32, r.Temperature)
	assert.Equal(t, "clear sky", r.Condition)
	assert.Equal(t, 18, r.WindSpeed)
	assert.Empty(t, r.Alerts)
	assert.Equal(t, []Forecast{
		{Date: "2025-03-10", TempHigh: 34, TempLow: 30, Condition: "clear sky", Precipitation: 1},
		{Date: "2025-03-11", TempHigh: 21, TempLow: 21, Condition: "light rain", Precipitation: 2},
	}, r.Forecast)
}

func TestOpenWeatherProvider_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider("bad")
	p.baseURL = srv.URL

	_, err := p.Current(context.Background(), Location{District: "Guntur", State: "Andhra Pradesh"})
	assert.Error(t, err)

	_, err = p.Current(context.Background(), Location{})
	assert.ErrorIs(t, err, ErrLocationUnknown)
}

type failingProvider struct{ calls int32 }

func (f *failingProvider) Current(context.Context, Location) (*Report, error) {
	atomic.AddInt32(&f.calls, 1)
	return nil, errors.New("upstream down")
}

type stubProfiles struct{ f *farmer.Farmer }

func (s stubProfiles) GetProfile(context.Context, uint) (*farmer.Farmer, error) {
	if s.f == nil {
		return nil, farmer.ErrFarmerNotFound
	}
	return s.f, nil
}

func TestService_FallsBackToMock(t *testing.T) {
	provider := &failingProvider{}
	svc := NewService(stubProfiles{f: &farmer.Farmer{District: "Nashik", State: "Maharashtra"}},
		NewCachedProvider(provider, nil, zap.NewNop()), zap.NewNop())

	r, err := svc.ForFarmer(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Nashik, Maharashtra", r.Location)
	assert.Equal(t, 28, r.Temperature)
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))
}

func TestService_UnknownFarmer(t *testing.T) {
	svc := NewService(stubProfiles{}, NewMockProvider(), zap.NewNop())

	_, err := svc.ForFarmer(context.Background(), 1)
	assert.ErrorIs(t, err, farmer.ErrFarmerNotFound)
}
