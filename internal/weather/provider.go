package weather

import (
	"context"
	"time"
)

// Provider looks up current conditions and a short forecast.
type Provider interface {
	Current(ctx context.Context, loc Location) (*Report, error)
}

const defaultAdvice = "Good conditions for irrigation today. Check soil moisture levels."

// MockProvider returns fixed data. It is used when no API key is configured
// and whenever the real provider fails.
type MockProvider struct {
	now func() time.Time
}

func NewMockProvider() *MockProvider {
	return &MockProvider{now: time.Now}
}

func (m *MockProvider) Current(_ context.Context, loc Location) (*Report, error) {
	now := m.now().UTC()
	day := func(n int) string { return now.AddDate(0, 0, n).Format("2006-01-02") }

	r := &Report{
		Location: loc.Label(),
		Forecast: []Forecast{
			{Date: day(1), TempHigh: 30, TempLow: 22, Condition: "Sunny", Precipitation: 0},
			{Date: day(2), TempHigh: 29, TempLow: 21, Condition: "Partly Cloudy", Precipitation: 10},
			{Date: day(3), TempHigh: 27, TempLow: 20, Condition: "Light Rain", Precipitation: 60},
		},
		Alerts: []Alert{},
	}

	if !loc.Known() {
		r.Condition = "Weather data unavailable - please update your location"
		r.FarmingAdvice = "Please update your location in your profile to get accurate weather information and farming advice."
		return r, nil
	}

	r.Temperature = 28
	r.Condition = "Partly Cloudy"
	r.Humidity = 65
	r.WindSpeed = 12
	r.FarmingAdvice = defaultAdvice
	return r, nil
}
