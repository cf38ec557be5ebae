package market

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Provider returns current prices near a farmer.
type Provider interface {
	Prices(ctx context.Context, state, district string) ([]Price, error)
}

type commodity struct {
	name, variety string
	basePrice     float64
}

var commodities = []commodity{
	{"Rice", "PR 106", 2000},
	{"Wheat", "HD 2967", 2200},
	{"Cotton", "BT Cotton", 5500},
	{"Sugarcane", "Co 86032", 320},
	{"Soybean", "JS 335", 4000},
	{"Maize", "Pioneer", 1800},
	{"Onion", "Nashik Red", 1500},
	{"Tomato", "Hybrid", 2500},
	{"Potato", "Kufri Jyoti", 1200},
	{"Turmeric", "Salem", 8000},
}

var stateMultipliers = map[string]float64{
	"maharashtra":    1.1,
	"punjab":         1.05,
	"haryana":        1.05,
	"uttar-pradesh":  0.95,
	"gujarat":        1.08,
	"rajasthan":      0.98,
	"tamil-nadu":     1.12,
	"karnataka":      1.06,
	"andhra-pradesh": 1.04,
	"telangana":      1.04,
	"west-bengal":    0.92,
	"bihar":          0.88,
	"odisha":         0.90,
}

func stateSlug(state string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(state)), " ", "-")
}

func regionalMultiplier(state string) float64 {
	if m, ok := stateMultipliers[stateSlug(state)]; ok {
		return m
	}
	return 1.0
}

// MockProvider generates plausible prices. The ±10% variation is seeded by
// date and location, so a location sees the same prices all day.
type MockProvider struct {
	now func() time.Time
}

func NewMockProvider() *MockProvider {
	return &MockProvider{now: time.Now}
}

func (m *MockProvider) Prices(_ context.Context, state, district string) ([]Price, error) {
	date := m.now().UTC().Format("2006-01-02")

	h := fnv.New64a()
	_, _ = h.Write([]byte(date + "|" + stateSlug(state) + "|" + strings.ToLower(district)))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	multiplier := regionalMultiplier(state)
	out := make([]Price, 0, len(commodities))
	for i, c := range commodities {
		base := c.basePrice * multiplier
		variation := (rng.Float64() - 0.5) * 0.2
		current := int(math.Round(base * (1 + variation)))
		previous := int(math.Round(base))
		change := current - previous

		out = append(out, Price{
			ID:            strings.ToLower(c.name) + "-" + strconv.Itoa(i),
			Commodity:     c.name,
			Variety:       c.variety,
			Market:        district + " Mandi",
			District:      orUnknown(district),
			State:         orUnknown(state),
			Price:         current,
			Unit:          "quintal",
			Date:          date,
			Change:        change,
			ChangePercent: percent(change, previous),
		})
	}
	return out, nil
}

func percent(change, previous int) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round(float64(change)/float64(previous)*100*100) / 100
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
