package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

var ErrLocationUnknown = errors.New("location not set")

type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewOpenWeatherProvider(apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		apiKey:  apiKey,
		baseURL: openWeatherBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
}

type owCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owCurrent struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []owCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owForecast struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []owCondition `json:"weather"`
		Rain    *struct {
			ThreeHour float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

func (p *OpenWeatherProvider) Current(ctx context.Context, loc Location) (*Report, error) {
	if !loc.Known() && (loc.Latitude == nil || loc.Longitude == nil) {
		return nil, ErrLocationUnknown
	}

	var cur owCurrent
	if err := p.get(ctx, "weather", loc, &cur); err != nil {
		return nil, fmt.Errorf("current weather: %w", err)
	}

	// The forecast is optional.
	var fc owForecast
	var forecast []Forecast
	if err := p.get(ctx, "forecast", loc, &fc); err == nil {
		forecast = dailyForecast(fc, 5)
	}
	if forecast == nil {
		forecast = []Forecast{}
	}

	condition, main := "", ""
	if len(cur.Weather) > 0 {
		condition = cur.Weather[0].Description
		main = cur.Weather[0].Main
	}

	return &Report{
		Location:      loc.Label(),
		Temperature:   int(math.Round(cur.Main.Temp)),
		Condition:     condition,
		Humidity:      int(math.Round(cur.Main.Humidity)),
		WindSpeed:     int(math.Round(cur.Wind.Speed * 3.6)),
		Forecast:      forecast,
		Alerts:        alerts(cur.Main.Temp, cur.Main.Humidity, cur.Wind.Speed, p.now()),
		FarmingAdvice: advice(main, cur.Main.Temp, cur.Main.Humidity),
	}, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint string, loc Location, out interface{}) error {
	q := url.Values{}
	if loc.Latitude != nil && loc.Longitude != nil {
		q.Set("lat", strconv.FormatFloat(*loc.Latitude, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(*loc.Longitude, 'f', -1, 64))
	} else {
		q.Set("q", loc.District+","+loc.State+",IN")
	}
	q.Set("appid", p.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openweather %s: status %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// dailyForecast groups 3-hourly entries by date, keeping at most days days.
func dailyForecast(fc owForecast, days int) []Forecast {
	type acc struct {
		hi, lo    float64
		condition string
		rain      float64
	}
	var order []string
	byDate := make(map[string]*acc)

	for _, item := range fc.List {
		date, _, _ := strings.Cut(item.DtTxt, " ")
		a, ok := byDate[date]
		if !ok {
			a = &acc{hi: item.Main.Temp, lo: item.Main.Temp}
			if len(item.Weather) > 0 {
				a.condition = item.Weather[0].Description
			}
			byDate[date] = a
			order = append(order, date)
		}
		a.hi = math.Max(a.hi, item.Main.Temp)
		a.lo = math.Min(a.lo, item.Main.Temp)
		if item.Rain != nil {
			a.rain += item.Rain.ThreeHour
		}
	}

	if len(order) > days {
		order = order[:days]
	}
	out := make([]Forecast, 0, len(order))
	for _, date := range order {
		a := byDate[date]
		out = append(out, Forecast{
			Date:          date,
			TempHigh:      int(math.Round(a.hi)),
			TempLow:       int(math.Round(a.lo)),
			Condition:     a.condition,
			Precipitation: int(math.Round(a.rain)),
		})
	}
	return out
}

// alerts takes temperature in °C, humidity in % and wind in m/s.
func alerts(temp, humidity, wind float64, now time.Time) []Alert {
	window := func(d time.Duration) (string, string) {
		return now.UTC().Format(time.RFC3339), now.Add(d).UTC().Format(time.RFC3339)
	}

	out := []Alert{}
	if temp > 40 {
		start, end := window(24 * time.Hour)
		out = append(out, Alert{
			Type: "heat_wave", Severity: "high",
			Message:   "Extreme heat warning. Ensure adequate irrigation and protect livestock.",
			StartTime: start, EndTime: end,
		})
	}
	if humidity > 80 {
		start, end := window(12 * time.Hour)
		out = append(out, Alert{
			Type: "high_humidity", Severity: "medium",
			Message:   "High humidity may increase fungal disease risk in crops.",
			StartTime: start, EndTime: end,
		})
	}
	if wind > 10 {
		start, end := window(6 * time.Hour)
		out = append(out, Alert{
			Type: "strong_wind", Severity: "medium",
			Message:   "Strong winds may damage standing crops. Secure farm structures.",
			StartTime: start, EndTime: end,
		})
	}
	return out
}

func advice(condition string, temp, humidity float64) string {
	switch {
	case strings.Contains(strings.ToLower(condition), "rain"):
		return "Rain expected. Good time for sowing if soil conditions are suitable. Avoid heavy machinery use."
	case temp > 35:
		return "High temperature alert. Increase irrigation frequency and provide shade for livestock."
	case temp < 15:
		return "Cool weather. Good for post-harvest activities. Monitor crops for cold stress."
	case humidity > 70:
		return "High humidity detected. Monitor crops for fungal diseases and ensure good ventilation."
	default:
		return defaultAdvice
	}
}
