package weather

import (
	"fmt"
	"strings"
)

// Location is where a farmer farms. Coordinates win over district/state when set.
type Location struct {
	District  string
	State     string
	Latitude  *float64
	Longitude *float64
}

// Known reports whether enough of the location is set to look up weather.
func (l Location) Known() bool {
	return l.District != "" && l.State != ""
}

// Label is the human readable location shown to the farmer.
func (l Location) Label() string {
	switch {
	case l.Known():
		return l.District + ", " + l.State
	case l.State != "":
		return l.State
	default:
		return "Location not set"
	}
}

// key identifies a location for caching.
func (l Location) key() string {
	if l.Latitude != nil && l.Longitude != nil {
		return fmt.Sprintf("%.3f,%.3f", *l.Latitude, *l.Longitude)
	}
	return strings.ToLower(l.District + "," + l.State)
}

type Report struct {
	Location      string     `json:"location"`
	Temperature   int        `json:"temperature"`
	Condition     string     `json:"condition"`
	Humidity      int        `json:"humidity"`
	WindSpeed     int        `json:"windSpeed"` // km/h
	Forecast      []Forecast `json:"forecast"`
	Alerts        []Alert    `json:"alerts"`
	FarmingAdvice string     `json:"farmingAdvice"`
}

type Forecast struct {
	Date          string `json:"date"`
	TempHigh      int    `json:"tempHigh"`
	TempLow       int    `json:"tempLow"`
	Condition     string `json:"condition"`
	Precipitation int    `json:"precipitation"`
}

type Alert struct {
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
