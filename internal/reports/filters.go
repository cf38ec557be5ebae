package reports

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// window is a half-open [from, to) span of submission times.
// The zero window is unbounded.
type window struct {
	from, to time.Time
}

func (w window) unbounded() bool {
	return w.from.IsZero() && w.to.IsZero()
}

func (w window) contains(t time.Time) bool {
	if w.unbounded() {
		return true
	}
	return !t.Before(w.from) && t.Before(w.to)
}

// submissionWindow resolves the report's date_range against now, in now's
// location. An empty date_range covers all time.
func submissionWindow(req ApplicationsReportRequest, now time.Time) (window, error) {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch req.DateRange {
	case "":
		return window{}, nil
	case DateRangeDaily:
		return window{from: today, to: today.AddDate(0, 0, 1)}, nil
	case DateRangeWeekly:
		// today and the six days before it
		return window{from: today.AddDate(0, 0, -6), to: today.AddDate(0, 0, 1)}, nil
	case DateRangeMonthly:
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return window{from: first, to: first.AddDate(0, 1, 0)}, nil
	case DateRangeYearly:
		first := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return window{from: first, to: first.AddDate(1, 0, 0)}, nil
	case DateRangeCustom:
		return customWindow(req.StartDate, req.EndDate, loc)
	}
	return window{}, fmt.Errorf("%w: unknown date_range %q", ErrInvalidRequest, req.DateRange)
}

// customWindow covers start_date through the whole of end_date.
func customWindow(startDate, endDate string, loc *time.Location) (window, error) {
	if startDate == "" || endDate == "" {
		return window{}, fmt.Errorf("%w: custom range needs start_date and end_date", ErrInvalidRequest)
	}
	from, err := time.ParseInLocation(dayLayout, startDate, loc)
	if err != nil {
		return window{}, fmt.Errorf("%w: start_date: %v", ErrInvalidRequest, err)
	}
	last, err := time.ParseInLocation(dayLayout, endDate, loc)
	if err != nil {
		return window{}, fmt.Errorf("%w: end_date: %v", ErrInvalidRequest, err)
	}
	if last.Before(from) {
		return window{}, fmt.Errorf("%w: end_date is before start_date", ErrInvalidRequest)
	}
	return window{from: from, to: last.AddDate(0, 0, 1)}, nil
}
