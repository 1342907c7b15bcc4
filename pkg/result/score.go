package result

import (
	"math"
	"time"
)

// RecencyScore maps an optional extracted date to a score in [0,1],
// evaluated against the current wall clock. A nil date scores 0.
func RecencyScore(date *time.Time) float64 {
	return RecencyScoreAt(date, time.Now())
}

// RecencyScoreAt is RecencyScore against an explicit "now". The decay is
// piecewise linear over whole days: 1.0 within a week (future dates
// included), 0.9→0.8 up to a month, 0.8→0.5 up to three months,
// 0.5→0.2 up to a year, then a slow decay floored at 0.1.
func RecencyScoreAt(date *time.Time, now time.Time) float64 {
	if date == nil {
		return 0.0
	}

	daysAgo := math.Floor(now.Sub(*date).Hours() / 24)

	switch {
	case daysAgo <= 7:
		return 1.0
	case daysAgo <= 30:
		return 0.9 - (daysAgo-7)*0.1/23
	case daysAgo <= 90:
		return 0.8 - (daysAgo-30)*0.3/60
	case daysAgo <= 365:
		return 0.5 - (daysAgo-90)*0.3/275
	default:
		return math.Max(0.1, 0.2-(daysAgo-365)*0.1/365)
	}
}

// IsRecent reports whether date falls within the last N months. Months
// are approximated as 30 days, matching the scoring curve.
func IsRecent(date time.Time, months int) bool {
	return IsRecentAt(date, months, time.Now())
}

func IsRecentAt(date time.Time, months int, now time.Time) bool {
	cutoff := now.Add(-time.Duration(months) * 30 * 24 * time.Hour)
	return !date.Before(cutoff)
}
