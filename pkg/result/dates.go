package result

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type dateKind int

const (
	kindDaysAgo dateKind = iota
	kindHoursAgo
	kindMinutesAgo
	kindWeeksAgo
	kindMonthsAgo
	kindYearsAgo
	kindAbsoluteYMD
	kindAbsoluteUS
	kindToday
	kindYesterday
	kindLastWeek
	kindLastMonth
)

// datePatterns is scanned in order and the first matching rule wins, so
// relative-date rules take priority over absolute ones and absolute
// year-first forms over US month-first forms. Reordering changes which
// date wins on overlapping matches.
var datePatterns = []struct {
	re   *regexp.Regexp
	kind dateKind
}{
	{regexp.MustCompile(`(?i)(\d+)\s*days?\s*ago`), kindDaysAgo},
	{regexp.MustCompile(`(?i)(\d+)\s*hours?\s*ago`), kindHoursAgo},
	{regexp.MustCompile(`(?i)(\d+)\s*minutes?\s*ago`), kindMinutesAgo},
	{regexp.MustCompile(`(?i)(\d+)\s*weeks?\s*ago`), kindWeeksAgo},
	{regexp.MustCompile(`(?i)(\d+)\s*months?\s*ago`), kindMonthsAgo},
	{regexp.MustCompile(`(?i)(\d+)\s*years?\s*ago`), kindYearsAgo},
	{regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`), kindAbsoluteYMD},
	{regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`), kindAbsoluteYMD},
	{regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`), kindAbsoluteYMD},
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), kindAbsoluteUS},
	{regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})`), kindAbsoluteUS},
	{regexp.MustCompile(`(?i)today`), kindToday},
	{regexp.MustCompile(`(?i)yesterday`), kindYesterday},
	{regexp.MustCompile(`(?i)last\s+week`), kindLastWeek},
	{regexp.MustCompile(`(?i)last\s+month`), kindLastMonth},
}

// ExtractDate parses a calendar date out of free snippet text, trying
// the pattern table in order. Returns nil when nothing matches.
func ExtractDate(text string) *time.Time {
	return ExtractDateAt(text, time.Now())
}

// ExtractDateAt is ExtractDate against an explicit "now" for relative
// patterns. A rule that matches but resolves to a malformed date (for
// example 2024-13-45) is skipped and scanning continues.
func ExtractDateAt(text string, now time.Time) *time.Time {
	if text == "" {
		return nil
	}

	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := resolveDate(m, p.kind, now); ok {
			return &d
		}
	}

	return nil
}

func resolveDate(m []string, kind dateKind, now time.Time) (time.Time, bool) {
	switch kind {
	case kindDaysAgo:
		return relative(m[1], now, 24*time.Hour)
	case kindHoursAgo:
		return relative(m[1], now, time.Hour)
	case kindMinutesAgo:
		return relative(m[1], now, time.Minute)
	case kindWeeksAgo:
		return relative(m[1], now, 7*24*time.Hour)
	case kindMonthsAgo:
		// Months approximated as 30 days, years as 365.
		return relative(m[1], now, 30*24*time.Hour)
	case kindYearsAgo:
		return relative(m[1], now, 365*24*time.Hour)
	case kindAbsoluteYMD:
		return absolute(m[1], m[2], m[3])
	case kindAbsoluteUS:
		return absolute(m[3], m[1], m[2])
	case kindToday:
		return now, true
	case kindYesterday:
		return now.Add(-24 * time.Hour), true
	case kindLastWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case kindLastMonth:
		return now.Add(-30 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

func relative(digits string, now time.Time, unit time.Duration) (time.Time, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return time.Time{}, false
	}
	return now.Add(-time.Duration(n) * unit), true
}

func absolute(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	// time.Date normalizes out-of-range components; a round-trip
	// mismatch means the matched date was not a real calendar date.
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
