package util

import (
	"strconv"
	"time"
)

const dayFormat = "2006-01-02"

// FormatDay renders a time as a YYYY-MM-DD day string.
func FormatDay(t time.Time) string {
	return t.Format(dayFormat)
}

// ParseTime tries RFC3339, YYYY-MM-DD, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(dayFormat, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// DayKey formats a time as a compact YYYYMMDD key, used for daily quota
// counter keys.
func DayKey(t time.Time) string {
	return t.UTC().Format("20060102")
}
