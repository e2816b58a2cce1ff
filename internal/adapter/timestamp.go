package adapter

import (
	"math"
	"strings"
	"time"
)

// isoLayouts are tried in order by ParseISOMillis. Zone-less forms are
// read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISOMillis converts an ISO-8601 timestamp to epoch milliseconds.
// The boolean is false for empty or unparseable input.
func ParseISOMillis(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// SecondsToMillis converts epoch seconds (possibly fractional) to
// milliseconds. Zero, negative, NaN and infinite inputs report false.
func SecondsToMillis(sec float64) (int64, bool) {
	if sec <= 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		return 0, false
	}
	ms := math.Round(sec * 1000)
	if ms > math.MaxInt64 {
		return 0, false
	}
	return int64(ms), true
}
