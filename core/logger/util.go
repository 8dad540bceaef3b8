package logger

import (
	"strings"
	"time"
)

// Status collapses an error into the status value log consumers filter on.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}

// Took reports the elapsed time since start, rounded for log output.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS rounds a duration to whole milliseconds. Negative durations
// clamp to zero so clock skew never produces confusing log values.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// SummarizeStrings joins at most limit values with ", " and reports
// whether any were cut off.
func SummarizeStrings(values []string, limit int) (string, bool) {
	if limit <= 0 {
		return "", len(values) > 0
	}
	if len(values) <= limit {
		return strings.Join(values, ", "), false
	}
	return strings.Join(values[:limit], ", "), true
}
