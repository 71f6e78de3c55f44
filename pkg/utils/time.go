package utils

import "time"

// FormatRFC3339 renders a timestamp in the stored wire format. All
// persisted timestamps are UTC.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return FormatRFC3339(time.Now())
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
