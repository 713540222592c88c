package util

import "time"

// ISOLayout is the ISO-8601 layout used for every server-generated timestamp:
// UTC, microsecond precision, explicit numeric offset ("+00:00").
const ISOLayout = "2006-01-02T15:04:05.000000-07:00"

// ISOTimestamp formats t in UTC using ISOLayout.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// NowISO returns the current time formatted with ISOTimestamp.
func NowISO() string {
	return ISOTimestamp(time.Now())
}
