// Package datekey provides the canonical YYYY-MM-DD key format used for
// every calendar date in gyomucal. Keys are fixed-width and zero-padded,
// so lexical comparison of two well-formed keys equals chronological
// comparison.
package datekey

import (
	"fmt"
	"regexp"
	"time"
)

// Layout is the time.Time layout matching a date key.
const Layout = "2006-01-02"

var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Format renders the local year/month/day of t as a date key.
func Format(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// Parse converts a date key back into a time.Time at local midnight.
func Parse(key string) (time.Time, error) {
	if !keyPattern.MatchString(key) {
		return time.Time{}, fmt.Errorf("malformed date key %q", key)
	}
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date key %q: %w", key, err)
	}
	return t, nil
}

// IsValid reports whether key matches the format and names a real
// calendar date. time.ParseInLocation already rejects out-of-range
// components such as 2024-02-30; the reformat-and-compare round trip
// additionally catches any representation drift (padding, stray
// offsets) between the input and the canonical key.
func IsValid(key string) bool {
	if !keyPattern.MatchString(key) {
		return false
	}
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return false
	}
	return Format(t) == key
}

// ShiftDays returns key moved by delta calendar days. Invalid input is
// passed through unchanged so callers can shift optional fields without
// pre-checking.
func ShiftDays(key string, delta int) string {
	t, err := Parse(key)
	if err != nil || !IsValid(key) {
		return key
	}
	return Format(t.AddDate(0, 0, delta))
}

// ClampMin returns min when key sorts before it, otherwise key.
func ClampMin(key, min string) string {
	if key < min {
		return min
	}
	return key
}

// ClampMax returns max when key sorts after it, otherwise key.
func ClampMax(key, max string) string {
	if key > max {
		return max
	}
	return key
}

// Compare orders two keys: -1 when a is earlier, 0 when equal, 1 when later.
func Compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
