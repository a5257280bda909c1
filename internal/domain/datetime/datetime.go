// Package datetime converts catalog date values to and from the search engine's timestamp form.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISO8601 is the serialized timestamp layout ("2010-01-01T00:00:00+00:00").
const ISO8601 = "2006-01-02T15:04:05-07:00"

// Epoch replaces missing dates: range queries in the engine reject absent values.
var Epoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Parse reads a date in any common layout. Zone-less input is taken as UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Format serializes t as ISO 8601 with a numeric zone offset.
func Format(t time.Time) string {
	return t.Format(ISO8601)
}

// ToTime converts time values and parsable strings. ok is false for anything else.
func ToTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case string:
		t, err := Parse(x)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// Timestamp formats time values and parsable strings.
func Timestamp(v any) (string, bool) {
	t, ok := ToTime(v)
	if !ok {
		return "", false
	}
	return Format(t), true
}
