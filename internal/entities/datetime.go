// ABOUTME: DateTime is the ISO-8601 local date-time scalar used by entity fields
// ABOUTME: Encodes as "2006-01-02T15:04:05" in JSON and as TEXT in the database

package entities

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical wire and storage format. Fractional seconds are
// written only when present.
const Layout = "2006-01-02T15:04:05.999999999"

// inputLayouts are tried in order when parsing. Zone offsets are accepted and
// dropped: the wall clock is kept as-is.
var inputLayouts = []string{
	Layout,
	"2006-01-02T15:04",
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// DateTime is a date-time without zone. The zero value means "unset" and
// encodes as JSON null and SQL NULL.
type DateTime struct {
	time.Time
}

// NewDateTime builds a DateTime at second precision.
func NewDateTime(year int, month time.Month, day, hour, min, sec int) DateTime {
	return DateTime{time.Date(year, month, day, hour, min, sec, 0, time.UTC)}
}

// ParseDateTime parses an ISO-8601 local date-time. Seconds are optional.
// 0001-01-01T00:00:00 is rejected since it is the unset value.
func ParseDateTime(s string) (DateTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		d := DateTime{wallClock(t)}
		if d.IsZero() {
			return DateTime{}, fmt.Errorf("date-time %q is out of range", s)
		}
		return d, nil
	}
	return DateTime{}, fmt.Errorf("invalid date-time %q (want %s)", s, Layout)
}

// wallClock drops the zone and keeps the clock reading.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// String formats in Layout, or "" when unset.
func (d DateTime) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(Layout)
}

// Equal reports whether both values denote the same date-time.
func (d DateTime) Equal(o DateTime) bool {
	return d.Time.Equal(o.Time)
}

// MarshalJSON implements json.Marshaler.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(Layout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = DateTime{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date-time must be a JSON string, got %s", s)
	}
	parsed, err := ParseDateTime(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner.
func (d *DateTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = DateTime{}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case time.Time:
		*d = DateTime{wallClock(v)}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateTime", src)
	}
}

func (d *DateTime) scanString(s string) error {
	if s == "" {
		*d = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d DateTime) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(Layout), nil
}
