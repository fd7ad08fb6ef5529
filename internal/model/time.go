package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	minuteLayout   = "2006-01-02 15:04"
)

// scanLayouts covers the formats drivers hand back for TIMESTAMP/DATE text
// columns, plus the wire formats the API accepts.
var scanLayouts = []string{
	dateTimeLayout,
	minuteLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
	dateLayout,
}

// Date is a calendar day. It marshals as "YYYY-MM-DD" and serializes to the
// database as a time.Time; the zero value marshals as JSON null and stores
// as SQL NULL.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

func (d *Date) Scan(src interface{}) error {
	t, err := scanTime(src)
	if err != nil {
		return err
	}
	*d = Date{Time: t}
	return nil
}

// DateTime is a wall-clock timestamp marshalled as "YYYY-MM-DD HH:MM:SS".
// Input without seconds is accepted, matching the booking API.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.Truncate(time.Second)}
}

func Now() DateTime {
	return NewDateTime(time.Now().UTC())
}

func ParseDateTime(s string) (DateTime, error) {
	for _, layout := range []string{dateTimeLayout, minuteLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime{Time: t}, nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid datetime %q, expected YYYY-MM-DD HH:MM[:SS]", s)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateTimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
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

func (d DateTime) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

func (d *DateTime) Scan(src interface{}) error {
	t, err := scanTime(src)
	if err != nil {
		return err
	}
	*d = DateTime{Time: t}
	return nil
}

func scanTime(src interface{}) (time.Time, error) {
	switch v := src.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		return parseAny(v)
	case []byte:
		return parseAny(string(v))
	default:
		return time.Time{}, fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func parseAny(s string) (time.Time, error) {
	for _, layout := range scanLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format %q", s)
}
