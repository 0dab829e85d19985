// Package dates provides a civil-date value type for calendar arithmetic.
//
// A Date is a year/month/day triple with no time-of-day and no zone. The
// congregation data model runs entirely on wall-clock dates; conversion to
// instants happens only at the interchange-export boundary.
package dates

import (
	"fmt"
	"time"
)

// Date is a calendar date without time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New constructs a Date. Out-of-range components are normalized the same
// way time.Date normalizes them (e.g. Feb 30 becomes Mar 1 or 2).
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime extracts the date portion of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Parse reads a date in ISO "2006-01-02" form.
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for test fixtures and constants; it panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Midnight returns the instant at 00:00:00 UTC on d.
func (d Date) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Midnight().AddDate(0, 0, n))
}

// AddMonths returns d shifted by n calendar months using the standard
// library's native rollover: Jan 31 + 1 month yields Mar 2 or 3.
func (d Date) AddMonths(n int) Date {
	return FromTime(d.Midnight().AddDate(0, n, 0))
}

// AddYears returns d shifted by n calendar years.
func (d Date) AddYears(n int) Date {
	return FromTime(d.Midnight().AddDate(n, 0, 0))
}

// WithYear projects d onto another year, keeping month and day. Feb 29
// normalizes to Mar 1 in non-leap years, matching time.Date semantics.
func (d Date) WithYear(year int) Date {
	return New(year, d.Month, d.Day)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d == other
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// DaysUntil returns the number of whole days from d to other; negative if
// other is earlier.
func (d Date) DaysUntil(other Date) int {
	return int(other.Midnight().Sub(d.Midnight()) / (24 * time.Hour))
}

// String renders d as "2006-01-02".
func (d Date) String() string {
	return d.Midnight().Format("2006-01-02")
}

// Compact renders d as "20060102", the basic format used by the
// interchange exporter and provider links.
func (d Date) Compact() string {
	return d.Midnight().Format("20060102")
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
