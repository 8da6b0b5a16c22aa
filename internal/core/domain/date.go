package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time-of-day component. All scheduler and
// ledger arithmetic works on Dates so that results are independent of
// timezones and wall-clock time. The zero value is "no date".
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// NewDate constructs a Date from its components. Out-of-range components are
// normalized the same way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates a time.Time to its calendar day in the time's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a Date in "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns the Date as a time.Time at UTC midnight.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Compare returns -1 if d is before other, 0 if equal, +1 if after.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Equal reports whether d and other are the same calendar day.
func (d Date) Equal(other Date) bool { return d.Compare(other) == 0 }

// DaysApart returns the number of days from d to other (positive when other is later).
func (d Date) DaysApart(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// DaysInMonth returns the length of d's month, accounting for leap years.
func (d Date) DaysInMonth() int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SameMonth reports whether d and other fall in the same calendar month.
func (d Date) SameMonth(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// MarshalJSON renders the date as a "2006-01-02" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a "2006-01-02" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
