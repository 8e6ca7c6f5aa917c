package domain

import (
	"fmt"
	"strings"
	"time"
)

// CivilDateTime is a wall-clock reading with no attached zone. It is meaningless
// as an absolute instant on its own.
type CivilDateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Civil is a shorthand constructor for minute-precision readings.
func Civil(year, month, day, hour, minute int) CivilDateTime {
	return CivilDateTime{Year: year, Month: month, Day: day, Hour: hour, Minute: minute}
}

// Validate checks every field against the proleptic Gregorian calendar.
func (c CivilDateTime) Validate() error {
	var problem string
	switch {
	case c.Month < 1 || c.Month > 12:
		problem = fmt.Sprintf("month %d out of range 1..12", c.Month)
	case c.Day < 1 || c.Day > DaysInMonth(c.Year, c.Month):
		problem = fmt.Sprintf("day %d out of range 1..%d for %04d-%02d", c.Day, DaysInMonth(c.Year, c.Month), c.Year, c.Month)
	case c.Hour < 0 || c.Hour > 23:
		problem = fmt.Sprintf("hour %d out of range 0..23", c.Hour)
	case c.Minute < 0 || c.Minute > 59:
		problem = fmt.Sprintf("minute %d out of range 0..59", c.Minute)
	case c.Second < 0 || c.Second > 59:
		problem = fmt.Sprintf("second %d out of range 0..59", c.Second)
	default:
		return nil
	}

	return &OpError{
		Op:   "civil.validate",
		Kind: KindInvalidCivilFields,
		Err:  fmt.Errorf("%s: %w", problem, ErrInvalidCivilFields),
	}
}

// Equal reports whether every field matches.
func (c CivilDateTime) Equal(other CivilDateTime) bool {
	return c == other
}

// Compare orders readings field by field: -1, 0 or +1.
func (c CivilDateTime) Compare(other CivilDateTime) int {
	a, b := c.unixSeconds(), other.unixSeconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Sub returns the wall-clock distance c - other, ignoring any zone.
func (c CivilDateTime) Sub(other CivilDateTime) time.Duration {
	return time.Duration(c.unixSeconds()-other.unixSeconds()) * time.Second
}

// AddSeconds shifts the reading along the wall clock, carrying into days,
// months and years as needed.
func (c CivilDateTime) AddSeconds(sec int64) CivilDateTime {
	return civilFromUnixSeconds(c.unixSeconds() + sec)
}

// AsUTC interprets the fields directly as a UTC reading (offset zero).
func (c CivilDateTime) AsUTC() Instant {
	return InstantFromUnix(c.unixSeconds())
}

// String renders the datetime-local form, YYYY-MM-DDTHH:MM with :SS when non-zero.
func (c CivilDateTime) String() string {
	s := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute)
	if c.Second != 0 {
		s += fmt.Sprintf(":%02d", c.Second)
	}
	return s
}

func (c CivilDateTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CivilDateTime) UnmarshalText(b []byte) error {
	parsed, err := ParseCivil(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c CivilDateTime) unixSeconds() int64 {
	return DaysFromCivil(c.Year, c.Month, c.Day)*secondsPerDay +
		int64(c.Hour)*secondsPerHour +
		int64(c.Minute)*secondsPerMinute +
		int64(c.Second)
}

var civilLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseCivil accepts the fixed datetime-local layouts YYYY-MM-DDTHH:MM[:SS]
// (a space may replace the T). Anything else is rejected; no offset is allowed.
func ParseCivil(s string) (CivilDateTime, error) {
	in := strings.TrimSpace(s)
	for _, layout := range civilLayouts {
		if len(in) != len(layout) {
			continue
		}
		t, err := time.Parse(layout, in)
		if err != nil {
			continue
		}
		return CivilDateTime{
			Year:   t.Year(),
			Month:  int(t.Month()),
			Day:    t.Day(),
			Hour:   t.Hour(),
			Minute: t.Minute(),
			Second: t.Second(),
		}, nil
	}

	return CivilDateTime{}, &OpError{
		Op:   "civil.parse",
		Kind: KindInvalidCivilFields,
		Err:  fmt.Errorf("%q is not YYYY-MM-DDTHH:MM[:SS]: %w", s, ErrInvalidCivilFields),
	}
}
