package domain

import (
	"fmt"
	"strings"
)

// DisplayFormat selects a presentation of a rendered reading.
type DisplayFormat string

const (
	DisplayDateOnly      DisplayFormat = "date"     // Nov 18, 2025
	DisplayTimeOnly      DisplayFormat = "time"     // 03:56 PM
	DisplayDateTime      DisplayFormat = "datetime" // Nov 18, 2025, 03:56 PM
	DisplayDateTimeLocal DisplayFormat = "local"    // 2025-11-18T15:56
	DisplayISO           DisplayFormat = "iso"      // 2025-11-18T15:56:00+00:00
)

// ParseDisplayFormat is case-insensitive; "" yields DisplayDateTime.
func ParseDisplayFormat(s string) (DisplayFormat, error) {
	switch f := DisplayFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return DisplayDateTime, nil
	case DisplayDateOnly, DisplayTimeOnly, DisplayDateTime, DisplayDateTimeLocal, DisplayISO:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported display format %q (expected date|time|datetime|local|iso): %w", s, ErrInvalidConfig)
	}
}

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// FormatCivil is a pure projection of the fields in en-US style. DisplayISO
// needs an offset and is handled by ZonedDateTime.Format; here it renders
// without one.
func FormatCivil(c CivilDateTime, f DisplayFormat) string {
	switch f {
	case DisplayDateOnly:
		return formatDate(c)
	case DisplayTimeOnly:
		return formatTime(c)
	case DisplayDateTimeLocal:
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute)
	case DisplayISO:
		return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
	default:
		return formatDate(c) + ", " + formatTime(c)
	}
}

// Format renders the reading; DisplayISO includes the zone offset.
func (z ZonedDateTime) Format(f DisplayFormat) string {
	if f == DisplayISO {
		return FormatCivil(z.Civil, DisplayISO) + z.Offset.Offset.String()
	}
	return FormatCivil(z.Civil, f)
}

func formatDate(c CivilDateTime) string {
	month := "???"
	if c.Month >= 1 && c.Month <= 12 {
		month = monthAbbrev[c.Month-1]
	}
	return fmt.Sprintf("%s %d, %d", month, c.Day, c.Year)
}

func formatTime(c CivilDateTime) string {
	h := c.Hour % 12
	if h == 0 {
		h = 12
	}
	meridiem := "AM"
	if c.Hour >= 12 {
		meridiem = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", h, c.Minute, meridiem)
}
