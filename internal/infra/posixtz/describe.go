package posixtz

import (
	"fmt"
	"strings"
)

var (
	monthNames   = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	weekNames    = []string{"", "first", "second", "third", "fourth", "last"}
	weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// Describe renders the rule for humans, one line per fact:
//
//	Standard time: EST (UTC-05:00)
//	Daylight time: EDT (UTC-04:00)
//	Starts on the second Sunday of March at 02:00:00, ends on the first Sunday of November at 02:00:00
func (r Rule) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Standard time: %s (UTC%s)", r.StdAbbr, r.StdOffset)
	if !r.HasDST() {
		b.WriteString("\nNo daylight saving time")
		return b.String()
	}
	fmt.Fprintf(&b, "\nDaylight time: %s (UTC%s)", r.DstAbbr, r.DstOffset)
	fmt.Fprintf(&b, "\nStarts %s, ends %s", r.Start.describe(), r.End.describe())
	return b.String()
}

func (tr TransitionRule) describe() string {
	var day string
	switch tr.Kind {
	case DateJulian:
		day = fmt.Sprintf("on day %d of the year (February 29 not counted)", tr.Day)
	case DateZeroBased:
		if tr.Day == 0 {
			day = "on January 1"
		} else {
			day = fmt.Sprintf("on day %d of the year (counting from 0)", tr.Day)
		}
	default:
		day = fmt.Sprintf("on the %s %s of %s", weekNames[tr.Week], weekdayNames[tr.Weekday], monthNames[tr.Month-1])
	}
	return day + " at " + formatClock(tr.Time)
}

// formatClock prints signed seconds as [-]hh:mm:ss; hours may exceed 23.
func formatClock(secs int) string {
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, secs/secondsPerHour, secs%secondsPerHour/60, secs%60)
}
