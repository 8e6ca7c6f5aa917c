package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ZoneID is an IANA zone name such as "America/New_York", or "UTC".
// Whether an id is known is decided by a ZoneRuleSource at lookup time.
type ZoneID string

const UTC ZoneID = "UTC"

func (z ZoneID) String() string { return string(z) }

// Offset is a signed number of seconds east of UTC. Most offsets are whole
// minutes; historic local mean time entries are not.
type Offset int32

func OffsetMinutes(m int) Offset { return Offset(m * secondsPerMinute) }

func (o Offset) Seconds() int { return int(o) }

// Minutes truncates toward zero.
func (o Offset) Minutes() int { return int(o) / secondsPerMinute }

// String renders +05:30, -05:00 or +05:53:28 for sub-minute offsets.
func (o Offset) String() string {
	sign := "+"
	v := int(o)
	if v < 0 {
		sign = "-"
		v = -v
	}
	h := v / secondsPerHour
	m := v % secondsPerHour / secondsPerMinute
	s := v % secondsPerMinute
	if s != 0 {
		return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}

// ParseOffset reads ±HH:MM[:SS], ±HHMM or ±HH. "Z" means zero.
func ParseOffset(s string) (Offset, error) {
	in := strings.TrimSpace(s)
	if in == "Z" || in == "z" {
		return 0, nil
	}
	if len(in) < 2 || (in[0] != '+' && in[0] != '-') {
		return 0, fmt.Errorf("offset %q must start with + or -", s)
	}
	sign := 1
	if in[0] == '-' {
		sign = -1
	}
	body := strings.ReplaceAll(in[1:], ":", "")

	if len(body) != 2 && len(body) != 4 && len(body) != 6 {
		return 0, fmt.Errorf("offset %q has unexpected length", s)
	}
	var parts [3]int
	for i := 0; i*2 < len(body); i++ {
		v, err := strconv.Atoi(body[i*2 : i*2+2])
		if err != nil {
			return 0, fmt.Errorf("offset %q: %w", s, err)
		}
		parts[i] = v
	}
	h, m, sec := parts[0], parts[1], parts[2]
	if h > 25 || m > 59 || sec > 59 {
		return 0, fmt.Errorf("offset %q out of range", s)
	}
	return Offset(sign * (h*secondsPerHour + m*secondsPerMinute + sec)), nil
}

// ZoneOffset is what a ZoneRuleSource reports for a zone at an instant.
type ZoneOffset struct {
	Offset       Offset
	IsDST        bool
	Abbreviation string
}

// ZonedDateTime is an instant rendered in a zone.
type ZonedDateTime struct {
	Instant Instant
	Zone    ZoneID
	Civil   CivilDateTime
	Offset  ZoneOffset
}

// CommonZones mirrors the zone picker shown to end users.
var CommonZones = []ZoneID{
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"America/Phoenix",
	"America/Anchorage",
	"Pacific/Honolulu",
	"UTC",
	"Europe/London",
	"Europe/Paris",
	"Europe/Berlin",
	"Asia/Tokyo",
	"Asia/Shanghai",
	"Asia/Dubai",
	"Australia/Sydney",
	"America/Toronto",
	"America/Vancouver",
	"America/Mexico_City",
	"America/Sao_Paulo",
	"Asia/Singapore",
	"Asia/Hong_Kong",
	"Asia/Kolkata",
	"Asia/Kathmandu",
}
