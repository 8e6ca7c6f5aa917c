// Package posixtz parses POSIX TZ strings such as "EST5EDT,M3.2.0,M11.1.0"
// and evaluates the offset they prescribe at an instant. These strings are
// also the footer of TZif files, where they cover every instant after the
// last explicit transition.
package posixtz

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aalvaropc/wallclock/internal/domain"
)

const (
	secondsPerHour = 3600
	secondsPerDay  = 86400

	// defaultRuleTime is the POSIX default for a missing /time suffix.
	defaultRuleTime = 2 * secondsPerHour
)

// DateKind selects how a transition date is spelled.
type DateKind int

const (
	// DateJulian is "Jn": day 1..365, February 29 is never counted.
	DateJulian DateKind = iota
	// DateZeroBased is "n": day 0..365, February 29 is counted in leap years.
	DateZeroBased
	// DateMonthWeekDay is "Mm.w.d": weekday d of week w (5 = last) of month m.
	DateMonthWeekDay
)

// TransitionRule is one end of the DST period, in local wall time.
type TransitionRule struct {
	Kind    DateKind
	Day     int // DateJulian, DateZeroBased
	Month   int // DateMonthWeekDay
	Week    int
	Weekday int // 0 = Sunday

	// Time is seconds after local midnight; may be negative or past 24h.
	Time int
}

// Rule is a parsed POSIX TZ string. Offsets are stored east of UTC, the
// opposite sign of the string itself.
type Rule struct {
	Raw string

	StdAbbr   string
	StdOffset domain.Offset

	DstAbbr   string
	DstOffset domain.Offset

	Start TransitionRule
	End   TransitionRule
}

func (r Rule) HasDST() bool { return r.DstAbbr != "" }

var tzPattern = regexp.MustCompile(
	`^(?P<StdName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)` +
		`(?P<StdOffset>[-+]?[0-9]+(?::[0-9]+){0,2})` +
		`(?:(?P<DstName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)` +
		`(?P<DstOffset>[-+]?[0-9]+(?::[0-9]+){0,2})?` +
		`(?:,(?P<StartRule>(?:J?[0-9]+|M[0-9]+\.[0-9]+\.[0-9]+)(?:/[-+]?[0-9]+(?::[0-9]+){0,2})?)` +
		`,(?P<EndRule>(?:J?[0-9]+|M[0-9]+\.[0-9]+\.[0-9]+)(?:/[-+]?[0-9]+(?::[0-9]+){0,2})?))?)?$`)

// US rules, applied when a DST name is given without transition rules.
var defaultStart = TransitionRule{Kind: DateMonthWeekDay, Month: 3, Week: 2, Weekday: 0, Time: defaultRuleTime}
var defaultEnd = TransitionRule{Kind: DateMonthWeekDay, Month: 11, Week: 1, Weekday: 0, Time: defaultRuleTime}

// Parse reads a POSIX TZ string.
func Parse(s string) (Rule, error) {
	in := strings.TrimSpace(s)
	m := tzPattern.FindStringSubmatch(in)
	if m == nil {
		return Rule{}, invalid(s, "does not match std offset [dst [offset] [,start,end]]")
	}
	group := func(name string) string { return m[tzPattern.SubexpIndex(name)] }

	stdWest, err := parseClock(group("StdOffset"), 24)
	if err != nil {
		return Rule{}, invalid(s, "standard offset: "+err.Error())
	}
	r := Rule{
		Raw:       in,
		StdAbbr:   abbreviation(group("StdName")),
		StdOffset: domain.Offset(-stdWest),
	}

	if group("DstName") == "" {
		return r, nil
	}
	r.DstAbbr = abbreviation(group("DstName"))
	r.DstOffset = r.StdOffset + secondsPerHour
	if raw := group("DstOffset"); raw != "" {
		dstWest, err := parseClock(raw, 24)
		if err != nil {
			return Rule{}, invalid(s, "daylight offset: "+err.Error())
		}
		r.DstOffset = domain.Offset(-dstWest)
	}

	r.Start, r.End = defaultStart, defaultEnd
	if raw := group("StartRule"); raw != "" {
		if r.Start, err = parseTransition(raw); err != nil {
			return Rule{}, invalid(s, "start rule: "+err.Error())
		}
		if r.End, err = parseTransition(group("EndRule")); err != nil {
			return Rule{}, invalid(s, "end rule: "+err.Error())
		}
	}
	return r, nil
}

// MustParse is for package-level rule literals.
func MustParse(s string) Rule {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the offset the rule prescribes at the instant.
func (r Rule) Lookup(at domain.Instant) domain.ZoneOffset {
	std := domain.ZoneOffset{Offset: r.StdOffset, Abbreviation: r.StdAbbr}
	if !r.HasDST() {
		return std
	}
	dst := domain.ZoneOffset{Offset: r.DstOffset, IsDST: true, Abbreviation: r.DstAbbr}

	t := at.UnixSeconds()
	year := domain.LocalCivil(at, r.StdOffset).Year

	// Checking the neighbouring years as well covers instants whose rule
	// year differs from their calendar year, e.g. "J365/25".
	for _, y := range []int{year - 1, year, year + 1} {
		start, end := r.transitions(y)
		if start <= end {
			if t >= start && t < end {
				return dst
			}
			continue
		}
		// Southern hemisphere: DST spans the turn of the year.
		if y == year && (t < end || t >= start) {
			return dst
		}
	}
	return std
}

// Transitions returns the UTC seconds at which DST starts and ends in year.
func (r Rule) Transitions(year int) (start, end int64) {
	return r.transitions(year)
}

func (r Rule) transitions(year int) (int64, int64) {
	start := r.Start.localSeconds(year) - int64(r.StdOffset)
	end := r.End.localSeconds(year) - int64(r.DstOffset)
	return start, end
}

func (tr TransitionRule) localSeconds(year int) int64 {
	return tr.dayNumber(year)*secondsPerDay + int64(tr.Time)
}

func (tr TransitionRule) dayNumber(year int) int64 {
	jan1 := domain.DaysFromCivil(year, 1, 1)
	switch tr.Kind {
	case DateJulian:
		d := int64(tr.Day)
		if domain.IsLeapYear(year) && tr.Day >= 60 {
			d++
		}
		return jan1 + d - 1
	case DateZeroBased:
		return jan1 + int64(tr.Day)
	default:
		first := domain.DaysFromCivil(year, tr.Month, 1)
		delta := (tr.Weekday - domain.Weekday(first) + 7) % 7
		day := 1 + delta + (tr.Week-1)*7
		for day > domain.DaysInMonth(year, tr.Month) {
			day -= 7
		}
		return first + int64(day-1)
	}
}

func parseTransition(s string) (TransitionRule, error) {
	date, clock, hasTime := strings.Cut(s, "/")
	tr := TransitionRule{Time: defaultRuleTime}
	if hasTime {
		secs, err := parseClock(clock, 167)
		if err != nil {
			return TransitionRule{}, err
		}
		tr.Time = secs
	}

	switch {
	case strings.HasPrefix(date, "M"):
		parts := strings.Split(date[1:], ".")
		if len(parts) != 3 {
			return TransitionRule{}, fmt.Errorf("%q: expected Mm.w.d", s)
		}
		vals := [3]int{}
		for i, p := range parts {
			v, err := strconv.Atoi(p)
			if err != nil {
				return TransitionRule{}, fmt.Errorf("%q: %w", s, err)
			}
			vals[i] = v
		}
		tr.Kind, tr.Month, tr.Week, tr.Weekday = DateMonthWeekDay, vals[0], vals[1], vals[2]
		if tr.Month < 1 || tr.Month > 12 || tr.Week < 1 || tr.Week > 5 || tr.Weekday < 0 || tr.Weekday > 6 {
			return TransitionRule{}, fmt.Errorf("%q: month, week or weekday out of range", s)
		}
	case strings.HasPrefix(date, "J"):
		v, err := strconv.Atoi(date[1:])
		if err != nil {
			return TransitionRule{}, fmt.Errorf("%q: %w", s, err)
		}
		if v < 1 || v > 365 {
			return TransitionRule{}, fmt.Errorf("%q: julian day out of range 1..365", s)
		}
		tr.Kind, tr.Day = DateJulian, v
	default:
		v, err := strconv.Atoi(date)
		if err != nil {
			return TransitionRule{}, fmt.Errorf("%q: %w", s, err)
		}
		if v < 0 || v > 365 {
			return TransitionRule{}, fmt.Errorf("%q: day out of range 0..365", s)
		}
		tr.Kind, tr.Day = DateZeroBased, v
	}
	return tr, nil
}

// parseClock reads [+-]hh[:mm[:ss]] into signed seconds.
func parseClock(s string, maxHours int) (int, error) {
	sign := 1
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		s = s[1:]
		sign = -1
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%q: too many fields", s)
	}
	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[0] > maxHours || vals[1] > 59 || vals[2] > 59 {
		return 0, fmt.Errorf("%q out of range", s)
	}
	return sign * (vals[0]*secondsPerHour + vals[1]*60 + vals[2]), nil
}

func abbreviation(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
}

func invalid(s, reason string) error {
	return &domain.OpError{
		Op:   "posixtz.parse",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("%w: POSIX TZ %q: %s", domain.ErrInvalidConfig, s, reason),
	}
}
