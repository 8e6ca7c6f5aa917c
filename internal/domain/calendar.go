package domain

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour

	// daysPerEra is the length of a 400-year Gregorian cycle.
	daysPerEra = 146097
	// unixEpochShift moves day 0 from 0000-03-01 to 1970-01-01.
	unixEpochShift = 719468
)

// DaysFromCivil returns the number of days since 1970-01-01 for a proleptic
// Gregorian date. Months and days are not range-checked.
func DaysFromCivil(year, month, day int) int64 {
	y := int64(year)
	m := int64(month)
	// Shift the year so it starts on March 1st; February becomes the last month.
	y -= boolToInt64(m <= 2)
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + int64(day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*daysPerEra + doe - unixEpochShift
}

// CivilFromDays is the inverse of DaysFromCivil.
func CivilFromDays(days int64) (year, month, day int) {
	z := days + unixEpochShift
	era := floorDiv(z, daysPerEra)
	doe := z - era*daysPerEra
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := (mp+2)%12 + 1
	y := yoe + era*400 + boolToInt64(m <= 2)
	return int(y), int(m), int(d)
}

// Weekday returns 0 (Sunday) .. 6 (Saturday) for a day number from DaysFromCivil.
func Weekday(days int64) int {
	// 1970-01-01 was a Thursday.
	return int(floorMod(days+4, 7))
}

// IsLeapYear reports whether year has 366 days in the proleptic Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of month in year, or 0 for an invalid month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// civilFromUnixSeconds decomposes seconds since the epoch, read as a UTC wall
// clock, into calendar fields.
func civilFromUnixSeconds(sec int64) CivilDateTime {
	days := floorDiv(sec, secondsPerDay)
	rem := sec - days*secondsPerDay
	y, m, d := CivilFromDays(days)
	return CivilDateTime{
		Year:   y,
		Month:  m,
		Day:    d,
		Hour:   int(rem / secondsPerHour),
		Minute: int(rem % secondsPerHour / secondsPerMinute),
		Second: int(rem % secondsPerMinute),
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// LocalCivil renders an instant as the wall clock of a zone whose offset is off.
func LocalCivil(at Instant, off Offset) CivilDateTime {
	return civilFromUnixSeconds(at.UnixSeconds() + int64(off))
}
