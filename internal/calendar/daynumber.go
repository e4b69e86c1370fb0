package calendar

// Integer Julian Day Number formulas (Fliegel & Van Flandern style), rewritten
// with floor division so they hold for years before the formula epoch.

const (
	// gregorianCutover is the day number of 1582-10-15 (Gregorian), which
	// directly follows 1582-10-04 (Julian) in the civil calendar.
	gregorianCutover int64 = 2299161

	// unixEpochDay is the day number of 1970-01-01.
	unixEpochDay int64 = 2440588
)

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

// julianDayNumber returns the day number of a Julian calendar date.
// month must already be in the range 1-12.
func julianDayNumber(year, month, day int64) int64 {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + floorDiv(153*m+2, 5) + 365*y + floorDiv(y, 4) - 32083
}

// gregorianDayNumber returns the day number of a Gregorian calendar date.
// month must already be in the range 1-12.
func gregorianDayNumber(year, month, day int64) int64 {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + floorDiv(153*m+2, 5) + 365*y +
		floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
}

func julianFromDayNumber(jdn int64) (year, month, day int64) {
	c := jdn + 32082
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)
	day = e - floorDiv(153*m+2, 5) + 1
	month = m + 3 - 12*floorDiv(m, 10)
	year = d - 4800 + floorDiv(m, 10)
	return
}

func gregorianFromDayNumber(jdn int64) (year, month, day int64) {
	a := jdn + 32044
	b := floorDiv(4*a+3, 146097)
	c := a - floorDiv(146097*b, 4)
	d := floorDiv(4*c+3, 1461)
	e := c - floorDiv(1461*d, 4)
	m := floorDiv(5*e+2, 153)
	day = e - floorDiv(153*m+2, 5) + 1
	month = m + 3 - 12*floorDiv(m, 10)
	year = 100*b + d - 4800 + floorDiv(m, 10)
	return
}
