// Package calendar converts between (year, month, day) fields and a linear
// absolute time under either the hybrid Julian/Gregorian civil calendar or
// the proleptic Julian calendar, and performs field based date arithmetic.
//
// All conversions are pure functions that take the calendar Mode as an
// explicit parameter. Engine is a small mutable convenience wrapper for
// callers that prefer a set-then-read style.
package calendar

import "time"

// MillisPerDay is the number of milliseconds in a calendar day.
const MillisPerDay int64 = 24 * 60 * 60 * 1000

// Millis is an absolute time: milliseconds since 1970-01-01T00:00:00Z.
type Millis int64

// Fields is a (year, month, day) triple. It only has meaning together with
// a Mode. Years use astronomical numbering, so 1 BC is year 0.
type Fields struct {
	Year  int
	Month time.Month
	Day   int
}

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isJulianLeap(year int64) bool {
	return floorMod(year, 4) == 0
}

func isGregorianLeap(year int64) bool {
	return floorMod(year, 4) == 0 && (floorMod(year, 100) != 0 || floorMod(year, 400) == 0)
}

// IsLeap reports whether year is a leap year under mode. In Hybrid mode
// years before 1582 follow the Julian rule and later years the Gregorian
// rule; 1582 itself is common under both.
func IsLeap(year int, mode Mode) bool {
	mode.mustBeValid()
	if mode == ProlepticJulian || year < 1582 {
		return isJulianLeap(int64(year))
	}
	return isGregorianLeap(int64(year))
}

// DaysInMonth returns the highest valid day-of-month number for the given
// month. Months outside 1-12 are normalised first, so month 13 of 2023 is
// January 2024. For the hybrid cutover month (October 1582) it returns 31
// even though the 5th to the 14th do not exist.
func DaysInMonth(year int, month time.Month, mode Mode) int {
	y, m := normalizeMonth(int64(year), int64(month))
	n := daysPerMonth[m-1]
	if m == 2 && IsLeap(int(y), mode) {
		n++
	}
	return n
}

// normalizeMonth folds an out of range month into the year, using floor
// semantics so that month 0 is December of the previous year.
func normalizeMonth(year, month int64) (int64, int64) {
	total := year*12 + (month - 1)
	return floorDiv(total, 12), floorMod(total, 12) + 1
}

// DayNumber returns the Julian Day Number for f interpreted under mode.
//
// Normalisation is lenient and never fails: the month is folded into the
// year first, then the day is applied as an offset from the first of that
// month. Day 0 is the last day of the previous month and day 32 of a 30 day
// month is the 2nd of the following month.
func DayNumber(f Fields, mode Mode) int64 {
	mode.mustBeValid()
	y, m := normalizeMonth(int64(f.Year), int64(f.Month))
	d := int64(f.Day)
	if mode == Hybrid && onOrAfterCutover(y, m, d) {
		return gregorianDayNumber(y, m, 1) + d - 1
	}
	return julianDayNumber(y, m, 1) + d - 1
}

func onOrAfterCutover(y, m, d int64) bool {
	switch {
	case y != 1582:
		return y > 1582
	case m != 10:
		return m > 10
	default:
		return d >= 15
	}
}

// FieldsOf returns the fields of the given Julian Day Number under mode.
func FieldsOf(jdn int64, mode Mode) Fields {
	mode.mustBeValid()
	var y, m, d int64
	if mode == Hybrid && jdn >= gregorianCutover {
		y, m, d = gregorianFromDayNumber(jdn)
	} else {
		y, m, d = julianFromDayNumber(jdn)
	}
	return Fields{Year: int(y), Month: time.Month(m), Day: int(d)}
}

// ToAbsolute returns the absolute time of midnight UTC on the date f.
func ToAbsolute(f Fields, mode Mode) Millis {
	return Millis((DayNumber(f, mode) - unixEpochDay) * MillisPerDay)
}

// FromAbsolute returns the fields of the day containing ms.
func FromAbsolute(ms Millis, mode Mode) Fields {
	return FieldsOf(dayNumberOf(ms), mode)
}

// Truncate returns midnight UTC of the day containing ms.
func Truncate(ms Millis) Millis {
	return Millis(floorDiv(int64(ms), MillisPerDay) * MillisPerDay)
}

func dayNumberOf(ms Millis) int64 {
	return floorDiv(int64(ms), MillisPerDay) + unixEpochDay
}

// WeekdayOf returns the day of the week of the day containing ms. The day
// of the week does not depend on the calendar mode.
func WeekdayOf(ms Millis) time.Weekday {
	// Day number 0 (Julian 4713 BC January 1) was a Monday.
	return time.Weekday(floorMod(dayNumberOf(ms)+1, 7))
}

// AddDays shifts ms by n whole days.
func AddDays(ms Millis, n int) Millis {
	return ms + Millis(int64(n)*MillisPerDay)
}

// AddMonths moves ms by n months under mode. The day of month is kept when
// it exists in the target month and otherwise clamped to the month's last
// day; it never rolls over into the following month.
func AddMonths(ms Millis, n int, mode Mode) Millis {
	f := FromAbsolute(ms, mode)
	y, m := normalizeMonth(int64(f.Year), int64(f.Month)+int64(n))
	return clampAndConvert(ms, int(y), time.Month(m), f.Day, mode)
}

// AddYears moves ms by n years under mode, clamping the day of month in the
// same way as AddMonths (February 29 becomes February 28 in a common year).
func AddYears(ms Millis, n int, mode Mode) Millis {
	f := FromAbsolute(ms, mode)
	return clampAndConvert(ms, f.Year+n, f.Month, f.Day, mode)
}

func clampAndConvert(ms Millis, year int, month time.Month, day int, mode Mode) Millis {
	day = min(day, DaysInMonth(year, month, mode))
	// Preserve any time of day carried by ms.
	rem := Millis(floorMod(int64(ms), MillisPerDay))
	return ToAbsolute(Fields{Year: year, Month: month, Day: day}, mode) + rem
}
