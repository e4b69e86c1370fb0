// Package byzantine provides an immutable date in the Byzantine
// ecclesiastical calendar.
//
// The Byzantine calendar shares the day and month structure of the Julian
// calendar but numbers years from the creation epoch (5509 BC) and starts
// each year on September 1. A Date is stored as an absolute instant; its
// Byzantine fields are derived once, under the proleptic Julian calendar,
// when the value is built.
//
// The minimum supported date is MinDate, MARCH 1, 5512. Conversions before
// it are not verified.
package byzantine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-byzcal/internal/calendar"
)

// creationOffset is added to a Julian year to obtain the Byzantine year for
// dates between January and August.
const creationOffset = 5508

var (
	ErrInvalidMonth   = errors.New("byzantine: invalid month")
	ErrInvalidWeekday = errors.New("byzantine: invalid weekday")
	ErrInvalidDate    = errors.New("byzantine: invalid date")
)

// Date is a day in the Byzantine calendar. Dates are values: every
// operation returns a new Date and none modifies its receiver, so a Date may
// be shared between goroutines freely.
//
// Two dates are the same day exactly when IsEqual reports true. Because the
// cached fields are a pure function of the instant, == agrees with IsEqual
// for dates built by this package. The zero Date is not a day; it stands for
// a missing date and comparing or shifting it panics.
type Date struct {
	millis  calendar.Millis
	year    int
	month   Month
	day     int
	weekday Weekday
}

// MinDate is the earliest supported date, the civil date 0004-03-01. The
// package does not enforce it; readers of user input reject dates before it.
var MinDate = Of(5512, March, 1)

// Of returns the date with the given Byzantine year, month and day. Days
// outside the month are normalised into the adjoining months, so APRIL 31
// is MAY 1. It panics if month is not a valid Month.
func Of(year int, month Month, day int) Date {
	month.mustBeValid()
	e := calendar.New().SwitchToPureJulian()
	e.SetFields(year-month.yearOffset(), month.JulianMonth(), day)
	return fromEngine(e)
}

// Copy returns a date for the same day as source, with its fields derived
// again from the instant.
func Copy(source Date) Date {
	source.mustBeSet()
	return fromEngine(source.engine())
}

// FromHybrid returns the Byzantine date of a civil calendar date: Julian
// before 1582-10-15 and Gregorian from then on. The minimum supported civil
// date is 1582-10-15.
func FromHybrid(year int, month time.Month, day int) Date {
	e := calendar.New().SetFields(year, month, day)
	e.SwitchToPureJulian()
	return fromEngine(e)
}

// FromHybridFields is FromHybrid for a month numbered 1-12.
func FromHybridFields(year, month, day int) Date {
	return FromHybrid(year, time.Month(month), day)
}

// FromTime returns the Byzantine date of the calendar day of t in t's
// location. The time package uses the proleptic Gregorian calendar, which
// matches the civil calendar from 1582-10-15 on.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return FromHybrid(y, m, d)
}

// FromUnixMilli returns the date of the UTC day containing ms.
func FromUnixMilli(ms int64) Date {
	e := calendar.New().SwitchToPureJulian()
	e.SetAbsoluteTime(calendar.Truncate(calendar.Millis(ms)))
	return fromEngine(e)
}

func fromEngine(e *calendar.Engine) Date {
	f := e.Fields()
	m := MonthOf(f.Month)
	return Date{
		millis:  e.AbsoluteTime(),
		year:    f.Year + m.yearOffset(),
		month:   m,
		day:     f.Day,
		weekday: WeekdayOf(e.DayOfWeek()),
	}
}

// engine returns a private proleptic Julian engine holding d's instant.
func (d Date) engine() *calendar.Engine {
	return calendar.New().SwitchToPureJulian().SetAbsoluteTime(d.millis)
}

func (d Date) Year() int { return d.year }

func (d Date) Month() Month { return d.month }

// Day returns the day of the month.
func (d Date) Day() int { return d.day }

func (d Date) Weekday() Weekday { return d.weekday }

// UnixMilli returns the instant of the date: midnight UTC, in milliseconds
// since 1970-01-01.
func (d Date) UnixMilli() int64 { return int64(d.millis) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return !d.month.Valid() }

// Julian returns the proleptic Julian calendar date of d.
func (d Date) Julian() (year int, month time.Month, day int) {
	f := calendar.FromAbsolute(d.millis, calendar.ProlepticJulian)
	return f.Year, f.Month, f.Day
}

// Hybrid returns the civil calendar date of d, the inverse of FromHybrid.
func (d Date) Hybrid() (year int, month time.Month, day int) {
	f := calendar.FromAbsolute(d.millis, calendar.Hybrid)
	return f.Year, f.Month, f.Day
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.UnixMilli(int64(d.millis)).UTC()
}

// AddYears returns d moved by n Byzantine years. A day missing from the
// target month, such as February 29 in a common year, is clamped to the
// month's last day.
func (d Date) AddYears(n int) Date {
	d.mustBeSet()
	return fromEngine(d.engine().AddYears(n))
}

// AddMonths returns d moved by n months, clamping the day of month like
// AddYears.
func (d Date) AddMonths(n int) Date {
	d.mustBeSet()
	return fromEngine(d.engine().AddMonths(n))
}

// AddDays returns d moved by n days.
func (d Date) AddDays(n int) Date {
	d.mustBeSet()
	return fromEngine(d.engine().AddDays(n))
}

func (d Date) IsEqual(other Date) bool {
	d.mustBeSet()
	other.mustBeSet()
	return d.millis == other.millis
}

func (d Date) IsBefore(other Date) bool {
	d.mustBeSet()
	other.mustBeSet()
	return d.millis < other.millis
}

func (d Date) IsAfter(other Date) bool {
	d.mustBeSet()
	other.mustBeSet()
	return d.millis > other.millis
}

// Compare returns -1, 0 or +1 as d is before, the same day as, or after
// other.
func (d Date) Compare(other Date) int {
	switch {
	case d.IsBefore(other):
		return -1
	case d.IsAfter(other):
		return 1
	default:
		return 0
	}
}

// Equal is IsEqual, named for use with go-cmp and similar tools.
func (d Date) Equal(other Date) bool { return d.IsEqual(other) }

// Compare orders two dates; it is suitable for slices.SortFunc.
func Compare(a, b Date) int { return a.Compare(b) }

// Hash returns a hash of the instant. Equal dates have equal hashes.
func (d Date) Hash() int32 {
	v := uint64(d.millis)
	return int32(v ^ (v >> 32))
}

// String renders the date as "APRIL 3, 7531".
func (d Date) String() string {
	return fmt.Sprintf("%s %d, %d", d.month, d.day, d.year)
}

// Parse reads a date in the form produced by String. The month name is case
// insensitive and nothing may follow the year. Unlike Of, the day must exist
// in the month.
func Parse(s string) (Date, error) {
	var name, rest string
	var day, year int
	n, err := fmt.Sscanf(strings.TrimSpace(s), "%s %d, %d%s", &name, &day, &year, &rest)
	switch {
	case n < 3:
		return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	case n > 3:
		return Date{}, fmt.Errorf("%w: %q: trailing %q", ErrInvalidDate, s, rest)
	}
	month, err := ParseMonth(name)
	if err != nil {
		return Date{}, err
	}
	d := Of(year, month, day)
	if d.day != day || d.month != month {
		return Date{}, fmt.Errorf("%w: %q: no day %d in %s", ErrInvalidDate, s, day, month)
	}
	return d, nil
}

// MarshalText implements encoding.TextMarshaler using the String form.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
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

// mustBeSet panics if d is the zero Date; using a missing date is a
// programming error.
func (d Date) mustBeSet() {
	if d.IsZero() {
		panic("byzantine: use of zero Date")
	}
}
