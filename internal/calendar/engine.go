package calendar

import "time"

// Engine is a mutable scratch calendar holding an absolute time and the mode
// used to interpret it. It is not safe for concurrent use; callers create a
// private Engine per operation.
//
// A new Engine uses the Hybrid mode and holds absolute time 0.
type Engine struct {
	ms   Millis
	mode Mode
}

// New returns an Engine in Hybrid mode.
func New() *Engine {
	return &Engine{mode: Hybrid}
}

// SetFields installs the date under the current mode. Out of range values
// are normalised leniently, see DayNumber.
func (e *Engine) SetFields(year int, month time.Month, day int) *Engine {
	e.ms = ToAbsolute(Fields{Year: year, Month: month, Day: day}, e.mode)
	return e
}

// SetMonthFields is SetFields for callers holding the month as 1-12.
func (e *Engine) SetMonthFields(year, month, day int) *Engine {
	return e.SetFields(year, time.Month(month), day)
}

// SetAbsoluteTime installs ms directly.
func (e *Engine) SetAbsoluteTime(ms Millis) *Engine {
	e.ms = ms
	return e
}

// SwitchToPureJulian makes every later conversion use the proleptic Julian
// calendar. The installed instant is unchanged; only its interpretation as
// fields changes.
func (e *Engine) SwitchToPureJulian() *Engine {
	e.mode = ProlepticJulian
	return e
}

// Mode returns the calendar the engine reads fields with.
func (e *Engine) Mode() Mode { return e.mode }

// Fields returns the date of the installed instant under the current mode.
func (e *Engine) Fields() Fields { return FromAbsolute(e.ms, e.mode) }

// Year returns the year of the installed instant under the current mode.
func (e *Engine) Year() int { return e.Fields().Year }

// Month returns the month of the installed instant under the current mode.
func (e *Engine) Month() time.Month { return e.Fields().Month }

// DayOfMonth returns the day of the month, starting at 1.
func (e *Engine) DayOfMonth() int { return e.Fields().Day }

// DayOfWeek returns the weekday, which no mode affects.
func (e *Engine) DayOfWeek() time.Weekday { return WeekdayOf(e.ms) }

// AbsoluteTime returns the installed instant.
func (e *Engine) AbsoluteTime() Millis { return e.ms }

// AddYears moves the instant by n years, clamping the day to the length of
// the resulting month.
func (e *Engine) AddYears(n int) *Engine {
	e.ms = AddYears(e.ms, n, e.mode)
	return e
}

// AddMonths moves the instant by n months, clamping like AddYears.
func (e *Engine) AddMonths(n int) *Engine {
	e.ms = AddMonths(e.ms, n, e.mode)
	return e
}

// AddDays moves the instant by n days.
func (e *Engine) AddDays(n int) *Engine {
	e.ms = AddDays(e.ms, n)
	return e
}
