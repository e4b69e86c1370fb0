package calendar_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-byzcal/internal/calendar"
)

// TestDayNumber_KnownDates pins the conversion against well known day numbers.
func TestDayNumber_KnownDates(t *testing.T) {
	tests := []struct {
		name   string
		fields calendar.Fields
		mode   calendar.Mode
		want   int64
	}{
		{"Unix epoch", calendar.Fields{Year: 1970, Month: time.January, Day: 1}, calendar.Hybrid, 2440588},
		{"Civil 2023-04-16", calendar.Fields{Year: 2023, Month: time.April, Day: 16}, calendar.Hybrid, 2460051},
		{"Julian 2023-04-03", calendar.Fields{Year: 2023, Month: time.April, Day: 3}, calendar.ProlepticJulian, 2460051},
		{"Last Julian day", calendar.Fields{Year: 1582, Month: time.October, Day: 4}, calendar.Hybrid, 2299160},
		{"First Gregorian day", calendar.Fields{Year: 1582, Month: time.October, Day: 15}, calendar.Hybrid, 2299161},
		{"J2000", calendar.Fields{Year: 2000, Month: time.January, Day: 1}, calendar.Hybrid, 2451545},
		{"Julian 4713 BC", calendar.Fields{Year: -4712, Month: time.January, Day: 1}, calendar.ProlepticJulian, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendar.DayNumber(tt.fields, tt.mode))
			if diff := cmp.Diff(tt.fields, calendar.FieldsOf(tt.want, tt.mode)); diff != "" {
				t.Errorf("FieldsOf mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestDayNumber_LenientNormalization verifies that out of range fields carry
// into the adjoining fields instead of failing.
func TestDayNumber_LenientNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input calendar.Fields
		want  calendar.Fields
	}{
		{"Day 31 of April", calendar.Fields{Year: 2023, Month: time.April, Day: 31}, calendar.Fields{Year: 2023, Month: time.May, Day: 1}},
		{"Day 32 of June", calendar.Fields{Year: 2023, Month: time.June, Day: 32}, calendar.Fields{Year: 2023, Month: time.July, Day: 2}},
		{"Day 0", calendar.Fields{Year: 2023, Month: time.March, Day: 0}, calendar.Fields{Year: 2023, Month: time.February, Day: 28}},
		{"Month 13", calendar.Fields{Year: 2023, Month: 13, Day: 1}, calendar.Fields{Year: 2024, Month: time.January, Day: 1}},
		{"Month 0", calendar.Fields{Year: 2023, Month: 0, Day: 1}, calendar.Fields{Year: 2022, Month: time.December, Day: 1}},
		{"Negative day", calendar.Fields{Year: 2023, Month: time.January, Day: -30}, calendar.Fields{Year: 2022, Month: time.December, Day: 1}},
	}

	for _, mode := range []calendar.Mode{calendar.Hybrid, calendar.ProlepticJulian} {
		for _, tt := range tests {
			t.Run(mode.String()+"/"+tt.name, func(t *testing.T) {
				got := calendar.FromAbsolute(calendar.ToAbsolute(tt.input, mode), mode)
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("normalisation mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

// TestDayNumber_RoundTrip walks a wide range of day numbers in both modes.
func TestDayNumber_RoundTrip(t *testing.T) {
	for _, mode := range []calendar.Mode{calendar.Hybrid, calendar.ProlepticJulian} {
		for jdn := int64(1_000_000); jdn < 2_600_000; jdn += 997 {
			f := calendar.FieldsOf(jdn, mode)
			if !assert.Equal(t, jdn, calendar.DayNumber(f, mode), "mode %s, fields %+v", mode, f) {
				return
			}
			assert.GreaterOrEqual(t, f.Day, 1)
			assert.LessOrEqual(t, f.Day, calendar.DaysInMonth(f.Year, f.Month, mode))
		}
	}
}

// TestHybrid_CutoverGap checks that the ten dropped days are bridged.
func TestHybrid_CutoverGap(t *testing.T) {
	last := calendar.ToAbsolute(calendar.Fields{Year: 1582, Month: time.October, Day: 4}, calendar.Hybrid)
	next := calendar.FromAbsolute(calendar.AddDays(last, 1), calendar.Hybrid)

	assert.Equal(t, calendar.Fields{Year: 1582, Month: time.October, Day: 15}, next)
	assert.Equal(t, time.Friday, calendar.WeekdayOf(calendar.AddDays(last, 1)))
}

// TestIsLeap covers the century exception in each mode.
func TestIsLeap(t *testing.T) {
	tests := []struct {
		year       int
		hybrid     bool
		properJul  bool
		daysInFebH int
	}{
		{1500, true, true, 29},
		{1582, false, false, 28},
		{1600, true, true, 29},
		{1900, false, true, 28},
		{2000, true, true, 29},
		{2023, false, false, 28},
		{2024, true, true, 29},
		{2100, false, true, 28},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.hybrid, calendar.IsLeap(tt.year, calendar.Hybrid), "hybrid %d", tt.year)
		assert.Equal(t, tt.properJul, calendar.IsLeap(tt.year, calendar.ProlepticJulian), "julian %d", tt.year)
		assert.Equal(t, tt.daysInFebH, calendar.DaysInMonth(tt.year, time.February, calendar.Hybrid), "february %d", tt.year)
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 30, calendar.DaysInMonth(2023, time.April, calendar.Hybrid))
	assert.Equal(t, 31, calendar.DaysInMonth(2023, time.August, calendar.ProlepticJulian))
	assert.Equal(t, 29, calendar.DaysInMonth(1900, time.February, calendar.ProlepticJulian))
	assert.Equal(t, 31, calendar.DaysInMonth(2023, 13, calendar.Hybrid), "month 13 is January of the next year")
	assert.Equal(t, 31, calendar.DaysInMonth(1582, time.October, calendar.Hybrid))
}

// TestWeekdayOf verifies the weekday anchor and the handling of instants
// before the epoch.
func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, time.Thursday, calendar.WeekdayOf(0))
	assert.Equal(t, time.Wednesday, calendar.WeekdayOf(-1))

	ms := calendar.ToAbsolute(calendar.Fields{Year: 2023, Month: time.April, Day: 16}, calendar.Hybrid)
	for i, want := range []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday, time.Sunday,
	} {
		assert.Equal(t, want, calendar.WeekdayOf(calendar.AddDays(ms, i)), "offset %d", i)
	}
}

func TestFromAbsolute_BeforeEpoch(t *testing.T) {
	got := calendar.FromAbsolute(-1, calendar.Hybrid)
	assert.Equal(t, calendar.Fields{Year: 1969, Month: time.December, Day: 31}, got)
	assert.Equal(t, calendar.Millis(-calendar.MillisPerDay), calendar.Truncate(-1))
	assert.Equal(t, calendar.Millis(0), calendar.Truncate(calendar.Millis(calendar.MillisPerDay-1)))
}

// TestAddMonths_Clamping verifies the clamp-to-last-day convention.
func TestAddMonths_Clamping(t *testing.T) {
	tests := []struct {
		name  string
		mode  calendar.Mode
		start calendar.Fields
		n     int
		want  calendar.Fields
	}{
		{"Jan 31 to Feb", calendar.ProlepticJulian, calendar.Fields{Year: 2023, Month: time.January, Day: 31}, 1, calendar.Fields{Year: 2023, Month: time.February, Day: 28}},
		{"Jan 31 to leap Feb", calendar.ProlepticJulian, calendar.Fields{Year: 2024, Month: time.January, Day: 31}, 1, calendar.Fields{Year: 2024, Month: time.February, Day: 29}},
		{"Julian 1900 leap Feb", calendar.ProlepticJulian, calendar.Fields{Year: 1900, Month: time.January, Day: 31}, 1, calendar.Fields{Year: 1900, Month: time.February, Day: 29}},
		{"Hybrid 1900 common Feb", calendar.Hybrid, calendar.Fields{Year: 1900, Month: time.January, Day: 31}, 1, calendar.Fields{Year: 1900, Month: time.February, Day: 28}},
		{"Aug 31 to Sep", calendar.ProlepticJulian, calendar.Fields{Year: 2023, Month: time.August, Day: 31}, 1, calendar.Fields{Year: 2023, Month: time.September, Day: 30}},
		{"Backwards across year", calendar.ProlepticJulian, calendar.Fields{Year: 2023, Month: time.January, Day: 15}, -13, calendar.Fields{Year: 2021, Month: time.December, Day: 15}},
		{"Mar 31 back to Feb", calendar.ProlepticJulian, calendar.Fields{Year: 2023, Month: time.March, Day: 31}, -1, calendar.Fields{Year: 2023, Month: time.February, Day: 28}},
		{"Twelve months", calendar.Hybrid, calendar.Fields{Year: 2023, Month: time.May, Day: 3}, 12, calendar.Fields{Year: 2024, Month: time.May, Day: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := calendar.ToAbsolute(tt.start, tt.mode)
			got := calendar.FromAbsolute(calendar.AddMonths(ms, tt.n, tt.mode), tt.mode)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AddMonths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddYears_LeapDay(t *testing.T) {
	leap := calendar.ToAbsolute(calendar.Fields{Year: 2024, Month: time.February, Day: 29}, calendar.ProlepticJulian)

	got := calendar.FromAbsolute(calendar.AddYears(leap, 1, calendar.ProlepticJulian), calendar.ProlepticJulian)
	assert.Equal(t, calendar.Fields{Year: 2025, Month: time.February, Day: 28}, got)

	got = calendar.FromAbsolute(calendar.AddYears(leap, 4, calendar.ProlepticJulian), calendar.ProlepticJulian)
	assert.Equal(t, calendar.Fields{Year: 2028, Month: time.February, Day: 29}, got)

	// 1900 is leap only under the Julian rule.
	j1896 := calendar.ToAbsolute(calendar.Fields{Year: 1896, Month: time.February, Day: 29}, calendar.ProlepticJulian)
	got = calendar.FromAbsolute(calendar.AddYears(j1896, 4, calendar.ProlepticJulian), calendar.ProlepticJulian)
	assert.Equal(t, calendar.Fields{Year: 1900, Month: time.February, Day: 29}, got)

	h1896 := calendar.ToAbsolute(calendar.Fields{Year: 1896, Month: time.February, Day: 29}, calendar.Hybrid)
	got = calendar.FromAbsolute(calendar.AddYears(h1896, 4, calendar.Hybrid), calendar.Hybrid)
	assert.Equal(t, calendar.Fields{Year: 1900, Month: time.February, Day: 28}, got)
}

func TestAdd_PreservesTimeOfDay(t *testing.T) {
	const noon = calendar.Millis(12 * 60 * 60 * 1000)
	ms := calendar.ToAbsolute(calendar.Fields{Year: 2023, Month: time.January, Day: 31}, calendar.Hybrid) + noon

	got := calendar.AddMonths(ms, 1, calendar.Hybrid)
	assert.Equal(t, noon, got-calendar.Truncate(got))
}

func TestInvalidMode_Panics(t *testing.T) {
	assert.Panics(t, func() { calendar.DayNumber(calendar.Fields{Year: 2023, Month: 1, Day: 1}, calendar.Mode(7)) })
	assert.Panics(t, func() { calendar.IsLeap(2023, calendar.Mode(-1)) })
}
