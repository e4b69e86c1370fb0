package byzantine

import (
	"fmt"
	"strings"
	"time"
)

// Month is a month of the Byzantine year, which begins in September.
type Month int

const (
	September Month = iota + 1
	October
	November
	December
	January
	February
	March
	April
	May
	June
	July
	August
)

var monthNames = [12]string{
	"SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
	"JANUARY", "FEBRUARY", "MARCH", "APRIL",
	"MAY", "JUNE", "JULY", "AUGUST",
}

// Valid reports whether m is one of the twelve named months.
func (m Month) Valid() bool {
	return m >= September && m <= August
}

// String returns the upper case English name of the month, e.g. "APRIL".
func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("%%!Month(%d)", int(m))
	}
	return monthNames[m-1]
}

// JulianMonth returns the calendar month sharing the name of m.
func (m Month) JulianMonth() time.Month {
	m.mustBeValid()
	return time.Month((int(m)+7)%12 + 1)
}

// MonthOf returns the Byzantine month sharing the name of the calendar month.
func MonthOf(month time.Month) Month {
	if month < time.January || month > time.December {
		panic(fmt.Sprintf("byzantine: invalid calendar month %d", int(month)))
	}
	return Month((int(month)+3)%12 + 1)
}

// ParseMonth returns the month with the given English name, ignoring case.
func ParseMonth(name string) (Month, error) {
	name = strings.TrimSpace(name)
	for i, n := range monthNames {
		if strings.EqualFold(n, name) {
			return Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, name)
}

// yearOffset is the difference between the Byzantine and the Julian year for
// dates in month m: the Byzantine year starts four months earlier.
func (m Month) yearOffset() int {
	if m <= December {
		return creationOffset + 1
	}
	return creationOffset
}

func (m Month) mustBeValid() {
	if !m.Valid() {
		panic(fmt.Sprintf("byzantine: invalid month %d", int(m)))
	}
}
