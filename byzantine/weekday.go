package byzantine

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a day of the Byzantine week, starting on Sunday.
type Weekday int

const (
	Lordsday    Weekday = iota // Sunday
	Second                     // Monday
	Third                      // Tuesday
	Fourth                     // Wednesday
	Fifth                      // Thursday
	Preparation                // Friday
	Sabbath                    // Saturday
)

var weekdayNames = [7]string{
	"LORDSDAY", "SECOND", "THIRD", "FOURTH", "FIFTH", "PREPARATION", "SABBATH",
}

func (d Weekday) Valid() bool {
	return d >= Lordsday && d <= Sabbath
}

// String returns the upper case English name of the day, e.g. "LORDSDAY".
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("%%!Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Time returns the equivalent time.Weekday.
func (d Weekday) Time() time.Weekday {
	return time.Weekday(d)
}

// WeekdayOf returns the Byzantine name for a time.Weekday.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday(d)
}

// ParseWeekday returns the weekday with the given English name, ignoring case.
func ParseWeekday(name string) (Weekday, error) {
	name = strings.TrimSpace(name)
	for i, n := range weekdayNames {
		if strings.EqualFold(n, name) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
}
