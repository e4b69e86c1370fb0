package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-byzcal/byzantine"
	"github.com/tartampluch/go-byzcal/internal/config"
)

// DayInfo describes one day in the civil, Julian and Byzantine calendars. It
// is the JSON body of the /convert and /today endpoints.
type DayInfo struct {
	Civil     string `json:"civil"`
	Julian    string `json:"julian"`
	Byzantine string `json:"byzantine"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Day       int    `json:"day"`
	Weekday   string `json:"weekday"`
}

// Describe returns the DayInfo of d.
func Describe(d byzantine.Date) DayInfo {
	cy, cm, cd := d.Hybrid()
	jy, jm, jd := d.Julian()
	return DayInfo{
		Civil:     fmt.Sprintf(config.FormatCivilDate, cy, int(cm), cd),
		Julian:    fmt.Sprintf(config.FormatCivilDate, jy, int(jm), jd),
		Byzantine: d.String(),
		Year:      d.Year(),
		Month:     int(d.Month()),
		MonthName: d.Month().String(),
		Day:       d.Day(),
		Weekday:   d.Weekday().String(),
	}
}

// ParseCivil reads a civil date written YYYY-MM-DD. Dates before 1582-10-15
// are Julian. Days that do not exist, including 1582-10-05 to 1582-10-14,
// are rejected, as are dates before byzantine.MinDate.
func ParseCivil(s string) (byzantine.Date, error) {
	s = strings.TrimSpace(s)
	if !isDashedDate(s) {
		return byzantine.Date{}, fmt.Errorf("%s: %q", config.ErrDateParse, s)
	}
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		return byzantine.Date{}, fmt.Errorf("%s: %q: %w", config.ErrDateParse, s, err)
	}
	if m < int(time.January) || m > int(time.December) || d < 1 {
		return byzantine.Date{}, fmt.Errorf("%s: %q", config.ErrDateParse, s)
	}

	date := byzantine.FromHybridFields(y, m, d)
	gy, gm, gd := date.Hybrid()
	if gy != y || int(gm) != m || gd != d {
		return byzantine.Date{}, fmt.Errorf("%s: %q", config.ErrDateParse, s)
	}
	if date.IsBefore(byzantine.MinDate) {
		return byzantine.Date{}, fmt.Errorf("%s: %q is before %s", config.ErrDateParse, s, byzantine.MinDate)
	}
	return date, nil
}

// isDashedDate reports whether s has the digits and dashes of
// config.DateFormatFullDash. time.Parse cannot check it, since it rejects
// Julian leap days such as 1500-02-29.
func isDashedDate(s string) bool {
	layout := config.DateFormatFullDash
	if len(s) != len(layout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if layout[i] == '-' {
			if s[i] != '-' {
				return false
			}
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
