package feed

import (
	"time"

	"github.com/tartampluch/go-byzcal/byzantine"
)

// BirthdayEntry is a contact with a birth date, projected onto the Byzantine
// calendar.
type BirthdayEntry struct {
	// UID is a stable hash of the contact's name and birth date.
	UID  string
	Name string

	// Born is the civil birth date read from the vCard. When the card omits
	// the year it is set in config.DefaultLeapYear.
	Born      time.Time
	YearKnown bool

	// Birth is Born converted to the Byzantine calendar.
	Birth byzantine.Date

	// NextOccurrence is the first Byzantine anniversary on or after today,
	// or the birth itself when it lies in the future.
	NextOccurrence byzantine.Date

	// AgeNext is the age reached at NextOccurrence, zero if YearKnown is
	// false.
	AgeNext int
}

// DaysUntil returns the number of days from today to the next anniversary.
func (b BirthdayEntry) DaysUntil(today byzantine.Date) int {
	return int((b.NextOccurrence.UnixMilli() - today.UnixMilli()) / millisPerDay)
}

const millisPerDay = int64(24 * time.Hour / time.Millisecond)
