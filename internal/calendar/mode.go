package calendar

import "fmt"

// Mode selects the leap-year rule used when converting between fields and
// absolute time. It is passed explicitly to every conversion; there is no
// global or implicit calendar state.
type Mode int

const (
	// Hybrid is the conventional civil calendar: the Julian rule applies to
	// dates before 1582-10-15 and the Gregorian rule on and after it.
	Hybrid Mode = iota

	// ProlepticJulian applies the Julian rule (every fourth year is leap)
	// to all dates, with no Gregorian correction.
	ProlepticJulian
)

func (m Mode) String() string {
	switch m {
	case Hybrid:
		return "hybrid"
	case ProlepticJulian:
		return "proleptic-julian"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// mustBeValid panics on an unknown mode; passing one is a programming error.
func (m Mode) mustBeValid() {
	if m != Hybrid && m != ProlepticJulian {
		panic(fmt.Sprintf("calendar: invalid mode %d", int(m)))
	}
}
