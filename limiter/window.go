package limiter

import (
	"fmt"
	"time"
)

// Unit window granularity for permit replenishment
type Unit string

const (
	// UnitSecond 1-second window
	UnitSecond Unit = "second"

	// UnitMinute 1-minute window
	UnitMinute Unit = "minute"

	// UnitHour 1-hour window
	UnitHour Unit = "hour"

	// UnitDay 1-day window
	UnitDay Unit = "day"
)

// Duration maps the unit to its fixed window length
// Unknown units fail with ErrUnsupportedUnit
func (u Unit) Duration() (time.Duration, error) {
	switch u {
	case UnitSecond:
		return 1000 * time.Millisecond, nil
	case UnitMinute:
		return 60 * 1000 * time.Millisecond, nil
	case UnitHour:
		return 60 * 60 * 1000 * time.Millisecond, nil
	case UnitDay:
		return 24 * 60 * 60 * 1000 * time.Millisecond, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, string(u))
	}
}

// String returns the unit name
func (u Unit) String() string {
	return string(u)
}

// Units returns all supported window units
func Units() []Unit {
	return []Unit{UnitSecond, UnitMinute, UnitHour, UnitDay}
}
