package clock

import "time"

// Clock provides the current time; tests substitute a fixed one.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func New() RealClock {
	return RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
