package clock

import "time"

// Clock is the injected time source for every time-dependent core
// operation. Core functions never read the wall clock directly; the
// caller decides what "now" means.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Used in tests and for
// replaying evaluations at a known point in time.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
