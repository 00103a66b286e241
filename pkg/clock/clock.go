// Package clock supplies wall-clock time in the field time zone.
package clock

import "time"

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type local struct {
	loc *time.Location
}

// New returns a Clock reporting time.Now in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return local{loc: loc}
}

func (l local) Now() time.Time           { return time.Now().In(l.loc) }
func (l local) Location() *time.Location { return l.loc }

// Fixed is a settable Clock for tests.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

func (f *Fixed) Location() *time.Location { return f.T.Location() }

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }

// StartOfDay truncates t to local midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
