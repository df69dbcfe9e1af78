// Package clock is the time source behind quota days, burst windows and
// cookie expiry. Injected as a port so tests can cross a day boundary
// without sleeping.
package clock

import (
	"sync"
	"time"
)

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Fake is a hand-cranked clock for tests. Quota keys derive from the UTC
// day of Now, so advancing it is how tests trigger a rollover.
type Fake struct {
	mu      sync.RWMutex
	current time.Time
}

// NewFake creates a fake clock frozen at t.
func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

func (f *Fake) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Set jumps the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = t
}

// Advance cranks the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}

// NextDay cranks the clock past the UTC midnight rollover, landing at the
// same wall time on the following day. Daily quotas reset at that boundary.
func (f *Fake) NextDay() {
	f.Advance(24 * time.Hour)
}
