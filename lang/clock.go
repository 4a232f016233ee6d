package lang

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock reports the current instant to the date and time built-ins.
// Every [clockwork.Clock] satisfies Clock.
type Clock interface {
	Now() time.Time
}

// ProviderClock adapts a function returning milliseconds since the Unix epoch
// to a [Clock].
type ProviderClock func() int64

// Now implements [Clock].
func (p ProviderClock) Now() time.Time { return time.UnixMilli(p()).UTC() }

// FixedClock returns a Clock frozen at the given epoch milliseconds.
func FixedClock(ms int64) Clock {
	return clockwork.NewFakeClockAt(time.UnixMilli(ms).UTC())
}

var provider struct {
	fn func() int64 // nil selects the wall clock
	mu sync.RWMutex
}

func wallMillis() int64 { return time.Now().UnixMilli() }

// SetClockProvider replaces the process-wide source of the current instant and
// returns the previous provider so the caller can restore it. A nil fn selects
// the wall clock.
//
// The provider only supplies the default clock of equations constructed after
// the call; an [Equation] keeps the clock it was built with.
func SetClockProvider(fn func() int64) (prev func() int64) {
	provider.mu.Lock()
	defer provider.mu.Unlock()

	prev = provider.fn
	if prev == nil {
		prev = wallMillis
	}

	provider.fn = fn

	return prev
}

// ClockProvider returns the current process-wide provider.
func ClockProvider() func() int64 {
	provider.mu.RLock()
	defer provider.mu.RUnlock()

	if provider.fn == nil {
		return wallMillis
	}

	return provider.fn
}

// defaultClock returns the clock bound to new equations when none is given.
func defaultClock() Clock {
	provider.mu.RLock()
	defer provider.mu.RUnlock()

	if provider.fn == nil {
		return clockwork.NewRealClock()
	}

	return ProviderClock(provider.fn)
}
