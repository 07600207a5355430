// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"sync"
	"time"
)

// DefaultDebounce is the minimum interval between two accepted change events
// for the same watch.
const DefaultDebounce = 100 * time.Millisecond

// Debouncer is a leading-edge rate gate: an event is accepted only when at
// least the bound has elapsed since the previously accepted event. Dropped
// events are silently discarded. The first event after construction is always
// accepted.
type Debouncer struct {
	mu           sync.Mutex
	bound        time.Duration
	lastAccepted time.Time
}

// NewDebouncer creates a Debouncer whose window is already open at
// clock.Now().
// A non-positive bound falls back to DefaultDebounce.
func NewDebouncer(clock Clock, bound time.Duration) *Debouncer {
	if bound <= 0 {
		bound = DefaultDebounce
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{bound: bound, lastAccepted: clock.Now().Add(-bound)}
}

// Accept reports whether an event observed at now passes the gate, and if so
// records now as the last accepted time.
func (d *Debouncer) Accept(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if now.Sub(d.lastAccepted) < d.bound {
		return false
	}
	d.lastAccepted = now
	return true
}

// Bound returns the configured minimum interval.
func (d *Debouncer) Bound() time.Duration { return d.bound }
