// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

type (
	// FakeClock is a manually driven clock for deterministic tests. It
	// satisfies watch.Clock. Time only moves when Advance or Set is called.
	FakeClock struct {
		mu      sync.Mutex
		current time.Time
		waiters []waiter
	}

	// waiter tracks a pending After() call.
	waiter struct {
		target time.Time
		ch     chan time.Time
	}
)

// NewFakeClock creates a FakeClock initialized to the given time.
// A zero initial time defaults to a fixed reference time.
func NewFakeClock(initial time.Time) *FakeClock {
	if initial.IsZero() {
		initial = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &FakeClock{current: initial}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Since returns the fake time elapsed since t.
func (c *FakeClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Sub(t)
}

// After returns a channel that receives once Advance or Set reaches now+d.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.current
		return ch
	}
	c.waiters = append(c.waiters, waiter{target: c.current.Add(d), ch: ch})
	return ch
}

// Advance moves the fake time forward by d and fires due waiters.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	c.notifyWaiters()
}

// Set moves the fake time to t and fires due waiters.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
	c.notifyWaiters()
}

// notifyWaiters must be called with mu held.
func (c *FakeClock) notifyWaiters() {
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if c.current.Before(w.target) {
			remaining = append(remaining, w)
			continue
		}
		select {
		case w.ch <- c.current:
		default:
		}
	}
	c.waiters = remaining
}
