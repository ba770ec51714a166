// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

type (
	// Clock abstracts time for deterministic testing.
	// Production code uses RealClock; tests use FakeClock.
	Clock interface {
		// Now returns the current time.
		Now() time.Time

		// Since returns the time elapsed since t.
		Since(t time.Time) time.Duration
	}

	// RealClock implements Clock using actual system time.
	RealClock struct{}

	// FakeClock implements Clock with manually controlled time.
	// Time only advances when Advance() or Set() is called.
	FakeClock struct {
		mu      sync.Mutex
		current time.Time
	}
)

// Now returns the current system time.
func (RealClock) Now() time.Time { return time.Now() }

// Since returns the time elapsed since t.
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// NewFakeClock creates a FakeClock initialized to initial.
// A zero initial defaults to a fixed reference time for reproducibility.
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

// Advance moves the fake time forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set sets the fake time to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}
