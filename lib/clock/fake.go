// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock pinned to the given time. Time moves only
// when Advance is called; every After and NewTicker call registers a
// pending waiter that fires when the clock crosses its deadline.
//
// FakeClock is safe for concurrent use.
func Fake(initial time.Time) *FakeClock {
	fake := &FakeClock{current: initial}
	fake.changed = sync.NewCond(&fake.mu)
	return fake
}

// FakeClock is a deterministic Clock for tests.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*waiter
	changed *sync.Cond
}

// waiter is a pending After channel or ticker registration.
type waiter struct {
	deadline time.Time
	channel  chan time.Time

	// interval is non-zero for tickers; after firing, the waiter is
	// rescheduled at deadline + interval.
	interval time.Duration

	stopped bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives once the clock advances past
// the deadline. A non-positive duration receives immediately.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}

	c.waiters = append(c.waiters, &waiter{
		deadline: c.current.Add(d),
		channel:  channel,
	})
	c.changed.Broadcast()
	return channel
}

// NewTicker registers a repeating waiter. Panics if d <= 0.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	registration := &waiter{
		deadline: c.current.Add(d),
		channel:  channel,
		interval: d,
	}
	c.waiters = append(c.waiters, registration)
	c.changed.Broadcast()

	return &Ticker{
		C: channel,
		stop: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			registration.stopped = true
		},
	}
}

// Advance moves the clock forward by d and fires every waiter whose
// deadline falls within the new time, in deadline order. Channel sends
// are non-blocking: a full channel drops the tick, matching
// time.Ticker. Tickers fire once per elapsed interval.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current
	c.mu.Unlock()

	for {
		expired := c.takeExpired(target)
		if len(expired) == 0 {
			return
		}

		sort.Slice(expired, func(i, j int) bool {
			return expired[i].deadline.Before(expired[j].deadline)
		})

		for _, w := range expired {
			select {
			case w.channel <- target:
			default:
			}
		}
	}
}

// takeExpired removes expired waiters, reschedules tickers, and
// returns the waiters to fire.
func (c *FakeClock) takeExpired(target time.Time) []*waiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired, remaining []*waiter
	for _, w := range c.waiters {
		if w.stopped {
			continue
		}
		if !w.deadline.After(target) {
			expired = append(expired, w)
		} else {
			remaining = append(remaining, w)
		}
	}

	for _, w := range expired {
		if w.interval > 0 {
			w.deadline = w.deadline.Add(w.interval)
			remaining = append(remaining, w)
		}
	}

	c.waiters = remaining
	return expired
}

// WaitForWaiters blocks until at least n waiters are registered and
// active. Call it before Advance when the timer is registered by a
// goroutine the test just started.
func (c *FakeClock) WaitForWaiters(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.activeLocked() < n {
		c.changed.Wait()
	}
}

// PendingWaiters returns the number of active registrations. Useful
// for asserting that a stopped ticker is no longer scheduled.
func (c *FakeClock) PendingWaiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *FakeClock) activeLocked() int {
	count := 0
	for _, w := range c.waiters {
		if !w.stopped {
			count++
		}
	}
	return count
}
