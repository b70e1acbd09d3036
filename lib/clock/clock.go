// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the time operations hrdesk needs. Production code
// injects Real(); tests inject Fake() and drive it with Advance.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d has elapsed. If d <= 0, the channel receives
	// immediately.
	After(d time.Duration) <-chan time.Time

	// NewTicker returns a Ticker delivering ticks on its C channel at
	// the given interval. Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Ticker wraps a periodic timer. Read ticks from C; call Stop when the
// ticker is no longer needed. The channel has capacity 1 — a consumer
// that falls behind loses ticks rather than queueing them, matching
// time.Ticker.
type Ticker struct {
	// C delivers ticks.
	C <-chan time.Time

	stop func()
}

// Stop turns off the ticker. No ticks are delivered after Stop
// returns. Stop does not close C and is safe to call more than once.
func (t *Ticker) Stop() { t.stop() }
