// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction so timer-driven
// code can be tested deterministically.
//
// Production code accepts a Clock value instead of calling time.Now,
// time.After, or time.NewTicker directly. Real() delegates to the
// standard library; Fake() stands still until Advance is called.
//
// The fake clock registers a pending waiter for every After and
// NewTicker call. Tests use WaitForWaiters to block until a background
// goroutine has registered its timer, then Advance to fire it — no
// sleeping, no races:
//
//	fake := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
//	keepalive.Start() // goroutine registers a ticker
//	fake.WaitForWaiters(1)
//	fake.Advance(25 * time.Minute) // fires deterministically
package clock
