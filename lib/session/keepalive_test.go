// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cclogistics/hrdesk/lib/clock"
	"github.com/cclogistics/hrdesk/lib/localstore"
)

// waitUntil polls condition until it holds or the deadline passes.
// The keepalive goroutine reacts to fake-clock ticks asynchronously,
// so assertions about its side effects need a settle window.
func waitUntil(t *testing.T, condition func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(message)
}

func TestKeepaliveExtendsOnTick(t *testing.T) {
	var extends atomic.Int64
	handler := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/api/auth/extend" {
			extends.Add(1)
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(map[string]bool{"success": true})
	})

	store, _ := newTestStore(t, handler)
	store.SetSessionID("sess-1")

	fakeClock := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	keepalive := StartKeepalive(KeepaliveConfig{
		Store:  store,
		Clock:  fakeClock,
		Logger: discardLogger(),
	})
	defer keepalive.Stop()

	fakeClock.WaitForWaiters(1)
	fakeClock.Advance(DefaultKeepaliveInterval)
	waitUntil(t, func() bool { return extends.Load() == 1 }, "no extend after one interval")

	fakeClock.WaitForWaiters(1)
	fakeClock.Advance(DefaultKeepaliveInterval)
	waitUntil(t, func() bool { return extends.Load() == 2 }, "no extend after second interval")

	if !store.HasSession() {
		t.Error("session cleared by successful keepalive")
	}
}

func TestKeepaliveFailureIsTerminal(t *testing.T) {
	var extends atomic.Int64
	handler := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/api/auth/extend" {
			extends.Add(1)
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(writer).Encode(map[string]string{"error": "Invalid or expired session"})
	})

	store, state := newTestStore(t, handler)
	store.SetSessionID("sess-1")
	state.Set(localstore.PrefixPreferences+"theme", "dark")

	failed := make(chan struct{})
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	StartKeepalive(KeepaliveConfig{
		Store:  store,
		Clock:  fakeClock,
		Logger: discardLogger(),
		OnFailure: func() {
			store.ForceLogout()
			close(failed)
		},
	})

	fakeClock.WaitForWaiters(1)
	fakeClock.Advance(DefaultKeepaliveInterval)
	<-failed

	if store.HasSession() {
		t.Error("session survived a failed extend")
	}
	if state.Has(localstore.PrefixPreferences + "theme") {
		t.Error("cached settings survived a failed extend")
	}
	if extends.Load() != 1 {
		t.Errorf("extend attempted %d times, want exactly 1 (no retry)", extends.Load())
	}

	// The ticker must be unscheduled; advancing past two more
	// intervals produces no further attempts.
	waitUntil(t, func() bool { return fakeClock.PendingWaiters() == 0 }, "ticker still scheduled after failure")
	fakeClock.Advance(2 * DefaultKeepaliveInterval)
	if extends.Load() != 1 {
		t.Errorf("extend attempted %d times after terminal failure, want 1", extends.Load())
	}
}

func TestKeepaliveStopIsIdempotent(t *testing.T) {
	var extends atomic.Int64
	store, _ := newTestStore(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/api/auth/extend" {
			extends.Add(1)
		}
	}))
	store.SetSessionID("sess-1")

	fakeClock := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	keepalive := StartKeepalive(KeepaliveConfig{
		Store:  store,
		Clock:  fakeClock,
		Logger: discardLogger(),
	})

	fakeClock.WaitForWaiters(1)
	keepalive.Stop()
	keepalive.Stop()

	waitUntil(t, func() bool { return fakeClock.PendingWaiters() == 0 }, "ticker still scheduled after Stop")
	fakeClock.Advance(DefaultKeepaliveInterval)
	if extends.Load() != 0 {
		t.Errorf("stopped keepalive attempted %d extends", extends.Load())
	}
}

func TestKeepaliveStopsWhenLoggedOut(t *testing.T) {
	var extends atomic.Int64
	store, _ := newTestStore(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/api/auth/extend" {
			extends.Add(1)
		}
	}))
	store.SetSessionID("sess-1")

	fakeClock := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	StartKeepalive(KeepaliveConfig{
		Store:  store,
		Clock:  fakeClock,
		Logger: discardLogger(),
	})

	// Logout between ticks. The next tick must notice the missing
	// identifier and shut the keepalive down rather than extend.
	store.ClearSession()
	fakeClock.WaitForWaiters(1)
	fakeClock.Advance(DefaultKeepaliveInterval)

	waitUntil(t, func() bool { return fakeClock.PendingWaiters() == 0 }, "keepalive still scheduled after logout")
	if extends.Load() != 0 {
		t.Errorf("keepalive attempted %d extends with no session", extends.Load())
	}
}

func TestKeepaliveRegistersInTaskRegistry(t *testing.T) {
	store, _ := newTestStore(t, http.NotFoundHandler())
	store.SetSessionID("sess-1")

	fakeClock := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	StartKeepalive(KeepaliveConfig{Store: store, Clock: fakeClock, Logger: discardLogger()})
	fakeClock.WaitForWaiters(1)

	// A second keepalive replaces the first; the registry cancels the
	// predecessor so only one ticker stays scheduled.
	second := StartKeepalive(KeepaliveConfig{Store: store, Clock: fakeClock, Logger: discardLogger()})
	defer second.Stop()

	if store.Tasks().Len() != 1 {
		t.Errorf("task registry has %d entries, want 1", store.Tasks().Len())
	}
	waitUntil(t, func() bool { return fakeClock.PendingWaiters() == 1 }, "predecessor ticker still scheduled")
}
