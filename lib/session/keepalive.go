// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cclogistics/hrdesk/lib/clock"
)

// DefaultKeepaliveInterval is how often the keepalive extends the
// session: 25 minutes against the server's 30-minute timeout. The
// 5-minute margin is a design constant, not an accident — it leaves
// room for one slow request before the server-side clock runs out.
const DefaultKeepaliveInterval = 25 * time.Minute

// keepaliveTaskName is the registry name the keepalive registers
// under; one keepalive per session.
const keepaliveTaskName = "keepalive"

// KeepaliveConfig configures StartKeepalive.
type KeepaliveConfig struct {
	// Store owns the session being kept alive. The keepalive registers
	// itself in the store's task registry and, on failure, invokes the
	// store's forced-logout path.
	Store *Store
	// Clock drives the tick schedule. If nil, clock.Real().
	Clock clock.Clock
	// Interval between extend calls. If zero,
	// DefaultKeepaliveInterval.
	Interval time.Duration
	// Logger may be nil.
	Logger *slog.Logger
	// OnFailure is invoked (once) when an extend call fails, after
	// the ticker is stopped. If nil, Store.ForceLogout is used.
	OnFailure func()
}

// Keepalive periodically extends the session so it does not expire
// server-side while the client sits open.
//
// Failure handling is deliberately absolute: a single failed extend —
// transient or not — stops the keepalive and forces a logout. There
// is no retry, because silently retrying risks presenting a dead
// session as live, and a genuine network blip resolves itself at the
// user's next login anyway.
type Keepalive struct {
	stopOnce sync.Once
	stopped  chan struct{}
}

// StartKeepalive starts the keepalive goroutine and registers it in
// the store's task registry, replacing any previous keepalive.
func StartKeepalive(config KeepaliveConfig) *Keepalive {
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	interval := config.Interval
	if interval <= 0 {
		interval = DefaultKeepaliveInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	onFailure := config.OnFailure
	if onFailure == nil {
		onFailure = config.Store.ForceLogout
	}

	keepalive := &Keepalive{stopped: make(chan struct{})}

	go keepalive.run(config.Store, clk, interval, logger, onFailure)
	config.Store.Tasks().Register(keepaliveTaskName, keepalive.Stop)

	return keepalive
}

// Stop halts the keepalive. Idempotent, and safe to call concurrently
// with a tick: a failure and a logout racing each other both converge
// on a stopped keepalive and cleared state.
func (k *Keepalive) Stop() {
	k.stopOnce.Do(func() { close(k.stopped) })
}

func (k *Keepalive) run(store *Store, clk clock.Clock, interval time.Duration, logger *slog.Logger, onFailure func()) {
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stopped:
			return
		case <-ticker.C:
			sessionID := store.SessionID()
			if sessionID == "" {
				// Logged out between ticks; nothing to extend.
				k.Stop()
				return
			}
			if err := store.api.Extend(context.Background(), sessionID); err != nil {
				logger.Error("session extension failed, forcing logout", "error", err)
				ticker.Stop()
				k.Stop()
				onFailure()
				return
			}
			logger.Debug("session extended")
		}
	}
}
