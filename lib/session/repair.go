// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"

	"github.com/cclogistics/hrdesk/lib/localstore"
)

// CheckAndFixSession is the boot-time pre-screen for the stuck state
// where a session identifier survives locally but the server rejects
// it — without this, the user would stare at a broken "logged in"
// shell until they cleared state by hand.
//
// Returns false immediately when no local identifier exists (nothing
// to repair). Otherwise probes the session endpoint: a failed probe
// wipes all session state plus every cached setting under the
// documented prefixes — settings cached for a now-invalid identity
// are as stale as the session itself — and returns false. Returns
// true only when the identifier is present and the probe succeeds.
func (s *Store) CheckAndFixSession(ctx context.Context) bool {
	if !s.HasSession() {
		return false
	}

	if _, err := s.api.Session(ctx, s.SessionID()); err != nil {
		s.logger.Info("session probe failed, clearing local data", "error", err)
		s.clearAllCachedState()
		return false
	}

	s.logger.Info("session valid")
	return true
}

// ForceLogout is the blunt instrument for unrecoverable states (a
// failed keepalive, primarily): it clears all session and cached
// setting state, cancels every registered background task, and
// invokes the reset hook so the whole UI remounts clean. No server
// call, no confirmation, synchronous.
//
// Along with CheckAndFixSession, this is one of the two sanctioned
// writers of session state outside the Store's own methods.
func (s *Store) ForceLogout() {
	s.clearAllCachedState()
	s.tasks.CancelAll()
	s.logger.Info("forced logout: cleared session data and cached settings")

	if s.resetHook != nil {
		s.resetHook()
	}
}

// clearAllCachedState wipes the session itself and every cached
// setting namespaced under the documented prefixes.
func (s *Store) clearAllCachedState() {
	s.ClearSession()
	s.state.DeletePrefix(
		localstore.PrefixPreferences,
		localstore.PrefixSecurity,
		localstore.PrefixNotifications,
	)
}
