// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/cclogistics/hrdesk/lib/hrapi"
	"github.com/cclogistics/hrdesk/lib/localstore"
)

// API is the slice of the HR client the session layer depends on.
// *hrapi.Client satisfies it.
type API interface {
	Session(ctx context.Context, sessionID string) (*hrapi.User, error)
	Extend(ctx context.Context, sessionID string) error
	Logout(ctx context.Context, sessionID string) error
}

// Store is the single source of truth for the client's session state.
// Safe for concurrent use: the underlying localstore serializes
// mutation, and concurrent session checks are deduplicated.
type Store struct {
	state  *localstore.Store
	api    API
	logger *slog.Logger
	tasks  *TaskRegistry
	flight singleflight.Group

	// resetHook, when set, is invoked by ForceLogout after all state
	// is cleared so the UI can remount clean. The terminal equivalent
	// of the browser client's full page reload.
	resetHook func()
}

// NewStore creates a Store over the given persisted state and API
// client. logger may be nil.
func NewStore(state *localstore.Store, api API, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:  state,
		api:    api,
		logger: logger,
		tasks:  NewTaskRegistry(),
	}
}

// Tasks returns the registry of cancellable background tasks tied to
// the session (the keepalive registers here). ForceLogout cancels the
// registry as part of tearing the session down.
func (s *Store) Tasks() *TaskRegistry { return s.tasks }

// SetResetHook registers the callback ForceLogout uses to remount the
// UI after a hard teardown.
func (s *Store) SetResetHook(hook func()) { s.resetHook = hook }

// SessionID returns the cached session identifier, or "" when logged
// out. No I/O, no freshness guarantee.
func (s *Store) SessionID() string {
	return s.state.Get(localstore.KeySessionID)
}

// SetSessionID writes the session identifier through to persisted
// storage. An empty id clears it.
func (s *Store) SetSessionID(id string) {
	s.state.Set(localstore.KeySessionID, id)
}

// HasSession reports whether a session identifier is cached. Presence
// only — the server may have expired it.
func (s *Store) HasSession() bool {
	return s.SessionID() != ""
}

// User returns the cached profile from the last successful login or
// session check, or nil when absent or unparseable.
func (s *Store) User() *hrapi.User {
	var user hrapi.User
	if !s.state.GetJSON(localstore.KeyUser, &user) {
		return nil
	}
	return &user
}

// PasswordWarning returns the cached password-expiry warning, or nil.
// The warning is session-scoped: it is set by the login that produced
// it, overwritten or cleared by the next login, and wiped with the
// rest of the session state.
func (s *Store) PasswordWarning() *hrapi.PasswordWarning {
	var warning hrapi.PasswordWarning
	if !s.state.GetJSON(localstore.KeyPasswordWarning, &warning) {
		return nil
	}
	return &warning
}

// DismissPasswordWarning removes the cached warning.
func (s *Store) DismissPasswordWarning() {
	s.state.Delete(localstore.KeyPasswordWarning)
}

// lastPageKey lives under the preferences prefix so a forced logout
// clears it with the rest of the cached settings.
const lastPageKey = localstore.PrefixPreferences + "last_page"

// LastVisitedPage returns the page the user was on when the previous
// session ended, or "" when none was recorded.
func (s *Store) LastVisitedPage() string {
	return s.state.Get(lastPageKey)
}

// SetLastVisitedPage records the current page so the next login can
// resume there.
func (s *Store) SetLastVisitedPage(pageID string) {
	s.state.Set(lastPageKey, pageID)
}

// EstablishSession persists the session branch of a login or MFA
// response: session identifier, user profile, and the password
// warning (a login that returns none clears any stale warning from a
// previous session). The caller is responsible for starting the
// keepalive.
func (s *Store) EstablishSession(result *hrapi.LoginResult) {
	s.SetSessionID(result.SessionID)
	if err := s.state.SetJSON(localstore.KeyUser, result.User); err != nil {
		s.logger.Error("cannot cache user profile", "error", err)
	}

	if result.PasswordWarning != nil {
		if err := s.state.SetJSON(localstore.KeyPasswordWarning, result.PasswordWarning); err != nil {
			s.logger.Error("cannot cache password warning", "error", err)
		}
	} else {
		s.state.Delete(localstore.KeyPasswordWarning)
	}

	s.logger.Info("session established", "username", result.User.Username, "role", result.User.Role)
}

// CheckSession validates the cached session against the server and
// returns the authenticated user, or nil when there is no valid
// session.
//
// Without a cached identifier it returns nil immediately, no network
// call. Concurrent callers during an unresolved check share one
// request and receive the identical result; the flight is released
// unconditionally when the check settles, success or failure, so the
// next call starts fresh.
//
// A proven-invalid session (unauthorized, expired, missing) clears all
// session state. Any other failure — a transient network error — is
// not proof of logout: state is left untouched and the caller gets
// nil.
func (s *Store) CheckSession(ctx context.Context) *hrapi.User {
	if !s.HasSession() {
		return nil
	}

	result, _, _ := s.flight.Do("check", func() (any, error) {
		return s.performCheck(ctx), nil
	})
	user, _ := result.(*hrapi.User)
	return user
}

func (s *Store) performCheck(ctx context.Context) *hrapi.User {
	user, err := s.api.Session(ctx, s.SessionID())
	if err != nil {
		if isSessionInvalid(err) {
			s.logger.Info("session rejected by server, clearing local state")
			s.ClearSession()
		} else {
			s.logger.Warn("session check failed, keeping local state", "error", err)
		}
		return nil
	}

	if err := s.state.SetJSON(localstore.KeyUser, user); err != nil {
		s.logger.Error("cannot cache user profile", "error", err)
	}
	return user
}

// ClearSession unconditionally wipes the session identifier, the
// cached user profile, and the password warning.
func (s *Store) ClearSession() {
	s.state.Delete(localstore.KeySessionID)
	s.state.Delete(localstore.KeyUser)
	s.state.Delete(localstore.KeyPasswordWarning)
}

// Logout tears the session down in the normal, user-initiated way:
// best-effort server logout, cancel background tasks, clear local
// state. Idempotent — a keepalive failure arriving after logout finds
// nothing left to tear down.
func (s *Store) Logout(ctx context.Context) {
	if sessionID := s.SessionID(); sessionID != "" {
		if err := s.api.Logout(ctx, sessionID); err != nil {
			// Best-effort by contract: the server reaps abandoned
			// sessions on its own schedule.
			s.logger.Warn("server logout failed", "error", err)
		}
	}
	s.tasks.CancelAll()
	s.ClearSession()
}

// isSessionInvalid is the one place that decides whether an error
// proves the session is dead (as opposed to the server being
// unreachable). Structured classification first; the legacy
// message-substring match is the fallback for older server builds
// that return no machine code, contained here so the coupling to
// server wording has exactly one home.
func isSessionInvalid(err error) bool {
	var apiErr *hrapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 401 {
			return true
		}
		switch apiErr.Code {
		case hrapi.CodeUnauthorized, hrapi.CodeSessionExpired, hrapi.CodeNoSession:
			return true
		}
	}

	message := strings.ToLower(err.Error())
	for _, marker := range []string{"unauthorized", "invalid or expired session", "no session"} {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}
