// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cclogistics/hrdesk/lib/hrapi"
	"github.com/cclogistics/hrdesk/lib/localstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newTestStore builds a Store backed by a temp state file and a test
// server.
func newTestStore(t *testing.T, handler http.Handler) (*Store, *localstore.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := hrapi.NewClient(hrapi.ClientConfig{BaseURL: server.URL, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	state := localstore.Open(filepath.Join(t.TempDir(), "state.json"), discardLogger())
	return NewStore(state, client, discardLogger()), state
}

func sessionHandler(t *testing.T, user *hrapi.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/auth/session" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(hrapi.SessionResponse{User: user})
	})
}

func TestCheckSessionWithoutIDMakesNoCall(t *testing.T) {
	var calls atomic.Int64
	store, _ := newTestStore(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))

	if user := store.CheckSession(context.Background()); user != nil {
		t.Errorf("CheckSession without id = %+v, want nil", user)
	}
	if calls.Load() != 0 {
		t.Errorf("CheckSession without id issued %d requests", calls.Load())
	}
}

func TestCheckSessionCachesProfile(t *testing.T) {
	serverUser := &hrapi.User{ID: 7, Username: "avneet", Role: hrapi.RoleUser, SalesRole: hrapi.SalesAgent}
	store, _ := newTestStore(t, sessionHandler(t, serverUser))
	store.SetSessionID("sess-1")

	user := store.CheckSession(context.Background())
	if user == nil {
		t.Fatal("CheckSession = nil for valid session")
	}
	if user.Username != "avneet" || user.SalesRole != hrapi.SalesAgent {
		t.Errorf("CheckSession user = %+v", user)
	}

	cached := store.User()
	if cached == nil || cached.ID != 7 {
		t.Errorf("cached profile = %+v, want id 7", cached)
	}
}

func TestCheckSessionSingleFlight(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	handler := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(hrapi.SessionResponse{
			User: &hrapi.User{ID: 7, Username: "avneet", Role: hrapi.RoleUser},
		})
	})

	store, _ := newTestStore(t, handler)
	store.SetSessionID("sess-1")

	const callers = 8
	results := make([]*hrapi.User, callers)
	var started, finished sync.WaitGroup
	started.Add(callers)
	finished.Add(callers)
	for i := range callers {
		go func() {
			started.Done()
			results[i] = store.CheckSession(context.Background())
			finished.Done()
		}()
	}

	// Let every caller reach the in-flight check before the one
	// request is allowed to resolve.
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	finished.Wait()

	if calls.Load() != 1 {
		t.Errorf("%d concurrent callers issued %d requests, want 1", callers, calls.Load())
	}
	for i, user := range results {
		if user == nil {
			t.Fatalf("caller %d got nil", i)
		}
		if user != results[0] {
			t.Errorf("caller %d got a different result object than caller 0", i)
		}
	}
}

func TestCheckSessionInvalidClearsState(t *testing.T) {
	handler := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(writer).Encode(map[string]string{
			"code":  hrapi.CodeSessionExpired,
			"error": "Invalid or expired session",
		})
	})

	store, state := newTestStore(t, handler)
	store.SetSessionID("sess-stale")
	state.Set(localstore.KeyUser, `{"id":7,"username":"avneet","role":"user"}`)

	if user := store.CheckSession(context.Background()); user != nil {
		t.Errorf("CheckSession = %+v for rejected session", user)
	}
	if store.HasSession() {
		t.Error("session id survived a proven-invalid check")
	}
	if store.User() != nil {
		t.Error("cached profile survived a proven-invalid check")
	}
}

func TestCheckSessionTransientFailureKeepsState(t *testing.T) {
	handler := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
		writer.Write([]byte("upstream unavailable"))
	})

	store, state := newTestStore(t, handler)
	store.SetSessionID("sess-1")
	state.Set(localstore.KeyUser, `{"id":7,"username":"avneet","role":"user"}`)

	if user := store.CheckSession(context.Background()); user != nil {
		t.Errorf("CheckSession = %+v during outage, want nil", user)
	}
	// Could not verify is not proof of logout.
	if !store.HasSession() {
		t.Error("session id cleared on a transient failure")
	}
	if store.User() == nil {
		t.Error("cached profile cleared on a transient failure")
	}
}

func TestEstablishSessionWarningLifecycle(t *testing.T) {
	store, _ := newTestStore(t, http.NotFoundHandler())

	warning := &hrapi.PasswordWarning{Message: "Your password expires in 3 days", DaysRemaining: 3}
	store.EstablishSession(&hrapi.LoginResult{
		User:            &hrapi.User{ID: 7, Username: "avneet", Role: hrapi.RoleUser},
		SessionID:       "sess-1",
		PasswordWarning: warning,
	})

	if got := store.PasswordWarning(); got == nil || got.Message != warning.Message {
		t.Errorf("PasswordWarning = %+v, want %+v", got, warning)
	}

	// A later login with no warning clears the stale one.
	store.EstablishSession(&hrapi.LoginResult{
		User:      &hrapi.User{ID: 7, Username: "avneet", Role: hrapi.RoleUser},
		SessionID: "sess-2",
	})
	if store.PasswordWarning() != nil {
		t.Error("stale password warning survived a warning-free login")
	}
	if got := store.SessionID(); got != "sess-2" {
		t.Errorf("SessionID = %q, want sess-2", got)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	var logouts atomic.Int64
	handler := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/api/auth/logout" {
			logouts.Add(1)
		}
		writer.WriteHeader(http.StatusOK)
	})

	store, _ := newTestStore(t, handler)
	store.SetSessionID("sess-1")

	store.Logout(context.Background())
	store.Logout(context.Background())

	if logouts.Load() != 1 {
		t.Errorf("server logout called %d times, want 1 (second Logout had no session)", logouts.Load())
	}
	if store.HasSession() {
		t.Error("session survived Logout")
	}
}

func TestIsSessionInvalidClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"structured 401", &hrapi.APIError{StatusCode: 401, Message: "nope"}, true},
		{"structured code", &hrapi.APIError{StatusCode: 403, Code: hrapi.CodeSessionExpired, Message: "x"}, true},
		{"legacy wording", &hrapi.APIError{StatusCode: 400, Message: "Invalid or expired session"}, true},
		{"legacy no session", &hrapi.APIError{StatusCode: 400, Message: "No session provided"}, true},
		{"server error", &hrapi.APIError{StatusCode: 502, Message: "upstream unavailable"}, false},
		{"plain network error", context.DeadlineExceeded, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isSessionInvalid(tc.err); got != tc.want {
				t.Errorf("isSessionInvalid(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
