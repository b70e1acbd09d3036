// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package localstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Well-known keys. Everything else in the namespace belongs to one of
// the documented prefixes.
const (
	// KeySessionID holds the opaque session identifier.
	KeySessionID = "session_id"
	// KeyUser holds the serialized cached user profile.
	KeyUser = "user"
	// KeyPasswordWarning holds the serialized password-expiry warning.
	KeyPasswordWarning = "password_warning"
)

// Documented key prefixes for cached settings. The session repair path
// bulk-clears these alongside the session itself; any new cached
// setting must use one of them to be covered.
const (
	PrefixPreferences   = "preferences_"
	PrefixSecurity      = "security_"
	PrefixNotifications = "notifications_"
)

// StateFilePath returns the path of the backing file. Checks
// HRDESK_STATE_FILE first, then falls back to
// $XDG_STATE_HOME/hrdesk/state.json (~/.local/state when unset).
func StateFilePath() string {
	if envPath := os.Getenv("HRDESK_STATE_FILE"); envPath != "" {
		return envPath
	}

	stateDirectory := os.Getenv("XDG_STATE_HOME")
	if stateDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join("/tmp", "hrdesk-state.json")
		}
		stateDirectory = filepath.Join(homeDirectory, ".local", "state")
	}
	return filepath.Join(stateDirectory, "hrdesk", "state.json")
}

// Store is a flat string-keyed persistence layer. Every mutation
// writes through to disk so a crash never loses more than the call in
// flight. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	logger *slog.Logger
}

// Open loads the store at path. A missing file starts empty; a corrupt
// file is logged and discarded rather than failing the boot.
func Open(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	store := &Store{
		path:   path,
		values: make(map[string]string),
		logger: logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot read state file, starting empty", "path", path, "error", err)
		}
		return store
	}
	if err := json.Unmarshal(data, &store.values); err != nil {
		logger.Warn("state file is corrupt, starting empty", "path", path, "error", err)
		store.values = make(map[string]string)
	}
	return store
}

// Get returns the value for key, or "" when absent.
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Has reports whether key is present with a non-empty value.
func (s *Store) Has(key string) bool {
	return s.Get(key) != ""
}

// Set stores value under key and writes through to disk. An empty
// value deletes the key.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.values, key)
	} else {
		s.values[key] = value
	}
	s.flushLocked()
}

// Delete removes key and writes through to disk.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.flushLocked()
}

// DeletePrefix removes every key carrying any of the given prefixes,
// then writes through once. Returns the number of keys removed.
func (s *Store) DeletePrefix(prefixes ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.values {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(s.values, key)
				removed++
				break
			}
		}
	}
	if removed > 0 {
		s.flushLocked()
	}
	return removed
}

// Keys returns every stored key, sorted.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GetJSON decodes the value under key into v. Returns false when the
// key is absent. A parse failure logs, removes the poisoned value, and
// returns false — cached state is never worth an error path.
func (s *Store) GetJSON(key string, v any) bool {
	raw := s.Get(key)
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("discarding unparseable cached value", "key", key, "error", err)
		s.Delete(key)
		return false
	}
	return true
}

// SetJSON encodes v and stores it under key.
func (s *Store) SetJSON(key string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encoding %s: %w", key, err)
	}
	s.Set(key, string(encoded))
	return nil
}

// flushLocked writes the current map to disk atomically: temporary
// file in the same directory, fsync, rename. Readers never observe a
// partial write. Must be called with s.mu held. Write failures are
// logged, not returned — the in-memory state stays authoritative for
// this run.
func (s *Store) flushLocked() {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		s.logger.Error("cannot encode state", "error", err)
		return
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		s.logger.Error("cannot create state directory", "path", directory, "error", err)
		return
	}

	temporaryPath := s.path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		s.logger.Error("cannot create temporary state file", "path", temporaryPath, "error", err)
		return
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		s.logger.Error("cannot write state file", "error", err)
		return
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		s.logger.Error("cannot sync state file", "error", err)
		return
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		s.logger.Error("cannot close state file", "error", err)
		return
	}

	if err := os.Rename(temporaryPath, s.path); err != nil {
		os.Remove(temporaryPath)
		s.logger.Error("cannot rename state file into place", "error", err)
	}
}
