// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package session

import "sync"

// TaskRegistry tracks cancellable background tasks tied to the
// current session, by name. It replaces the browser client's habit of
// stashing a raw timer handle in persisted storage: handles live in
// process memory, owned here, and the forced-logout path cancels them
// through a reference instead of deserializing a number that is only
// meaningful inside one process.
//
// Registering under an existing name cancels the previous task first,
// so a task restarted across logins never leaks its predecessor.
type TaskRegistry struct {
	mu    sync.Mutex
	tasks map[string]func()
}

// NewTaskRegistry creates an empty registry.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: make(map[string]func())}
}

// Register records cancel under name, cancelling any previous task
// registered under the same name.
func (r *TaskRegistry) Register(name string, cancel func()) {
	r.mu.Lock()
	previous := r.tasks[name]
	r.tasks[name] = cancel
	r.mu.Unlock()

	if previous != nil {
		previous()
	}
}

// Cancel cancels and removes the task registered under name.
// A no-op for unknown names.
func (r *TaskRegistry) Cancel(name string) {
	r.mu.Lock()
	cancel := r.tasks[name]
	delete(r.tasks, name)
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// CancelAll cancels and removes every registered task. Idempotent.
func (r *TaskRegistry) CancelAll() {
	r.mu.Lock()
	cancels := make([]func(), 0, len(r.tasks))
	for _, cancel := range r.tasks {
		cancels = append(cancels, cancel)
	}
	r.tasks = make(map[string]func())
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Len returns the number of registered tasks. Useful for tests.
func (r *TaskRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}
