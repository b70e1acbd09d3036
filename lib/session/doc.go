// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the client-side session lifecycle: the cached
// session identifier and user profile, the boot-time repair of stuck
// sessions, and the background keepalive that extends the session
// before the server expires it.
//
// The Store is the single source of truth for "are we logged in, and
// as whom". All session state flows through its methods; the only
// sanctioned writers besides the Store itself are the repair and
// forced-logout paths in this same package. Components receive a
// *Store by injection — there is no package-level singleton.
//
// The one real concurrency contract lives in CheckSession: concurrent
// callers during an unresolved check share a single network request
// and observe the identical result. Everything else is simple
// coordination around the HR API's auth endpoints.
package session
