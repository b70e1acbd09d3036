// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package localstore persists hrdesk's client-side state as a single
// flat key/value file.
//
// The store mirrors the browser client's localStorage: a flat string
// namespace holding the session identifier, the cached user profile,
// the password-expiry warning, and preference caches. Keys follow the
// documented naming convention — `preferences_*`, `security_*`, and
// `notifications_*` prefixes group cached settings so the session
// repair path can bulk-clear them with DeletePrefix.
//
// The backing file is JSON, written atomically (temporary file, fsync,
// rename) with mode 0600. A corrupt or unreadable file never fails
// startup: the store logs and begins empty, because losing a cache is
// recoverable and refusing to boot is not.
package localstore
