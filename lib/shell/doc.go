// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package shell implements the hrdesk terminal UI: the login flow
// (credentials, forced password change, MFA challenge) and the
// authenticated shell with role-filtered navigation.
//
// The Model routes keyboard input by flow state. Network calls run as
// bubbletea commands carrying a generation counter; a result from a
// superseded attempt (the user cancelled or resubmitted) is dropped on
// arrival. Cancelling a pending attempt aborts the underlying request
// through its context rather than letting it run to completion.
//
// A forced logout (failed keepalive) reaches the Model through the
// reset channel, mirroring how the session store's reset hook works:
// the goroutine that detects the failure cannot touch the Model, so it
// signals the channel and the bubbletea loop remounts the login flow.
package shell
