// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package hrapi is a thin client for the HR platform's REST API.
//
// The client covers only the authentication surface hrdesk depends on:
// login (with its three-way response branch), MFA verification, forced
// password change, the session probe, session extension, and logout.
// Request and response shapes mirror the server contract exactly; no
// business data endpoints live here.
//
// Every call takes a context, so callers can bound or abandon a
// request. Non-2xx responses decode into *APIError, which carries the
// HTTP status, the server's machine error code when present, and the
// human-readable message. Use errors.As to inspect it:
//
//	var apiErr *hrapi.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
//	    // proven-invalid session
//	}
package hrapi
