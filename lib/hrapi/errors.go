// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package hrapi

import (
	"errors"
	"fmt"
)

// APIError is a structured error response from the HR API. Callers
// use errors.As to extract it:
//
//	var apiErr *hrapi.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == hrapi.CodeSessionExpired { ... }
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
	// Code is the server's machine-readable error code. Older server
	// builds omit it, leaving only Message for classification.
	Code string `json:"code,omitempty"`
	// Message is the human-readable error description.
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("hrapi: %s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("hrapi: %d: %s", e.StatusCode, e.Message)
}

// Error codes the auth endpoints return.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeNoSession          = "NO_SESSION"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidMFACode     = "INVALID_MFA_CODE"
	CodePasswordPolicy     = "PASSWORD_POLICY"
)

// IsAPIError reports whether err is an *APIError with the given code.
func IsAPIError(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
