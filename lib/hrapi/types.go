// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package hrapi

import "time"

// Role is the primary authorization axis of a user account.
type Role string

const (
	// RoleAdmin has unrestricted access to every page.
	RoleAdmin Role = "admin"
	// RoleManager has the same page access as admin.
	RoleManager Role = "manager"
	// RoleUser is the unprivileged employee role, limited to a fixed
	// set of self-service pages.
	RoleUser Role = "user"
)

// SalesRole is the secondary authorization axis. It is empty for
// non-sales accounts and only affects access to the bonuses page.
type SalesRole string

const (
	// SalesAgent is a commission-earning sales employee.
	SalesAgent SalesRole = "agent"
	// SalesManager manages a sales team.
	SalesManager SalesRole = "manager"
)

// User is the server's view of the authenticated account. hrdesk
// caches it locally for navigation filtering but never treats the
// cache as authoritative — the server re-validates every request.
type User struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	SalesRole  SalesRole `json:"salesRole,omitempty"`
	EmployeeID int       `json:"employeeId,omitempty"`
}

// PasswordWarning is the server's advance notice of an expiring
// password, attached to a successful login or MFA verification.
type PasswordWarning struct {
	Message       string    `json:"message"`
	DaysRemaining int       `json:"daysRemaining"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	DeviceFingerprint string `json:"deviceFingerprint,omitempty"`
}

// LoginResult is the three-way login response: a full session, a
// forced password change, or an MFA challenge. Exactly one branch is
// populated; Outcome() reports which.
type LoginResult struct {
	// Session branch.
	User            *User            `json:"user,omitempty"`
	SessionID       string           `json:"sessionId,omitempty"`
	PasswordWarning *PasswordWarning `json:"passwordWarning,omitempty"`

	// Password-change branch. TempToken is a short-lived exchange
	// token, not a session.
	RequiresPasswordChange bool   `json:"requiresPasswordChange,omitempty"`
	Reason                 string `json:"reason,omitempty"`

	// MFA branch. Shares TempToken with the password-change branch.
	RequiresMFA bool   `json:"requiresMFA,omitempty"`
	TempToken   string `json:"tempToken,omitempty"`
}

// LoginOutcome identifies which branch of a LoginResult is populated.
type LoginOutcome int

const (
	// OutcomeSession means the server established a session and
	// returned the user object.
	OutcomeSession LoginOutcome = iota
	// OutcomePasswordChange means the server demands a password change
	// before any session is issued.
	OutcomePasswordChange
	// OutcomeMFA means the server demands an MFA code before any
	// session is issued.
	OutcomeMFA
	// OutcomeUnknown means the response matched none of the branches.
	// Callers treat it as a failed login.
	OutcomeUnknown
)

// Outcome reports which branch of the response the server took. The
// password-change and MFA flags win over an accidental user object so
// a confused response can never silently establish a session.
func (r *LoginResult) Outcome() LoginOutcome {
	switch {
	case r.RequiresPasswordChange:
		return OutcomePasswordChange
	case r.RequiresMFA:
		return OutcomeMFA
	case r.User != nil:
		return OutcomeSession
	default:
		return OutcomeUnknown
	}
}

// VerifyMFARequest is the body of POST /api/auth/verify-mfa.
// DeviceFingerprint and DeviceName are sent only when TrustDevice is
// set; the fingerprint must be constructed identically to the one sent
// at login or server-side device matching silently fails.
type VerifyMFARequest struct {
	TempToken         string `json:"tempToken"`
	Code              string `json:"code"`
	TrustDevice       bool   `json:"trustDevice"`
	DeviceFingerprint string `json:"deviceFingerprint,omitempty"`
	DeviceName        string `json:"deviceName,omitempty"`
}

// ChangePasswordRequest is the body of POST /api/auth/change-password.
// A successful change does not establish a session — the server
// requires a fresh login with the new password.
type ChangePasswordRequest struct {
	TempToken   string `json:"tempToken"`
	NewPassword string `json:"newPassword"`
}

// SessionResponse is the body of GET /api/auth/session.
type SessionResponse struct {
	User *User `json:"user"`
}
