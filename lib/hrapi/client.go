// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

package hrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/cclogistics/hrdesk/lib/version"
)

// maxResponseSize caps how much of a response body the client reads.
// Auth responses are small; anything larger is a misbehaving server.
const maxResponseSize = 1 << 20

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the root of the HR API (e.g., "https://hr.example.com").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used. No client-side timeout is applied beyond the transport's
	// own — callers bound individual requests via context.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default().
	Logger *slog.Logger
}

// Client talks to the HR platform's authentication endpoints. A Client
// is stateless: the session identifier is passed per call by whichever
// component owns it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given API root.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("hrapi: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("hrapi: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Login submits credentials and the device fingerprint. The response
// is the three-way branch described on LoginResult; inspect Outcome()
// to see which path the server took.
func (c *Client) Login(ctx context.Context, request LoginRequest) (*LoginResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", "", request)
	if err != nil {
		return nil, fmt.Errorf("hrapi: login failed: %w", err)
	}

	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("hrapi: failed to parse login response: %w", err)
	}

	c.logger.Info("login response received", "outcome", result.Outcome())
	return &result, nil
}

// VerifyMFA exchanges the temp token and the 6-digit code for a
// session. On success the response carries the same session branch as
// a direct login.
func (c *Client) VerifyMFA(ctx context.Context, request VerifyMFARequest) (*LoginResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/auth/verify-mfa", "", request)
	if err != nil {
		return nil, fmt.Errorf("hrapi: mfa verification failed: %w", err)
	}

	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("hrapi: failed to parse mfa response: %w", err)
	}
	return &result, nil
}

// ChangePassword submits a new password under the temp token issued by
// a requiresPasswordChange login. A 2xx response carries no session —
// the caller must log in again with the new password.
func (c *Client) ChangePassword(ctx context.Context, request ChangePasswordRequest) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/auth/change-password", "", request); err != nil {
		return fmt.Errorf("hrapi: password change failed: %w", err)
	}
	return nil
}

// Session is the "who am I" probe: it validates sessionID server-side
// and returns the account it belongs to.
func (c *Client) Session(ctx context.Context, sessionID string) (*User, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/auth/session", sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("hrapi: session check failed: %w", err)
	}

	var response SessionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("hrapi: failed to parse session response: %w", err)
	}
	if response.User == nil {
		return nil, fmt.Errorf("hrapi: session response has no user")
	}
	return response.User, nil
}

// Extend resets the server-side expiry clock for sessionID.
func (c *Client) Extend(ctx context.Context, sessionID string) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/auth/extend", sessionID, nil); err != nil {
		return fmt.Errorf("hrapi: session extension failed: %w", err)
	}
	return nil
}

// Logout destroys the session server-side. Best-effort by contract:
// callers log and swallow the error, since local state is cleared
// regardless.
func (c *Client) Logout(ctx context.Context, sessionID string) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", sessionID, nil); err != nil {
		return fmt.Errorf("hrapi: logout failed: %w", err)
	}
	return nil
}

// doRequest performs one HTTP round-trip. On 2xx it returns the body;
// on any other status it returns a *APIError decoded from the body.
// sessionID may be empty for unauthenticated endpoints.
func (c *Client) doRequest(ctx context.Context, method, path, sessionID string, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("User-Agent", "hrdesk-terminal/"+version.Short())
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		// The server accepts the session identifier as a bearer token
		// as an alternative to its browser cookie.
		request.Header.Set("Authorization", "Bearer "+sessionID)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	var apiErr APIError
	if jsonErr := json.Unmarshal(responseBody, &apiErr); jsonErr != nil || apiErr.Message == "" {
		// Non-JSON error body. Fail loud with the raw payload so the
		// misbehavior is visible instead of masked.
		return nil, &APIError{
			StatusCode: response.StatusCode,
			Message:    strings.TrimSpace(string(responseBody)),
		}
	}
	apiErr.StatusCode = response.StatusCode
	return nil, &apiErr
}
