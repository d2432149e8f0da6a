// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB

	userAgent = "vaultrun/0.1.0"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnauthorized indicates the server rejected the session or the
	// master password. Callers treat this as an implicit session expiry.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServerError indicates a transport failure or an unparseable
	// response. It is surfaced to the user as a generic server error and
	// never retried at this layer.
	ErrServerError = errors.New("server error")
)

// APIError is a structured, server-reported failure. A 401 APIError also
// matches ErrUnauthorized through Unwrap, so callers that only care about
// the session verdict keep using errors.Is while login can still show the
// server's message verbatim.
type APIError struct {
	Status  int
	Message string
}

// Unwrap maps unauthorized responses onto the sentinel.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vault server error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("vault server error (HTTP %d)", e.Status)
}

// UserMessage returns the server's message verbatim where the flow supports
// showing it, falling back to a generic line.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "Server Error"
}

// =============================================================================
// CLIENT
// =============================================================================

// Client speaks the vault wire protocol. The session credential is an
// ambient cookie held in the client's jar; no token is managed by callers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a vault API client for the given base URL.
//
// The jar carries the server's session cookie across calls, which is the
// only ambient credential the protocol uses.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
	}, nil
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithLogger sets a request logger. Only method, path, status, and duration
// are ever logged.
func (c *Client) WithLogger(logger *log.Logger) *Client {
	c.logger = logger
	return c
}

// SetBaseURL repoints the client, for config hot reload.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// SESSION CALLS
// =============================================================================

// CheckSession revalidates the ambient session cookie. Any non-200 response
// means the session is invalid; the caller falls back to the anonymous state.
func (c *Client) CheckSession(ctx context.Context) (*SessionInfo, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/check_session", nil)
	if err != nil {
		return nil, err
	}
	var info SessionInfo
	if len(body) > 0 {
		if err := json.Unmarshal(body, &info); err != nil {
			return nil, fmt.Errorf("%w: malformed session response", ErrServerError)
		}
	}
	return &info, nil
}

// Login authenticates with username, master password, and a TOTP code.
// On failure the server's error message is returned verbatim in an APIError.
func (c *Client) Login(ctx context.Context, username, password, totpCode string) (*SessionInfo, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/login", loginRequest{
		Username: username,
		Password: password,
		TOTPCode: totpCode,
	})
	if err != nil {
		return nil, err
	}
	var info SessionInfo
	if len(body) > 0 {
		if err := json.Unmarshal(body, &info); err != nil {
			return nil, fmt.Errorf("%w: malformed login response", ErrServerError)
		}
	}
	return &info, nil
}

// Register creates an account and returns the TOTP enrollment material.
func (c *Client) Register(ctx context.Context, username, password string) (*Registration, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/register", registerRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	var reg Registration
	if err := json.Unmarshal(body, &reg); err != nil {
		return nil, fmt.Errorf("%w: malformed register response", ErrServerError)
	}
	return &reg, nil
}

// Logout issues a best-effort termination notice. The response is ignored
// by contract; only transport construction errors are reported.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/logout", nil)
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil // server answered; any status is acceptable
		}
		return err
	}
	return nil
}

// =============================================================================
// VAULT CALLS
// =============================================================================

// ListRecords fetches and decrypts every record for the account.
// A 401 maps to ErrUnauthorized, which forces a logout upstream.
func (c *Client) ListRecords(ctx context.Context, masterPassword string) ([]Record, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/get_passwords", listRequest{
		MasterPassword: masterPassword,
	})
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: malformed record list", ErrServerError)
	}
	return records, nil
}

// CreateRecord stores a new credential record.
func (c *Client) CreateRecord(ctx context.Context, masterPassword, site, username, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/add_password", createRequest{
		MasterPassword: masterPassword,
		SiteName:       site,
		SiteUsername:   username,
		SitePassword:   password,
	})
	return err
}

// UpdateRecord re-encrypts a single record with new contents.
func (c *Client) UpdateRecord(ctx context.Context, id int64, masterPassword, site, username, password string) error {
	_, err := c.do(ctx, http.MethodPut, "/api/update_password", updateRequest{
		ID:             id,
		MasterPassword: masterPassword,
		SiteName:       site,
		SiteUsername:   username,
		SitePassword:   password,
	})
	return err
}

// DeleteRecord removes a record. Deletion is irreversible; callers must
// confirm with the user before reaching this method.
func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/delete_password", deleteRequest{ID: id})
	return err
}

// =============================================================================
// ACCOUNT CALLS
// =============================================================================

// UpdateAccount changes the username and/or master password.
func (c *Client) UpdateAccount(ctx context.Context, currentPassword, newUsername, newPassword string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/update_account", updateAccountRequest{
		CurrentPassword: currentPassword,
		NewUsername:     newUsername,
		NewPassword:     newPassword,
	})
	return err
}

// DeleteAccount removes the account and every record in it.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/delete_account", deleteAccountRequest{Password: password})
	return err
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one request and maps the response to the error taxonomy:
// non-2xx → *APIError carrying the server's message when the body has one
// (401s additionally match ErrUnauthorized), transport failure →
// ErrServerError.
//
// SECURITY: Request bodies routinely carry the master password. They are
// never logged and never echoed into error messages.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", userAgent)

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerError, err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerError, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: serverMessage(body)}
	}
	return body, nil
}

// readBody reads the response body through a hard size limit.
func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded %d bytes", MaxResponseSize)
	}
	return body, nil
}

// serverMessage extracts the structured error message, if one exists.
func serverMessage(body []byte) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		return apiErr.Error
	}
	return ""
}

// logRequest logs method and path only. Headers carry the session cookie
// and bodies carry the master password; neither is ever written anywhere.
func (c *Client) logRequest(req *http.Request) {
	if c.logger != nil {
		c.logger.Printf("API request: %s %s", req.Method, req.URL.Path)
	}
}

// logResponse logs status code and duration only.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	if c.logger != nil {
		c.logger.Printf("API response: %d (%v)", resp.StatusCode, duration)
	}
}
