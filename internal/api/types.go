// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the wire protocol of the vault server.
//
// The server owns all encryption, decryption, and persistence. This client
// speaks plain JSON over HTTP and attaches the caller-supplied master
// password to every call that requires decryption. The field names below are
// the protocol; they must not drift.
package api

// SessionInfo is the body of a successful login or session check.
type SessionInfo struct {
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Registration is the body of a successful register call. The server
// enrolls a TOTP authenticator and returns everything the user needs to
// finish setup: a QR code image, the raw base32 secret, and the otpauth URI.
type Registration struct {
	QRCode  string `json:"qr_code"` // base64-encoded PNG
	Secret  string `json:"secret"`
	TOTPURI string `json:"totp_uri"`
}

// Record is one credential record as the server returns it from a list
// call. The password field arrives decrypted; the client must never hold a
// copy past the next render.
type Record struct {
	ID       int64  `json:"id"`
	Site     string `json:"site"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginRequest is the login call body. The 2FA field name is a protocol
// constant, digits-first and all.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"2fa_code"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type listRequest struct {
	MasterPassword string `json:"master_password"`
}

type createRequest struct {
	MasterPassword string `json:"master_password"`
	SiteName       string `json:"site_name"`
	SiteUsername   string `json:"site_username"`
	SitePassword   string `json:"site_password"`
}

type updateRequest struct {
	ID             int64  `json:"id"`
	MasterPassword string `json:"master_password"`
	SiteName       string `json:"site_name"`
	SiteUsername   string `json:"site_username"`
	SitePassword   string `json:"site_password"`
}

type deleteRequest struct {
	ID int64 `json:"id"`
}

type updateAccountRequest struct {
	CurrentPassword string `json:"current_password"`
	NewUsername     string `json:"new_username"`
	NewPassword     string `json:"new_password"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

// apiErrorResponse is the structured error body the server attaches to
// non-success responses.
type apiErrorResponse struct {
	Error string `json:"error"`
}
