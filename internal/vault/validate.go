// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vault synchronizes the credential list with the remote store and
// drives the confirmation flows around destructive operations.
package vault

import (
	"fmt"
	"strings"
	"unicode"
)

// =============================================================================
// CLIENT-SIDE VALIDATION
// =============================================================================

// BannedCredentialChars are rejected in new usernames and passwords before
// any call is made. This is pre-submission guidance only; the server's
// validation is authoritative.
const BannedCredentialChars = `\^~"'[]{};|`

// MinAccountPasswordLength applies to account-update passwords.
const MinAccountPasswordLength = 8

// ValidationError is a client-side pre-check failure. It blocks the call
// entirely: no network round-trip occurs.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateNewRecord enforces the create-record pre-check: site and secret
// are required.
func ValidateNewRecord(site, password string) error {
	if strings.TrimSpace(site) == "" {
		return &ValidationError{Field: "site", Reason: "site is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "password is required"}
	}
	return nil
}

// ValidateCredential enforces the banned-character set and minimum length
// for new account credentials (register and account update).
func ValidateCredential(username, password string) error {
	if username == "" {
		return &ValidationError{Field: "username", Reason: "username is required"}
	}
	if bad, ok := firstBannedRune(username); ok {
		return &ValidationError{Field: "username", Reason: fmt.Sprintf("character %q is not allowed", bad)}
	}
	if len(password) < MinAccountPasswordLength {
		return &ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", MinAccountPasswordLength),
		}
	}
	if bad, ok := firstBannedRune(password); ok {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("character %q is not allowed", bad)}
	}
	return nil
}

// firstBannedRune reports the first whitespace or banned character.
func firstBannedRune(s string) (rune, bool) {
	for _, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(BannedCredentialChars, r) {
			return r, true
		}
	}
	return 0, false
}
