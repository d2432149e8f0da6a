// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package totp wraps the one-time-password pieces of the register and
// login flows. The server enrolls the authenticator and owns verification;
// this package only generates codes for display and sanity-checks a fresh
// enrollment locally.
package totp

import (
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// ErrBadURI indicates an otpauth URI that could not be parsed.
var ErrBadURI = errors.New("invalid otpauth URI")

// Code returns the current 6-digit code for a base32 secret.
func Code(secret string) (string, error) {
	return totp.GenerateCode(normalize(secret), time.Now())
}

// Verify checks a code against a base32 secret in the current time window.
// Used to confirm an enrollment before the user is sent to the login form.
func Verify(code, secret string) bool {
	return totp.Validate(strings.TrimSpace(code), normalize(secret))
}

// SecretFromURI extracts the base32 secret from an otpauth:// URI, as
// returned by the register call.
func SecretFromURI(uri string) (string, error) {
	key, err := otp.NewKeyFromURL(strings.TrimSpace(uri))
	if err != nil {
		return "", ErrBadURI
	}
	return key.Secret(), nil
}

// normalize strips the spaces and lowercase that authenticator apps and
// users tend to introduce when copying secrets around.
func normalize(secret string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
}
