// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authenticated session: the in-memory master
// password, the display username, and the inactivity timeout state machine
// that decides when the session must end.
package session

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the session lifecycle state.
type Status int

const (
	// StatusAnonymous means no session exists; the login view is shown.
	StatusAnonymous Status = iota

	// StatusActive means the vault is unlocked and the inactivity timers
	// are armed.
	StatusActive

	// StatusWarning means the timeout warning is on screen and the
	// countdown is authoritative; activity no longer resets the timers.
	StatusWarning

	// StatusExpired is terminal. Re-authentication creates a new session.
	StatusExpired
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusActive:
		return "active"
	case StatusWarning:
		return "warning"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// =============================================================================
// SESSION
// =============================================================================

// ErrNoSession is returned when the master password is read after the
// session has been cleared. A vault call in flight when logout fires gets
// this error and fails closed instead of completing with a stale secret.
var ErrNoSession = errors.New("no active session")

// Session is the process-wide volatile session store. It is the analog of
// the browser's per-tab storage and holds exactly two values: the master
// password and the display username. Neither is ever written anywhere
// durable, and both are cleared synchronously on logout or expiry.
//
// The master password lives in a memguard enclave: encrypted at rest in
// memory and decrypted only for the lifetime of a single read.
type Session struct {
	mu       sync.Mutex
	secret   *memguard.Enclave
	username string
	status   Status
}

// New creates an empty, anonymous session.
func New() *Session {
	return &Session{status: StatusAnonymous}
}

// Begin installs a freshly supplied master password and username and moves
// the session to Active. Any previous secret is discarded.
func (s *Session) Begin(masterPassword, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// NewEnclave wipes the byte slice it is handed.
	s.secret = memguard.NewEnclave([]byte(masterPassword))
	s.username = username
	s.status = StatusActive
}

// MasterPassword returns a copy of the master password, or ErrNoSession if
// the session has been cleared. Callers must invoke this at call time for
// every vault request and must not cache the value across an await point.
func (s *Session) MasterPassword() (string, error) {
	s.mu.Lock()
	enclave := s.secret
	s.mu.Unlock()

	if enclave == nil {
		return "", ErrNoSession
	}
	buf, err := enclave.Open()
	if err != nil {
		return "", ErrNoSession
	}
	defer buf.Destroy()
	return string(buf.Bytes()), nil
}

// Username returns the display username, if any.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// SetUsername updates the display username (account-update flow).
func (s *Session) SetUsername(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus records a lifecycle transition driven by the timeout machine.
func (s *Session) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Authenticated reports whether a master password is present.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secret != nil
}

// Clear discards the secret and username and returns the session to the
// given terminal state (StatusExpired for inactivity, StatusAnonymous for
// user-initiated logout). Clearing an already-empty session is a no-op
// beyond re-confirming the state.
func (s *Session) Clear(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = nil
	s.username = ""
	s.status = status
}
