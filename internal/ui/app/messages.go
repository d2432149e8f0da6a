// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the root Bubble Tea model for the vaultrun TUI.
//
// This file defines all Bubble Tea message types used by the application.
// Messages are organized into the following categories:
//   - Session lifecycle: bootstrap, warning, tick, expiry, logout
//   - Authentication: login and registration results
//   - Vault: rendered record sets and sync failures
//   - Configuration: hot reloads
package app

import (
	"github.com/jeranaias/vaultrun-tui/internal/api"
	"github.com/jeranaias/vaultrun-tui/internal/config"
	"github.com/jeranaias/vaultrun-tui/internal/session"
)

// =============================================================================
// SESSION LIFECYCLE MESSAGES
// =============================================================================

// BootstrapMsg carries the result of startup session revalidation.
type BootstrapMsg struct {
	Status session.Status
}

// SessionWarningMsg signals the inactivity warning fired; the countdown
// starts at Countdown seconds.
type SessionWarningMsg struct {
	Countdown int
}

// SessionTickMsg delivers one countdown tick.
type SessionTickMsg struct {
	Remaining int
}

// SessionExpiredMsg signals the session expired and the logout procedure
// must run.
type SessionExpiredMsg struct{}

// UnauthorizedMsg signals the server rejected the ambient session.
type UnauthorizedMsg struct{}

// AccountDeletedMsg signals account deletion completed; the app returns to
// the login screen through the logout procedure.
type AccountDeletedMsg struct{}

// LoggedOutMsg signals the logout procedure finished. Notice is shown on
// the login screen.
type LoggedOutMsg struct {
	Notice string
}

// =============================================================================
// AUTHENTICATION MESSAGES
// =============================================================================

// LoginResultMsg carries the outcome of a login attempt. Username and
// Password echo the submitted credentials so the session can be established
// on success.
type LoginResultMsg struct {
	Username string
	Password string
	Err      error
}

// RegisterResultMsg carries the outcome of account creation.
type RegisterResultMsg struct {
	Username string
	Reg      *api.Registration
	Err      error
}

// =============================================================================
// VAULT MESSAGES
// =============================================================================

// RecordsRenderedMsg delivers the filtered record list after a sync.
type RecordsRenderedMsg struct {
	Records []api.Record
}

// SyncFailedMsg carries a generic sync failure line for the status surface.
type SyncFailedMsg struct {
	Message string
}

// MutationDoneMsg signals an async create/update finished; Err is nil on
// success. Validation errors come back here for inline display.
type MutationDoneMsg struct {
	Err error
}

// AccountUpdateDoneMsg signals an async credential update finished.
type AccountUpdateDoneMsg struct {
	Err error
}

// =============================================================================
// CONFIGURATION MESSAGES
// =============================================================================

// ConfigReloadedMsg delivers a validated configuration from the file
// watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
}
