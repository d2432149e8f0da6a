// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vaultrun-tui/internal/api"
	"github.com/jeranaias/vaultrun-tui/internal/session"
)

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// bootstrapCmd revalidates any cached session before the vault is shown.
func (m *Model) bootstrapCmd() tea.Cmd {
	sess, client := m.sess, m.client
	return func() tea.Msg {
		status := session.Bootstrap(context.Background(), sess, client)
		return BootstrapMsg{Status: status}
	}
}

// loginCmd authenticates against the server. The submitted credentials ride
// along in the result so the session can be established on success.
func (m *Model) loginCmd(username, password, code string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.Login(context.Background(), username, password, code)
		return LoginResultMsg{Username: username, Password: password, Err: err}
	}
}

// registerCmd creates an account and returns the TOTP enrollment material.
func (m *Model) registerCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		reg, err := client.Register(context.Background(), username, password)
		return RegisterResultMsg{Username: username, Reg: reg, Err: err}
	}
}

// refreshCmd re-syncs the record list. Results arrive through the syncer's
// hooks, not the command's return value.
func (m *Model) refreshCmd() tea.Cmd {
	syncer := m.syncer
	return func() tea.Msg {
		syncer.Refresh(context.Background())
		return nil
	}
}

// saveRecordCmd creates or updates a record depending on editingID.
func (m *Model) saveRecordCmd(id int64, site, username, password string) tea.Cmd {
	syncer := m.syncer
	return func() tea.Msg {
		var err error
		if id == 0 {
			err = syncer.Create(context.Background(), site, username, password)
		} else {
			err = syncer.Update(context.Background(), id, site, username, password)
		}
		return MutationDoneMsg{Err: err}
	}
}

// updateAccountCmd changes the account credentials.
func (m *Model) updateAccountCmd(current, newUsername, newPassword string) tea.Cmd {
	syncer := m.syncer
	return func() tea.Msg {
		err := syncer.UpdateAccount(context.Background(), current, newUsername, newPassword)
		return AccountUpdateDoneMsg{Err: err}
	}
}

// logoutCmd runs the logout procedure: disarm the timers, clear the secret
// into the given terminal state, and tell the server best-effort. The
// procedure is idempotent; expiry, a 401, account deletion, and the
// explicit key all funnel through it.
func (m *Model) logoutCmd(status session.Status, notice string) tea.Cmd {
	machine, sess, client := m.machine, m.sess, m.client
	return func() tea.Msg {
		machine.Disarm()
		sess.Clear(status)
		// Server-side teardown is advisory: the local session is gone
		// regardless of what the network does.
		client.Logout(context.Background())
		return LoggedOutMsg{Notice: notice}
	}
}

// loginErrorLine maps a login failure to an inline form error. The server
// answers rejected logins with a precise message ("Invalid Password",
// "Invalid 2FA Code"); it is shown verbatim when present.
func loginErrorLine(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return "Login Failed"
	}
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return "Server Error"
}
