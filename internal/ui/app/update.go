// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vaultrun-tui/internal/session"
	"github.com/jeranaias/vaultrun-tui/internal/totp"
	"github.com/jeranaias/vaultrun-tui/internal/ui/components"
	"github.com/jeranaias/vaultrun-tui/internal/vault"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages. Input precedence is fixed: the timeout overlay
// outranks the modal dialog, which outranks help, which outranks the view.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSizes(msg.Width, msg.Height)
		if !m.overlay.IsVisible() && m.sess.Authenticated() && m.activity.Allow() {
			m.machine.Activity()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		// Mouse movement counts as presence too, but never extends a
		// session the warning overlay is already counting down.
		if !m.overlay.IsVisible() && m.sess.Authenticated() && m.activity.Allow() {
			m.machine.Activity()
		}
		return m, nil
	}

	return m.handleAppMsg(msg)
}

func (m *Model) setSizes(width, height int) {
	m.width = width
	m.height = height
	m.dialog.SetSize(width, height)
	m.overlay.SetSize(width, height)
	m.help.SetSize(width, height)
	m.list.SetSize(width, height-6)
	m.statusbar.SetSize(width)
	m.loginForm.SetSize(width)
	m.registerForm.SetSize(width)
	m.setupForm.SetSize(width)
	m.recordForm.SetSize(width)
	m.accountForm.SetSize(width)
}

// =============================================================================
// KEY ROUTING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Warning overlay first: while visible, every key means "stay logged
	// in" and nothing else.
	if cmd, handled := m.overlay.Update(msg); handled {
		return m, cmd
	}

	// Raw input while the session is live resets the inactivity timers,
	// throttled to once per second. The machine itself ignores resets
	// during Warning; the overlay consumed those keys above anyway.
	if m.sess.Authenticated() && m.activity.Allow() {
		m.machine.Activity()
	}

	if cmd, handled := m.dialog.Update(msg); handled {
		return m, cmd
	}

	if m.help.IsVisible() {
		m.help.Hide()
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch m.view {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewRegister:
		return m.handleRegisterKey(msg)
	case ViewSetup:
		return m.handleSetupKey(msg)
	case ViewVault:
		return m.handleVaultKey(msg)
	case ViewRecordEdit:
		return m.handleRecordEditKey(msg)
	case ViewAccount:
		return m.handleAccountKey(msg)
	}
	return m, nil
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+n":
		m.view = ViewRegister
		m.registerForm.Reset()
		m.statusMsg = ""
		return m, nil
	case "enter":
		if !m.loginForm.OnLastField() {
			break
		}
		if m.busy {
			return m, nil
		}
		username := m.loginForm.Value(0)
		password := m.loginForm.Value(1)
		code := m.loginForm.Value(2)
		if username == "" || password == "" {
			m.loginForm.SetError("Username and master password are required")
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.loginCmd(username, password, code), m.spin.Tick)
	}
	return m, m.loginForm.Update(msg)
}

func (m *Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ViewLogin
		return m, nil
	case "enter":
		if !m.registerForm.OnLastField() {
			break
		}
		if m.busy {
			return m, nil
		}
		username := m.registerForm.Value(0)
		password := m.registerForm.Value(1)
		if err := vault.ValidateCredential(username, password); err != nil {
			m.registerForm.SetError(err.Error())
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.registerCmd(username, password), m.spin.Tick)
	}
	return m, m.registerForm.Update(msg)
}

func (m *Model) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Enrollment abandoned; the account exists, so back to login.
		m.pendingReg = nil
		m.view = ViewLogin
		return m, nil
	case "enter":
		if m.pendingReg == nil {
			m.view = ViewLogin
			return m, nil
		}
		code := m.setupForm.Value(0)
		if !totp.Verify(code, m.pendingReg.Secret) {
			m.setupForm.SetError("Code does not match; check your authenticator")
			return m, nil
		}
		m.loginForm.Reset()
		m.loginForm.SetValue(0, m.pendingUsername)
		m.pendingReg = nil
		m.view = ViewLogin
		m.statusMsg = "Account created. Log in with your new credentials."
		return m, nil
	}
	return m, m.setupForm.Update(msg)
}

func (m *Model) handleVaultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.list.MoveUp()
	case "down", "j":
		m.list.MoveDown()
	case "r":
		m.list.ToggleReveal()
	case "a":
		m.editingID = 0
		m.recordForm.Reset()
		m.view = ViewRecordEdit
	case "e":
		if rec, ok := m.list.Selected(); ok {
			m.editingID = rec.ID
			m.recordForm.Reset()
			m.recordForm.SetValue(0, rec.Site)
			m.recordForm.SetValue(1, rec.Username)
			m.recordForm.SetValue(2, rec.Password)
			m.view = ViewRecordEdit
		}
	case "d":
		if rec, ok := m.list.Selected(); ok {
			m.syncer.RequestDelete(rec.ID)
		}
	case "/":
		m.filtering = true
		m.filterInput.SetValue(m.syncer.Filter())
		m.filterInput.Focus()
	case "u":
		m.accountForm.Reset()
		m.accountForm.SetValue(1, m.sess.Username())
		m.view = ViewAccount
	case "ctrl+r":
		m.statusMsg = ""
		return m, m.refreshCmd()
	case "ctrl+l":
		return m, m.logoutCmd(session.StatusAnonymous, "Logged out.")
	case "?":
		m.help.Toggle()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleRecordEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ViewVault
		return m, nil
	case "ctrl+g":
		generated, err := vault.GeneratePassword()
		if err != nil {
			m.recordForm.SetError("Password generation failed")
			return m, nil
		}
		m.recordForm.SetValue(2, generated)
		return m, nil
	case "enter":
		if !m.recordForm.OnLastField() {
			break
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.saveRecordCmd(
			m.editingID,
			m.recordForm.Value(0),
			m.recordForm.Value(1),
			m.recordForm.Value(2),
		), m.spin.Tick)
	}
	return m, m.recordForm.Update(msg)
}

func (m *Model) handleAccountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ViewVault
		return m, nil
	case "ctrl+d":
		m.syncer.RequestDeleteAccount()
		return m, nil
	case "enter":
		if !m.accountForm.OnLastField() {
			break
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.updateAccountCmd(
			m.accountForm.Value(0),
			m.accountForm.Value(1),
			m.accountForm.Value(2),
		), m.spin.Tick)
	}
	return m, m.accountForm.Update(msg)
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.Reset()
		m.filterInput.Blur()
		m.syncer.SetFilter("")
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.syncer.SetFilter(m.filterInput.Value())
	return m, cmd
}

// =============================================================================
// APPLICATION MESSAGES
// =============================================================================

func (m *Model) handleAppMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case BootstrapMsg:
		if msg.Status == session.StatusActive {
			m.machine.Arm()
			m.enterVault()
			return m, m.refreshCmd()
		}
		m.view = ViewLogin
		return m, nil

	case LoginResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.loginForm.SetError(loginErrorLine(msg.Err))
			return m, nil
		}
		m.sess.Begin(msg.Password, msg.Username)
		m.machine.Arm()
		m.loginForm.Reset()
		m.enterVault()
		return m, m.refreshCmd()

	case RegisterResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.registerForm.SetError(loginErrorLine(msg.Err))
			return m, nil
		}
		m.pendingReg = msg.Reg
		m.pendingUsername = msg.Username
		m.setupForm.Reset()
		m.view = ViewSetup
		return m, nil

	case RecordsRenderedMsg:
		if len(msg.Records) > 0 && !m.sess.Authenticated() {
			return m, nil
		}
		m.list.SetRecords(msg.Records)
		m.statusbar.SetFilter(m.syncer.Filter())
		return m, nil

	case SyncFailedMsg:
		m.statusMsg = msg.Message
		return m, nil

	case MutationDoneMsg:
		m.busy = false
		if msg.Err == nil {
			m.recordForm.Reset()
			m.view = ViewVault
			m.statusMsg = "Saved."
			return m, nil
		}
		var verr *vault.ValidationError
		if errors.As(msg.Err, &verr) {
			m.recordForm.SetError(verr.Error())
		}
		// Server failures were surfaced through the modal broker; stay
		// on the editor so the user can retry.
		return m, nil

	case AccountUpdateDoneMsg:
		m.busy = false
		if msg.Err == nil {
			m.accountForm.Reset()
			m.view = ViewVault
			m.statusMsg = "Account updated."
			m.statusbar.SetUsername(m.sess.Username())
			return m, nil
		}
		var verr *vault.ValidationError
		if errors.As(msg.Err, &verr) {
			m.accountForm.SetError(verr.Error())
		}
		return m, nil

	// Session lifecycle
	case SessionWarningMsg:
		m.overlay.Show(msg.Countdown)
		m.list.HideAll()
		return m, nil

	case SessionTickMsg:
		m.overlay.SetRemaining(msg.Remaining)
		return m, nil

	case components.SessionExtendedMsg:
		m.machine.StayLoggedIn()
		return m, nil

	case SessionExpiredMsg:
		m.overlay.Hide()
		return m, m.logoutCmd(session.StatusExpired, "You were logged out due to inactivity.")

	case UnauthorizedMsg:
		if m.view == ViewLogin {
			return m, nil
		}
		return m, m.logoutCmd(session.StatusExpired, "Your session is no longer valid. Please log in again.")

	case AccountDeletedMsg:
		return m, m.logoutCmd(session.StatusAnonymous, "Your account has been deleted.")

	case LoggedOutMsg:
		m.leaveVault(msg.Notice)
		return m, nil

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		m.client.SetBaseURL(msg.Config.Server.URL)
		m.client.WithTimeout(msg.Config.RequestTimeout())
		m.statusMsg = "Configuration reloaded."
		return m, nil
	}

	return m, nil
}

// enterVault switches to the vault screen after authentication.
func (m *Model) enterVault() {
	m.view = ViewVault
	m.statusMsg = ""
	m.statusbar.SetUsername(m.sess.Username())
}

// leaveVault resets every surface that could hold vault state and returns
// to the login screen. Running it twice is harmless.
func (m *Model) leaveVault(notice string) {
	m.view = ViewLogin
	m.busy = false
	m.filtering = false
	m.pendingReg = nil
	m.editingID = 0
	m.filterInput.Reset()
	m.list.SetRecords(nil)
	m.overlay.Hide()
	m.help.Hide()
	m.broker.Reset()
	m.statusbar.SetUsername("")
	m.statusbar.SetFilter("")
	m.syncer.SetFilter("")
	m.initForms()
	if m.width > 0 {
		m.setSizes(m.width, m.height)
	}
	m.statusMsg = notice
}
