// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vaultrun-tui/internal/ui/components"
	"github.com/jeranaias/vaultrun-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the active screen with the overlay stack on top.
func (m *Model) View() string {
	// Full-screen surfaces have absolute precedence.
	if m.overlay.IsVisible() {
		return m.overlay.View()
	}
	if m.dialog.IsVisible() {
		return m.dialog.View()
	}
	if m.help.IsVisible() {
		return m.help.View()
	}

	var body string
	switch m.view {
	case ViewLogin:
		body = m.viewLogin()
	case ViewRegister:
		body = m.viewRegister()
	case ViewSetup:
		body = m.viewSetup()
	case ViewVault:
		body = m.viewVault()
	case ViewRecordEdit:
		body = m.viewRecordEdit()
	case ViewAccount:
		body = m.viewAccount()
	}

	header := m.theme.Header.Render(m.theme.HeaderTitle.Render("vaultrun") + "  password vault")
	status := m.statusLine()
	bar := m.statusbar.View(m.shortcuts())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, bar)
}

func (m *Model) statusLine() string {
	if m.busy {
		return m.theme.Container.Render(m.spin.View() + " Working...")
	}
	if m.statusMsg == "" {
		return ""
	}
	return m.theme.Container.Render(styles.RenderWarning(m.statusMsg))
}

// =============================================================================
// SCREENS
// =============================================================================

func (m *Model) viewLogin() string {
	form := m.loginForm.View()
	hint := m.theme.FormHint.Render("Enter to log in, Ctrl+N to create an account")
	return m.centerScreen(form + "\n" + hint)
}

func (m *Model) viewRegister() string {
	form := m.registerForm.View()
	hint := m.theme.FormHint.Render("Enter to register, Esc to go back")
	return m.centerScreen(form + "\n" + hint)
}

// viewSetup shows the enrollment secret once and asks for a verifying code.
// The secret never appears again after this screen.
func (m *Model) viewSetup() string {
	if m.pendingReg == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render("Set Up Two-Factor Authentication"))
	b.WriteString("\n")
	b.WriteString(m.theme.FormLabel.Render("Add this secret to your authenticator app:"))
	b.WriteString("\n\n  ")
	b.WriteString(m.theme.FieldFocused.Render(m.pendingReg.Secret))
	b.WriteString("\n\n")
	if m.pendingReg.TOTPURI != "" {
		b.WriteString(m.theme.FormHint.Render(m.pendingReg.TOTPURI))
		b.WriteString("\n\n")
	}
	b.WriteString(m.setupForm.View())
	b.WriteString("\n")
	b.WriteString(m.theme.FormHint.Render("Enter the current code to verify, Esc to skip"))

	return m.centerScreen(b.String())
}

func (m *Model) viewVault() string {
	parts := []string{m.theme.Container.Render(m.list.View())}
	if m.filtering {
		parts = append(parts, m.theme.Container.Render(m.filterInput.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewRecordEdit() string {
	form := m.recordForm.View()
	hint := m.theme.FormHint.Render("Ctrl+G generates a password, Enter saves, Esc cancels")
	return m.centerScreen(form + "\n" + hint)
}

func (m *Model) viewAccount() string {
	form := m.accountForm.View()
	hint := m.theme.FormHint.Render("Enter saves, Ctrl+D deletes the account, Esc cancels")
	return m.centerScreen(form + "\n" + hint)
}

func (m *Model) centerScreen(content string) string {
	height := m.height - 4
	if m.width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

// shortcuts returns the status bar hints for the active screen.
func (m *Model) shortcuts() []components.Shortcut {
	switch m.view {
	case ViewVault:
		return []components.Shortcut{
			{Key: "r", Desc: "reveal"},
			{Key: "a", Desc: "add"},
			{Key: "e", Desc: "edit"},
			{Key: "d", Desc: "delete"},
			{Key: "/", Desc: "filter"},
			{Key: "?", Desc: "help"},
			{Key: "ctrl+l", Desc: "logout"},
		}
	case ViewLogin:
		return []components.Shortcut{
			{Key: "enter", Desc: "log in"},
			{Key: "ctrl+n", Desc: "register"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	default:
		return []components.Shortcut{
			{Key: "esc", Desc: "back"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	}
}
