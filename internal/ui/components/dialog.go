// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the vaultrun TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vaultrun-tui/internal/modal"
	"github.com/jeranaias/vaultrun-tui/internal/ui/styles"
)

// =============================================================================
// MODAL DIALOG SURFACE
// =============================================================================

// Confirm button options
const (
	buttonAccept = 0
	buttonCancel = 1
	buttonCount  = 2
)

// Dialog renders the broker's visible interaction and translates key events
// into broker resolutions. While a dialog is visible it swallows all input;
// the view underneath stays rendered but inert.
type Dialog struct {
	broker *modal.Broker
	theme  *styles.Theme

	input    textinput.Model
	selected int
	errText  string

	// lastID tracks which request the local state (input, selection)
	// belongs to, so a newly surfaced request starts clean.
	lastID string

	width  int
	height int
}

// NewDialog creates the dialog surface bound to a broker.
func NewDialog(broker *modal.Broker, theme *styles.Theme) *Dialog {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return &Dialog{
		broker: broker,
		theme:  theme,
		input:  ti,
	}
}

// SetSize updates the dialog dimensions.
func (d *Dialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// IsVisible reports whether a dialog is currently on screen.
func (d *Dialog) IsVisible() bool {
	return d.broker.Current() != nil
}

// syncRequest resets per-request state when a new request surfaces.
func (d *Dialog) syncRequest(req *modal.Request) {
	if req.ID == d.lastID {
		return
	}
	d.lastID = req.ID
	d.selected = buttonAccept
	d.errText = ""
	d.input.Reset()
	if req.Kind == modal.KindPrompt {
		if req.Secret {
			d.input.EchoMode = textinput.EchoPassword
			d.input.EchoCharacter = '•'
		} else {
			d.input.EchoMode = textinput.EchoNormal
		}
		d.input.Focus()
	}
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Update handles key events. The bool result reports whether the event was
// consumed; the caller must not process it further when true.
func (d *Dialog) Update(msg tea.Msg) (tea.Cmd, bool) {
	req := d.broker.Current()
	if req == nil {
		return nil, false
	}
	d.syncRequest(req)

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	switch req.Kind {
	case modal.KindAlert:
		switch key.String() {
		case "enter", " ", "esc":
			d.broker.Acknowledge()
		}
		return nil, true

	case modal.KindConfirm:
		switch key.String() {
		case "left", "h", "right", "l", "tab", "shift+tab":
			d.selected = (d.selected + 1) % buttonCount
		case "enter", " ":
			if d.selected == buttonAccept {
				d.broker.Accept()
			} else {
				d.broker.Dismiss()
			}
		case "y":
			d.broker.Accept()
		case "esc", "n":
			d.broker.Dismiss()
		}
		return nil, true

	case modal.KindPrompt:
		switch key.String() {
		case "enter":
			if !d.broker.Submit(d.input.Value()) {
				d.errText = "A value is required"
			}
			return nil, true
		case "esc":
			d.broker.Dismiss()
			return nil, true
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		d.errText = ""
		return cmd, true
	}

	return nil, true
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the visible dialog, or "" when the surface is empty.
func (d *Dialog) View() string {
	req := d.broker.Current()
	if req == nil {
		return ""
	}
	d.syncRequest(req)

	boxWidth := 56
	if d.width > 0 && d.width < 70 {
		boxWidth = d.width - 8
	}
	if boxWidth < 36 {
		boxWidth = 36
	}

	var content strings.Builder

	title := req.Title
	if title == "" {
		switch req.Kind {
		case modal.KindConfirm:
			title = "Confirm"
		case modal.KindPrompt:
			title = "Input Required"
		default:
			title = "Notice"
		}
	}
	content.WriteString(d.theme.DialogTitle.Render(title))
	content.WriteString("\n\n")

	msgStyle := d.theme.DialogMessage.Width(boxWidth - 6)
	content.WriteString(msgStyle.Render(req.Message))
	content.WriteString("\n\n")

	switch req.Kind {
	case modal.KindAlert:
		content.WriteString(d.theme.DialogButtonActive.Render("OK"))
		content.WriteString("\n\n")
		content.WriteString(d.theme.FormHint.Render("Enter to dismiss"))

	case modal.KindConfirm:
		content.WriteString(d.renderConfirmButtons())
		content.WriteString("\n\n")
		content.WriteString(d.theme.FormHint.Render("y=Confirm  n=Cancel  Tab=Navigate"))

	case modal.KindPrompt:
		content.WriteString(d.input.View())
		if d.errText != "" {
			content.WriteString("\n")
			content.WriteString(d.theme.FormError.Render(d.errText))
		}
		content.WriteString("\n\n")
		content.WriteString(d.theme.FormHint.Render("Enter to submit, Esc to cancel"))
	}

	box := d.theme.DialogBox
	if req.Kind == modal.KindConfirm {
		box = d.theme.DialogDangerBox
	}
	rendered := box.Width(boxWidth).Render(content.String())

	if d.width > 0 && d.height > 0 {
		return lipgloss.Place(
			d.width, d.height,
			lipgloss.Center, lipgloss.Center,
			rendered,
		)
	}
	return rendered
}

// renderConfirmButtons renders the accept/cancel button row.
func (d *Dialog) renderConfirmButtons() string {
	accept := d.theme.DialogButton.Render("Confirm")
	if d.selected == buttonAccept {
		accept = d.theme.DialogButtonActive.Background(styles.Rose).Render("Confirm")
	}
	cancel := d.theme.DialogButton.Render("Cancel")
	if d.selected == buttonCancel {
		cancel = d.theme.DialogButtonActive.Render("Cancel")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, accept, "  ", cancel)
}
