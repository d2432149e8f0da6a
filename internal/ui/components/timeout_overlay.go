// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vaultrun-tui/internal/ui/styles"
	"github.com/jeranaias/vaultrun-tui/internal/util"
)

// =============================================================================
// SESSION TIMEOUT OVERLAY
// =============================================================================

// TimeoutOverlay displays the inactivity warning with a live countdown.
// While visible it takes precedence over every other surface: any key press
// is consumed as an explicit "stay logged in", never forwarded to the view
// underneath.
type TimeoutOverlay struct {
	visible   bool
	remaining int

	width  int
	height int

	theme *styles.Theme
}

// NewTimeoutOverlay creates a hidden overlay.
func NewTimeoutOverlay(theme *styles.Theme) *TimeoutOverlay {
	return &TimeoutOverlay{theme: theme}
}

// =============================================================================
// STATE MANAGEMENT
// =============================================================================

// SetSize sets the overlay dimensions.
func (o *TimeoutOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Show displays the overlay with the given countdown in seconds.
func (o *TimeoutOverlay) Show(remaining int) {
	o.visible = true
	o.remaining = remaining
}

// SetRemaining updates the countdown.
func (o *TimeoutOverlay) SetRemaining(remaining int) {
	if remaining < 0 {
		remaining = 0
	}
	o.remaining = remaining
}

// Hide hides the overlay.
func (o *TimeoutOverlay) Hide() {
	o.visible = false
}

// IsVisible returns whether the overlay is currently visible.
func (o *TimeoutOverlay) IsVisible() bool {
	return o.visible
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// SessionExtendedMsg signals the user chose to stay logged in.
type SessionExtendedMsg struct{}

// Update handles key events. The bool result reports whether the event was
// consumed.
func (o *TimeoutOverlay) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !o.visible {
		return nil, false
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		// Any key is an explicit continuation, and only that: the
		// keystroke itself never reaches the underlying view.
		o.Hide()
		return func() tea.Msg {
			return SessionExtendedMsg{}
		}, true
	}

	return nil, false
}

// View renders the warning overlay.
func (o *TimeoutOverlay) View() string {
	if !o.visible {
		return ""
	}

	width := o.width
	if width == 0 {
		width = 60
	}
	height := o.height
	if height == 0 {
		height = 24
	}

	maxWidth := width - 8
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 56 {
		maxWidth = 56
	}

	var parts []string

	parts = append(parts, o.theme.TimeoutTitle.Render(
		styles.StatusIndicators.Warning+" Session Timeout Warning"))
	parts = append(parts, "")

	msgStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 4).
		Align(lipgloss.Center)
	parts = append(parts, msgStyle.Render(
		"You will be logged out in "+
			o.theme.TimeoutCountdown.Render(util.FormatCountdown(o.remaining))))
	parts = append(parts, "")

	parts = append(parts, o.theme.TimeoutHint.Render("Press any key to stay logged in"))

	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	box := o.theme.TimeoutBox.Width(maxWidth).Render(content)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}
