// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vaultrun-tui/internal/ui/styles"
)

// =============================================================================
// HELP OVERLAY
// =============================================================================

const helpMarkdown = `# vaultrun

## Vault

| Key | Action |
|-----|--------|
| up/down, j/k | Move selection |
| r | Reveal/hide password |
| a | Add a record |
| e | Edit selected record |
| d | Delete selected record |
| / | Filter records |
| u | Update account credentials |
| ctrl+r | Refresh from server |
| ctrl+l | Log out |
| ? | Toggle this help |
| q, ctrl+c | Quit |

## Record editor

| Key | Action |
|-----|--------|
| ctrl+g | Fill the password field with a generated password |
| enter | Save (from the last field) |
| esc | Cancel |

## Session

Your vault locks after inactivity. A warning with a countdown appears
first; press any key there to stay logged in.
`

// Help renders the keybinding reference as an overlay.
type Help struct {
	visible  bool
	rendered string

	width  int
	height int

	theme *styles.Theme
}

// NewHelp creates a hidden help overlay. The markdown is rendered once.
func NewHelp(theme *styles.Theme) *Help {
	h := &Help{theme: theme}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		// Plain text fallback when the renderer cannot initialize.
		h.rendered = helpMarkdown
		return h
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		h.rendered = helpMarkdown
		return h
	}
	h.rendered = out
	return h
}

// SetSize sets the overlay dimensions.
func (h *Help) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Toggle flips visibility.
func (h *Help) Toggle() {
	h.visible = !h.visible
}

// Hide hides the overlay.
func (h *Help) Hide() {
	h.visible = false
}

// IsVisible returns whether the overlay is visible.
func (h *Help) IsVisible() bool {
	return h.visible
}

// View renders the help overlay.
func (h *Help) View() string {
	if !h.visible {
		return ""
	}

	box := h.theme.DialogBox.Render(h.rendered)
	if h.width > 0 && h.height > 0 {
		return lipgloss.Place(
			h.width, h.height,
			lipgloss.Center, lipgloss.Center,
			box,
		)
	}
	return box
}
