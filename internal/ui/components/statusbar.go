// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/vaultrun-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is one key hint shown on the right side of the bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar: session identity on the left, key
// hints on the right.
type StatusBar struct {
	username string
	filter   string
	width    int

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetSize sets the bar width.
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetUsername sets the logged-in identity; empty means locked.
func (s *StatusBar) SetUsername(username string) {
	s.username = username
}

// SetFilter sets the active record filter shown in the bar.
func (s *StatusBar) SetFilter(filter string) {
	s.filter = filter
}

// View renders the bar with the given shortcuts.
func (s *StatusBar) View(shortcuts []Shortcut) string {
	var left string
	if s.username != "" {
		left = s.theme.StatusUser.Render(styles.StatusIndicators.Success+" "+s.username) + " "
	} else {
		left = s.theme.StatusLocked.Render(styles.StatusIndicators.Locked+" locked") + " "
	}
	if s.filter != "" {
		left += s.theme.FilterPrompt.Render("/"+s.filter) + " "
	}

	var hints []string
	for _, sc := range shortcuts {
		hints = append(hints,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	if s.width > 0 && runewidth.StringWidth(bar) > s.width {
		bar = left
	}
	return s.theme.StatusBar.Render(bar)
}
