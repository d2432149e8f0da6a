// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/vaultrun-tui/internal/api"
	"github.com/jeranaias/vaultrun-tui/internal/ui/styles"
	"github.com/jeranaias/vaultrun-tui/internal/util"
)

// =============================================================================
// VAULT LIST
// =============================================================================

// VaultList renders the stored records as a scrollable table. Passwords are
// masked by default; reveal is a per-row toggle and every reveal is discarded
// when the record set is replaced, so a refresh never leaves a secret
// on screen by accident.
type VaultList struct {
	records  []api.Record
	cursor   int
	revealed map[int64]bool

	width  int
	height int

	theme *styles.Theme
}

// NewVaultList creates an empty list.
func NewVaultList(theme *styles.Theme) *VaultList {
	return &VaultList{
		theme:    theme,
		revealed: make(map[int64]bool),
	}
}

// SetSize sets the list dimensions.
func (v *VaultList) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetRecords replaces the record set. All reveals are cleared and the
// cursor is clamped to the new bounds.
func (v *VaultList) SetRecords(records []api.Record) {
	v.records = records
	v.revealed = make(map[int64]bool)
	if v.cursor >= len(records) {
		v.cursor = len(records) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// Len returns the number of records shown.
func (v *VaultList) Len() int {
	return len(v.records)
}

// Selected returns the record under the cursor.
func (v *VaultList) Selected() (api.Record, bool) {
	if len(v.records) == 0 {
		return api.Record{}, false
	}
	return v.records[v.cursor], true
}

// MoveUp moves the cursor up one row.
func (v *VaultList) MoveUp() {
	if v.cursor > 0 {
		v.cursor--
	}
}

// MoveDown moves the cursor down one row.
func (v *VaultList) MoveDown() {
	if v.cursor < len(v.records)-1 {
		v.cursor++
	}
}

// ToggleReveal flips password visibility for the selected row.
func (v *VaultList) ToggleReveal() {
	rec, ok := v.Selected()
	if !ok {
		return
	}
	if v.revealed[rec.ID] {
		delete(v.revealed, rec.ID)
	} else {
		v.revealed[rec.ID] = true
	}
}

// HideAll masks every revealed password.
func (v *VaultList) HideAll() {
	v.revealed = make(map[int64]bool)
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// Column layout: site and username split the remaining width, password
// column is fixed since masked values have constant width.
const passwordColWidth = 20

func (v *VaultList) columnWidths() (site, user int) {
	total := v.width
	if total <= 0 {
		total = 80
	}
	avail := total - passwordColWidth - 6
	if avail < 20 {
		avail = 20
	}
	site = avail * 3 / 5
	user = avail - site
	return site, user
}

// View renders the table.
func (v *VaultList) View() string {
	if len(v.records) == 0 {
		return v.theme.ListEmpty.Render("No passwords stored yet. Press 'a' to add one.")
	}

	siteW, userW := v.columnWidths()

	var b strings.Builder
	header := util.PadWidth("Site", siteW) + "  " +
		util.PadWidth("Username", userW) + "  " +
		"Password"
	b.WriteString(v.theme.ListHeader.Render(header))
	b.WriteString("\n")

	start, end := v.viewport()
	for i := start; i < end; i++ {
		rec := v.records[i]

		password := util.MaskSecret()
		passStyle := v.theme.ListMaskedSecret
		if v.revealed[rec.ID] {
			password = util.TruncateWidth(rec.Password, passwordColWidth)
			passStyle = v.theme.ListRow
		}

		row := util.PadWidth(util.TruncateWidth(rec.Site, siteW), siteW) + "  " +
			util.PadWidth(util.TruncateWidth(rec.Username, userW), userW) + "  " +
			passStyle.Render(password)

		if i == v.cursor {
			b.WriteString(v.theme.ListRowSelected.Render("> " + row))
		} else {
			b.WriteString(v.theme.ListRow.Render("  " + row))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// viewport returns the visible slice bounds, keeping the cursor on screen.
func (v *VaultList) viewport() (start, end int) {
	rows := v.height - 2
	if rows <= 0 {
		rows = len(v.records)
	}
	if rows >= len(v.records) {
		return 0, len(v.records)
	}
	start = v.cursor - rows/2
	if start < 0 {
		start = 0
	}
	end = start + rows
	if end > len(v.records) {
		end = len(v.records)
		start = end - rows
	}
	return start, end
}
