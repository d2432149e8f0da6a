// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vaultrun-tui/internal/api"
	"github.com/jeranaias/vaultrun-tui/internal/modal"
	"github.com/jeranaias/vaultrun-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// =============================================================================
// DIALOG
// =============================================================================

func TestDialogHiddenPassesEventsThrough(t *testing.T) {
	d := NewDialog(modal.NewBroker(), testTheme())
	if _, handled := d.Update(keyMsg("enter")); handled {
		t.Error("empty dialog consumed a key")
	}
	if d.View() != "" {
		t.Error("empty dialog rendered content")
	}
}

func TestDialogAlertAcknowledge(t *testing.T) {
	broker := modal.NewBroker()
	acked := false
	broker.Alert("Server Error", "Error", func() { acked = true })

	d := NewDialog(broker, testTheme())
	if !d.IsVisible() {
		t.Fatal("dialog not visible with pending alert")
	}
	if !strings.Contains(d.View(), "Server Error") {
		t.Error("alert message not rendered")
	}

	_, handled := d.Update(keyMsg("enter"))
	if !handled {
		t.Error("visible dialog did not consume key")
	}
	if !acked {
		t.Error("acknowledge continuation did not run")
	}
	if d.IsVisible() {
		t.Error("dialog still visible after acknowledge")
	}
}

func TestDialogConfirmQuickKeys(t *testing.T) {
	broker := modal.NewBroker()
	confirmed := 0
	broker.Confirm("Delete this password?", func() { confirmed++ })

	d := NewDialog(broker, testTheme())
	d.Update(keyMsg("y"))
	if confirmed != 1 {
		t.Errorf("confirmed = %d after y, want 1", confirmed)
	}

	broker.Confirm("Delete this password?", func() { confirmed++ })
	d.Update(keyMsg("n"))
	if confirmed != 1 {
		t.Errorf("confirmed = %d after n, want still 1", confirmed)
	}
	if d.IsVisible() {
		t.Error("dialog visible after cancel")
	}
}

func TestDialogPromptSubmitAndReject(t *testing.T) {
	broker := modal.NewBroker()
	var got string
	broker.Prompt("Site name", func(v string) { got = v })

	d := NewDialog(broker, testTheme())

	// Empty submit is rejected and the dialog stays open.
	d.Update(keyMsg("enter"))
	if !d.IsVisible() {
		t.Fatal("prompt closed on empty submit")
	}
	if !strings.Contains(d.View(), "A value is required") {
		t.Error("rejection not surfaced")
	}

	for _, r := range "github" {
		d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	d.Update(keyMsg("enter"))
	if got != "github" {
		t.Errorf("submitted = %q, want github", got)
	}
}

func TestDialogPromptResetBetweenRequests(t *testing.T) {
	broker := modal.NewBroker()
	var first, second string
	broker.Prompt("first", func(v string) { first = v })

	d := NewDialog(broker, testTheme())
	for _, r := range "aaa" {
		d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	d.Update(keyMsg("enter"))

	broker.Prompt("second", func(v string) { second = v })
	for _, r := range "bbb" {
		d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	d.Update(keyMsg("enter"))

	if first != "aaa" || second != "bbb" {
		t.Errorf("values = %q/%q, input leaked between requests", first, second)
	}
}

// =============================================================================
// TIMEOUT OVERLAY
// =============================================================================

func TestTimeoutOverlayConsumesAnyKey(t *testing.T) {
	o := NewTimeoutOverlay(testTheme())
	o.Show(60)

	cmd, handled := o.Update(keyMsg("x"))
	if !handled {
		t.Fatal("visible overlay did not consume key")
	}
	if cmd == nil {
		t.Fatal("no command produced")
	}
	if _, ok := cmd().(SessionExtendedMsg); !ok {
		t.Error("key did not produce SessionExtendedMsg")
	}
	if o.IsVisible() {
		t.Error("overlay still visible after key")
	}
}

func TestTimeoutOverlayHiddenIgnoresKeys(t *testing.T) {
	o := NewTimeoutOverlay(testTheme())
	if _, handled := o.Update(keyMsg("x")); handled {
		t.Error("hidden overlay consumed a key")
	}
}

func TestTimeoutOverlayCountdownDisplay(t *testing.T) {
	o := NewTimeoutOverlay(testTheme())
	o.SetSize(80, 24)
	o.Show(60)
	if !strings.Contains(o.View(), "1:00") {
		t.Error("countdown 60 not rendered as 1:00")
	}
	o.SetRemaining(7)
	if !strings.Contains(o.View(), "0:07") {
		t.Error("countdown 7 not rendered as 0:07")
	}
	o.SetRemaining(-3)
	if !strings.Contains(o.View(), "0:00") {
		t.Error("negative countdown not clamped")
	}
}

// =============================================================================
// VAULT LIST
// =============================================================================

func sampleRecords() []api.Record {
	return []api.Record{
		{ID: 1, Site: "github.com", Username: "alice", Password: "hunter22"},
		{ID: 2, Site: "mail.example.com", Username: "alice@example.com", Password: "s3cret"},
	}
}

func TestVaultListMasksByDefault(t *testing.T) {
	v := NewVaultList(testTheme())
	v.SetRecords(sampleRecords())
	view := v.View()
	if strings.Contains(view, "hunter22") || strings.Contains(view, "s3cret") {
		t.Error("password rendered unmasked")
	}
}

func TestVaultListRevealToggle(t *testing.T) {
	v := NewVaultList(testTheme())
	v.SetRecords(sampleRecords())

	v.ToggleReveal()
	if !strings.Contains(v.View(), "hunter22") {
		t.Error("revealed password not visible")
	}
	if strings.Contains(v.View(), "s3cret") {
		t.Error("reveal leaked to another row")
	}

	v.ToggleReveal()
	if strings.Contains(v.View(), "hunter22") {
		t.Error("password still visible after second toggle")
	}
}

func TestVaultListRevealClearedOnSetRecords(t *testing.T) {
	v := NewVaultList(testTheme())
	v.SetRecords(sampleRecords())
	v.ToggleReveal()

	v.SetRecords(sampleRecords())
	if strings.Contains(v.View(), "hunter22") {
		t.Error("reveal survived a record refresh")
	}
}

func TestVaultListCursorClamped(t *testing.T) {
	v := NewVaultList(testTheme())
	v.SetRecords(sampleRecords())
	v.MoveDown()
	v.MoveDown()
	v.MoveDown()
	rec, ok := v.Selected()
	if !ok || rec.ID != 2 {
		t.Errorf("selected = %+v, cursor not clamped to last row", rec)
	}

	v.SetRecords(sampleRecords()[:1])
	rec, ok = v.Selected()
	if !ok || rec.ID != 1 {
		t.Errorf("selected = %+v after shrink", rec)
	}
}

func TestVaultListEmpty(t *testing.T) {
	v := NewVaultList(testTheme())
	v.SetRecords(nil)
	if _, ok := v.Selected(); ok {
		t.Error("Selected returned a record from an empty list")
	}
	if !strings.Contains(v.View(), "No passwords") {
		t.Error("empty state not rendered")
	}
}

// =============================================================================
// FORM
// =============================================================================

func TestFormFocusCycling(t *testing.T) {
	f := NewForm(testTheme(), "Log In",
		FieldSpec{Label: "Username"},
		FieldSpec{Label: "Master Password", Secret: true},
		FieldSpec{Label: "2FA Code"},
	)

	if f.FocusedIndex() != 0 {
		t.Fatalf("initial focus = %d", f.FocusedIndex())
	}
	f.Update(keyMsg("tab"))
	if f.FocusedIndex() != 1 {
		t.Errorf("focus after tab = %d", f.FocusedIndex())
	}
	// Enter on a non-final field advances instead of submitting.
	f.Update(keyMsg("enter"))
	if f.FocusedIndex() != 2 || !f.OnLastField() {
		t.Errorf("focus after enter = %d", f.FocusedIndex())
	}
	f.Update(keyMsg("tab"))
	if f.FocusedIndex() != 0 {
		t.Errorf("focus did not wrap, got %d", f.FocusedIndex())
	}
}

func TestFormValuesTrimmedAndReset(t *testing.T) {
	f := NewForm(testTheme(), "Add Password", FieldSpec{Label: "Site"})
	f.SetValue(0, "  github.com  ")
	if f.Value(0) != "github.com" {
		t.Errorf("Value = %q, want trimmed", f.Value(0))
	}

	f.SetError("boom")
	f.Reset()
	if f.Value(0) != "" {
		t.Error("Reset did not clear field")
	}
	if strings.Contains(f.View(), "boom") {
		t.Error("Reset did not clear error")
	}
}
