// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vaultrun-tui/internal/ui/styles"
)

// =============================================================================
// LABELED FORM
// =============================================================================

// FieldSpec describes one form field.
type FieldSpec struct {
	Label       string
	Placeholder string
	// Secret masks the field's input on screen.
	Secret bool
}

// Form is a vertical stack of labeled text inputs with focus cycling and a
// single error line. It backs the login, register, record, and account
// screens.
type Form struct {
	title   string
	labels  []string
	fields  []textinput.Model
	focus   int
	errText string

	width int

	theme *styles.Theme
}

// NewForm creates a form with the given fields. The first field is focused.
func NewForm(theme *styles.Theme, title string, specs ...FieldSpec) *Form {
	f := &Form{
		theme:  theme,
		title:  title,
		labels: make([]string, len(specs)),
		fields: make([]textinput.Model, len(specs)),
	}
	for i, spec := range specs {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 32
		ti.Placeholder = spec.Placeholder
		if spec.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.labels[i] = spec.Label
		f.fields[i] = ti
	}
	if len(f.fields) > 0 {
		f.fields[0].Focus()
	}
	return f
}

// SetSize sets the form width.
func (f *Form) SetSize(width int) {
	f.width = width
}

// Value returns the trimmed value of field i.
func (f *Form) Value(i int) string {
	return strings.TrimSpace(f.fields[i].Value())
}

// SetValue replaces the value of field i.
func (f *Form) SetValue(i int, v string) {
	f.fields[i].SetValue(v)
}

// FocusedIndex returns the index of the focused field.
func (f *Form) FocusedIndex() int {
	return f.focus
}

// SetError displays an error line under the fields.
func (f *Form) SetError(msg string) {
	f.errText = msg
}

// Reset clears all fields and the error and refocuses the first field.
func (f *Form) Reset() {
	for i := range f.fields {
		f.fields[i].Reset()
		f.fields[i].Blur()
	}
	f.errText = ""
	f.focus = 0
	if len(f.fields) > 0 {
		f.fields[0].Focus()
	}
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Update handles focus cycling and forwards other keys to the focused field.
// Enter on the last field is NOT consumed: the caller treats it as submit.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus((f.focus + 1) % len(f.fields))
			return nil
		case "shift+tab", "up":
			f.setFocus((f.focus - 1 + len(f.fields)) % len(f.fields))
			return nil
		case "enter":
			if f.focus < len(f.fields)-1 {
				f.setFocus(f.focus + 1)
				return nil
			}
			return nil
		}
	}

	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	if f.errText != "" {
		if _, ok := msg.(tea.KeyMsg); ok {
			f.errText = ""
		}
	}
	return cmd
}

func (f *Form) setFocus(i int) {
	f.fields[f.focus].Blur()
	f.focus = i
	f.fields[f.focus].Focus()
}

// OnLastField reports whether the focused field is the last one, which is
// where enter means submit.
func (f *Form) OnLastField() bool {
	return f.focus == len(f.fields)-1
}

// View renders the form inside its box.
func (f *Form) View() string {
	var b strings.Builder

	b.WriteString(f.theme.FormTitle.Render(f.title))
	b.WriteString("\n")

	labelW := 0
	for _, l := range f.labels {
		if len(l) > labelW {
			labelW = len(l)
		}
	}

	for i := range f.fields {
		label := f.theme.FormLabel.Render(padRight(f.labels[i], labelW))
		b.WriteString(label)
		b.WriteString("  ")
		b.WriteString(f.fields[i].View())
		b.WriteString("\n")
	}

	if f.errText != "" {
		b.WriteString("\n")
		b.WriteString(f.theme.FormError.Render(styles.StatusIndicators.Error + " " + f.errText))
	}

	box := f.theme.FormBox.Render(strings.TrimSuffix(b.String(), "\n"))
	if f.width > 0 {
		return lipgloss.PlaceHorizontal(f.width, lipgloss.Center, box)
	}
	return box
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
