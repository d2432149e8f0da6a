// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the vaultrun client.
package util

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// UNICODE: Width-aware truncation preserves multi-byte characters.
// Site names and usernames come straight from the server and may contain
// CJK or emoji; truncation must count display columns, not bytes.

// TruncateWidth truncates a string to a maximum display width.
// If the string is truncated, "..." is appended within the budget.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadWidth pads a string with spaces to an exact display width,
// truncating first if it is too wide.
func PadWidth(s string, width int) string {
	s = TruncateWidth(s, width)
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// MaskSecret returns a fixed-length run of mask characters.
// The length of the real secret is deliberately not preserved so the
// rendered vault list leaks nothing about stored passwords.
func MaskSecret() string {
	return strings.Repeat("•", 8)
}

// IntToString converts an int to its decimal string form.
func IntToString(n int) string {
	return strconv.Itoa(n)
}

// FormatCountdown formats whole seconds as M:SS for the warning overlay.
func FormatCountdown(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return IntToString(secs/60) + ":" + pad2(secs%60)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + IntToString(n)
	}
	return IntToString(n)
}
