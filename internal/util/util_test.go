// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "testing"

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short string unchanged", "github.com", 20, "github.com"},
		{"exact width unchanged", "abcde", 5, "abcde"},
		{"truncated with ellipsis", "example.org/accounts", 10, "example..."},
		{"zero width", "anything", 0, ""},
		{"tiny budget no ellipsis", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWidth(tt.in, tt.width)
			if got != tt.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateWidthWide(t *testing.T) {
	// CJK runes are two columns wide; truncation must never split one.
	got := TruncateWidth("日本語のサイト", 6)
	if got != "日..." {
		t.Errorf("TruncateWidth wide = %q, want %q", got, "日...")
	}
}

func TestPadWidth(t *testing.T) {
	if got := PadWidth("ab", 5); got != "ab   " {
		t.Errorf("PadWidth = %q, want %q", got, "ab   ")
	}
	if got := PadWidth("abcdef", 4); len([]rune(got)) != 4 {
		t.Errorf("PadWidth should truncate, got %q", got)
	}
}

func TestMaskSecretFixedLength(t *testing.T) {
	// The mask must not depend on the secret, so it takes no input at all.
	if MaskSecret() != MaskSecret() {
		t.Error("MaskSecret should be deterministic")
	}
	if len([]rune(MaskSecret())) != 8 {
		t.Errorf("MaskSecret length = %d, want 8", len([]rune(MaskSecret())))
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{60, "1:00"},
		{59, "0:59"},
		{0, "0:00"},
		{-5, "0:00"},
		{125, "2:05"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.secs); got != tt.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
