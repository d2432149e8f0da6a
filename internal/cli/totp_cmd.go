// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/vaultrun-tui/internal/totp"
)

// =============================================================================
// TOTP COMMAND
// =============================================================================

// HandleTOTP prints the current 2FA code for a shared secret. The secret
// comes from a positional argument, from --secret, from an otpauth:// URI
// via --uri, or from a no-echo prompt. Prefer the prompt on shared
// machines; positional secrets land in shell history.
func HandleTOTP(args []string) error {
	parser := NewArgParser(args)

	secret := parser.Subcommand()
	if s := parser.Flag("secret"); s != "" {
		secret = s
	}
	if uri := parser.Flag("uri"); uri != "" {
		s, err := totp.SecretFromURI(uri)
		if err != nil {
			return fmt.Errorf("invalid otpauth URI: %w", err)
		}
		secret = s
	}

	if secret == "" {
		s, err := readSecret("2FA secret: ")
		if err != nil {
			return err
		}
		secret = s
	}

	code, err := totp.Code(secret)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	fmt.Println(code)
	return nil
}

// readSecret reads a line from stdin with echo disabled when stdin is a
// terminal.
func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
