// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/vaultrun-tui/internal/vault"
)

// =============================================================================
// GENERATE COMMAND
// =============================================================================

// HandleGenerate prints freshly generated passwords to stdout, one per
// line. --count controls how many (default 1, max 100).
func HandleGenerate(args []string) error {
	parser := NewArgParser(args)
	count := 1
	if v := parser.Flag("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return fmt.Errorf("invalid --count %q", v)
		}
		count = n
	}

	for i := 0; i < count; i++ {
		password, err := vault.GeneratePassword()
		if err != nil {
			return fmt.Errorf("password generation failed: %w", err)
		}
		fmt.Println(password)
	}
	return nil
}
