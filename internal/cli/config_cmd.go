// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/jeranaias/vaultrun-tui/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

// HandleConfig implements "vaultrun config [show|path]".
func HandleConfig(args []string) error {
	parser := NewArgParser(args)

	switch parser.Subcommand() {
	case "", "show":
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Printf("server.url           %s\n", cfg.Server.URL)
		fmt.Printf("server.timeout_secs  %d\n", cfg.Server.TimeoutSecs)
		fmt.Printf("session.warning_secs %d\n", cfg.Session.WarningSecs)
		fmt.Printf("session.logout_secs  %d\n", cfg.Session.LogoutSecs)
		fmt.Printf("ui.theme             %s\n", cfg.UI.Theme)
		return nil

	case "path":
		fmt.Println(config.Path())
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q", parser.Subcommand())
	}
}
