// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides argument parsing and the non-TUI command handlers
// for vaultrun.
package cli

import (
	"fmt"
	"os"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdTOTP
	CmdGenerate
	CmdConfig
	CmdVersion
	CmdHelp
)

const usageText = `vaultrun - terminal client for your password vault

Usage:
  vaultrun                     Start the TUI (default)
  vaultrun totp [SECRET]       Print the current 2FA code for a secret
  vaultrun generate [--count N] Print freshly generated passwords
  vaultrun config [show|path]  Configuration
  vaultrun version             Show version information
  vaultrun help                Show this help

Flags:
  --server URL                 Override the vault server URL
`

// Parse determines the command and returns the remaining arguments.
func Parse() (Command, []string) {
	args := os.Args[1:]
	if len(args) == 0 {
		return CmdTUI, nil
	}

	switch args[0] {
	case "totp", "2fa":
		return CmdTOTP, args[1:]
	case "generate", "gen":
		return CmdGenerate, args[1:]
	case "config":
		return CmdConfig, args[1:]
	case "version", "--version", "-v":
		return CmdVersion, args[1:]
	case "help", "--help", "-h":
		return CmdHelp, args[1:]
	default:
		// Unknown leading token: treat flags as TUI flags, anything
		// else as a usage error.
		if args[0][0] == '-' {
			return CmdTUI, args
		}
		fmt.Fprintf(os.Stderr, "vaultrun: unknown command %q\n\n%s", args[0], usageText)
		os.Exit(2)
		return CmdHelp, nil
	}
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(usageText)
}

// HandleVersion prints build information.
func HandleVersion() {
	fmt.Printf("vaultrun %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
