// vaultrun - a terminal client for your password vault.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/vaultrun-tui/internal/api"
	"github.com/jeranaias/vaultrun-tui/internal/cli"
	"github.com/jeranaias/vaultrun-tui/internal/config"
	"github.com/jeranaias/vaultrun-tui/internal/session"
	"github.com/jeranaias/vaultrun-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdTOTP:
		err = cli.HandleTOTP(args)
	case cli.CmdGenerate:
		err = cli.HandleGenerate(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "vaultrun: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the configuration, wire client, and root model, then runs
// the program until quit or session teardown.
func runTUI(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	parser := cli.NewArgParser(args)
	if server := parser.Flag("server"); server != "" {
		cfg.Server.URL = server
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	client, err := api.NewClient(cfg.Server.URL)
	if err != nil {
		return err
	}
	client.WithTimeout(cfg.RequestTimeout())

	// API traffic log: method, path, status, duration only. Bodies and
	// credentials never reach it.
	if f, ferr := openLogFile(); ferr == nil {
		defer f.Close()
		client.WithLogger(log.New(f, "", log.LstdFlags))
	}

	m := app.New(cfg, client)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	app.SetProgram(p)

	// Hot reload: validated config changes flow into the running app.
	watcher, werr := config.NewWatcher(config.Path(), func(c *config.Config) {
		p.Send(app.ConfigReloadedMsg{Config: c})
	})
	if werr == nil {
		defer watcher.Close()
	}

	_, err = p.Run()

	// The master password dies with the process regardless of how the
	// program ended.
	m.Session().Clear(session.StatusExpired)
	return err
}

// openLogFile opens the append-only traffic log under the config
// directory. Failure to open is not fatal; the client just runs silent.
func openLogFile() (*os.File, error) {
	dir := config.Dir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "vaultrun.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}
