// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the root Bubble Tea model for the vaultrun TUI.
package app

import (
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/jeranaias/vaultrun-tui/internal/api"
	"github.com/jeranaias/vaultrun-tui/internal/config"
	"github.com/jeranaias/vaultrun-tui/internal/modal"
	"github.com/jeranaias/vaultrun-tui/internal/session"
	"github.com/jeranaias/vaultrun-tui/internal/ui/components"
	"github.com/jeranaias/vaultrun-tui/internal/ui/styles"
	"github.com/jeranaias/vaultrun-tui/internal/vault"
)

// =============================================================================
// PROGRAM REFERENCE
// =============================================================================

// programRef lets background goroutines (timer callbacks, syncer hooks)
// deliver messages into the Bubble Tea event loop.
var (
	programMu  sync.RWMutex
	programRef *tea.Program
)

// SetProgram installs the running program for background message delivery.
func SetProgram(p *tea.Program) {
	programMu.Lock()
	programRef = p
	programMu.Unlock()
}

// send delivers a message into the event loop; a message sent before the
// program starts is dropped.
func send(msg tea.Msg) {
	programMu.RLock()
	p := programRef
	programMu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// =============================================================================
// VIEWS
// =============================================================================

// View identifies the active screen.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewSetup // TOTP enrollment after registration
	ViewVault
	ViewRecordEdit
	ViewAccount
)

// =============================================================================
// ROOT MODEL
// =============================================================================

// Model is the root Bubble Tea model. It owns the view routing, the
// activity monitor, and the logout procedure; domain behavior lives in the
// session machine and the vault syncer.
type Model struct {
	view View

	// Dimensions
	width  int
	height int

	// Core wiring
	cfg     *config.Config
	theme   *styles.Theme
	client  *api.Client
	sess    *session.Session
	machine *session.Machine
	broker  *modal.Broker
	syncer  *vault.Syncer

	// Components
	dialog    *components.Dialog
	overlay   *components.TimeoutOverlay
	list      *components.VaultList
	statusbar *components.StatusBar
	help      *components.Help

	// Forms
	loginForm    *components.Form
	registerForm *components.Form
	setupForm    *components.Form
	recordForm   *components.Form
	accountForm  *components.Form

	// TOTP enrollment state between register and first login
	pendingReg      *api.Registration
	pendingUsername string

	// Record being edited; zero means a new record.
	editingID int64

	// Filter entry
	filtering   bool
	filterInput textinput.Model

	// Status line shown under the active view
	statusMsg string
	spin      spinner.Model

	// Activity monitor throttle. Raw input events are collapsed to at
	// most one machine reset per second.
	activity *rate.Limiter

	busy bool
}

// New builds the fully wired application model.
func New(cfg *config.Config, client *api.Client) *Model {
	theme := styles.NewTheme(cfg.UI.Theme)
	sess := session.New()
	broker := modal.NewBroker()

	machine := session.NewMachine(cfg.Timers(), nil, session.Callbacks{
		OnWarning: func(countdown int) { send(SessionWarningMsg{Countdown: countdown}) },
		OnTick:    func(remaining int) { send(SessionTickMsg{Remaining: remaining}) },
		OnExpired: func() { send(SessionExpiredMsg{}) },
	})

	syncer := vault.NewSyncer(client, sess, broker, vault.Hooks{
		Render:         func(records []api.Record) { send(RecordsRenderedMsg{Records: records}) },
		Unauthorized:   func() { send(UnauthorizedMsg{}) },
		Failure:        func(message string) { send(SyncFailedMsg{Message: message}) },
		AccountDeleted: func() { send(AccountDeletedMsg{}) },
	})

	fi := textinput.New()
	fi.Placeholder = "filter"
	fi.Prompt = "/"
	fi.CharLimit = 64
	fi.Width = 24

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Cyan)

	m := &Model{
		view:      ViewLogin,
		cfg:       cfg,
		theme:     theme,
		client:    client,
		sess:      sess,
		machine:   machine,
		broker:    broker,
		syncer:    syncer,
		dialog:    components.NewDialog(broker, theme),
		overlay:   components.NewTimeoutOverlay(theme),
		list:      components.NewVaultList(theme),
		statusbar: components.NewStatusBar(theme),
		help:      components.NewHelp(theme),

		filterInput: fi,
		spin:        sp,
		activity:    rate.NewLimiter(rate.Limit(1), 1),
	}
	m.initForms()
	return m
}

func (m *Model) initForms() {
	m.loginForm = components.NewForm(m.theme, "Log In",
		components.FieldSpec{Label: "Username", Placeholder: "username"},
		components.FieldSpec{Label: "Master Password", Secret: true},
		components.FieldSpec{Label: "2FA Code", Placeholder: "123456"},
	)
	m.registerForm = components.NewForm(m.theme, "Create Account",
		components.FieldSpec{Label: "Username", Placeholder: "username"},
		components.FieldSpec{Label: "Master Password", Secret: true},
	)
	m.setupForm = components.NewForm(m.theme, "Verify Authenticator",
		components.FieldSpec{Label: "2FA Code", Placeholder: "123456"},
	)
	m.recordForm = components.NewForm(m.theme, "Add Password",
		components.FieldSpec{Label: "Site", Placeholder: "example.com"},
		components.FieldSpec{Label: "Username"},
		components.FieldSpec{Label: "Password", Secret: true},
	)
	m.accountForm = components.NewForm(m.theme, "Update Account",
		components.FieldSpec{Label: "Current Password", Secret: true},
		components.FieldSpec{Label: "New Username"},
		components.FieldSpec{Label: "New Password", Secret: true},
	)
}

// CurrentView returns the active screen.
func (m *Model) CurrentView() View {
	return m.view
}

// Session exposes the volatile session store.
func (m *Model) Session() *session.Session {
	return m.sess
}

// Init starts the session bootstrap.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bootstrapCmd())
}
