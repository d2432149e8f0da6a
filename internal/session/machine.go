// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"
)

// =============================================================================
// TIMEOUT CONFIGURATION
// =============================================================================

const (
	// DefaultWarningAfter is the inactivity offset before the warning
	// fires: 240 seconds.
	DefaultWarningAfter = 240 * time.Second

	// DefaultLogoutAfter is the inactivity offset before the hard logout
	// fires: 300 seconds. The 60-second gap is the visible countdown.
	DefaultLogoutAfter = 300 * time.Second
)

// Config holds the timer pair for the timeout machine.
//
// Invariant: 0 < WarningAfter < LogoutAfter. The countdown length is always
// LogoutAfter-WarningAfter, so the countdown display and the hard-logout
// timer agree by construction.
type Config struct {
	WarningAfter time.Duration
	LogoutAfter  time.Duration
}

// DefaultConfig returns the reference 240s/300s timer pair.
func DefaultConfig() Config {
	return Config{
		WarningAfter: DefaultWarningAfter,
		LogoutAfter:  DefaultLogoutAfter,
	}
}

// Normalize clamps a config back to the defaults if the warning/logout
// ordering invariant is violated.
func (c Config) Normalize() Config {
	if c.WarningAfter <= 0 || c.LogoutAfter <= c.WarningAfter {
		return DefaultConfig()
	}
	return c
}

// CountdownSeconds is the length of the visible countdown in whole seconds.
func (c Config) CountdownSeconds() int {
	return int((c.LogoutAfter - c.WarningAfter) / time.Second)
}

// =============================================================================
// CALLBACKS
// =============================================================================

// Callbacks are invoked by the machine on state transitions. They are
// always called outside the machine's lock, so a callback may safely call
// back into the machine.
type Callbacks struct {
	// OnWarning fires on the Active→Warning transition with the initial
	// countdown value in seconds.
	OnWarning func(countdown int)

	// OnTick fires once per second while in Warning with the remaining
	// seconds. It does not fire for the transition to zero; OnExpired
	// covers that instant.
	OnTick func(remaining int)

	// OnExpired fires exactly once per arm cycle when the session ends,
	// whether the countdown reached zero or the hard-logout timer beat a
	// stalled countdown to it.
	OnExpired func()
}

// =============================================================================
// TIMEOUT STATE MACHINE
// =============================================================================

// Machine is the inactivity timeout state machine: Active → Warning →
// Expired, with Warning returning to Active only through StayLoggedIn.
//
// Two independent deferred timers are armed on every reset: the warning
// timer and the hard-logout timer. The hard-logout timer is the
// authoritative failsafe; even if the countdown stalls, expiry still fires.
// Timer callbacks carry the generation they were armed under, so a fire
// from a reset that has already completed is never observed.
type Machine struct {
	mu    sync.Mutex
	cfg   Config
	clock Clock
	cb    Callbacks

	phase Status
	gen   uint64

	warningTimer   Timer
	logoutTimer    Timer
	countdownTimer Timer
	countdownLeft  int
}

// NewMachine creates a disarmed machine. A nil clock selects the wall
// clock.
func NewMachine(cfg Config, clock Clock, cb Callbacks) *Machine {
	if clock == nil {
		clock = RealClock()
	}
	return &Machine{
		cfg:   cfg.Normalize(),
		clock: clock,
		cb:    cb,
		phase: StatusAnonymous,
	}
}

// Status returns the machine's current phase.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// CountdownRemaining returns the seconds left on the visible countdown, or
// zero when no countdown is running.
func (m *Machine) CountdownRemaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != StatusWarning {
		return 0
	}
	return m.countdownLeft
}

// =============================================================================
// EVENTS
// =============================================================================

// Arm enters Active and starts both timers from zero. Called on login,
// bootstrap success, and StayLoggedIn.
func (m *Machine) Arm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armLocked()
}

// Activity is a debounced activity signal. In Active it cancels and
// re-arms both timers as one atomic reset. In Warning it is ignored: the
// countdown is authoritative once the warning is on screen. In any other
// phase there is nothing to reset.
func (m *Machine) Activity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != StatusActive {
		return
	}
	m.armLocked()
}

// StayLoggedIn is the user's choice to keep the session. It cancels the
// countdown and the pending hard-logout timer and re-enters Active with
// fresh timers. Outside Warning it is a no-op.
func (m *Machine) StayLoggedIn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != StatusWarning {
		return
	}
	m.armLocked()
}

// Disarm cancels every timer and returns the machine to Anonymous. It is
// part of the idempotent logout procedure and never fires callbacks.
func (m *Machine) Disarm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.stopTimersLocked()
	m.phase = StatusAnonymous
	m.countdownLeft = 0
}

// armLocked performs the atomic cancel-then-rearm reset. The generation
// bump invalidates any fire already in flight from the previous arm.
func (m *Machine) armLocked() {
	m.gen++
	gen := m.gen
	m.stopTimersLocked()
	m.phase = StatusActive
	m.countdownLeft = 0
	m.warningTimer = m.clock.AfterFunc(m.cfg.WarningAfter, func() { m.warningFired(gen) })
	m.logoutTimer = m.clock.AfterFunc(m.cfg.LogoutAfter, func() { m.logoutFired(gen) })
}

// stopTimersLocked cancels and forgets all three timer handles.
func (m *Machine) stopTimersLocked() {
	if m.warningTimer != nil {
		m.warningTimer.Stop()
		m.warningTimer = nil
	}
	if m.logoutTimer != nil {
		m.logoutTimer.Stop()
		m.logoutTimer = nil
	}
	if m.countdownTimer != nil {
		m.countdownTimer.Stop()
		m.countdownTimer = nil
	}
}

// =============================================================================
// TIMER FIRES
// =============================================================================

// warningFired transitions Active→Warning and starts the countdown. The
// hard-logout timer armed at the same reset keeps running; warning +
// countdown and hard logout coincide by construction.
func (m *Machine) warningFired(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.phase != StatusActive {
		m.mu.Unlock()
		return
	}
	m.phase = StatusWarning
	m.countdownLeft = m.cfg.CountdownSeconds()
	m.countdownTimer = m.clock.AfterFunc(time.Second, func() { m.countdownTick(gen) })
	onWarning := m.cb.OnWarning
	countdown := m.countdownLeft
	m.mu.Unlock()

	if onWarning != nil {
		onWarning(countdown)
	}
}

// countdownTick decrements the visible countdown once per second.
func (m *Machine) countdownTick(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.phase != StatusWarning {
		m.mu.Unlock()
		return
	}
	m.countdownLeft--
	if m.countdownLeft <= 0 {
		m.expireLocked()
		return
	}
	m.countdownTimer = m.clock.AfterFunc(time.Second, func() { m.countdownTick(gen) })
	onTick := m.cb.OnTick
	remaining := m.countdownLeft
	m.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
}

// logoutFired is the authoritative failsafe. It is valid from both Active
// (stalled warning flow) and Warning (normal coincidence with the
// countdown reaching zero).
func (m *Machine) logoutFired(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.phase == StatusExpired || m.phase == StatusAnonymous {
		m.mu.Unlock()
		return
	}
	m.expireLocked()
}

// expireLocked enters the terminal Expired state and fires OnExpired. The
// generation bump guarantees no zombie tick can land afterwards and fire a
// second expiry. Called with the lock held; releases it.
func (m *Machine) expireLocked() {
	m.gen++
	m.stopTimersLocked()
	m.phase = StatusExpired
	m.countdownLeft = 0
	onExpired := m.cb.OnExpired
	m.mu.Unlock()

	if onExpired != nil {
		onExpired()
	}
}
