// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package modal serializes user-facing Alert, Confirm, and Prompt
// interactions onto the single modal surface.
//
// The broker is a single-slot request holder: at most one request is
// visible at any instant. A request issued while another is pending is
// queued FIFO and becomes visible when the current one resolves. Each
// interaction is modeled without blocking: the caller hands over a
// continuation and returns immediately.
package modal

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// REQUEST KINDS
// =============================================================================

// Kind is the interaction kind of a modal request.
type Kind int

const (
	// KindAlert displays a message and waits for acknowledgement.
	KindAlert Kind = iota

	// KindConfirm displays a message with accept/cancel; the action runs
	// only on accept and cancel is silent.
	KindConfirm

	// KindPrompt displays a message with a single text input. Empty
	// submissions are rejected and leave the modal open.
	KindPrompt
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAlert:
		return "alert"
	case KindConfirm:
		return "confirm"
	case KindPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// =============================================================================
// REQUEST
// =============================================================================

// Request is one pending interaction. The continuation fields are private:
// they are invoked through the broker's resolution methods and cleared on
// dismissal so a stale callback can never fire after close.
type Request struct {
	ID      string
	Kind    Kind
	Title   string
	Message string

	// Secret marks a prompt whose input must be masked on screen.
	Secret bool

	onAck     func()       // alert
	onConfirm func()       // confirm
	onSubmit  func(string) // prompt
}

// =============================================================================
// BROKER
// =============================================================================

// Broker owns the modal surface. All methods are safe for concurrent use;
// continuations run outside the broker's lock, after the slot has been
// advanced, so a continuation may itself enqueue the next interaction.
type Broker struct {
	mu      sync.Mutex
	current *Request
	queue   []*Request
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{}
}

// Alert enqueues a notice. The continuation is optional and runs after the
// user acknowledges; it is how a dependent action ("deleted — now logging
// out") is sequenced without nested control flow.
func (b *Broker) Alert(message, title string, then func()) {
	b.enqueue(&Request{
		ID:      uuid.NewString(),
		Kind:    KindAlert,
		Title:   title,
		Message: message,
		onAck:   then,
	})
}

// Confirm enqueues an accept/cancel question. The action runs only on
// accept.
func (b *Broker) Confirm(message string, action func()) {
	b.enqueue(&Request{
		ID:        uuid.NewString(),
		Kind:      KindConfirm,
		Message:   message,
		onConfirm: action,
	})
}

// Prompt enqueues a text-input question. The continuation receives the
// trimmed, non-empty value.
func (b *Broker) Prompt(message string, submit func(string)) {
	b.enqueue(&Request{
		ID:       uuid.NewString(),
		Kind:     KindPrompt,
		Message:  message,
		onSubmit: submit,
	})
}

// PromptSecret is Prompt with masked input, for master-password re-entry.
func (b *Broker) PromptSecret(message string, submit func(string)) {
	b.enqueue(&Request{
		ID:       uuid.NewString(),
		Kind:     KindPrompt,
		Message:  message,
		Secret:   true,
		onSubmit: submit,
	})
}

// Current returns the visible request, or nil when the surface is idle.
func (b *Broker) Current() *Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Pending reports whether any request is visible or queued.
func (b *Broker) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current != nil || len(b.queue) > 0
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Acknowledge resolves a visible alert and runs its continuation.
func (b *Broker) Acknowledge() {
	b.resolve(KindAlert, func(r *Request) func() {
		return r.onAck
	})
}

// Accept resolves a visible confirm and runs its action.
func (b *Broker) Accept() {
	b.resolve(KindConfirm, func(r *Request) func() {
		return r.onConfirm
	})
}

// Submit resolves a visible prompt with the given value. A value that
// trims to empty is rejected: the method returns false and the modal stays
// open with its continuation intact.
func (b *Broker) Submit(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	b.resolve(KindPrompt, func(r *Request) func() {
		submit := r.onSubmit
		if submit == nil {
			return nil
		}
		return func() { submit(value) }
	})
	return true
}

// Dismiss closes the visible request without running its continuation.
// Cancel on a confirm is silent by contract; the continuation reference is
// cleared so it can never fire later.
func (b *Broker) Dismiss() {
	b.mu.Lock()
	if b.current != nil {
		b.current.onAck = nil
		b.current.onConfirm = nil
		b.current.onSubmit = nil
		b.current = nil
	}
	b.advanceLocked()
	b.mu.Unlock()
}

// Reset drops the visible request and the entire queue without running any
// continuation. The logout procedure uses it so no vault interaction can
// survive into the next session.
func (b *Broker) Reset() {
	b.mu.Lock()
	if b.current != nil {
		b.current.onAck = nil
		b.current.onConfirm = nil
		b.current.onSubmit = nil
		b.current = nil
	}
	for _, r := range b.queue {
		r.onAck = nil
		r.onConfirm = nil
		r.onSubmit = nil
	}
	b.queue = nil
	b.mu.Unlock()
}

// resolve closes the visible request of the expected kind, advances the
// queue, and then runs the resolved continuation. Running it after the
// advance means a continuation that opens another modal simply queues
// behind whatever is next.
func (b *Broker) resolve(kind Kind, pick func(*Request) func()) {
	b.mu.Lock()
	r := b.current
	if r == nil || r.Kind != kind {
		b.mu.Unlock()
		return
	}
	cont := pick(r)
	r.onAck = nil
	r.onConfirm = nil
	r.onSubmit = nil
	b.current = nil
	b.advanceLocked()
	b.mu.Unlock()

	if cont != nil {
		cont()
	}
}

// enqueue makes the request visible immediately if the surface is idle,
// otherwise queues it.
func (b *Broker) enqueue(r *Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		b.current = r
		return
	}
	b.queue = append(b.queue, r)
}

// advanceLocked promotes the head of the queue to the surface.
func (b *Broker) advanceLocked() {
	if b.current != nil || len(b.queue) == 0 {
		return
	}
	b.current = b.queue[0]
	b.queue = b.queue[1:]
}
