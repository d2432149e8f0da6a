// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vault

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jeranaias/vaultrun-tui/internal/api"
	"github.com/jeranaias/vaultrun-tui/internal/modal"
	"github.com/jeranaias/vaultrun-tui/internal/session"
)

// =============================================================================
// SERVER INTERFACE
// =============================================================================

// API is the slice of the wire client the syncer needs. *api.Client
// satisfies it; tests substitute a scripted fake.
type API interface {
	ListRecords(ctx context.Context, masterPassword string) ([]api.Record, error)
	CreateRecord(ctx context.Context, masterPassword, site, username, password string) error
	UpdateRecord(ctx context.Context, id int64, masterPassword, site, username, password string) error
	DeleteRecord(ctx context.Context, id int64) error
	UpdateAccount(ctx context.Context, currentPassword, newUsername, newPassword string) error
	DeleteAccount(ctx context.Context, password string) error
}

// Hooks are the syncer's observers. Render receives the filtered list
// after every successful or failed sync; Unauthorized is the implicit
// session-expiry trigger and runs the shared logout procedure; Failure
// carries a generic user-facing line for the status surface.
type Hooks struct {
	Render         func(records []api.Record)
	Unauthorized   func()
	Failure        func(message string)
	AccountDeleted func()
}

// =============================================================================
// SYNCER
// =============================================================================

// Syncer performs CRUD against the remote vault. Every decrypt-requiring
// call fetches the master password from the session at call time — never
// earlier — so a logout that lands mid-flight makes the call fail closed.
//
// The in-memory record list is purely render-driving: it is replaced on
// every successful list fetch and discarded on any sync failure, so a
// stale list is never kept past a confirmed mutation.
type Syncer struct {
	api    API
	sess   *session.Session
	modals *modal.Broker
	hooks  Hooks

	// run executes modal-continuation work asynchronously (the network
	// call must not run on the UI goroutine). Tests inject a synchronous
	// runner.
	run func(func())

	mu      sync.Mutex
	records []api.Record
	filter  string
}

// NewSyncer creates a syncer bound to a session and the modal broker.
func NewSyncer(client API, sess *session.Session, modals *modal.Broker, hooks Hooks) *Syncer {
	return &Syncer{
		api:    client,
		sess:   sess,
		modals: modals,
		hooks:  hooks,
		run:    func(f func()) { go f() },
	}
}

// WithRunner overrides the async runner.
func (s *Syncer) WithRunner(run func(func())) *Syncer {
	s.run = run
	return s
}

// =============================================================================
// LIST
// =============================================================================

// Refresh re-fetches the credential list. On success the in-memory list is
// replaced, the active filter re-applied, and the render hook invoked. An
// unauthorized response — including a secret cleared mid-flight — triggers
// the logout procedure. Any other failure drops the local list and
// surfaces a generic error; nothing is retried.
func (s *Syncer) Refresh(ctx context.Context) error {
	master, err := s.sess.MasterPassword()
	if err != nil {
		s.dropRecords()
		s.unauthorized()
		return err
	}

	records, err := s.api.ListRecords(ctx, master)
	if err != nil {
		s.dropRecords()
		if errors.Is(err, api.ErrUnauthorized) {
			s.unauthorized()
			return err
		}
		s.fail("Server Error")
		return err
	}

	// A logout that landed while the call was in flight wins: the response
	// is dropped unread so no decrypted copy outlives the session.
	if _, err := s.sess.MasterPassword(); err != nil {
		s.dropRecords()
		s.unauthorized()
		return err
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	s.render()
	return nil
}

// Records returns the filtered, render-ready copy of the list.
func (s *Syncer) Records() []api.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredLocked()
}

// SetFilter installs a substring filter over site and username and
// re-renders.
func (s *Syncer) SetFilter(query string) {
	s.mu.Lock()
	s.filter = strings.ToLower(strings.TrimSpace(query))
	s.mu.Unlock()
	s.render()
}

// Filter returns the active filter query.
func (s *Syncer) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Syncer) filteredLocked() []api.Record {
	if s.filter == "" {
		out := make([]api.Record, len(s.records))
		copy(out, s.records)
		return out
	}
	var out []api.Record
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.Site), s.filter) ||
			strings.Contains(strings.ToLower(r.Username), s.filter) {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create validates and stores a new record, then re-runs List. A
// validation failure blocks the call entirely and is returned for inline
// display. A server failure is surfaced via Alert, uniformly with Update.
func (s *Syncer) Create(ctx context.Context, site, username, password string) error {
	if err := ValidateNewRecord(site, password); err != nil {
		return err
	}
	master, err := s.sess.MasterPassword()
	if err != nil {
		s.unauthorized()
		return err
	}
	if err := s.api.CreateRecord(ctx, master, site, username, password); err != nil {
		s.surfaceMutationError("Failed to add record", err)
		return err
	}
	return s.Refresh(ctx)
}

// Update re-encrypts a single record, then re-runs List. Failure is
// surfaced via Alert.
func (s *Syncer) Update(ctx context.Context, id int64, site, username, password string) error {
	if err := ValidateNewRecord(site, password); err != nil {
		return err
	}
	master, err := s.sess.MasterPassword()
	if err != nil {
		s.unauthorized()
		return err
	}
	if err := s.api.UpdateRecord(ctx, id, master, site, username, password); err != nil {
		s.surfaceMutationError("Failed to update record", err)
		return err
	}
	return s.Refresh(ctx)
}

// RequestDelete runs the destructive-delete flow: Confirm, then master
// password re-entry via a masked Prompt, then the server call. The list is
// force-refreshed afterwards whether or not the delete succeeded, so the
// render always reflects the server's actual state.
func (s *Syncer) RequestDelete(id int64) {
	s.modals.Confirm("Delete this record? This cannot be undone.", func() {
		s.modals.PromptSecret("Re-enter your master password to continue", func(entered string) {
			s.run(func() { s.deleteConfirmed(id, entered) })
		})
	})
}

// deleteConfirmed verifies the re-entered master password against the live
// session value and performs the delete.
func (s *Syncer) deleteConfirmed(id int64, entered string) {
	ctx := context.Background()
	master, err := s.sess.MasterPassword()
	if err != nil {
		s.unauthorized()
		return
	}
	if entered != master {
		s.modals.Alert("Master password does not match.", "Delete cancelled", nil)
		return
	}
	if err := s.api.DeleteRecord(ctx, id); err != nil {
		s.surfaceMutationError("Failed to delete record", err)
	}
	s.Refresh(ctx)
}

// =============================================================================
// ACCOUNT OPERATIONS
// =============================================================================

// UpdateAccount changes the account credentials after client-side
// validation. On success the session's username and master password are
// updated in place; this is one of the secret's few writer contexts.
func (s *Syncer) UpdateAccount(ctx context.Context, currentPassword, newUsername, newPassword string) error {
	if err := ValidateCredential(newUsername, newPassword); err != nil {
		return err
	}
	if err := s.api.UpdateAccount(ctx, currentPassword, newUsername, newPassword); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.unauthorized()
			return err
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			s.modals.Alert(apiErr.UserMessage(), "Account update failed", nil)
		} else {
			s.fail("Server Error")
		}
		return err
	}

	s.sess.Begin(newPassword, newUsername)
	return s.Refresh(ctx)
}

// RequestDeleteAccount runs the irreversible account-deletion flow:
// Confirm, master re-entry, server call with the entered password, and on
// success an Alert that sequences the forced logout.
func (s *Syncer) RequestDeleteAccount() {
	s.modals.Confirm("Delete your account and every stored record? This cannot be undone.", func() {
		s.modals.PromptSecret("Re-enter your master password to continue", func(entered string) {
			s.run(func() { s.deleteAccountConfirmed(entered) })
		})
	})
}

func (s *Syncer) deleteAccountConfirmed(entered string) {
	ctx := context.Background()
	if err := s.api.DeleteAccount(ctx, entered); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.unauthorized()
			return
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			s.modals.Alert(apiErr.UserMessage(), "Account deletion failed", nil)
		} else {
			s.fail("Server Error")
		}
		return
	}

	s.modals.Alert("Your account has been deleted.", "Goodbye", func() {
		if s.hooks.AccountDeleted != nil {
			s.hooks.AccountDeleted()
		}
	})
}

// =============================================================================
// HOOK PLUMBING
// =============================================================================

// surfaceMutationError maps a mutation failure to the uniform Alert
// behavior: unauthorized still short-circuits into the logout procedure.
func (s *Syncer) surfaceMutationError(title string, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		s.unauthorized()
		return
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		s.modals.Alert(apiErr.UserMessage(), title, nil)
		return
	}
	s.fail("Server Error")
}

func (s *Syncer) dropRecords() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
	s.render()
}

func (s *Syncer) render() {
	if s.hooks.Render == nil {
		return
	}
	s.mu.Lock()
	filtered := s.filteredLocked()
	s.mu.Unlock()
	s.hooks.Render(filtered)
}

func (s *Syncer) unauthorized() {
	if s.hooks.Unauthorized != nil {
		s.hooks.Unauthorized()
	}
}

func (s *Syncer) fail(message string) {
	if s.hooks.Failure != nil {
		s.hooks.Failure(message)
	}
}
