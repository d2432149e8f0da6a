// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeranaias/vaultrun-tui/internal/api"
)

// =============================================================================
// SESSION SECRET TESTS
// =============================================================================

func TestSessionBeginAndRead(t *testing.T) {
	s := New()
	if s.Status() != StatusAnonymous {
		t.Fatalf("new session status = %v, want anonymous", s.Status())
	}

	s.Begin("correct horse battery staple", "alice")
	if s.Status() != StatusActive {
		t.Errorf("status = %v, want active", s.Status())
	}
	if s.Username() != "alice" {
		t.Errorf("username = %q", s.Username())
	}

	got, err := s.MasterPassword()
	if err != nil {
		t.Fatalf("MasterPassword: %v", err)
	}
	if got != "correct horse battery staple" {
		t.Errorf("MasterPassword = %q", got)
	}

	// Every read returns the current value; reads are repeatable.
	again, err := s.MasterPassword()
	if err != nil || again != got {
		t.Errorf("second read = %q, %v", again, err)
	}
}

func TestClearFailsReadsClosed(t *testing.T) {
	s := New()
	s.Begin("master", "alice")
	s.Clear(StatusExpired)

	if s.Status() != StatusExpired {
		t.Errorf("status = %v, want expired", s.Status())
	}
	if s.Username() != "" {
		t.Errorf("username survived clear: %q", s.Username())
	}

	// A vault call in flight when logout fires reads the secret at call
	// time and must fail closed.
	_, err := s.MasterPassword()
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("want ErrNoSession, got %v", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := New()
	s.Clear(StatusAnonymous)
	s.Clear(StatusAnonymous)
	if s.Status() != StatusAnonymous || s.Authenticated() {
		t.Error("clearing an empty session should only re-confirm state")
	}
}

func TestBeginReplacesPreviousSecret(t *testing.T) {
	s := New()
	s.Begin("old-master", "alice")
	s.Begin("new-master", "alice")
	got, err := s.MasterPassword()
	if err != nil {
		t.Fatalf("MasterPassword: %v", err)
	}
	if got != "new-master" {
		t.Errorf("MasterPassword = %q, want new-master", got)
	}
}

// =============================================================================
// BOOTSTRAP TESTS
// =============================================================================

func TestBootstrapWithoutMarkerStaysAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("bootstrap must not touch the network without a cached marker")
	}))
	defer srv.Close()
	client, _ := api.NewClient(srv.URL)

	s := New()
	if got := Bootstrap(context.Background(), s, client); got != StatusAnonymous {
		t.Errorf("Bootstrap = %v, want anonymous", got)
	}
}

func TestBootstrapValidSessionGoesActive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/check_session" || r.Method != http.MethodGet {
			t.Errorf("unexpected call: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"username":"alice"}`))
	}))
	defer srv.Close()
	client, _ := api.NewClient(srv.URL)

	s := New()
	s.Begin("master", "")
	if got := Bootstrap(context.Background(), s, client); got != StatusActive {
		t.Fatalf("Bootstrap = %v, want active", got)
	}
	if s.Username() != "alice" {
		t.Errorf("username = %q, want alice", s.Username())
	}
	if _, err := s.MasterPassword(); err != nil {
		t.Errorf("secret should survive a valid bootstrap: %v", err)
	}
}

func TestBootstrapRejectedSessionDiscardsMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	client, _ := api.NewClient(srv.URL)

	s := New()
	s.Begin("master", "alice")
	if got := Bootstrap(context.Background(), s, client); got != StatusAnonymous {
		t.Fatalf("Bootstrap = %v, want anonymous", got)
	}
	if _, err := s.MasterPassword(); !errors.Is(err, ErrNoSession) {
		t.Error("rejected bootstrap must discard the cached secret")
	}
}

func TestBootstrapTransportErrorDiscardsMarker(t *testing.T) {
	// Transport error must not retain a false sense of validity.
	client, _ := api.NewClient("http://127.0.0.1:1")
	s := New()
	s.Begin("master", "alice")

	if got := Bootstrap(context.Background(), s, client); got != StatusAnonymous {
		t.Fatalf("Bootstrap = %v, want anonymous", got)
	}
	if s.Authenticated() {
		t.Error("transport failure must discard the cached secret")
	}
}
