// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vault

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/jeranaias/vaultrun-tui/internal/api"
	"github.com/jeranaias/vaultrun-tui/internal/modal"
	"github.com/jeranaias/vaultrun-tui/internal/session"
)

// =============================================================================
// SCRIPTED SERVER FAKE
// =============================================================================

// fakeAPI is an in-memory vault server. Mutations apply to its record set
// unless a scripted error is installed, so List always reflects the
// server's actual state.
type fakeAPI struct {
	mu      sync.Mutex
	records []api.Record
	nextID  int64

	listCalls   int
	deleteCalls int

	// onList runs while a List call is in flight, before the response
	// is returned.
	onList func()

	failList   error
	failCreate error
	failUpdate error
	failDelete error
	failDelAcc error
	failUpdAcc error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1}
}

func (f *fakeAPI) ListRecords(ctx context.Context, master string) ([]api.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList != nil {
		return nil, f.failList
	}
	if f.onList != nil {
		f.onList()
	}
	out := make([]api.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeAPI) CreateRecord(ctx context.Context, master, site, username, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	f.records = append(f.records, api.Record{ID: f.nextID, Site: site, Username: username, Password: password})
	f.nextID++
	return nil
}

func (f *fakeAPI) UpdateRecord(ctx context.Context, id int64, master, site, username, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return f.failUpdate
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i] = api.Record{ID: id, Site: site, Username: username, Password: password}
			return nil
		}
	}
	return &api.APIError{Status: http.StatusNotFound, Message: "Record not found"}
}

func (f *fakeAPI) DeleteRecord(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.failDelete != nil {
		return f.failDelete
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeAPI) UpdateAccount(ctx context.Context, current, newUsername, newPassword string) error {
	return f.failUpdAcc
}

func (f *fakeAPI) DeleteAccount(ctx context.Context, password string) error {
	if f.failDelAcc != nil {
		return f.failDelAcc
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = nil
	return nil
}

// =============================================================================
// HARNESS
// =============================================================================

type harness struct {
	api     *fakeAPI
	sess    *session.Session
	modals  *modal.Broker
	syncer  *Syncer
	mu      sync.Mutex
	renders [][]api.Record
	unauth  int
	fails   []string
	deleted int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		api:    newFakeAPI(),
		sess:   session.New(),
		modals: modal.NewBroker(),
	}
	h.sess.Begin("master-pw", "alice")
	h.syncer = NewSyncer(h.api, h.sess, h.modals, Hooks{
		Render: func(records []api.Record) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.renders = append(h.renders, records)
		},
		Unauthorized: func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.unauth++
		},
		Failure: func(msg string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.fails = append(h.fails, msg)
		},
		AccountDeleted: func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.deleted++
		},
	}).WithRunner(func(f func()) { f() }) // synchronous for tests
	return h
}

func (h *harness) lastRender(t *testing.T) []api.Record {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.renders) == 0 {
		t.Fatal("no render occurred")
	}
	return h.renders[len(h.renders)-1]
}

// =============================================================================
// LIST TESTS
// =============================================================================

func TestRefreshReplacesListAndRenders(t *testing.T) {
	h := newHarness(t)
	h.api.records = []api.Record{
		{ID: 1, Site: "example.com", Username: "alice", Password: "p1"},
		{ID: 2, Site: "example.org", Username: "bob", Password: "p2"},
	}

	if err := h.syncer.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := h.lastRender(t); len(got) != 2 {
		t.Errorf("rendered %d records, want 2", len(got))
	}
}

func TestRefreshUnauthorizedTriggersLogout(t *testing.T) {
	h := newHarness(t)
	h.api.records = []api.Record{{ID: 1, Site: "x", Username: "u", Password: "p"}}
	h.syncer.Refresh(context.Background())

	h.api.failList = api.ErrUnauthorized
	err := h.syncer.Refresh(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if h.unauth != 1 {
		t.Errorf("unauthorized hook fired %d times, want 1", h.unauth)
	}
	if got := h.lastRender(t); len(got) != 0 {
		t.Errorf("cached list survived an unauthorized sync: %v", got)
	}
}

func TestRefreshGenericFailureDropsCache(t *testing.T) {
	h := newHarness(t)
	h.api.records = []api.Record{{ID: 1, Site: "x", Username: "u", Password: "p"}}
	h.syncer.Refresh(context.Background())

	h.api.failList = api.ErrServerError
	h.syncer.Refresh(context.Background())

	if len(h.fails) != 1 || h.fails[0] != "Server Error" {
		t.Errorf("fails = %v, want one generic server error", h.fails)
	}
	if got := h.lastRender(t); len(got) != 0 {
		t.Errorf("cached list survived a failed sync: %v", got)
	}
	if h.unauth != 0 {
		t.Errorf("generic failure must not trigger logout")
	}
}

func TestRefreshAfterLogoutFailsClosed(t *testing.T) {
	h := newHarness(t)
	h.sess.Clear(session.StatusExpired)

	err := h.syncer.Refresh(context.Background())
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("want ErrNoSession, got %v", err)
	}
	if h.api.listCalls != 0 {
		t.Error("no call may be made with a cleared secret")
	}
	if h.unauth != 1 {
		t.Errorf("cleared secret must be treated as unauthorized, got %d", h.unauth)
	}
}

func TestListLandingAfterLogoutIsDropped(t *testing.T) {
	h := newHarness(t)
	h.api.records = []api.Record{{ID: 1, Site: "x", Username: "u", Password: "p"}}
	// The logout lands while the List call is in flight; the response
	// must be dropped unread.
	h.api.onList = func() { h.sess.Clear(session.StatusExpired) }

	err := h.syncer.Refresh(context.Background())
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("want ErrNoSession, got %v", err)
	}
	if got := h.syncer.Records(); len(got) != 0 {
		t.Errorf("list response arriving after logout was installed: %d records retained", len(got))
	}
	if h.unauth != 1 {
		t.Errorf("mid-flight logout must route through unauthorized, got %d", h.unauth)
	}
	if got := h.lastRender(t); len(got) != 0 {
		t.Errorf("render after mid-flight logout carried records: %v", got)
	}
}

func TestFilterAppliedAfterRefresh(t *testing.T) {
	h := newHarness(t)
	h.api.records = []api.Record{
		{ID: 1, Site: "github.com", Username: "alice", Password: "p"},
		{ID: 2, Site: "gitlab.com", Username: "bob", Password: "p"},
		{ID: 3, Site: "example.com", Username: "carol", Password: "p"},
	}
	h.syncer.SetFilter("git")
	h.syncer.Refresh(context.Background())

	got := h.lastRender(t)
	if len(got) != 2 {
		t.Fatalf("filtered render has %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.Site != "github.com" && r.Site != "gitlab.com" {
			t.Errorf("unexpected record %v under filter", r.Site)
		}
	}
}

// =============================================================================
// MUTATION TESTS
// =============================================================================

func TestCreateValidationBlocksCall(t *testing.T) {
	h := newHarness(t)
	err := h.syncer.Create(context.Background(), "", "user", "pw")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if h.api.listCalls != 0 {
		t.Error("validation failure must not reach the network")
	}
}

func TestCreateThenListReflectsMutationOnce(t *testing.T) {
	h := newHarness(t)
	if err := h.syncer.Create(context.Background(), "example.com", "alice", "pw"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got := h.lastRender(t)
	count := 0
	for _, r := range got {
		if r.Site == "example.com" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("mutation reflected %d times, want exactly once", count)
	}
}

func TestUpdateFailureSurfacesAlert(t *testing.T) {
	h := newHarness(t)
	h.api.failUpdate = &api.APIError{Status: 500, Message: "boom"}

	h.syncer.Update(context.Background(), 1, "site", "user", "pw")

	cur := h.modals.Current()
	if cur == nil || cur.Kind != modal.KindAlert {
		t.Fatalf("update failure should surface an alert, got %+v", cur)
	}
	if cur.Message != "boom" {
		t.Errorf("alert message = %q, want server message verbatim", cur.Message)
	}
}

func TestCreateFailureSurfacesAlertUniformly(t *testing.T) {
	h := newHarness(t)
	h.api.failCreate = &api.APIError{Status: 500, Message: "disk full"}

	h.syncer.Create(context.Background(), "site", "user", "pw")

	cur := h.modals.Current()
	if cur == nil || cur.Kind != modal.KindAlert {
		t.Fatalf("create failure should surface an alert, got %+v", cur)
	}
}

// =============================================================================
// DELETE FLOW TESTS
// =============================================================================

func TestDeleteFlowConfirmThenPromptThenCall(t *testing.T) {
	h := newHarness(t)
	h.api.records = []api.Record{{ID: 5, Site: "x", Username: "u", Password: "p"}}

	h.syncer.RequestDelete(5)

	cur := h.modals.Current()
	if cur == nil || cur.Kind != modal.KindConfirm {
		t.Fatalf("delete must start with a confirm, got %+v", cur)
	}
	h.modals.Accept()

	cur = h.modals.Current()
	if cur == nil || cur.Kind != modal.KindPrompt || !cur.Secret {
		t.Fatalf("delete must re-prompt for the master password, got %+v", cur)
	}
	h.modals.Submit("master-pw")

	if h.api.deleteCalls != 1 {
		t.Errorf("delete calls = %d, want 1", h.api.deleteCalls)
	}
	if got := h.lastRender(t); len(got) != 0 {
		t.Errorf("record survived confirmed delete: %v", got)
	}
}

func TestDeleteCancelledConfirmIsSilent(t *testing.T) {
	h := newHarness(t)
	h.syncer.RequestDelete(5)
	h.modals.Dismiss()

	if h.api.deleteCalls != 0 {
		t.Error("cancelled confirm must not reach the server")
	}
	if h.modals.Pending() {
		t.Error("surface should be idle after cancel")
	}
}

func TestDeleteWrongMasterPasswordAborts(t *testing.T) {
	h := newHarness(t)
	h.syncer.RequestDelete(5)
	h.modals.Accept()
	h.modals.Submit("not-the-master")

	if h.api.deleteCalls != 0 {
		t.Error("mismatched master password must not reach the server")
	}
	cur := h.modals.Current()
	if cur == nil || cur.Kind != modal.KindAlert {
		t.Errorf("mismatch should alert, got %+v", cur)
	}
}

func TestDeleteServerFailureStillReflectsServerState(t *testing.T) {
	h := newHarness(t)
	h.api.records = []api.Record{{ID: 5, Site: "keep.me", Username: "u", Password: "p"}}
	h.api.failDelete = &api.APIError{Status: 500, Message: "nope"}

	h.syncer.RequestDelete(5)
	h.modals.Accept()
	h.modals.Submit("master-pw")

	// The list is never locally mutated; the forced re-List shows the
	// record still present on the server.
	got := h.lastRender(t)
	if len(got) != 1 || got[0].Site != "keep.me" {
		t.Errorf("render should reflect server state after failed delete: %v", got)
	}
}

// =============================================================================
// ACCOUNT TESTS
// =============================================================================

func TestUpdateAccountValidation(t *testing.T) {
	h := newHarness(t)

	err := h.syncer.UpdateAccount(context.Background(), "master-pw", "new user", "longenough")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("whitespace in username should fail validation, got %v", err)
	}

	err = h.syncer.UpdateAccount(context.Background(), "master-pw", "newuser", "short")
	if !errors.As(err, &verr) {
		t.Fatalf("short password should fail validation, got %v", err)
	}

	err = h.syncer.UpdateAccount(context.Background(), "master-pw", "new{user}", "longenough")
	if !errors.As(err, &verr) {
		t.Fatalf("banned characters should fail validation, got %v", err)
	}
}

func TestUpdateAccountRewritesSessionSecret(t *testing.T) {
	h := newHarness(t)
	if err := h.syncer.UpdateAccount(context.Background(), "master-pw", "alice2", "new-master-pw"); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	got, err := h.sess.MasterPassword()
	if err != nil || got != "new-master-pw" {
		t.Errorf("session secret = %q, %v; want new-master-pw", got, err)
	}
	if h.sess.Username() != "alice2" {
		t.Errorf("username = %q, want alice2", h.sess.Username())
	}
}

func TestDeleteAccountSequencesLogoutThroughAlert(t *testing.T) {
	h := newHarness(t)
	h.syncer.RequestDeleteAccount()
	h.modals.Accept()
	h.modals.Submit("master-pw")

	cur := h.modals.Current()
	if cur == nil || cur.Kind != modal.KindAlert {
		t.Fatalf("successful deletion should alert, got %+v", cur)
	}
	if h.deleted != 0 {
		t.Fatal("logout continuation must wait for acknowledgement")
	}
	h.modals.Acknowledge()
	if h.deleted != 1 {
		t.Errorf("AccountDeleted hook fired %d times, want 1", h.deleted)
	}
}
