// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	"github.com/jeranaias/vaultrun-tui/internal/api"
)

// =============================================================================
// BOOTSTRAP
// =============================================================================

// Checker revalidates a cached session against the server. *api.Client
// satisfies it.
type Checker interface {
	CheckSession(ctx context.Context) (*api.SessionInfo, error)
}

// Bootstrap revalidates a previously cached session before the vault is
// exposed. The cached marker is the presence of a master password in the
// volatile store; with no marker the app starts anonymous without touching
// the network.
//
// Any failure — a rejected session or a transport error — discards the
// cached secret. A server that cannot be reached must not leave behind a
// false sense of validity.
func Bootstrap(ctx context.Context, sess *Session, checker Checker) Status {
	if !sess.Authenticated() {
		sess.Clear(StatusAnonymous)
		return StatusAnonymous
	}

	info, err := checker.CheckSession(ctx)
	if err != nil {
		sess.Clear(StatusAnonymous)
		return StatusAnonymous
	}

	if info.Username != "" {
		sess.SetUsername(info.Username)
	}
	sess.SetStatus(StatusActive)
	return StatusActive
}
