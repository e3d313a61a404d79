// Package cliauth holds the credential store, the session guard, and the
// "auth" command suite for stockctl.
//
// Exactly one component persists the session: the Store. Everything else
// (the guard, the API client, the commands) goes through it.
package cliauth

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Load when no credentials are stored.
var ErrNotFound = errors.New("credentials not found")

// ErrSessionExpired reports that the backend rejected the stored session.
// By the time a caller sees it the credential store has already been cleared;
// the only remedy is logging in again.
var ErrSessionExpired = errors.New("session expired, please log in again")

// Store provides credential persistence for session tokens.
// Token contents are opaque bytes; a Store never inspects them.
type Store interface {
	Save(ctx context.Context, token []byte) error
	Load(ctx context.Context) ([]byte, error)
	Delete(ctx context.Context) error
}

// Identity is the authenticated principal reported by the backend.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Authenticator exchanges credentials with the backend. Implemented by
// api.Client; the command suite depends only on this interface.
type Authenticator interface {
	// SignIn exchanges email and password for a session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account. The caller logs in separately afterward.
	SignUp(ctx context.Context, email, password string) error

	// Profile fetches the identity behind the current session.
	Profile(ctx context.Context) (*Identity, error)
}
