package cliauth

import (
	"context"
	"errors"
	"sync"
)

// State is the session guard's view of the stored session.
type State int

const (
	// StateUnauthenticated is the process-start default and the terminal
	// state after any invalidation.
	StateUnauthenticated State = iota

	// StateAuthenticated means a session is stored and not known to be bad.
	StateAuthenticated

	// StateExpired is transient: the backend rejected the session. The guard
	// leaves it immediately by clearing the store.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// Guard decides whether the stored session is usable and owns the
// invalidation transition. It is the only component that clears the store in
// response to a rejected session; the API client calls Invalidate on every
// 401 and commands translate ErrSessionExpired into a re-login instruction.
type Guard struct {
	store Store

	mu    sync.Mutex
	state State
}

// NewGuard creates a Guard over the given store. The initial state is derived
// from whether a session is currently stored; a store that cannot be read
// counts as empty.
func NewGuard(ctx context.Context, store Store) *Guard {
	g := &Guard{store: store}
	if _, err := g.CurrentToken(ctx); err == nil {
		g.state = StateAuthenticated
	}
	return g
}

// Store exposes the underlying credential store.
func (g *Guard) Store() Store {
	return g.store
}

// State reports the current guard state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CurrentToken reads the store and returns the access token. Absent,
// unreadable, or corrupted credentials all return ErrNotFound: the guard
// fails open to the logged-out state, never to a crash. Callers must not
// issue a protected network call when an error is returned.
func (g *Guard) CurrentToken(ctx context.Context) (string, error) {
	data, err := g.store.Load(ctx)
	if err != nil {
		return "", ErrNotFound
	}
	sess, err := UnmarshalSession(data)
	if err != nil {
		return "", ErrNotFound
	}
	return sess.AccessToken, nil
}

// CurrentSession reads and decodes the full stored session.
func (g *Guard) CurrentSession(ctx context.Context) (*Session, error) {
	data, err := g.store.Load(ctx)
	if err != nil {
		return nil, ErrNotFound
	}
	return UnmarshalSession(data)
}

// SetSession persists a new session and moves the guard to Authenticated.
// Rejects sessions without an access token.
func (g *Guard) SetSession(ctx context.Context, sess *Session) error {
	data, err := MarshalSession(sess)
	if err != nil {
		return err
	}
	if err := g.store.Save(ctx, data); err != nil {
		return err
	}
	g.mu.Lock()
	g.state = StateAuthenticated
	g.mu.Unlock()
	return nil
}

// Invalidate performs the Expired transition: the store is cleared and the
// guard lands in Unauthenticated. Clearing is the only action taken;
// navigation (telling the user to log in again) is the caller's job.
// Invalidating an already-empty store is not an error.
func (g *Guard) Invalidate(ctx context.Context) error {
	g.mu.Lock()
	g.state = StateExpired
	g.mu.Unlock()
	return g.clear(ctx)
}

// Logout clears the store on explicit user request.
func (g *Guard) Logout(ctx context.Context) error {
	return g.clear(ctx)
}

func (g *Guard) clear(ctx context.Context) error {
	err := g.store.Delete(ctx)
	g.mu.Lock()
	g.state = StateUnauthenticated
	g.mu.Unlock()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
