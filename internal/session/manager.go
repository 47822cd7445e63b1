// Package session owns the operator's authentication lifecycle against the
// bot API. The bot has no dedicated auth endpoint; a credential is valid iff
// GET /api/config accepts it.
package session

import (
	"context"
	"sync"

	"feedboard/internal/credstore"
	"feedboard/internal/providers"
	"feedboard/internal/remote"
)

type State int

const (
	Unauthenticated State = iota
	Verifying
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Verifying:
		return "verifying"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Manager is the single session state machine. Transition hooks run
// synchronously, outside the lock, in registration order; the app uses them
// to start and stop the poller and to trigger the initial config fetch.
type Manager struct {
	mu       sync.Mutex
	state    State
	cred     string
	rejected error

	store   *credstore.Store
	client  remote.API
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	hooks   []func(State)
}

func NewManager(store *credstore.Store, client remote.API, logger providers.Logger, metrics providers.MetricsProviderInterface) *Manager {
	return &Manager{store: store, client: client, logger: logger, metrics: metrics}
}

// OnTransition registers a hook invoked after every state change. Register
// before any operation runs; registration is not synchronized with
// transitions in flight.
func (m *Manager) OnTransition(fn func(State)) {
	m.hooks = append(m.hooks, fn)
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Credential returns the active credential; ok is false unless the session
// is Authenticated.
func (m *Manager) Credential() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Authenticated {
		return "", false
	}
	return m.cred, true
}

// LastRejection reports why the most recent verify failed, if it did.
func (m *Manager) LastRejection() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejected
}

func (m *Manager) transition(to State, cred string) {
	m.mu.Lock()
	if m.state == to && m.cred == cred {
		m.mu.Unlock()
		return
	}
	m.state = to
	m.cred = cred
	hooks := m.hooks
	m.mu.Unlock()

	m.metrics.SetSessionState(int(to))
	for _, fn := range hooks {
		fn(to)
	}
}

// Verify probes the credential with a read-only call. Persisted storage is
// never touched here.
func (m *Manager) Verify(ctx context.Context, cred string) error {
	prevState, prevCred := m.snapshot()
	m.transition(Verifying, prevCred)

	_, err := m.client.FetchConfig(ctx, cred)
	if err != nil {
		m.mu.Lock()
		m.rejected = err
		m.mu.Unlock()
		m.transition(prevState, prevCred)
		return err
	}

	m.mu.Lock()
	m.rejected = nil
	m.mu.Unlock()
	m.transition(Authenticated, cred)
	return nil
}

func (m *Manager) snapshot() (State, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.cred
}

// Login verifies the candidate credential and persists it on success. On
// failure the previously persisted credential, if any, stays untouched and
// the classified rejection is returned.
func (m *Manager) Login(ctx context.Context, cred string) error {
	if err := m.Verify(ctx, cred); err != nil {
		return err
	}
	if err := m.store.Store(cred); err != nil {
		// In-memory session stays valid; only durability suffered.
		m.logger.Errorf(providers.TypeApp, "persist credential: %s", err)
	}
	m.logger.Infof(providers.TypeApp, "Operator logged in")
	return nil
}

// Logout clears the persisted credential unconditionally. Side-effect only,
// never fails.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		m.logger.Errorf(providers.TypeApp, "clear credential: %s", err)
	}
	m.logger.Infof(providers.TypeApp, "Operator logged out")
	m.transition(Unauthenticated, "")
}

// Restore runs once at startup. A stored credential is verified exactly
// once; a stale one is cleared so it is never retried silently. With no
// stored credential no network call is made.
func (m *Manager) Restore(ctx context.Context) error {
	cred, ok, err := m.store.Load()
	if err != nil {
		return err
	}
	if !ok {
		m.transition(Unauthenticated, "")
		return nil
	}

	if err := m.Verify(ctx, cred); err != nil {
		if remote.IsNetwork(err) {
			// Connectivity trouble says nothing about the credential;
			// keep it stored and let the operator retry.
			m.logger.Warnf(providers.TypeApp, "restore: bot unreachable: %s", err)
			m.transition(Unauthenticated, "")
			return err
		}
		m.logger.Warnf(providers.TypeApp, "restore: stored credential rejected, clearing")
		if cerr := m.store.Clear(); cerr != nil {
			m.logger.Errorf(providers.TypeApp, "clear credential: %s", cerr)
		}
		m.transition(Unauthenticated, "")
		return err
	}

	m.logger.Infof(providers.TypeApp, "Session restored from stored credential")
	return nil
}

// Invalidate reacts to an auth-classified error from any downstream call:
// the credential is gone bad, so it is cleared everywhere.
func (m *Manager) Invalidate() {
	if m.State() != Authenticated {
		return
	}
	m.logger.Warnf(providers.TypeApp, "Credential rejected downstream, invalidating session")
	if err := m.store.Clear(); err != nil {
		m.logger.Errorf(providers.TypeApp, "clear credential: %s", err)
	}
	m.transition(Unauthenticated, "")
}
