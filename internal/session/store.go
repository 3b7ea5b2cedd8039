// Package session holds the operator's auth token and the identity derived
// from it.
//
// The store has exactly three writers: Login, Logout and Invalidate. Invalidate
// is reserved for the API client's authorization-loss handler. Everything else
// reads, or subscribes to changes.
package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	crdb "github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var ErrLoginFailed = crdb.New("login failed")

// Authenticator exchanges credentials for an access token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Snapshot is the observable session state.
type Snapshot struct {
	Authenticated bool
	Identity      *Identity
}

type Store struct {
	path   string
	logger zerolog.Logger

	mu        sync.RWMutex
	loaded    bool
	token     string
	identity  *Identity
	listeners map[int]func(Snapshot)
	nextID    int
}

// NewStore returns a store persisted at path. Call Load before reading.
func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{
		path:      path,
		logger:    logger,
		listeners: map[int]func(Snapshot){},
	}
}

// Load reads the persisted token. A missing file means logged out.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil && !crdb.Is(err, os.ErrNotExist) {
		return crdb.Wrapf(err, "read session %s", s.path)
	}

	s.mu.Lock()
	s.loaded = true
	s.setTokenLocked(strings.TrimSpace(string(data)))
	snap := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snap)
	return nil
}

// Loaded reports whether the persisted state has been read yet.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Identity returns the decoded identity, or false when the token is absent or
// malformed.
func (s *Store) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Login exchanges credentials through auth and persists the returned token.
// On failure the session is left untouched.
func (s *Store) Login(ctx context.Context, auth Authenticator, username, password string) error {
	token, err := auth.Login(ctx, username, password)
	if err != nil {
		return crdb.Mark(err, ErrLoginFailed)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return crdb.Mark(crdb.New("service returned an empty access token"), ErrLoginFailed)
	}

	if err := s.persist(token); err != nil {
		return err
	}
	s.update(token)
	s.logger.Debug().Str("path", s.path).Msg("session stored")
	return nil
}

// Logout clears the token. Calling it while logged out is a no-op.
func (s *Store) Logout() error {
	if err := s.remove(); err != nil {
		return err
	}
	s.update("")
	return nil
}

// Invalidate drops the session after the service rejected the credential.
func (s *Store) Invalidate() {
	if err := s.remove(); err != nil {
		s.logger.Error().Err(err).Msg("remove session")
	}
	s.update("")
	s.logger.Warn().Msg("session invalidated: authorization lost")
}

// Subscribe registers fn for every session change and returns a function
// that unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) update(token string) {
	s.mu.Lock()
	changed := s.token != token
	s.setTokenLocked(token)
	snap := s.snapshotLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	if changed {
		notify(listeners, snap)
	}
}

func (s *Store) setTokenLocked(token string) {
	s.token = token
	s.identity = nil
	if token == "" {
		return
	}
	identity, err := DecodeIdentity(token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("decode session token")
		return
	}
	s.identity = &identity
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Authenticated: s.token != ""}
	if s.identity != nil {
		identity := *s.identity
		snap.Identity = &identity
	}
	return snap
}

func (s *Store) listenersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *Store) persist(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return crdb.Wrap(err, "create session dir")
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return crdb.Wrap(err, "write session")
	}
	return nil
}

func (s *Store) remove() error {
	if err := os.Remove(s.path); err != nil && !crdb.Is(err, os.ErrNotExist) {
		return crdb.Wrap(err, "remove session")
	}
	return nil
}
