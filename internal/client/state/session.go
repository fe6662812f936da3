package state

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/movieclient/internal/client/models"
	"github.com/dmitrijs2005/movieclient/internal/client/repositories/kv"
)

const sessionKey = "current"

// Session is the auth state. User is non-nil exactly when IsAuthenticated.
type Session struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type SessionStore struct {
	repo kv.Repository

	mu      sync.RWMutex
	session Session
	loading bool
	err     string
}

// NewSessionStore starts in the loading state; Restore ends it.
func NewSessionStore(repo kv.Repository) *SessionStore {
	return &SessionStore{repo: repo, loading: true}
}

// Load restores the persisted session. A stored record that breaks the
// user/flag pairing is treated as logged out.
func (s *SessionStore) Load(ctx context.Context) error {
	var sess Session
	if _, err := loadJSON(ctx, s.repo, nsSession, sessionKey, &sess); err != nil {
		return err
	}
	if sess.User == nil || !sess.IsAuthenticated {
		sess = Session{}
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	return nil
}

// SetUser replaces the user and the auth flag together. A nil user logs out.
func (s *SessionStore) SetUser(ctx context.Context, u *models.User) error {
	var sess Session
	if u != nil {
		cp := *u
		sess = Session{User: &cp, IsAuthenticated: true}
	}

	s.mu.Lock()
	s.session = sess
	s.err = ""
	s.mu.Unlock()

	if u == nil {
		return s.repo.Clear(ctx, nsSession)
	}
	return saveJSON(ctx, s.repo, nsSession, sessionKey, sess)
}

// Clear is loggedIn -> loggedOut.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.SetUser(ctx, nil)
}

// Snapshot returns a copy that callers may keep.
func (s *SessionStore) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.session
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

func (s *SessionStore) User() *models.User {
	return s.Snapshot().User
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated
}

func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *SessionStore) SetLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Err is the last auth error shown to the user, or "".
func (s *SessionStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *SessionStore) SetErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}
