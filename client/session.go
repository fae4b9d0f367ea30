package client

import (
	"context"
	"sync"

	"github.com/totegamma/salesdesk"
)

// Session is the UI-facing view of who is logged in. The user snapshot is
// replaced wholesale on every successful identity fetch and dropped on
// logout or whenever the client sees a 401.
//
// Login and Register update the snapshot before they return, so a caller
// deciding where to redirect next always observes the new state.
type Session struct {
	mu     sync.RWMutex
	client *Client
	user   *salesdesk.User
	loaded bool
}

func NewSession(c *Client) *Session {
	s := &Session{client: c}
	c.OnUnauthorized(s.discard)
	return s
}

// Load resolves the initial state. A failure leaves the session
// unauthenticated and is returned for the caller's information.
func (s *Session) Load(ctx context.Context) error {
	err := s.Refresh(ctx)
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return err
}

// Refresh re-reads the identity endpoint.
func (s *Session) Refresh(ctx context.Context) error {
	user, err := s.client.Me(ctx)
	if err != nil {
		s.discard()
		return err
	}
	s.set(user)
	return nil
}

func (s *Session) Login(ctx context.Context, req salesdesk.LoginRequest) (*salesdesk.User, error) {
	user, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	s.set(user)
	return s.User(), nil
}

func (s *Session) Register(ctx context.Context, req salesdesk.RegisterRequest) (*salesdesk.User, error) {
	user, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	s.set(user)
	return s.User(), nil
}

func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.discard()
	return err
}

// User returns a copy of the snapshot, or nil when unauthenticated.
func (s *Session) User() *salesdesk.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Loaded reports whether the initial Load has completed.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Session) set(user *salesdesk.User) {
	u := *user
	s.mu.Lock()
	s.user = &u
	s.loaded = true
	s.mu.Unlock()
}

func (s *Session) discard() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}
