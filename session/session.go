// Package session owns the client-side authentication lifecycle: acquiring a
// bearer token, persisting it across runs, attaching it to requests, and
// clearing it on logout or expiry.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/photoshare/photoshare-cli/api"
	"github.com/photoshare/photoshare-cli/model"
)

// Gateway is the slice of the API the session needs.
type Gateway interface {
	Login(ctx context.Context, username, password string) (*api.TokenResponse, error)
	Register(ctx context.Context, username, email, password string) (*model.UserProfile, error)
	Me(ctx context.Context) (*model.UserProfile, error)
}

// TokenStorage persists the bearer token across process restarts. A single
// token string under a single key; nothing else is persisted.
type TokenStorage interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	ClearToken() error
}

// Store holds the current token and user profile. The two are set and
// cleared together: after any operation completes there is never a resolved
// session with a token but no user, except between Restore and the first
// authenticated call (validity is discovered lazily, on a 401).
type Store struct {
	mu      sync.RWMutex
	token   string
	user    *model.UserProfile
	gateway Gateway
	storage TokenStorage
	log     zerolog.Logger
}

// New creates a session store. storage may be nil for a purely in-memory
// session (used in tests).
func New(gateway Gateway, storage TokenStorage, log zerolog.Logger) *Store {
	return &Store{
		gateway: gateway,
		storage: storage,
		log:     log,
	}
}

// Token returns the current bearer token, or "" when logged out. Implements
// api.TokenSource so the gateway always reads the live value.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current profile, or nil when not resolved.
func (s *Store) User() *model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Login exchanges credentials for a token, resolves the profile for it, then
// commits and persists both. On any failure nothing is committed.
func (s *Store) Login(ctx context.Context, identifier, secret string) (*model.UserProfile, error) {
	token, err := s.gateway.Login(ctx, identifier, secret)
	if err != nil {
		return nil, err
	}

	// The profile fetch must carry the new token, so it is staged before the
	// call and rolled back if resolution fails.
	s.mu.Lock()
	s.token = token.AccessToken
	s.mu.Unlock()

	profile, err := s.gateway.Me(ctx)
	if err != nil {
		s.mu.Lock()
		s.token = ""
		s.user = nil
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.user = profile
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.SaveToken(token.AccessToken); err != nil {
			return nil, fmt.Errorf("failed to persist token: %w", err)
		}
	}

	s.log.Info().Str("username", profile.Username).Msg("logged in")
	return profile, nil
}

// Register creates an account and, on success, chains into Login with the
// same credentials. A registration failure surfaces without a login attempt.
func (s *Store) Register(ctx context.Context, username, identifier, secret string) (*model.UserProfile, error) {
	if _, err := s.gateway.Register(ctx, username, identifier, secret); err != nil {
		return nil, err
	}
	return s.Login(ctx, identifier, secret)
}

// Logout clears the in-memory session and the persisted token. It is
// deterministic and cannot fail; a storage error is logged and swallowed.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.ClearToken(); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear persisted token")
		}
	}
	s.log.Info().Msg("logged out")
}

// Restore loads any persisted token as the current credential. The token is
// not validated eagerly; a stale one is discovered on the first 401.
func (s *Store) Restore() error {
	if s.storage == nil {
		return nil
	}
	token, err := s.storage.LoadToken()
	if err != nil {
		return fmt.Errorf("failed to load persisted token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = nil
	s.mu.Unlock()
	return nil
}

// Refresh re-fetches the profile for the current token, e.g. after a
// profile-edit mutation.
func (s *Store) Refresh(ctx context.Context) (*model.UserProfile, error) {
	profile, err := s.gateway.Me(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = profile
	s.mu.Unlock()
	return profile, nil
}

// Expire inspects a gateway failure and, when it is a 401, clears the
// session exactly as Logout does. Returns whether the session was cleared.
// Every authenticated call site routes its error through here so that an
// expired token behaves uniformly.
func (s *Store) Expire(err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	s.log.Info().Msg("session expired")
	s.Logout()
	return true
}
