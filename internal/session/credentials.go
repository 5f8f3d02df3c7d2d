package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is a read-only snapshot of the current session tokens.
type Credentials struct {
	Bearer string
	Xsrf   string
}

// CredentialStore holds the bearer and XSRF tokens for the active session.
// It is the only mutable shared state in the module; every access goes
// through the lock so reads never race a concurrent refresh.
type CredentialStore struct {
	mu            sync.RWMutex
	bearer        string
	xsrf          string
	authenticated bool
}

// NewCredentialStore returns an empty, unauthenticated store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// SetSession stores a freshly obtained token pair and marks the session
// authenticated.
func (s *CredentialStore) SetSession(bearer, xsrf string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bearer = bearer
	s.xsrf = xsrf
	s.authenticated = true
}

// SetXsrf replaces only the XSRF token, leaving the bearer token intact.
func (s *CredentialStore) SetXsrf(xsrf string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xsrf = xsrf
}

// Invalidate marks the session as rejected. Tokens are cleared so stale
// credentials can never leak into later requests.
func (s *CredentialStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bearer = ""
	s.xsrf = ""
	s.authenticated = false
}

// Snapshot returns the current tokens and whether they are valid.
func (s *CredentialStore) Snapshot() (Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Credentials{Bearer: s.bearer, Xsrf: s.xsrf}, s.authenticated
}

// IsAuthenticated reports whether both tokens are present and not revoked.
func (s *CredentialStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated && s.bearer != "" && s.xsrf != ""
}

// BearerExpiry inspects the bearer token's exp claim without verifying the
// signature. Opaque (non-JWT) tokens report no expiry.
func (s *CredentialStore) BearerExpiry() (time.Time, bool) {
	s.mu.RLock()
	bearer := s.bearer
	s.mu.RUnlock()

	if bearer == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(bearer, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
