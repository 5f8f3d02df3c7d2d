package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"kicklive/internal/interfaces"
)

// Manager drives the login and refresh flows and owns all writes to the
// CredentialStore. The interactive part of login is delegated to the
// automation collaborator; the manager only captures and validates its
// outcome.
type Manager struct {
	store     *CredentialStore
	automator interfaces.LoginAutomator
	logger    zerolog.Logger

	// flight serializes authenticate/refresh so a second caller waits for
	// the in-progress attempt instead of starting a duplicate login.
	flight sync.Mutex
}

// NewManager creates a session manager writing into the given store.
func NewManager(store *CredentialStore, automator interfaces.LoginAutomator, logger zerolog.Logger) *Manager {
	return &Manager{
		store:     store,
		automator: automator,
		logger:    logger.With().Str("component", "session").Logger(),
	}
}

// Store exposes the credential store for read-only consumers.
func (m *Manager) Store() *CredentialStore { return m.store }

// IsAuthenticated reports whether a valid session is held.
func (m *Manager) IsAuthenticated() bool { return m.store.IsAuthenticated() }

// Authenticate performs the full browser-driven login and stores the
// resulting tokens. If another login completed while this caller was
// waiting, its result is reused.
func (m *Manager) Authenticate(ctx context.Context, username, password string) error {
	m.flight.Lock()
	defer m.flight.Unlock()

	if m.store.IsAuthenticated() {
		return nil
	}

	result, err := m.automator.NavigateAndLogin(ctx, username, password)
	if err != nil {
		return &AuthenticationError{Reason: "login automation failed", Err: err}
	}
	if result.BearerToken == "" || result.XsrfToken == "" {
		return &AuthenticationError{Reason: "login yielded empty tokens"}
	}

	m.store.SetSession(result.BearerToken, result.XsrfToken)
	m.logger.Info().Str("username", username).Msg("session established")
	return nil
}

// RefreshXsrfToken re-derives only the XSRF token using a live page from
// the caller's browser session. A rejection by the server surfaces as a
// *RefreshTokenError carrying the original response; no retry is attempted.
func (m *Manager) RefreshXsrfToken(ctx context.Context, page interfaces.Page) error {
	m.flight.Lock()
	defer m.flight.Unlock()

	if !m.store.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	xsrf, resp, err := m.automator.RefreshXsrfOnPage(ctx, page)
	if rejected(resp) {
		if err == nil {
			err = errors.New("server rejected refresh")
		}
		return &RefreshTokenError{Response: resp, Err: err}
	}
	if err != nil {
		return &RefreshTokenError{Response: resp, Err: err}
	}
	if xsrf == "" {
		return &RefreshTokenError{Response: resp, Err: errors.New("refresh yielded empty token")}
	}

	m.store.SetXsrf(xsrf)
	m.logger.Debug().Msg("xsrf token refreshed")
	return nil
}

func rejected(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden
}
