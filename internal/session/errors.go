package session

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotAuthenticated is returned when an operation requires a valid
// session and none is present. Callers must run Authenticate before
// retrying; the request is never attempted on the wire.
var ErrNotAuthenticated = errors.New("session not authenticated")

// AuthenticationError reports a failed login attempt: the automation
// collaborator could not complete the flow, or it yielded empty tokens.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RefreshTokenError reports an XSRF refresh the server explicitly
// rejected. The original response is kept for diagnostics so the caller
// can decide whether to fall back to a full re-login.
type RefreshTokenError struct {
	Response *http.Response
	Err      error
}

func (e *RefreshTokenError) Error() string {
	status := 0
	if e.Response != nil {
		status = e.Response.StatusCode
	}
	return fmt.Sprintf("xsrf refresh rejected (status %d): %v", status, e.Err)
}

func (e *RefreshTokenError) Unwrap() error { return e.Err }
