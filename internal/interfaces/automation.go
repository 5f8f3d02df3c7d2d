package interfaces

import (
	"context"
	"net/http"
)

// LoginResult holds the credentials extracted by a completed login flow.
type LoginResult struct {
	BearerToken string
	XsrfToken   string
}

// Page is an opaque handle to a live browser page owned by the caller's
// automation session. The session layer never drives the page itself.
type Page interface {
	URL() string
}

// LoginAutomator drives the interactive, non-API login flow in a real
// browser. Implementations live outside this module; the session layer only
// awaits the outcome.
type LoginAutomator interface {
	// NavigateAndLogin performs the full login flow and returns the bearer
	// and XSRF tokens captured from the authenticated session.
	NavigateAndLogin(ctx context.Context, username, password string) (LoginResult, error)

	// RefreshXsrfOnPage re-derives only the XSRF token using an already
	// authenticated page. The response is returned alongside the token so
	// the caller can inspect how the server reacted.
	RefreshXsrfOnPage(ctx context.Context, page Page) (xsrf string, resp *http.Response, err error)
}
