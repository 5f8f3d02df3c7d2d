package transport

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable marks an upstream failure (5xx) on the remote
// host. Unlike other transport failures it is safe for the caller to retry
// with backoff; credentials are left untouched.
var ErrServiceUnavailable = errors.New("service unavailable")

// ErrAuthRejected marks a response that revoked the session. The credential
// store has already been invalidated when this is returned; callers must
// re-authenticate, never blindly retry.
var ErrAuthRejected = errors.New("request rejected: session no longer valid")

// APIError is any other non-2xx application response. It is surfaced
// directly and never retried by the transport.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}
