// Package kick provides thin request/response wrappers over the platform's
// REST resources. All calls go through the authenticated transport and
// inherit its error taxonomy.
package kick

import (
	"fmt"

	"kicklive/internal/transport"
)

const defaultBaseURL = "https://kick.com"

// Client exposes the REST resource accessors.
type Client struct {
	base string
	tr   *transport.Transport
}

// NewClient creates a REST client on top of the given transport.
func NewClient(tr *transport.Transport) *Client {
	return &Client{base: defaultBaseURL, tr: tr}
}

// NewClientWithBaseURL overrides the API host, mainly for tests.
func NewClientWithBaseURL(tr *transport.Transport, base string) *Client {
	return &Client{base: base, tr: tr}
}

func (c *Client) url(format string, args ...any) string {
	return c.base + fmt.Sprintf(format, args...)
}
