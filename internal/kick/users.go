package kick

import (
	"context"
	"net/http"
	"net/url"

	"kicklive/internal/models"
)

// CurrentUser fetches the account behind the active session.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v1/user"), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// User fetches a user profile by slug.
func (c *Client) User(ctx context.Context, slug string) (*models.User, error) {
	var out models.User
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v1/users/%s", url.PathEscape(slug)), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
