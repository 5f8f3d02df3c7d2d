package kick

import (
	"context"
	"net/http"
	"net/url"

	"kicklive/internal/models"
)

// Channel fetches a channel by its slug, including its chatroom and any
// running livestream.
func (c *Client) Channel(ctx context.Context, slug string) (*models.Channel, error) {
	var out models.Channel
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v2/channels/%s", url.PathEscape(slug)), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Chatroom fetches only the chatroom descriptor for a channel slug.
func (c *Client) Chatroom(ctx context.Context, slug string) (*models.Chatroom, error) {
	var out models.Chatroom
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v2/channels/%s/chatroom", url.PathEscape(slug)), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
