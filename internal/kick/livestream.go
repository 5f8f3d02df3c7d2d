package kick

import (
	"context"
	"net/http"
	"net/url"

	"kicklive/internal/models"
)

// Livestream fetches the livestream object for a channel, or nil when the
// channel is offline.
func (c *Client) Livestream(ctx context.Context, channelSlug string) (*models.Livestream, error) {
	var out struct {
		Data *models.Livestream `json:"data"`
	}
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v2/channels/%s/livestream", url.PathEscape(channelSlug)), nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// IsLive reports whether a channel is currently broadcasting.
func (c *Client) IsLive(ctx context.Context, channelSlug string) (bool, error) {
	ls, err := c.Livestream(ctx, channelSlug)
	if err != nil {
		return false, err
	}
	return ls != nil && ls.IsLive, nil
}
