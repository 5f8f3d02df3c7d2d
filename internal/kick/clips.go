package kick

import (
	"context"
	"net/http"
	"net/url"

	"kicklive/internal/models"
)

type clipsResponse struct {
	Clips []models.Clip `json:"clips"`
}

// Clips lists recent clips for a channel.
func (c *Client) Clips(ctx context.Context, channelSlug string) ([]models.Clip, error) {
	var out clipsResponse
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v2/channels/%s/clips", url.PathEscape(channelSlug)), nil, &out)
	return out.Clips, err
}

// Clip fetches a single clip by id.
func (c *Client) Clip(ctx context.Context, id string) (*models.Clip, error) {
	var out struct {
		Clip models.Clip `json:"clip"`
	}
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v2/clips/%s", url.PathEscape(id)), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out.Clip, nil
}
