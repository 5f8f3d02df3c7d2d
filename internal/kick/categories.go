package kick

import (
	"context"
	"net/http"
	"net/url"

	"kicklive/internal/models"
)

// Categories lists the top-level streaming categories.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v1/categories"), nil, &out)
	return out, err
}

// TopCategories lists the categories currently ordered by viewership.
func (c *Client) TopCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v1/categories/top"), nil, &out)
	return out, err
}

// Category fetches a single category by its slug.
func (c *Client) Category(ctx context.Context, slug string) (*models.Category, error) {
	var out models.Category
	err := c.tr.DoJSON(ctx, http.MethodGet, c.url("/api/v1/categories/%s", url.PathEscape(slug)), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
