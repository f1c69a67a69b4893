package client

import (
	"context"
	"net/http"

	"shopfront/models"

	"github.com/google/uuid"
)

// Catalog endpoints are public; no bearer token is required, but one is
// attached when present.

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := c.public(ctx, http.MethodGet, "/api/categories", nil, &categories)
	return categories, err
}

// SuggestedCategories returns the curated home-page selection.
func (c *Client) SuggestedCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := c.public(ctx, http.MethodGet, "/api/categories/suggested", nil, &categories)
	return categories, err
}

func (c *Client) Product(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var product models.Product
	err := c.public(ctx, http.MethodGet, "/api/products/"+id.String(), nil, &product)
	return product, err
}
