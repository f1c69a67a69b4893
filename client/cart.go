package client

import (
	"context"

	"shopfront/models"

	"github.com/google/uuid"
)

// Server-side cart endpoints, used when the shopper is signed in and
// the cart lives with the account rather than on this device.

type ServerCartItem struct {
	ID        uuid.UUID      `json:"id"`
	ProductID uuid.UUID      `json:"product_id"`
	Product   models.Product `json:"product"`
	SizeID    string         `json:"size_id"`
	ColorID   string         `json:"color_id"`
	Quantity  int            `json:"quantity"`
}

func (c *Client) CartItems(ctx context.Context) ([]ServerCartItem, error) {
	var items []ServerCartItem
	err := c.get(ctx, "/api/cart", nil, &items)
	return items, err
}

func (c *Client) AddCartItem(ctx context.Context, productID uuid.UUID, sizeID, colorID string, quantity int) (ServerCartItem, error) {
	var item ServerCartItem
	err := c.post(ctx, "/api/cart", map[string]interface{}{
		"product_id": productID,
		"size_id":    sizeID,
		"color_id":   colorID,
		"quantity":   quantity,
	}, &item)
	return item, err
}

func (c *Client) UpdateCartItem(ctx context.Context, id uuid.UUID, quantity int) (ServerCartItem, error) {
	var item ServerCartItem
	err := c.put(ctx, "/api/cart/"+id.String(), map[string]int{"quantity": quantity}, &item)
	return item, err
}

func (c *Client) RemoveCartItem(ctx context.Context, id uuid.UUID) error {
	return c.del(ctx, "/api/cart/"+id.String(), nil)
}
