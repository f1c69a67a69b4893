package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"shopfront/models"

	"github.com/google/uuid"
)

// CheckoutRequest creates an order from the submitted cart lines.
type CheckoutRequest struct {
	Lines           []models.CartLine `json:"lines"`
	CouponCode      string            `json:"coupon_code,omitempty"`
	DeliveryAddress string            `json:"delivery_address"`
	PaymentMethod   string            `json:"payment_method"`
	PaymentRef      string            `json:"payment_ref,omitempty"`
}

// CreateOrder places the order. The response schema is fixed: the order
// record arrives under the "order" key and its id under "order.id" -
// no alternative field paths are probed.
func (c *Client) CreateOrder(ctx context.Context, req CheckoutRequest) (models.Order, error) {
	var resp struct {
		Order models.Order `json:"order"`
	}
	err := c.post(ctx, "/api/orders", req, &resp)
	return resp.Order, err
}

// SellerOrdersQuery filters a shop's order listing.
type SellerOrdersQuery struct {
	Status models.OrderStatus
	Code   string // order number substring
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// SellerOrders lists the signed-in seller's shop orders, paginated.
func (c *Client) SellerOrders(ctx context.Context, q SellerOrdersQuery) (models.OrderPage, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}
	if q.Code != "" {
		query.Set("code", q.Code)
	}
	if q.From != nil {
		query.Set("from", q.From.Format(time.RFC3339))
	}
	if q.To != nil {
		query.Set("to", q.To.Format(time.RFC3339))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var page models.OrderPage
	err := c.get(ctx, "/api/seller/orders", query, &page)
	return page, err
}

func (c *Client) SellerOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	var order models.Order
	err := c.get(ctx, "/api/seller/orders/"+id.String(), nil, &order)
	return order, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, error) {
	var order models.Order
	err := c.put(ctx, "/api/seller/orders/"+id.String()+"/status",
		map[string]string{"status": string(status)}, &order)
	return order, err
}
