package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              uuid.UUID   `json:"id"`
	OrderNumber     string      `json:"order_number"`
	UserID          uuid.UUID   `json:"user_id"`
	ShopID          uuid.UUID   `json:"shop_id"`
	Status          OrderStatus `json:"status"`
	Subtotal        float64     `json:"subtotal"`
	DiscountAmount  float64     `json:"discount_amount"`
	Tax             float64     `json:"tax"`
	Shipping        float64     `json:"shipping"`
	Total           float64     `json:"total"`
	CouponCode      string      `json:"coupon_code,omitempty"`
	DeliveryAddress string      `json:"delivery_address"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentRef      string      `json:"payment_ref,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"` // Snapshot of product name at time of order
	ImageURL    string    `json:"image_url"`
	SizeID      string    `json:"size_id"`
	ColorID     string    `json:"color_id"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
}

// AllowedTransitions defines the valid order status state machine.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to OrderStatus) bool {
	allowed, exists := AllowedTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// OrderPage is one page of a seller's order listing.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	Pages  int     `json:"pages"`
}
