package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one purchasable entry in the cart. Two lines are the same
// purchasable if and only if they share (ProductID, SizeID, ColorID).
type CartLine struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	SizeID    string    `json:"size_id"`
	ColorID   string    `json:"color_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// SameVariant reports whether the line refers to the same product variant.
func (l CartLine) SameVariant(productID uuid.UUID, sizeID, colorID string) bool {
	return l.ProductID == productID && l.SizeID == sizeID && l.ColorID == colorID
}

// Cart holds the lines plus the monetary fields derived from them.
// The derived fields are never mutated directly; they are recomputed
// from Lines and DiscountPercent after every change.
type Cart struct {
	Lines           []CartLine `json:"lines"`
	CouponCode      string     `json:"coupon_code,omitempty"`
	DiscountPercent float64    `json:"discount_percent"`
	Subtotal        float64    `json:"subtotal"`
	DiscountAmount  float64    `json:"discount_amount"`
	Tax             float64    `json:"tax"`
	Shipping        float64    `json:"shipping"`
	Total           float64    `json:"total"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ItemCount is the sum of quantities across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}
