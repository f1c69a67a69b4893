package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistEntry wraps a saved product. A product appears at most once.
type WishlistEntry struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

type Wishlist struct {
	Entries   []WishlistEntry `json:"entries"`
	UpdatedAt time.Time       `json:"updated_at"`
}
