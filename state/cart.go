package state

import (
	"errors"
	"math"
	"sync"
	"time"

	"shopfront/models"

	"github.com/google/uuid"
)

const (
	// TaxRate is applied to the discounted subtotal.
	TaxRate = 0.08

	// ShippingFlatFee is charged unless the discounted subtotal is
	// strictly greater than FreeShippingThreshold.
	ShippingFlatFee       = 5.99
	FreeShippingThreshold = 100.0
)

// ValidCoupons maps coupon codes to their percentage discount.
// The table ships fixed in source; coupons are not resolved server-side.
var ValidCoupons = map[string]float64{
	"WELCOME10": 10,
	"SAVE20":    20,
	"VIP30":     30,
}

var ErrInvalidCoupon = errors.New("invalid coupon code")

// CartStore holds the authoritative cart state. All mutations are
// synchronous and recompute the derived totals before committing.
// Subscribers observe the committed snapshot after each mutation.
type CartStore struct {
	mu   sync.Mutex
	cart models.Cart
	subs []func(models.Cart)
}

func NewCartStore() *CartStore {
	return &CartStore{cart: models.Cart{Lines: []models.CartLine{}}}
}

// Subscribe registers fn to run after every committed mutation.
// Subscribers are invoked outside the store lock.
func (s *CartStore) Subscribe(fn func(models.Cart)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Load replaces the cart with a rehydrated snapshot. Totals are
// recomputed rather than trusted from the snapshot.
func (s *CartStore) Load(cart models.Cart) {
	s.mu.Lock()
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	// Drop a persisted coupon that is no longer in the table.
	if cart.CouponCode != "" {
		pct, ok := ValidCoupons[cart.CouponCode]
		if !ok {
			cart.CouponCode = ""
			cart.DiscountPercent = 0
		} else {
			cart.DiscountPercent = pct
		}
	}
	s.cart = cart
	recalculate(&s.cart)
	s.mu.Unlock()
}

// AddItem merges into an existing line with the same product variant,
// or appends a new line. It always succeeds.
func (s *CartStore) AddItem(product models.Product, sizeID, colorID string, quantity int) models.Cart {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.cart.Lines {
		if s.cart.Lines[i].SameVariant(product.ID, sizeID, colorID) {
			s.cart.Lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.cart.Lines = append(s.cart.Lines, models.CartLine{
			ID:        uuid.New(),
			ProductID: product.ID,
			SizeID:    sizeID,
			ColorID:   colorID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
	}
	snap := s.commit()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// RemoveItem deletes the line with the given id. Unknown ids are a no-op.
func (s *CartStore) RemoveItem(lineID uuid.UUID) models.Cart {
	s.mu.Lock()
	kept := s.cart.Lines[:0]
	for _, l := range s.cart.Lines {
		if l.ID != lineID {
			kept = append(kept, l)
		}
	}
	s.cart.Lines = kept
	snap := s.commit()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// UpdateQuantity sets the quantity on a line. A quantity of zero or
// less removes the line entirely.
func (s *CartStore) UpdateQuantity(lineID uuid.UUID, quantity int) models.Cart {
	if quantity <= 0 {
		return s.RemoveItem(lineID)
	}

	s.mu.Lock()
	for i := range s.cart.Lines {
		if s.cart.Lines[i].ID == lineID {
			s.cart.Lines[i].Quantity = quantity
			break
		}
	}
	snap := s.commit()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// ApplyCoupon looks the code up in the fixed table. An unknown code
// returns ErrInvalidCoupon and leaves the cart untouched.
func (s *CartStore) ApplyCoupon(code string) (models.Cart, error) {
	percent, ok := ValidCoupons[code]
	if !ok {
		return s.Snapshot(), ErrInvalidCoupon
	}

	s.mu.Lock()
	s.cart.CouponCode = code
	s.cart.DiscountPercent = percent
	snap := s.commit()
	s.mu.Unlock()

	s.notify(snap)
	return snap, nil
}

// RemoveCoupon clears any applied coupon.
func (s *CartStore) RemoveCoupon() models.Cart {
	s.mu.Lock()
	s.cart.CouponCode = ""
	s.cart.DiscountPercent = 0
	snap := s.commit()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Clear resets the cart to its empty state, coupon included.
func (s *CartStore) Clear() models.Cart {
	s.mu.Lock()
	s.cart = models.Cart{Lines: []models.CartLine{}}
	snap := s.commit()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Snapshot returns a copy of the current cart.
func (s *CartStore) Snapshot() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCart(s.cart)
}

// ItemCount is the sum of quantities across all lines.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// commit recomputes totals and returns the snapshot to publish.
// Callers must hold the lock.
func (s *CartStore) commit() models.Cart {
	recalculate(&s.cart)
	s.cart.UpdatedAt = time.Now()
	return copyCart(s.cart)
}

func (s *CartStore) notify(snap models.Cart) {
	s.mu.Lock()
	subs := make([]func(models.Cart), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// recalculate rebuilds every derived field from the lines and the
// discount percentage. Totals are never carried over incrementally.
func recalculate(cart *models.Cart) {
	subtotal := 0.0
	for _, l := range cart.Lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	subtotal = round2(subtotal)

	discount := round2(subtotal * cart.DiscountPercent / 100)
	discounted := round2(subtotal - discount)
	tax := round2(discounted * TaxRate)

	shipping := 0.0
	if len(cart.Lines) > 0 && discounted <= FreeShippingThreshold {
		shipping = ShippingFlatFee
	}

	cart.Subtotal = subtotal
	cart.DiscountAmount = discount
	cart.Tax = tax
	cart.Shipping = shipping
	cart.Total = round2(discounted + tax + shipping)
}

func copyCart(cart models.Cart) models.Cart {
	out := cart
	out.Lines = make([]models.CartLine, len(cart.Lines))
	copy(out.Lines, cart.Lines)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
