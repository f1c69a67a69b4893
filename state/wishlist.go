package state

import (
	"sync"
	"time"

	"shopfront/models"

	"github.com/google/uuid"
)

// WishlistStore is a persisted set of saved products. Adds are
// idempotent; a product appears at most once.
type WishlistStore struct {
	mu       sync.Mutex
	wishlist models.Wishlist
	subs     []func(models.Wishlist)
}

func NewWishlistStore() *WishlistStore {
	return &WishlistStore{wishlist: models.Wishlist{Entries: []models.WishlistEntry{}}}
}

func (s *WishlistStore) Subscribe(fn func(models.Wishlist)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Load replaces the wishlist with a rehydrated snapshot.
func (s *WishlistStore) Load(w models.Wishlist) {
	s.mu.Lock()
	if w.Entries == nil {
		w.Entries = []models.WishlistEntry{}
	}
	s.wishlist = w
	s.mu.Unlock()
}

// Add saves a product. Adding a product already present is a no-op.
func (s *WishlistStore) Add(productID uuid.UUID) models.Wishlist {
	s.mu.Lock()
	for _, e := range s.wishlist.Entries {
		if e.ProductID == productID {
			snap := copyWishlist(s.wishlist)
			s.mu.Unlock()
			return snap
		}
	}
	s.wishlist.Entries = append(s.wishlist.Entries, models.WishlistEntry{
		ID:        uuid.New(),
		ProductID: productID,
		AddedAt:   time.Now(),
	})
	s.wishlist.UpdatedAt = time.Now()
	snap := copyWishlist(s.wishlist)
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Remove deletes the entry for the given product. Unknown products are
// a no-op.
func (s *WishlistStore) Remove(productID uuid.UUID) models.Wishlist {
	s.mu.Lock()
	kept := s.wishlist.Entries[:0]
	removed := false
	for _, e := range s.wishlist.Entries {
		if e.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	s.wishlist.Entries = kept
	if removed {
		s.wishlist.UpdatedAt = time.Now()
	}
	snap := copyWishlist(s.wishlist)
	s.mu.Unlock()

	if removed {
		s.notify(snap)
	}
	return snap
}

func (s *WishlistStore) Clear() models.Wishlist {
	s.mu.Lock()
	s.wishlist = models.Wishlist{Entries: []models.WishlistEntry{}, UpdatedAt: time.Now()}
	snap := copyWishlist(s.wishlist)
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Contains reports whether the product is saved.
func (s *WishlistStore) Contains(productID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.wishlist.Entries {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *WishlistStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wishlist.Entries)
}

func (s *WishlistStore) Snapshot() models.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyWishlist(s.wishlist)
}

func (s *WishlistStore) notify(snap models.Wishlist) {
	s.mu.Lock()
	subs := make([]func(models.Wishlist), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func copyWishlist(w models.Wishlist) models.Wishlist {
	out := w
	out.Entries = make([]models.WishlistEntry, len(w.Entries))
	copy(out.Entries, w.Entries)
	return out
}
