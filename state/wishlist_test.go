package state

import (
	"testing"

	"shopfront/models"

	"github.com/google/uuid"
)

func TestWishlistAddIsIdempotent(t *testing.T) {
	s := NewWishlistStore()
	pid := uuid.New()

	s.Add(pid)
	w := s.Add(pid)

	if len(w.Entries) != 1 {
		t.Fatalf("expected 1 entry after duplicate add, got %d", len(w.Entries))
	}
	if s.Count() != 1 {
		t.Errorf("expected count 1, got %d", s.Count())
	}
}

func TestWishlistRemove(t *testing.T) {
	s := NewWishlistStore()
	pid := uuid.New()
	other := uuid.New()

	s.Add(pid)
	s.Add(other)
	w := s.Remove(pid)

	if len(w.Entries) != 1 {
		t.Fatalf("expected 1 entry after remove, got %d", len(w.Entries))
	}
	if s.Contains(pid) {
		t.Error("removed product still present")
	}
	if !s.Contains(other) {
		t.Error("unrelated product was removed")
	}
}

func TestWishlistRemoveUnknownIsNoop(t *testing.T) {
	s := NewWishlistStore()
	s.Add(uuid.New())

	w := s.Remove(uuid.New())
	if len(w.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(w.Entries))
	}
}

func TestWishlistClear(t *testing.T) {
	s := NewWishlistStore()
	s.Add(uuid.New())
	s.Add(uuid.New())

	w := s.Clear()
	if len(w.Entries) != 0 {
		t.Errorf("expected empty wishlist, got %d entries", len(w.Entries))
	}
}

func TestWishlistNotifications(t *testing.T) {
	s := NewWishlistStore()
	pid := uuid.New()

	notifications := 0
	s.Subscribe(func(models.Wishlist) { notifications++ })

	s.Add(pid)
	s.Add(pid)           // idempotent, no notify
	s.Remove(uuid.New()) // unknown, no notify
	s.Remove(pid)

	if notifications != 2 {
		t.Errorf("expected 2 notifications, got %d", notifications)
	}
}

func TestWishlistLoad(t *testing.T) {
	s := NewWishlistStore()
	pid := uuid.New()
	s.Load(models.Wishlist{Entries: []models.WishlistEntry{{ID: uuid.New(), ProductID: pid}}})

	if !s.Contains(pid) {
		t.Error("expected rehydrated entry to be present")
	}
	if s.Count() != 1 {
		t.Errorf("expected count 1, got %d", s.Count())
	}
}
