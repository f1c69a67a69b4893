package state

import (
	"testing"

	"github.com/google/uuid"
)

func TestRecentAddNewestFirst(t *testing.T) {
	s := NewRecentStore()
	a, b := uuid.New(), uuid.New()

	s.Add(a)
	ids := s.Add(b)

	if len(ids) != 2 || ids[0] != b || ids[1] != a {
		t.Errorf("expected [b a], got %v", ids)
	}
}

func TestRecentDuplicateMovesToFront(t *testing.T) {
	s := NewRecentStore()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	s.Add(a)
	s.Add(b)
	s.Add(c)
	ids := s.Add(a)

	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}
	if ids[0] != a {
		t.Errorf("expected duplicate moved to front, got %v", ids)
	}
}

func TestRecentCapped(t *testing.T) {
	s := NewRecentStore()
	first := uuid.New()
	s.Add(first)
	for i := 0; i < RecentLimit; i++ {
		s.Add(uuid.New())
	}

	ids := s.Snapshot()
	if len(ids) != RecentLimit {
		t.Fatalf("expected %d ids, got %d", RecentLimit, len(ids))
	}
	for _, id := range ids {
		if id == first {
			t.Error("oldest id should have been evicted")
		}
	}
}

func TestRecentLoadReappliesCap(t *testing.T) {
	s := NewRecentStore()
	ids := make([]uuid.UUID, RecentLimit+3)
	for i := range ids {
		ids[i] = uuid.New()
	}
	s.Load(ids)

	if got := len(s.Snapshot()); got != RecentLimit {
		t.Errorf("expected %d ids after load, got %d", RecentLimit, got)
	}
}
