package state

import (
	"sync"

	"github.com/google/uuid"
)

// RecentLimit caps the recently-viewed list.
const RecentLimit = 8

// RecentStore keeps the most-recently-viewed product ids, newest first.
// Viewing a product already in the list moves it to the front.
type RecentStore struct {
	mu   sync.Mutex
	ids  []uuid.UUID
	subs []func([]uuid.UUID)
}

func NewRecentStore() *RecentStore {
	return &RecentStore{ids: []uuid.UUID{}}
}

func (s *RecentStore) Subscribe(fn func([]uuid.UUID)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Load replaces the list with a rehydrated snapshot, re-applying the cap.
func (s *RecentStore) Load(ids []uuid.UUID) {
	s.mu.Lock()
	if len(ids) > RecentLimit {
		ids = ids[:RecentLimit]
	}
	s.ids = append([]uuid.UUID{}, ids...)
	s.mu.Unlock()
}

// Add records a product view at the front of the list.
func (s *RecentStore) Add(productID uuid.UUID) []uuid.UUID {
	s.mu.Lock()
	next := make([]uuid.UUID, 0, len(s.ids)+1)
	next = append(next, productID)
	for _, id := range s.ids {
		if id != productID {
			next = append(next, id)
		}
	}
	if len(next) > RecentLimit {
		next = next[:RecentLimit]
	}
	s.ids = next
	snap := append([]uuid.UUID{}, s.ids...)
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *RecentStore) Clear() {
	s.mu.Lock()
	s.ids = []uuid.UUID{}
	s.mu.Unlock()

	s.notify([]uuid.UUID{})
}

func (s *RecentStore) Snapshot() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID{}, s.ids...)
}

func (s *RecentStore) notify(snap []uuid.UUID) {
	s.mu.Lock()
	subs := make([]func([]uuid.UUID), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
