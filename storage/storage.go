package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// Store persists string-keyed JSON blobs. Each logical key has a single
// writer, so implementations only need to be safe for concurrent use,
// not transactional.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Keys for the storefront's persisted snapshots.
const (
	KeyCart           = "cart"
	KeyWishlist       = "wishlist"
	KeySession        = "session"
	KeyRecentlyViewed = "recently_viewed"
	KeyTheme          = "theme"
)

// SaveJSON marshals v and writes it under key.
func SaveJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, data)
}

// LoadJSON reads key into v. A missing key returns (false, nil). A
// corrupt snapshot is discarded: the key is deleted, the event is
// logged, and the caller starts from empty state. Corruption is never
// fatal to startup.
func LoadJSON(ctx context.Context, s Store, key string, v interface{}) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("WARNING: discarding corrupt snapshot for key %q: %v", key, err)
		if delErr := s.Delete(ctx, key); delErr != nil {
			log.Printf("WARNING: could not delete corrupt snapshot %q: %v", key, delErr)
		}
		return false, nil
	}
	return true, nil
}
