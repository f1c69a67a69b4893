package storage

import (
	"context"
	"errors"
	"testing"

	"shopfront/models"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	fileStore, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}

			if err := s.Put(ctx, KeyCart, []byte(`{"lines":[]}`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			data, err := s.Get(ctx, KeyCart)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(data) != `{"lines":[]}` {
				t.Errorf("unexpected value: %s", data)
			}

			if err := s.Delete(ctx, KeyCart); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Get(ctx, KeyCart); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}

			// Deleting an absent key is not an error.
			if err := s.Delete(ctx, "missing"); err != nil {
				t.Errorf("delete missing: %v", err)
			}
		})
	}
}

func TestLoadJSONMissingKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var cart models.Cart
	ok, err := LoadJSON(ctx, s, KeyCart, &cart)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing key")
	}
}

// A corrupt snapshot must be discarded, never fatal.
func TestLoadJSONCorruptSnapshotDiscarded(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(ctx, KeyCart, []byte(`{"lines": [garbage`)); err != nil {
				t.Fatal(err)
			}

			var cart models.Cart
			ok, err := LoadJSON(ctx, s, KeyCart, &cart)
			if err != nil {
				t.Fatalf("corrupt snapshot must not error, got %v", err)
			}
			if ok {
				t.Error("expected ok=false for corrupt snapshot")
			}

			// The corrupt entry is gone.
			if _, err := s.Get(ctx, KeyCart); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected corrupt key deleted, got %v", err)
			}
		})
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	in := models.Wishlist{Entries: []models.WishlistEntry{}}
	if err := SaveJSON(ctx, s, KeyWishlist, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out models.Wishlist
	ok, err := LoadJSON(ctx, s, KeyWishlist, &out)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if out.Entries == nil || len(out.Entries) != 0 {
		t.Errorf("unexpected round trip result: %+v", out)
	}
}

// The file store must survive a process restart: a second store over the
// same directory sees the first one's writes.
func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Put(ctx, KeySession, []byte(`{"user":null}`)); err != nil {
		t.Fatal(err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	data, err := second.Get(ctx, KeySession)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(data) != `{"user":null}` {
		t.Errorf("unexpected value after reopen: %s", data)
	}
}
