package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps snapshots in Redis under a shared key prefix, one
// string value per key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(addr string) *RedisStore {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: client, prefix: "shopfront:"}
}

// NewRedisStoreWithClient wraps an existing client (used in tests).
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "shopfront:"}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	// Snapshots have no TTL; eviction is the server's policy to apply.
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
