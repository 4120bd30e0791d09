package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlinks/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.LinkStore.
// Each link is a plain string key "link:<code>".
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "link:",
	}
}

func (r *RedisStore) Put(ctx context.Context, link shortener.Link) error {
	if err := r.client.Set(ctx, r.prefix+string(link.Code), link.URL, 0).Err(); err != nil {
		return unavailable("store.RedisStore.Put", err)
	}

	return nil
}

func (r *RedisStore) Get(ctx context.Context, code shortener.Code) (string, error) {
	url, err := r.client.Get(ctx, r.prefix+string(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", unavailable("store.RedisStore.Get", err)
	}

	return url, nil
}

func (r *RedisStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return false, unavailable("store.RedisStore.Exists", err)
	}

	return n > 0, nil
}

func (r *RedisStore) Delete(ctx context.Context, code shortener.Code) error {
	if err := r.client.Del(ctx, r.prefix+string(code)).Err(); err != nil {
		return unavailable("store.RedisStore.Delete", err)
	}

	return nil
}

// Count walks the key space with SCAN; it is linear in the number of links.
func (r *RedisStore) Count(ctx context.Context) (int64, error) {
	var n int64

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		n++
	}

	if err := iter.Err(); err != nil {
		return 0, unavailable("store.RedisStore.Count", err)
	}

	return n, nil
}

// Compile-time check.
var _ shortener.LinkStore = (*RedisStore)(nil)
