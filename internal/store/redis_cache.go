package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlinks/internal/shortener"
)

// RedisCacheStore wraps a LinkStore with a Redis read cache.
//
// Every write bumps a per-code version key. A miss only fills the cache if
// the version it saw before reading the primary is unchanged, checked under
// WATCH, so a Get racing a Delete never caches the deleted url.
type RedisCacheStore struct {
	store         shortener.LinkStore
	client        *redis.Client
	prefix        string
	versionPrefix string
	ttl           time.Duration
}

// NewRedisCacheStore creates a new Redis-cached link store decorator.
func NewRedisCacheStore(store shortener.LinkStore, client *redis.Client, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		store:         store,
		client:        client,
		prefix:        "link_cache:",
		versionPrefix: "link_cache_ver:",
		ttl:           ttl,
	}
}

// Put stores the link in the underlying store and updates the cache.
func (r *RedisCacheStore) Put(ctx context.Context, link shortener.Link) error {
	if err := r.store.Put(ctx, link); err != nil {
		return err
	}

	// Write-through; a failed cache write only costs a later miss.
	_, _ = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.bump(ctx, pipe, link.Code)
		pipe.Set(ctx, r.key(link.Code), link.URL, r.ttl)

		return nil
	})

	return nil
}

// Get checks the cache first and populates it on a miss.
func (r *RedisCacheStore) Get(ctx context.Context, code shortener.Code) (string, error) {
	if url, err := r.client.Get(ctx, r.key(code)).Result(); err == nil {
		return url, nil
	}

	version, verErr := r.version(ctx, r.client, code)

	url, err := r.store.Get(ctx, code)
	if err != nil {
		return "", err
	}

	if verErr == nil {
		r.fill(ctx, code, url, version)
	}

	return url, nil
}

func (r *RedisCacheStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(code)).Result()
	if err == nil && n > 0 {
		return true, nil
	}

	return r.store.Exists(ctx, code)
}

// Delete removes the primary entry first, then bumps the version and drops
// the cache entry in one transaction. It fails if the cache cannot be
// invalidated, so a deleted code never resolves.
func (r *RedisCacheStore) Delete(ctx context.Context, code shortener.Code) error {
	if err := r.store.Delete(ctx, code); err != nil {
		return err
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.bump(ctx, pipe, code)
		pipe.Del(ctx, r.key(code))

		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return unavailable("store.RedisCacheStore.Delete", err)
	}

	return nil
}

func (r *RedisCacheStore) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx)
}

// fill caches url unless the code was written since version was read.
// Losing the race just leaves a miss for the next reader.
func (r *RedisCacheStore) fill(ctx context.Context, code shortener.Code, url, version string) {
	verKey := r.versionKey(code)

	_ = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.version(ctx, tx, code)
		if err != nil || current != version {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(code), url, r.ttl)

			return nil
		})

		return err
	}, verKey)
}

// bump invalidates in-flight fills. The version outlives any cached value.
func (r *RedisCacheStore) bump(ctx context.Context, pipe redis.Pipeliner, code shortener.Code) {
	pipe.Incr(ctx, r.versionKey(code))
	pipe.Expire(ctx, r.versionKey(code), r.ttl+time.Minute)
}

func (r *RedisCacheStore) version(ctx context.Context, c getter, code shortener.Code) (string, error) {
	v, err := c.Get(ctx, r.versionKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}

	return v, err
}

func (r *RedisCacheStore) key(code shortener.Code) string {
	return r.prefix + string(code)
}

func (r *RedisCacheStore) versionKey(code shortener.Code) string {
	return r.versionPrefix + string(code)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Compile-time check.
var _ shortener.LinkStore = (*RedisCacheStore)(nil)
