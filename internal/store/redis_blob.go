package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const defaultBlobRetries = 16

// RedisBlob stores a single value under one key and updates it with
// optimistic WATCH/MULTI/EXEC transactions.
type RedisBlob struct {
	client     *redis.Client
	key        string
	maxRetries int
}

// NewRedisBlob creates a Redis-backed blob stored under key.
func NewRedisBlob(client *redis.Client, key string) *RedisBlob {
	return &RedisBlob{
		client:     client,
		key:        key,
		maxRetries: defaultBlobRetries,
	}
}

func (b *RedisBlob) Load(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, unavailable("store.RedisBlob.Load", err)
	}

	return data, nil
}

// Update retries when another client modified the key between read and write.
func (b *RedisBlob) Update(ctx context.Context, fn func(current []byte) ([]byte, error)) error {
	const op = "store.RedisBlob.Update"

	var fnErr error

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, b.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			fnErr = err

			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, b.key, next, 0)

			return nil
		})

		return err
	}

	for range b.maxRetries {
		err := b.client.Watch(ctx, txf, b.key)
		if err == nil {
			return nil
		}

		if fnErr != nil {
			return fnErr
		}

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return unavailable(op, err)
	}

	return unavailable(op, errContention)
}
