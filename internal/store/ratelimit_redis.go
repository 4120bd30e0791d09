package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// WindowRedisStore keeps one sorted set per key, scored by hit time in
// nanoseconds, so every server instance shares the same window.
type WindowRedisStore struct {
	client *redis.Client
	prefix string
}

// NewWindowRedisStore creates a Redis-backed window store.
func NewWindowRedisStore(client *redis.Client) *WindowRedisStore {
	return &WindowRedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *WindowRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	cutoff := now.Add(-window).UnixNano()
	k := s.prefix + key

	var card *redis.IntCmd

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(cutoff, 10))
		pipe.ZAdd(ctx, k, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
		card = pipe.ZCard(ctx, k)
		pipe.PExpire(ctx, k, window)

		return nil
	})
	if err != nil {
		return 0, unavailable("store.WindowRedisStore.Record", err)
	}

	return card.Val(), nil
}
