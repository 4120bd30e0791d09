package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/serroba/shortlinks/internal/history"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisBlob(t *testing.T) {
	ctx := context.Background()

	t.Run("load missing key returns nil", func(t *testing.T) {
		_, client := newRedis(t)
		b := store.NewRedisBlob(client, history.BlobName)

		data, err := b.Load(ctx)

		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("update sees current value", func(t *testing.T) {
		mr, client := newRedis(t)
		b := store.NewRedisBlob(client, history.BlobName)
		mr.Set(history.BlobName, "one")

		err := b.Update(ctx, func(current []byte) ([]byte, error) {
			return append(current, "-two"...), nil
		})
		require.NoError(t, err)

		data, _ := b.Load(ctx)
		assert.Equal(t, "one-two", string(data))
	})

	t.Run("update returns fn error without writing", func(t *testing.T) {
		mr, client := newRedis(t)
		b := store.NewRedisBlob(client, history.BlobName)
		mr.Set(history.BlobName, "keep")
		fnErr := errors.New("boom")

		err := b.Update(ctx, func(_ []byte) ([]byte, error) { return nil, fnErr })

		require.ErrorIs(t, err, fnErr)

		raw, _ := mr.Get(history.BlobName)
		assert.Equal(t, "keep", raw)
	})

	t.Run("backend failure is StorageUnavailable", func(t *testing.T) {
		mr, client := newRedis(t)
		b := store.NewRedisBlob(client, history.BlobName)
		mr.SetError("LOADING")

		_, err := b.Load(ctx)
		require.ErrorIs(t, err, shortener.ErrStorageUnavailable)

		err = b.Update(ctx, func(current []byte) ([]byte, error) { return current, nil })
		require.ErrorIs(t, err, shortener.ErrStorageUnavailable)
	})

	t.Run("history log keeps every concurrent append", func(t *testing.T) {
		_, client := newRedis(t)
		log := history.NewLog(store.NewRedisBlob(client, history.BlobName), history.DefaultCapacity, zap.NewNop())
		now := time.Now().UTC()

		var wg sync.WaitGroup

		for i := range 8 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				rec := shortener.HistoryRecord{
					Code:      shortener.Code(fmt.Sprintf("cc%04d", i)),
					URL:       "https://example.com",
					CreatedAt: now,
				}
				assert.NoError(t, log.Append(ctx, rec))
			}()
		}

		wg.Wait()

		records, err := log.List(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 8)
	})
}
