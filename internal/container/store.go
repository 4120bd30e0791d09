package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/history"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/store"
	"go.uber.org/zap"
)

// StorePackage provides the link store and the history log for the configured backend.
func StorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.LinkStore, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case BackendRedis:
			return store.NewRedisStore(do.MustInvoke[*RedisConn](i).Client), nil
		case BackendPostgres:
			ttl, err := opts.cacheTTL()
			if err != nil {
				return nil, err
			}

			primary := store.NewPostgresStore(do.MustInvoke[*PostgresConn](i).Pool)

			return store.NewRedisCacheStore(primary, do.MustInvoke[*RedisConn](i).Client, ttl), nil
		default:
			return store.NewMemoryStore(), nil
		}
	})

	do.Provide(i, func(i *do.Injector) (history.Blob, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case BackendRedis:
			return store.NewRedisBlob(do.MustInvoke[*RedisConn](i).Client, history.BlobName), nil
		case BackendPostgres:
			return store.NewPostgresBlob(do.MustInvoke[*PostgresConn](i).Pool, history.BlobName), nil
		default:
			return history.NewMemoryBlob(), nil
		}
	})

	do.Provide(i, func(i *do.Injector) (*history.Log, error) {
		opts := do.MustInvoke[*Options](i)

		return history.NewLog(
			do.MustInvoke[history.Blob](i),
			opts.HistoryCapacity,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}
