package container_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/container"
	"github.com/serroba/shortlinks/internal/history"
	"github.com/serroba/shortlinks/internal/messaging"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOptions(store string) *container.Options {
	return &container.Options{
		Port:            8888,
		Store:           store,
		CacheTTL:        "1h",
		HistoryCapacity: history.DefaultCapacity,
		KeyAttempts:     shortener.DefaultMaxAttempts,
		LogFormat:       "json",
		ReadLimit:       1000,
		WriteLimit:      1000,
		CreateLimit:     100,
		DeleteLimit:     100,
	}
}

func newRouter(t *testing.T, opts *container.Options) (*do.Injector, *chi.Mux) {
	t.Helper()

	injector := container.NewServer(opts)

	t.Cleanup(func() { _ = injector.Shutdown() })

	router := do.MustInvoke[*chi.Mux](injector)
	_ = do.MustInvoke[huma.API](injector)

	return injector, router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func createCode(t *testing.T, router http.Handler, url string) string {
	t.Helper()

	rec := serve(router, http.MethodPost, "/links", `{"url":"`+url+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Code     string `json:"code"`
		ShortURL string `json:"shortUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "http://localhost:8888/"+body.Code, body.ShortURL)

	return body.Code
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, newOptions(container.BackendMemory).Validate())
	assert.NoError(t, newOptions(container.BackendPostgres).Validate())
	assert.Error(t, newOptions("sqlite").Validate())

	opts := newOptions(container.BackendPostgres)
	opts.CacheTTL = "forever"
	assert.Error(t, opts.Validate())
}

func TestConsumerOptionsFromEnv(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(key string) string { return vars[key] }
	}

	t.Run("uses the configured history capacity", func(t *testing.T) {
		opts, err := container.ConsumerOptionsFromEnv(env(map[string]string{
			"HISTORY_BACKEND":  "postgres",
			"HISTORY_CAPACITY": "1000",
			"REDIS_ADDR":       "redis:6379",
		}))

		require.NoError(t, err)
		assert.Equal(t, 1000, opts.HistoryCapacity)
		assert.Equal(t, container.BackendPostgres, opts.Store)
		assert.Equal(t, "redis:6379", opts.RedisAddr)
	})

	t.Run("defaults to the default capacity", func(t *testing.T) {
		opts, err := container.ConsumerOptionsFromEnv(env(nil))

		require.NoError(t, err)
		assert.Equal(t, history.DefaultCapacity, opts.HistoryCapacity)
		assert.Equal(t, container.BackendRedis, opts.Store)
	})

	t.Run("rejects bad values", func(t *testing.T) {
		for _, vars := range []map[string]string{
			{"HISTORY_CAPACITY": "lots"},
			{"HISTORY_CAPACITY": "0"},
			{"HISTORY_BACKEND": "memory"},
			{"HISTORY_BACKEND": "sqlite"},
		} {
			_, err := container.ConsumerOptionsFromEnv(env(vars))

			assert.Error(t, err, vars)
		}
	})
}

func TestServer_MemoryBackend(t *testing.T) {
	_, router := newRouter(t, newOptions(container.BackendMemory))

	code := createCode(t, router, "https://example.com/a?b=c")

	rec := serve(router, http.MethodGet, "/"+code, "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/a?b=c", rec.Header().Get("Location"))

	rec = serve(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodDelete, "/links/"+code, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/"+code, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RateLimitsCreation(t *testing.T) {
	opts := newOptions(container.BackendMemory)
	opts.CreateLimit = 1
	_, router := newRouter(t, opts)

	createCode(t, router, "https://example.com")

	rec := serve(router, http.MethodPost, "/links", `{"url":"https://example.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestServer_TrustProxy(t *testing.T) {
	create := func(router http.Handler, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/links", strings.NewReader(`{"url":"https://example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec.Code
	}

	t.Run("spoofed headers share the peer limit by default", func(t *testing.T) {
		opts := newOptions(container.BackendMemory)
		opts.CreateLimit = 1
		_, router := newRouter(t, opts)

		assert.Equal(t, http.StatusCreated, create(router, "10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, create(router, "10.0.0.2"))
	})

	t.Run("forwarded clients are limited separately behind a trusted proxy", func(t *testing.T) {
		opts := newOptions(container.BackendMemory)
		opts.CreateLimit = 1
		opts.TrustProxy = true
		_, router := newRouter(t, opts)

		assert.Equal(t, http.StatusCreated, create(router, "10.0.0.1"))
		assert.Equal(t, http.StatusCreated, create(router, "10.0.0.2"))
		assert.Equal(t, http.StatusTooManyRequests, create(router, "10.0.0.1"))
	})
}

func TestServer_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := newOptions(container.BackendRedis)
	opts.RedisAddr = mr.Addr()
	_, router := newRouter(t, opts)

	code := createCode(t, router, "https://example.com/redis")

	assert.True(t, mr.Exists("link:"+code))
	assert.True(t, mr.Exists(history.BlobName))

	rec := serve(router, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"links":1`)
}

func TestRepairConsumer_MemoryBackend(t *testing.T) {
	injector, _ := newRouter(t, newOptions(container.BackendMemory))
	ctx := context.Background()

	group := do.MustInvoke[*messaging.ConsumerGroup](injector)
	require.NoError(t, group.Start(ctx))

	links := do.MustInvoke[shortener.LinkStore](injector)
	require.NoError(t, links.Put(ctx, shortener.Link{Code: "abc123", URL: "https://example.com"}))

	repairer := do.MustInvoke[shortener.HistoryRepairer](injector)
	require.NoError(t, repairer.RestoreRecord(ctx, shortener.HistoryRecord{
		Code: "abc123", URL: "https://example.com", CreatedAt: time.Now().UTC(),
	}))

	log := do.MustInvoke[*history.Log](injector)

	assert.Eventually(t, func() bool {
		records, err := log.List(ctx)

		return err == nil && len(records) == 1 && records[0].Code == "abc123"
	}, 2*time.Second, 10*time.Millisecond)
}
