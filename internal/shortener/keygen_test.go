package shortener_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[0-9a-z]{6}$`)

func TestNewCodeSource(t *testing.T) {
	next, err := shortener.NewCodeSource()
	require.NoError(t, err)

	seen := make(map[string]struct{})

	for range 1000 {
		code := next()
		assert.Regexp(t, codePattern, code)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 990)
}

func TestKeyGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first unused candidate", func(t *testing.T) {
		links := store.NewMemoryStore()
		gen := shortener.NewKeyGenerator(links, sequence("aaaaaa"), 3)

		code, err := gen.Generate(ctx)

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("aaaaaa"), code)
	})

	t.Run("retries on collision", func(t *testing.T) {
		links := store.NewMemoryStore()
		_ = links.Put(ctx, shortener.Link{Code: "aaaaaa", URL: "https://example.com"})
		_ = links.Put(ctx, shortener.Link{Code: "bbbbbb", URL: "https://example.com"})
		gen := shortener.NewKeyGenerator(links, sequence("aaaaaa", "bbbbbb", "cccccc"), 3)

		code, err := gen.Generate(ctx)

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("cccccc"), code)
	})

	t.Run("fails with ErrKeySpaceExhausted after max attempts", func(t *testing.T) {
		links := store.NewMemoryStore()
		_ = links.Put(ctx, shortener.Link{Code: "aaaaaa", URL: "https://example.com"})
		gen := shortener.NewKeyGenerator(links, sequence("aaaaaa"), 4)

		code, err := gen.Generate(ctx)

		assert.Empty(t, code)
		assert.ErrorIs(t, err, shortener.ErrKeySpaceExhausted)
	})

	t.Run("defaults max attempts", func(t *testing.T) {
		links := &mockLinks{LinkStore: store.NewMemoryStore(), taken: map[shortener.Code]bool{}}
		codes := make([]string, 0, shortener.DefaultMaxAttempts)

		for i := range shortener.DefaultMaxAttempts {
			c := string([]byte{'a', 'a', 'a', 'a', 'a', byte('a' + i)})
			codes = append(codes, c)
			links.taken[shortener.Code(c)] = true
		}

		gen := shortener.NewKeyGenerator(links, sequence(append(codes, "zzzzzz")...), 0)

		_, err := gen.Generate(ctx)

		assert.ErrorIs(t, err, shortener.ErrKeySpaceExhausted)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		links := &mockLinks{LinkStore: store.NewMemoryStore(), existsErr: errMock}
		gen := shortener.NewKeyGenerator(links, sequence("aaaaaa"), 3)

		_, err := gen.Generate(ctx)

		assert.ErrorIs(t, err, errMock)
	})
}

func TestValidCode(t *testing.T) {
	assert.True(t, shortener.ValidCode("abc123"))
	assert.True(t, shortener.ValidCode("000000"))
	assert.False(t, shortener.ValidCode("ABC123"))
	assert.False(t, shortener.ValidCode("abc12"))
	assert.False(t, shortener.ValidCode("abc1234"))
	assert.False(t, shortener.ValidCode("abc-12"))
	assert.False(t, shortener.ValidCode(""))
}
