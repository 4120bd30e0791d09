package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowMemoryStore_SweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewWindowMemoryStore()
	s.clock = func() time.Time { return now }

	for i := range sweepEvery - 1 {
		_, err := s.Record(context.Background(), fmt.Sprintf("client-%d", i), time.Minute)
		require.NoError(t, err)
	}

	require.Len(t, s.keys, sweepEvery-1)

	now = now.Add(2 * time.Minute)

	got, err := s.Record(context.Background(), "client-0", time.Minute)

	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
	assert.Len(t, s.keys, 1)
}

func TestWindowMemoryStore_SweepKeepsActiveKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewWindowMemoryStore()
	s.clock = func() time.Time { return now }

	_, err := s.Record(context.Background(), "long", time.Hour)
	require.NoError(t, err)

	for range sweepEvery - 2 {
		_, err = s.Record(context.Background(), "short", time.Second)
		require.NoError(t, err)
	}

	now = now.Add(time.Minute)

	_, err = s.Record(context.Background(), "other", time.Second)
	require.NoError(t, err)

	assert.Contains(t, s.keys, "long")
	assert.NotContains(t, s.keys, "short")
	assert.Contains(t, s.keys, "other")
}
