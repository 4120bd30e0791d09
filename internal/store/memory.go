package store

import (
	"context"
	"sync"

	"github.com/serroba/shortlinks/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.LinkStore.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[shortener.Code]string
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[shortener.Code]string),
	}
}

func (m *MemoryStore) Put(_ context.Context, link shortener.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links[link.Code] = link.URL

	return nil
}

func (m *MemoryStore) Get(_ context.Context, code shortener.Code) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.links[code]
	if !ok {
		return "", shortener.ErrNotFound
	}

	return url, nil
}

func (m *MemoryStore) Exists(_ context.Context, code shortener.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.links[code]

	return ok, nil
}

func (m *MemoryStore) Delete(_ context.Context, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.links, code)

	return nil
}

func (m *MemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.links)), nil
}

// Compile-time check.
var _ shortener.LinkStore = (*MemoryStore)(nil)
