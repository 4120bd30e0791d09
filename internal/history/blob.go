package history

import (
	"context"
	"sync"
)

// Blob is a single named value that supports atomic read-modify-write.
//
// Update must run fn against the current value and persist its result without
// any other writer interleaving. A nil current value means the blob does not
// exist yet.
type Blob interface {
	Load(ctx context.Context) ([]byte, error)
	Update(ctx context.Context, fn func(current []byte) ([]byte, error)) error
}

// MemoryBlob is an in-process Blob guarded by a mutex.
type MemoryBlob struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryBlob creates an empty in-memory blob.
func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{}
}

func (b *MemoryBlob) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return nil, nil
	}

	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBlob) Update(_ context.Context, fn func(current []byte) ([]byte, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var current []byte
	if b.data != nil {
		current = append([]byte(nil), b.data...)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	b.data = next

	return nil
}

// Set replaces the stored value. It bypasses Update and exists for seeding.
func (b *MemoryBlob) Set(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append([]byte(nil), data...)
}
