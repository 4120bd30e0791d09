package shortener_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/shortlinks/internal/shortener"
)

var errMock = errors.New("mock error")

// mockLinks is a LinkStore that can be configured to fail.
type mockLinks struct {
	shortener.LinkStore
	putErr    error
	getErr    error
	existsErr error
	deleteErr error
	taken     map[shortener.Code]bool
}

func (m *mockLinks) Put(ctx context.Context, link shortener.Link) error {
	if m.putErr != nil {
		return m.putErr
	}

	return m.LinkStore.Put(ctx, link)
}

func (m *mockLinks) Get(ctx context.Context, code shortener.Code) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}

	return m.LinkStore.Get(ctx, code)
}

func (m *mockLinks) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}

	if m.taken[code] {
		return true, nil
	}

	return m.LinkStore.Exists(ctx, code)
}

func (m *mockLinks) Delete(ctx context.Context, code shortener.Code) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}

	return m.LinkStore.Delete(ctx, code)
}

// mockHistory is a HistoryLog that can be configured to fail.
type mockHistory struct {
	shortener.HistoryLog
	appendErr error
	removeErr error
	removed   int
}

func (m *mockHistory) Append(ctx context.Context, rec shortener.HistoryRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}

	return m.HistoryLog.Append(ctx, rec)
}

func (m *mockHistory) Remove(ctx context.Context, code shortener.Code) error {
	m.removed++

	if m.removeErr != nil {
		return m.removeErr
	}

	return m.HistoryLog.Remove(ctx, code)
}

// recordingRepairer captures scheduled repairs.
type recordingRepairer struct {
	mu       sync.Mutex
	restored []shortener.HistoryRecord
	pruned   []shortener.Code
	err      error
}

func (r *recordingRepairer) RestoreRecord(_ context.Context, rec shortener.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.restored = append(r.restored, rec)

	return r.err
}

func (r *recordingRepairer) PruneCode(_ context.Context, code shortener.Code) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruned = append(r.pruned, code)

	return r.err
}

// sequence returns a CodeSource that yields codes in order, then repeats the last.
func sequence(codes ...string) shortener.CodeSource {
	var (
		mu sync.Mutex
		i  int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		c := codes[min(i, len(codes)-1)]
		i++

		return c
	}
}
