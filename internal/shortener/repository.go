package shortener

import "context"

// LinkStore holds the code -> url mapping used for redirects and key checks.
// Put overwrites silently and Delete is idempotent; uniqueness is upheld by
// KeyGenerator, not by the store.
type LinkStore interface {
	Put(ctx context.Context, link Link) error
	// Get returns ErrNotFound when the code has no mapping.
	Get(ctx context.Context, code Code) (string, error)
	Exists(ctx context.Context, code Code) (bool, error)
	Delete(ctx context.Context, code Code) error
	Count(ctx context.Context) (int64, error)
}

// HistoryLog is the bounded, newest-first audit log of created links.
type HistoryLog interface {
	Append(ctx context.Context, rec HistoryRecord) error
	List(ctx context.Context) ([]HistoryRecord, error)
	Remove(ctx context.Context, code Code) error
}

// HistoryRepairer schedules a retry of a history update that failed after the
// link store had already been changed.
type HistoryRepairer interface {
	RestoreRecord(ctx context.Context, rec HistoryRecord) error
	PruneCode(ctx context.Context, code Code) error
}
