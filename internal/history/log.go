package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/serroba/shortlinks/internal/shortener"
	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the high-water mark of the log.
	DefaultCapacity = 500
	// BlobName is the well-known name the serialized log is stored under.
	BlobName = "link_history"
)

// Log is a bounded, newest-first HistoryLog persisted as one JSON array.
// Every mutation goes through Blob.Update, so concurrent writers do not lose
// each other's records.
type Log struct {
	blob     Blob
	capacity int
	logger   *zap.Logger
}

// NewLog creates a history log over blob keeping at most capacity records.
func NewLog(blob Blob, capacity int, logger *zap.Logger) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Log{
		blob:     blob,
		capacity: capacity,
		logger:   logger,
	}
}

// Append inserts rec at the head and evicts the oldest records past capacity.
func (l *Log) Append(ctx context.Context, rec shortener.HistoryRecord) error {
	return l.update(ctx, "history.Log.Append", func(records []shortener.HistoryRecord) []shortener.HistoryRecord {
		next := make([]shortener.HistoryRecord, 0, min(len(records)+1, l.capacity))
		next = append(next, rec)

		return l.truncate(append(next, records...))
	})
}

// List returns the full log, newest first.
func (l *Log) List(ctx context.Context) ([]shortener.HistoryRecord, error) {
	data, err := l.blob.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("history.Log.List: %w", err)
	}

	return l.decode(data), nil
}

// Remove drops every record carrying code.
func (l *Log) Remove(ctx context.Context, code shortener.Code) error {
	return l.update(ctx, "history.Log.Remove", func(records []shortener.HistoryRecord) []shortener.HistoryRecord {
		next := make([]shortener.HistoryRecord, 0, len(records))

		for _, r := range records {
			if r.Code != code {
				next = append(next, r)
			}
		}

		return next
	})
}

// Restore re-inserts rec unless a record with its code is already present.
// The record is placed by CreatedAt so the log stays newest-first; a record
// older than everything in a full log is dropped.
func (l *Log) Restore(ctx context.Context, rec shortener.HistoryRecord) error {
	return l.update(ctx, "history.Log.Restore", func(records []shortener.HistoryRecord) []shortener.HistoryRecord {
		pos := len(records)

		for i, r := range records {
			if r.Code == rec.Code {
				return records
			}

			if pos == len(records) && r.CreatedAt.Before(rec.CreatedAt) {
				pos = i
			}
		}

		next := make([]shortener.HistoryRecord, 0, len(records)+1)
		next = append(next, records[:pos]...)
		next = append(next, rec)
		next = append(next, records[pos:]...)

		return l.truncate(next)
	})
}

func (l *Log) update(
	ctx context.Context,
	op string,
	fn func([]shortener.HistoryRecord) []shortener.HistoryRecord,
) error {
	err := l.blob.Update(ctx, func(current []byte) ([]byte, error) {
		return json.Marshal(fn(l.decode(current)))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// decode treats missing or unparseable content as an empty log.
func (l *Log) decode(data []byte) []shortener.HistoryRecord {
	records := make([]shortener.HistoryRecord, 0)
	if len(data) == 0 {
		return records
	}

	if err := json.Unmarshal(data, &records); err != nil {
		l.logger.Warn("discarding unparseable history", zap.Int("bytes", len(data)), zap.Error(err))

		return make([]shortener.HistoryRecord, 0)
	}

	if records == nil {
		return make([]shortener.HistoryRecord, 0)
	}

	return records
}

func (l *Log) truncate(records []shortener.HistoryRecord) []shortener.HistoryRecord {
	if len(records) > l.capacity {
		return records[:l.capacity]
	}

	return records
}

// Compile-time check.
var _ shortener.HistoryLog = (*Log)(nil)
