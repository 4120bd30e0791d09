package shortener

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shortener runs the create flow: generate a code, persist the mapping, record history.
type Shortener struct {
	keys    *KeyGenerator
	links   LinkStore
	history HistoryLog
	repair  HistoryRepairer
	now     func() time.Time
	logger  *zap.Logger
}

// NewShortener creates the create-flow service.
func NewShortener(
	keys *KeyGenerator,
	links LinkStore,
	history HistoryLog,
	repair HistoryRepairer,
	logger *zap.Logger,
) *Shortener {
	return &Shortener{
		keys:    keys,
		links:   links,
		history: history,
		repair:  repair,
		now:     time.Now,
		logger:  logger,
	}
}

// Shorten maps url to a fresh code. The url must already be validated.
//
// A failure to persist the mapping aborts the operation. A failure to record
// history does not: the link stays resolvable and a repair is scheduled.
func (s *Shortener) Shorten(ctx context.Context, url string) (*HistoryRecord, error) {
	code, err := s.keys.Generate(ctx)
	if err != nil {
		return nil, err
	}

	if err = s.links.Put(ctx, Link{Code: code, URL: url}); err != nil {
		return nil, err
	}

	rec := HistoryRecord{
		Code:      code,
		URL:       url,
		CreatedAt: s.now().UTC(),
	}

	if err = s.history.Append(ctx, rec); err != nil {
		s.logger.Warn("history append failed, scheduling repair",
			zap.String("code", string(code)),
			zap.Error(err),
		)

		if rerr := s.repair.RestoreRecord(ctx, rec); rerr != nil {
			s.logger.Error("failed to schedule history repair",
				zap.String("code", string(code)),
				zap.Error(rerr),
			)
		}
	}

	return &rec, nil
}
