package repair

import (
	"time"

	"github.com/serroba/shortlinks/internal/shortener"
)

const (
	// TopicHistoryRestore carries RestoreEvent, published when a history append fails.
	TopicHistoryRestore = "history.restore"
	// TopicHistoryPrune carries PruneEvent, published when a history removal fails.
	TopicHistoryPrune = "history.prune"
)

// RestoreEvent asks for a record to be put back into the history log after
// an append failed.
type RestoreEvent struct {
	Code      string    `json:"code"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// PruneEvent asks for every record of a deleted code to be dropped from the
// history log after a remove failed.
type PruneEvent struct {
	Code string `json:"code"`
}

func (e *RestoreEvent) record() shortener.HistoryRecord {
	return shortener.HistoryRecord{
		Code:      shortener.Code(e.Code),
		URL:       e.URL,
		CreatedAt: e.CreatedAt,
	}
}
