package repair

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlinks/internal/messaging"
	"github.com/serroba/shortlinks/internal/shortener"
)

// Publisher schedules history repairs by publishing them as events.
type Publisher struct {
	restore messaging.Publish[RestoreEvent]
	prune   messaging.Publish[PruneEvent]
}

// NewPublisher creates a repair publisher on top of a message publisher.
func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{
		restore: messaging.NewPublishFunc[RestoreEvent](publisher, TopicHistoryRestore),
		prune:   messaging.NewPublishFunc[PruneEvent](publisher, TopicHistoryPrune),
	}
}

func (p *Publisher) RestoreRecord(ctx context.Context, rec shortener.HistoryRecord) error {
	return p.restore(ctx, &RestoreEvent{
		Code:      string(rec.Code),
		URL:       rec.URL,
		CreatedAt: rec.CreatedAt,
	})
}

func (p *Publisher) PruneCode(ctx context.Context, code shortener.Code) error {
	return p.prune(ctx, &PruneEvent{Code: string(code)})
}

// Compile-time check.
var _ shortener.HistoryRepairer = (*Publisher)(nil)
