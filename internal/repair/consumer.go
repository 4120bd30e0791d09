package repair

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlinks/internal/messaging"
	"github.com/serroba/shortlinks/internal/shortener"
	"go.uber.org/zap"
)

// HistoryStore is the part of the history log that repairs are applied to.
type HistoryStore interface {
	Restore(ctx context.Context, rec shortener.HistoryRecord) error
	Remove(ctx context.Context, code shortener.Code) error
}

// LinkChecker tells whether a code is still live in the link store.
type LinkChecker interface {
	Exists(ctx context.Context, code shortener.Code) (bool, error)
}

// NewRestoreHandler re-inserts records whose append failed. A record whose
// link has been deleted since is skipped so a restore never resurrects it.
func NewRestoreHandler(history HistoryStore, links LinkChecker, logger *zap.Logger) messaging.Handler[RestoreEvent] {
	return func(ctx context.Context, event *RestoreEvent) error {
		rec := event.record()
		if !shortener.ValidCode(string(rec.Code)) {
			logger.Warn("ignoring restore for malformed code", zap.String("code", event.Code))

			return nil
		}

		live, err := links.Exists(ctx, rec.Code)
		if err != nil {
			return err
		}

		if !live {
			logger.Info("skipping restore of deleted link", zap.String("code", event.Code))

			return nil
		}

		if err = history.Restore(ctx, rec); err != nil {
			return err
		}

		logger.Info("restored history record", zap.String("code", event.Code))

		return nil
	}
}

// NewPruneHandler drops history records of deleted codes.
func NewPruneHandler(history HistoryStore, logger *zap.Logger) messaging.Handler[PruneEvent] {
	return func(ctx context.Context, event *PruneEvent) error {
		if err := history.Remove(ctx, shortener.Code(event.Code)); err != nil {
			return err
		}

		logger.Info("pruned history records", zap.String("code", event.Code))

		return nil
	}
}

// NewConsumerGroup wires both repair topics onto subscriber.
func NewConsumerGroup(
	subscriber message.Subscriber,
	history HistoryStore,
	links LinkChecker,
	logger *zap.Logger,
) *messaging.ConsumerGroup {
	group := messaging.NewConsumerGroup(subscriber, logger)
	group.Add(messaging.NewConsumer(subscriber, TopicHistoryRestore, NewRestoreHandler(history, links, logger), logger))
	group.Add(messaging.NewConsumer(subscriber, TopicHistoryPrune, NewPruneHandler(history, logger), logger))

	return group
}
