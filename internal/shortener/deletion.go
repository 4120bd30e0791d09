package shortener

import (
	"context"

	"go.uber.org/zap"
)

// DeletionCoordinator removes a link from the LinkStore and then from the HistoryLog.
type DeletionCoordinator struct {
	links   LinkStore
	history HistoryLog
	repair  HistoryRepairer
	logger  *zap.Logger
}

// NewDeletionCoordinator creates a deletion coordinator.
func NewDeletionCoordinator(
	links LinkStore,
	history HistoryLog,
	repair HistoryRepairer,
	logger *zap.Logger,
) *DeletionCoordinator {
	return &DeletionCoordinator{
		links:   links,
		history: history,
		repair:  repair,
		logger:  logger,
	}
}

// Delete is idempotent. It fails only when the LinkStore delete fails; a
// HistoryLog failure leaves a stale record behind and schedules a prune.
func (d *DeletionCoordinator) Delete(ctx context.Context, code Code) error {
	if err := d.links.Delete(ctx, code); err != nil {
		return err
	}

	if err := d.history.Remove(ctx, code); err != nil {
		d.logger.Warn("history remove failed, scheduling prune",
			zap.String("code", string(code)),
			zap.Error(err),
		)

		if rerr := d.repair.PruneCode(ctx, code); rerr != nil {
			d.logger.Error("failed to schedule history prune",
				zap.String("code", string(code)),
				zap.Error(rerr),
			)
		}
	}

	return nil
}
