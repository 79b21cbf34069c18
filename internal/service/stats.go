package service

import (
	"context"

	"go.uber.org/zap"

	"memotrain/internal/domain/entities"
)

// StatsTracker records quiz outcomes onto items. The in-memory item is
// the source of truth for the rest of the session; the repository write
// is best-effort and happens in the background.
type StatsTracker struct {
	items  ItemRepository
	logger *zap.Logger
}

// NewStatsTracker creates a StatsTracker.
func NewStatsTracker(items ItemRepository, logger *zap.Logger) *StatsTracker {
	return &StatsTracker{items: items, logger: logger}
}

// RecordOutcome bumps the item's lifetime counters synchronously and
// persists the item without blocking the caller. A failed write is
// logged and dropped; the session keeps running on its in-memory view.
func (t *StatsTracker) RecordOutcome(ctx context.Context, item *entities.MemoryItem, wasCorrect bool) {
	if item == nil {
		return
	}

	if wasCorrect {
		item.Stats.Correct++
	} else {
		item.Stats.Incorrect++
	}

	snapshot := *item
	go func() {
		if err := t.items.PutItem(context.WithoutCancel(ctx), &snapshot); err != nil {
			t.logger.Error("failed to persist item stats",
				zap.String("item_id", snapshot.ID),
				zap.Error(err),
			)
		}
	}()
}
