package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// HistoryResult is the schedule after a history move
type HistoryResult struct {
	Schedule model.Snapshot

	// Moved is false when there was nothing to undo or redo
	Moved   bool
	CanUndo bool
	CanRedo bool
}

// Undo restores the previous committed schedule. At the oldest snapshot it is a no-op.
func Undo(ctx context.Context, store db.SessionStore, logger *zap.Logger) (*HistoryResult, error) {
	return moveHistory(ctx, store, logger, "undo")
}

// Redo re-applies the next schedule after an undo. At the newest snapshot it is a no-op.
func Redo(ctx context.Context, store db.SessionStore, logger *zap.Logger) (*HistoryResult, error) {
	return moveHistory(ctx, store, logger, "redo")
}

func moveHistory(ctx context.Context, store db.SessionStore, logger *zap.Logger, direction string) (*HistoryResult, error) {
	working, err := openSession(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	var (
		snapshot model.Snapshot
		moved    bool
	)
	if direction == "undo" {
		snapshot, moved = working.stack.Undo()
	} else {
		snapshot, moved = working.stack.Redo()
	}

	if !moved {
		logger.Info("Nothing to "+direction, zap.Int("history_index", working.stack.Index()))
	} else {
		working.restore(snapshot)
		if err := working.save(ctx, store, logger); err != nil {
			return nil, err
		}
		logger.Info("History moved",
			zap.String("direction", direction),
			zap.Int("history_index", working.stack.Index()),
			zap.Int("classes", len(snapshot)))
	}

	return &HistoryResult{
		Schedule: working.session.Schedule.Clone(),
		Moved:    moved,
		CanUndo:  working.stack.CanUndo(),
		CanRedo:  working.stack.CanRedo(),
	}, nil
}

// ClearSchedule empties the schedule and every lock. The cleared schedule is
// recorded in history so it can be undone.
func ClearSchedule(ctx context.Context, store db.SessionStore, logger *zap.Logger) (int, error) {
	working, err := openSession(ctx, store, logger)
	if err != nil {
		return 0, err
	}

	removed := len(working.session.Schedule)
	working.session.Locks = model.NewLockSet()
	working.commit(model.Snapshot{}, logger)

	if err := working.save(ctx, store, logger); err != nil {
		return 0, err
	}

	logger.Info("Schedule cleared", zap.Int("removed", removed))
	return removed, nil
}
