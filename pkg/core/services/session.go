package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/history"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// workingSession pairs a loaded session with its rebuilt undo/redo stack
type workingSession struct {
	session *db.Session
	stack   *history.Stack
}

func openSession(ctx context.Context, store db.SessionStore, logger *zap.Logger) (*workingSession, error) {
	logger.Debug("Loading session")
	session, err := db.LoadOrCreateSession(ctx, store)
	if err != nil {
		return nil, err
	}
	return newWorkingSession(session)
}

func newWorkingSession(session *db.Session) (*workingSession, error) {
	stack, err := session.Stack()
	if err != nil {
		return nil, fmt.Errorf("failed to restore history: %w", err)
	}

	// The stack holds every committed snapshot including the current one, so a
	// session that predates any history gets its current schedule as the baseline
	if stack.Len() == 0 {
		stack.Push(session.Schedule)
	}

	return &workingSession{session: session, stack: stack}, nil
}

// commit makes the snapshot current, records it in history and drops locks that
// no longer refer to anything
func (w *workingSession) commit(snapshot model.Snapshot, logger *zap.Logger) {
	w.session.Schedule = snapshot.Clone()
	w.stack.Push(snapshot)

	if stale := w.session.Locks.Prune(snapshot); len(stale) > 0 {
		logger.Debug("Pruned stale class locks", zap.Strings("class_ids", stale))
	}
}

// restore makes a snapshot from history current without pushing. Class locks are
// kept so they apply again if a redo brings their classes back.
func (w *workingSession) restore(snapshot model.Snapshot) {
	w.session.Schedule = snapshot.Clone()
}

func (w *workingSession) save(ctx context.Context, store db.SessionStore, logger *zap.Logger) error {
	w.session.SetStack(w.stack)
	w.session.UpdatedAt = time.Now().UTC()

	logger.Debug("Saving session",
		zap.String("session_id", w.session.ID),
		zap.Int("classes", len(w.session.Schedule)),
		zap.Int("history_len", w.stack.Len()),
		zap.Int("history_index", w.stack.Index()))

	if err := store.SaveSession(ctx, w.session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
