package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// ScheduleView is the current schedule as shown to the user
type ScheduleView struct {
	Classes []ViewClass
	Total   int
	CanUndo bool
	CanRedo bool
}

// ViewClass is a scheduled class with its lock state
type ViewClass struct {
	model.ScheduledClass
	Locked bool
}

// ShowSchedule returns the classes of the current schedule that match the filter,
// ordered by day, time and location
func ShowSchedule(ctx context.Context, store db.SessionStore, logger *zap.Logger, filter model.Filter) (*ScheduleView, error) {
	session, err := db.LoadOrCreateSession(ctx, store)
	if err != nil {
		return nil, err
	}
	stack, err := session.Stack()
	if err != nil {
		return nil, err
	}

	matched := filter.Apply(session.Schedule)
	sortBySlot(matched)

	view := &ScheduleView{
		Classes: make([]ViewClass, len(matched)),
		Total:   len(session.Schedule),
		CanUndo: stack.CanUndo(),
		CanRedo: stack.CanRedo(),
	}
	for i, class := range matched {
		view.Classes[i] = ViewClass{ScheduledClass: class, Locked: session.Locks.IsLocked(class)}
	}

	logger.Debug("Loaded schedule view", zap.Int("matched", len(matched)), zap.Int("total", view.Total))
	return view, nil
}
