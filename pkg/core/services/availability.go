package services

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// SetAvailability marks a teacher available or unavailable for new classes.
// Returns the unavailable teachers afterwards, sorted.
func SetAvailability(ctx context.Context, store db.SessionStore, logger *zap.Logger, teacher model.TeacherID, available bool) ([]model.TeacherID, error) {
	if !teacher.IsAssigned() {
		return nil, fmt.Errorf("teacher name is required")
	}

	working, err := openSession(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	working.session.SetAvailability(teacher, available)
	if err := working.save(ctx, store, logger); err != nil {
		return nil, err
	}

	logger.Info("Availability updated", zap.String("teacher", teacher.String()), zap.Bool("available", available))
	return sortedTeachers(working.session.Unavailable), nil
}

// ListUnavailable returns the teachers marked unavailable, sorted
func ListUnavailable(ctx context.Context, store db.SessionStore, logger *zap.Logger) ([]model.TeacherID, error) {
	session, err := db.LoadOrCreateSession(ctx, store)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded availability", zap.Int("unavailable", len(session.Unavailable)))
	return sortedTeachers(session.Unavailable), nil
}

func sortedTeachers(teachers []model.TeacherID) []model.TeacherID {
	out := slices.Clone(teachers)
	if out == nil {
		out = []model.TeacherID{}
	}
	slices.Sort(out)
	return out
}
