package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// LockTarget selects what a lock toggle applies to
type LockTarget string

const (
	LockClasses  LockTarget = "classes"
	LockTeachers LockTarget = "teachers"
)

// ParseLockTarget accepts "classes" or "teachers"
func ParseLockTarget(s string) (LockTarget, error) {
	switch LockTarget(s) {
	case LockClasses, LockTeachers:
		return LockTarget(s), nil
	}
	return "", fmt.Errorf("unknown lock target %q, expected %q or %q", s, LockClasses, LockTeachers)
}

// LockResult summarises the lock set after a toggle
type LockResult struct {
	LockedClasses  int
	LockedTeachers int
	// Protected is how many classes of the current schedule the next optimiser run keeps
	Protected int
}

// SetAllLocks locks or unlocks every class or every teacher of the current schedule
func SetAllLocks(ctx context.Context, store db.SessionStore, logger *zap.Logger, target LockTarget, locked bool) (*LockResult, error) {
	working, err := openSession(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	session := working.session

	switch {
	case target == LockClasses && locked:
		session.Locks.LockAllClasses(session.Schedule)
	case target == LockClasses:
		session.Locks.UnlockAllClasses()
	case target == LockTeachers && locked:
		session.Locks.LockAllTeachers(session.Schedule)
	case target == LockTeachers:
		session.Locks.UnlockAllTeachers()
	default:
		return nil, fmt.Errorf("unknown lock target %q", target)
	}

	if err := working.save(ctx, store, logger); err != nil {
		return nil, err
	}

	result := lockSummary(session)
	logger.Info("Locks updated",
		zap.String("target", string(target)),
		zap.Bool("locked", locked),
		zap.Int("locked_classes", result.LockedClasses),
		zap.Int("locked_teachers", result.LockedTeachers))
	return result, nil
}

// SetClassLock locks or unlocks one class of the current schedule
func SetClassLock(ctx context.Context, store db.SessionStore, logger *zap.Logger, id string, locked bool) (*LockResult, error) {
	working, err := openSession(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	session := working.session

	if _, found := session.Schedule.Find(id); !found {
		return nil, fmt.Errorf("lock %s: %w", id, ErrClassNotFound)
	}

	if locked {
		session.Locks.LockClass(id)
	} else {
		session.Locks.UnlockClass(id)
	}

	if err := working.save(ctx, store, logger); err != nil {
		return nil, err
	}

	logger.Info("Class lock updated", zap.String("id", id), zap.Bool("locked", locked))
	return lockSummary(session), nil
}

// SetTeacherLock locks or unlocks one teacher. A locked teacher keeps their
// classes across optimiser runs and receives no new ones.
func SetTeacherLock(ctx context.Context, store db.SessionStore, logger *zap.Logger, teacher model.TeacherID, locked bool) (*LockResult, error) {
	if !teacher.IsAssigned() {
		return nil, fmt.Errorf("teacher name is required")
	}

	working, err := openSession(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	session := working.session

	if locked {
		session.Locks.LockTeacher(teacher)
	} else {
		session.Locks.UnlockTeacher(teacher)
	}

	if err := working.save(ctx, store, logger); err != nil {
		return nil, err
	}

	logger.Info("Teacher lock updated", zap.String("teacher", teacher.String()), zap.Bool("locked", locked))
	return lockSummary(session), nil
}

func lockSummary(session *db.Session) *LockResult {
	return &LockResult{
		LockedClasses:  len(session.Locks.Classes),
		LockedTeachers: len(session.Locks.Teachers),
		Protected:      session.Locks.LockedClassCount(session.Schedule),
	}
}
