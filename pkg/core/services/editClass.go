package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
	"github.com/jakechorley/studio-scheduler/pkg/loader"
)

// ErrClassNotFound is returned when a class ID is not in the current schedule
var ErrClassNotFound = errors.New("class not found")

var validate = validator.New()

// AddClassRequest describes a manually added class
type AddClassRequest struct {
	Day      model.Weekday `validate:"required"`
	Time     string        `validate:"required"`
	Location string        `validate:"required"`
	Format   string        `validate:"required"`
	Teacher  model.TeacherID
	Private  bool

	// Confirm accepts a soft threshold warning
	Confirm bool

	// AllowMultiBooking places the class even if its slot is taken
	AllowMultiBooking bool
}

// ConflictViolation is a manual add into a slot that already holds a class
type ConflictViolation struct {
	Slot     model.SlotKey
	Occupant string
}

func (c ConflictViolation) String() string {
	return fmt.Sprintf("%s already holds class %s", c.Slot, c.Occupant)
}

// AddClassResult reports what happened to a manual add. Class is nil unless the
// class was added.
type AddClassResult struct {
	Class     *model.ScheduledClass
	Conflict  *ConflictViolation
	Violation *HourCapViolation
	Warning   *HourWarning

	// NeedsConfirmation is set when the add was held back by a soft threshold warning
	NeedsConfirmation bool
}

// AddClass places a class by hand. A slot conflict blocks the add unless multi
// booking is allowed, a teacher pushed above the hard cap always blocks it, and a
// teacher pushed above the soft threshold blocks it until confirmed.
func AddClass(ctx context.Context, store db.SessionStore, policy allocator.Policy, logger *zap.Logger, req AddClassRequest) (*AddClassResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid class: %w", err)
	}
	if req.Day.Index() >= len(model.Weekdays) {
		return nil, fmt.Errorf("invalid class: unknown day %q", req.Day)
	}
	classTime, err := loader.NormaliseTime(req.Time)
	if err != nil {
		return nil, fmt.Errorf("invalid class: %w", err)
	}

	key := model.CandidateKey{Format: req.Format, Day: req.Day, Time: classTime, Location: req.Location}
	logger.Debug("Adding class", zap.String("class", key.String()), zap.String("teacher", req.Teacher.String()))

	working, err := openSession(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	session := working.session

	class := model.NewScheduledClass(uuid.NewString(), key, req.Teacher)
	class.IsPrivate = req.Private

	result := &AddClassResult{}

	if occupant, taken := allocator.NewConflictRegistry(session.Schedule).Occupant(class.Slot()); taken {
		if !req.AllowMultiBooking {
			result.Conflict = &ConflictViolation{Slot: class.Slot(), Occupant: occupant}
			logger.Info("Class not added, slot taken", zap.String("slot", class.Slot().String()), zap.String("occupant", occupant))
			return result, nil
		}
		logger.Warn("Multi-booking slot", zap.String("slot", class.Slot().String()), zap.String("occupant", occupant))
	}

	if class.IsAssigned() {
		if session.IsUnavailable(class.Teacher) {
			logger.Warn("Teacher is marked unavailable", zap.String("teacher", class.Teacher.String()))
		}

		projected := allocator.LedgerFromSnapshot(session.Schedule).Projected(class.Teacher, class.Duration)
		if projected > policy.HardCapHours {
			result.Violation = &HourCapViolation{Teacher: class.Teacher, Hours: projected, Cap: policy.HardCapHours}
			logger.Info("Class not added, hour cap exceeded", zap.String("teacher", class.Teacher.String()), zap.Float64("projected_hours", projected))
			return result, nil
		}
		if projected > policy.SoftWarnHours {
			result.Warning = &HourWarning{Teacher: class.Teacher, Hours: projected, Threshold: policy.SoftWarnHours}
			if !req.Confirm {
				result.NeedsConfirmation = true
				return result, nil
			}
		}
	}

	working.commit(append(session.Schedule.Clone(), class), logger)
	if err := working.save(ctx, store, logger); err != nil {
		return nil, err
	}

	logger.Info("Class added", zap.String("id", class.ID), zap.String("class", key.String()))
	result.Class = &class
	return result, nil
}

// RemoveClass deletes a class from the current schedule
func RemoveClass(ctx context.Context, store db.SessionStore, logger *zap.Logger, id string) (*model.ScheduledClass, error) {
	working, err := openSession(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	session := working.session

	removed, found := session.Schedule.Find(id)
	if !found {
		return nil, fmt.Errorf("remove %s: %w", id, ErrClassNotFound)
	}

	kept := make(model.Snapshot, 0, len(session.Schedule)-1)
	for _, class := range session.Schedule {
		if class.ID != id {
			kept = append(kept, class)
		}
	}

	working.commit(kept, logger)
	if err := working.save(ctx, store, logger); err != nil {
		return nil, err
	}

	logger.Info("Class removed", zap.String("id", id), zap.String("class", removed.Key().String()))
	return &removed, nil
}
