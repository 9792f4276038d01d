package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// HoursStatus classifies a teacher's weekly load
type HoursStatus string

const (
	HoursOK        HoursStatus = "ok"
	HoursNearLimit HoursStatus = "near-limit"
	HoursOverLimit HoursStatus = "over-limit"
)

// TeacherHoursRow is one teacher's weekly load
type TeacherHoursRow struct {
	Teacher     model.TeacherID
	Hours       float64
	Classes     int
	Status      HoursStatus
	Locked      bool
	Unavailable bool
}

// ClassifyHours returns over-limit above the hard cap, near-limit at or above
// the soft threshold, and ok otherwise
func ClassifyHours(policy allocator.Policy, hours float64) HoursStatus {
	switch {
	case hours > policy.HardCapHours:
		return HoursOverLimit
	case hours >= policy.SoftWarnHours:
		return HoursNearLimit
	}
	return HoursOK
}

// HoursReport builds the per-teacher load of a schedule, sorted by teacher
func HoursReport(policy allocator.Policy, schedule model.Snapshot, locks *model.LockSet, unavailable []model.TeacherID) []TeacherHoursRow {
	unavailableSet := make(map[model.TeacherID]bool, len(unavailable))
	for _, t := range unavailable {
		unavailableSet[t] = true
	}

	entries := allocator.LedgerFromSnapshot(schedule).Entries()
	rows := make([]TeacherHoursRow, len(entries))
	for i, entry := range entries {
		rows[i] = TeacherHoursRow{
			Teacher:     entry.Teacher,
			Hours:       entry.Hours,
			Classes:     entry.Classes,
			Status:      ClassifyHours(policy, entry.Hours),
			Locked:      locks.IsTeacherLocked(entry.Teacher),
			Unavailable: unavailableSet[entry.Teacher],
		}
	}
	return rows
}

// TeacherHours loads the current schedule and reports every teacher's load
func TeacherHours(ctx context.Context, store db.SessionStore, policy allocator.Policy, logger *zap.Logger) ([]TeacherHoursRow, error) {
	session, err := db.LoadOrCreateSession(ctx, store)
	if err != nil {
		return nil, err
	}

	rows := HoursReport(policy, session.Schedule, session.Locks, session.Unavailable)
	logger.Debug("Computed teacher hours", zap.Int("teachers", len(rows)))
	return rows, nil
}
