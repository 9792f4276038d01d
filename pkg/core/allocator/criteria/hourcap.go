package criteria

import (
	"fmt"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// HourCapCriterion keeps every teacher at or below a weekly hour limit.
//
// Validity:
//   - Candidates are always valid
//   - A teacher is invalid if the class would take them above the cap
//
// Validation:
//   - Reports each teacher whose scheduled hours exceed the cap
type HourCapCriterion struct {
	capHours float64
}

// NewHourCapCriterion creates a criterion with the given cap in hours.
// Pass the policy's soft threshold to keep generated schedules clear of warnings.
func NewHourCapCriterion(capHours float64) *HourCapCriterion {
	return &HourCapCriterion{capHours: capHours}
}

func (c *HourCapCriterion) Name() string {
	return "HourCap"
}

func (c *HourCapCriterion) IsCandidateValid(state *allocator.ScheduleState, candidate allocator.Candidate) bool {
	return true
}

func (c *HourCapCriterion) IsTeacherValid(state *allocator.ScheduleState, candidate allocator.Candidate, teacher model.TeacherID, duration float64) bool {
	return state.Ledger.Projected(teacher, duration) <= c.capHours
}

func (c *HourCapCriterion) ValidateScheduleState(state *allocator.ScheduleState) []allocator.ScheduleValidationError {
	errors := []allocator.ScheduleValidationError{}

	for _, entry := range allocator.LedgerFromSnapshot(state.Schedule).Entries() {
		if entry.Hours <= c.capHours {
			continue
		}
		errors = append(errors, allocator.ScheduleValidationError{
			Teacher:       entry.Teacher,
			CriterionName: c.Name(),
			Description:   fmt.Sprintf("%s: %.1fh exceeds %.1fh", entry.Teacher, entry.Hours, c.capHours),
		})
	}

	return errors
}
