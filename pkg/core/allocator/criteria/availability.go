package criteria

import (
	"fmt"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// AvailabilityCriterion keeps teachers marked unavailable off new classes.
// Locked classes they already hold are preserved by the optimiser and not reported.
type AvailabilityCriterion struct {
	unavailable map[model.TeacherID]bool
}

func NewAvailabilityCriterion(unavailable []model.TeacherID) *AvailabilityCriterion {
	set := make(map[model.TeacherID]bool, len(unavailable))
	for _, teacher := range unavailable {
		set[teacher] = true
	}
	return &AvailabilityCriterion{unavailable: set}
}

func (c *AvailabilityCriterion) Name() string {
	return "Availability"
}

func (c *AvailabilityCriterion) IsCandidateValid(state *allocator.ScheduleState, candidate allocator.Candidate) bool {
	return true
}

func (c *AvailabilityCriterion) IsTeacherValid(state *allocator.ScheduleState, candidate allocator.Candidate, teacher model.TeacherID, duration float64) bool {
	return !c.unavailable[teacher]
}

func (c *AvailabilityCriterion) ValidateScheduleState(state *allocator.ScheduleState) []allocator.ScheduleValidationError {
	errors := []allocator.ScheduleValidationError{}

	for _, class := range state.Schedule {
		if !c.unavailable[class.Teacher] || state.Locks.IsLocked(class) {
			continue
		}
		errors = append(errors, allocator.ScheduleValidationError{
			ClassID:       class.ID,
			Slot:          class.Slot(),
			Teacher:       class.Teacher,
			CriterionName: c.Name(),
			Description:   fmt.Sprintf("%s is unavailable but assigned to %s", class.Teacher, class.Slot()),
		})
	}

	return errors
}
