package allocator

import (
	"fmt"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// CoreInvariantName is the criterion name reported for built-in rule violations
const CoreInvariantName = "CoreInvariant"

// ValidateScheduleState validates the final schedule against the built-in rules and all
// provided criteria. An empty slice indicates the schedule is valid.
func ValidateScheduleState(state *ScheduleState, criteria []Criterion) []ScheduleValidationError {
	errors := validateCoreInvariants(state)

	for _, criterion := range criteria {
		errors = append(errors, criterion.ValidateScheduleState(state)...)
	}

	return errors
}

// validateCoreInvariants checks that no slot holds two classes. Preserved entries
// booked by hand with multi-booking allowed are reported here too.
func validateCoreInvariants(state *ScheduleState) []ScheduleValidationError {
	errors := []ScheduleValidationError{}

	seen := make(map[model.SlotKey]string)
	for _, class := range state.Schedule {
		slot := class.Slot()
		if first, ok := seen[slot]; ok {
			errors = append(errors, ScheduleValidationError{
				ClassID:       class.ID,
				Slot:          slot,
				Teacher:       class.Teacher,
				CriterionName: CoreInvariantName,
				Description:   fmt.Sprintf("slot %s double-booked by %s and %s", slot, first, class.ID),
			})
			continue
		}
		seen[slot] = class.ID
	}

	return errors
}
