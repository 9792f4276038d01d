package criteria

import (
	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// Default returns the criteria applied to every optimiser run
func Default(policy allocator.Policy, unavailable []model.TeacherID) []allocator.Criterion {
	return []allocator.Criterion{
		NewHourCapCriterion(policy.HardCapHours),
		NewNoDoubleBookingCriterion(),
		NewAvailabilityCriterion(unavailable),
	}
}
