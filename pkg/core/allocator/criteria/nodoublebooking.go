package criteria

import (
	"fmt"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// NoDoubleBookingCriterion prevents a teacher from teaching two classes at the same
// day and time, even at different locations.
//
// Validity:
//   - Candidates are always valid
//   - A teacher is invalid if they already teach at that day and time
//
// Validation:
//   - Reports every class that overlaps another class of the same teacher
type NoDoubleBookingCriterion struct{}

func NewNoDoubleBookingCriterion() *NoDoubleBookingCriterion {
	return &NoDoubleBookingCriterion{}
}

func (c *NoDoubleBookingCriterion) Name() string {
	return "NoDoubleBooking"
}

func (c *NoDoubleBookingCriterion) IsCandidateValid(state *allocator.ScheduleState, candidate allocator.Candidate) bool {
	return true
}

func (c *NoDoubleBookingCriterion) IsTeacherValid(state *allocator.ScheduleState, candidate allocator.Candidate, teacher model.TeacherID, duration float64) bool {
	for _, class := range state.Schedule {
		if class.Teacher == teacher && class.Day == candidate.Key.Day && class.Time == candidate.Key.Time {
			return false
		}
	}
	return true
}

type teacherTime struct {
	teacher model.TeacherID
	day     model.Weekday
	time    string
}

func (c *NoDoubleBookingCriterion) ValidateScheduleState(state *allocator.ScheduleState) []allocator.ScheduleValidationError {
	errors := []allocator.ScheduleValidationError{}
	seen := make(map[teacherTime]model.ScheduledClass)

	for _, class := range state.Schedule {
		if !class.IsAssigned() {
			continue
		}
		key := teacherTime{teacher: class.Teacher, day: class.Day, time: class.Time}
		first, ok := seen[key]
		if !ok {
			seen[key] = class
			continue
		}
		errors = append(errors, allocator.ScheduleValidationError{
			ClassID:       class.ID,
			Slot:          class.Slot(),
			Teacher:       class.Teacher,
			CriterionName: c.Name(),
			Description:   fmt.Sprintf("%s teaches at %s and %s at the same time", class.Teacher, first.Location, class.Location),
		})
	}

	return errors
}
