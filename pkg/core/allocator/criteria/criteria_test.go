package criteria

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
)

func newState(classes ...model.ScheduledClass) *allocator.ScheduleState {
	state := allocator.NewScheduleState(performance.New(nil), allocator.DefaultPolicy(), nil)
	for _, c := range classes {
		state.Place(c)
	}
	return state
}

func candidate(day model.Weekday, time, location string) allocator.Candidate {
	return allocator.Candidate{Key: model.CandidateKey{Format: "Barre", Day: day, Time: time, Location: location}}
}

func class(id string, day model.Weekday, time, location string, teacher model.TeacherID, duration float64) model.ScheduledClass {
	return model.ScheduledClass{ID: id, Day: day, Time: time, Location: location, Teacher: teacher, Duration: duration}
}

func TestHourCapCriterion(t *testing.T) {
	criterion := NewHourCapCriterion(2)
	assert.Equal(t, "HourCap", criterion.Name())

	state := newState(class("a", model.Monday, "09:00", "L", "A", 1.5))

	assert.True(t, criterion.IsCandidateValid(state, candidate(model.Monday, "10:00", "L")))
	assert.True(t, criterion.IsTeacherValid(state, candidate(model.Monday, "10:00", "L"), "A", 0.5))
	assert.False(t, criterion.IsTeacherValid(state, candidate(model.Monday, "10:00", "L"), "A", 0.75))
	assert.Empty(t, criterion.ValidateScheduleState(state))

	state.Place(class("b", model.Tuesday, "09:00", "L", "A", 1))
	errors := criterion.ValidateScheduleState(state)
	require.Len(t, errors, 1)
	assert.Equal(t, model.TeacherID("A"), errors[0].Teacher)
	assert.Contains(t, errors[0].Description, "2.5h")
}

func TestNoDoubleBookingCriterion(t *testing.T) {
	criterion := NewNoDoubleBookingCriterion()
	state := newState(class("a", model.Monday, "09:00", "L", "A", 1))

	assert.False(t, criterion.IsTeacherValid(state, candidate(model.Monday, "09:00", "M"), "A", 1))
	assert.True(t, criterion.IsTeacherValid(state, candidate(model.Monday, "09:00", "M"), "B", 1))
	assert.True(t, criterion.IsTeacherValid(state, candidate(model.Monday, "10:00", "M"), "A", 1))
	assert.Empty(t, criterion.ValidateScheduleState(state))

	state.Place(class("b", model.Monday, "09:00", "M", "A", 1))
	state.Place(class("c", model.Monday, "09:00", "N", model.Unassigned, 1))
	state.Place(class("d", model.Monday, "09:00", "O", model.Unassigned, 1))

	errors := criterion.ValidateScheduleState(state)
	require.Len(t, errors, 1)
	assert.Equal(t, "b", errors[0].ClassID)
}

func TestAvailabilityCriterion(t *testing.T) {
	criterion := NewAvailabilityCriterion([]model.TeacherID{"A"})
	state := newState(class("a", model.Monday, "09:00", "L", "A", 1))

	assert.False(t, criterion.IsTeacherValid(state, candidate(model.Tuesday, "09:00", "L"), "A", 1))
	assert.True(t, criterion.IsTeacherValid(state, candidate(model.Tuesday, "09:00", "L"), "B", 1))
	require.Len(t, criterion.ValidateScheduleState(state), 1)

	state.Locks.LockClass("a")
	assert.Empty(t, criterion.ValidateScheduleState(state))
}

func TestDefaultCriteriaWithOptimizer(t *testing.T) {
	idx := performance.New([]model.HistoricalRecord{
		{Format: "Barre", Day: model.Monday, Time: "09:00", Location: "L", Teacher: "A", CheckedIn: 10},
		{Format: "HIIT", Day: model.Monday, Time: "09:00", Location: "M", Teacher: "A", CheckedIn: 9},
		{Format: "HIIT", Day: model.Monday, Time: "09:00", Location: "M", Teacher: "B", CheckedIn: 1},
		{Format: "Yoga", Day: model.Tuesday, Time: "07:00", Location: "L", Teacher: "C", CheckedIn: 8},
	})
	policy := allocator.DefaultPolicy()

	outcome, err := allocator.Optimize(context.Background(), allocator.OptimizeConfig{
		Index:    idx,
		Policy:   policy,
		Criteria: Default(policy, []model.TeacherID{"C"}),
	})
	require.NoError(t, err)

	require.Len(t, outcome.Schedule, 3)
	assert.Equal(t, model.TeacherID("A"), outcome.Schedule[0].Teacher)
	// C is unavailable
	assert.Equal(t, "Yoga", outcome.Schedule[1].Format)
	assert.Equal(t, model.Unassigned, outcome.Schedule[1].Teacher)
	// A already teaches at Monday 09:00 so HIIT at M goes to B
	assert.Equal(t, "HIIT", outcome.Schedule[2].Format)
	assert.Equal(t, model.TeacherID("B"), outcome.Schedule[2].Teacher)
	assert.Empty(t, outcome.ValidationErrors)
}
