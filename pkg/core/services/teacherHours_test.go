package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

func TestClassifyHours(t *testing.T) {
	policy := allocator.DefaultPolicy()

	tests := []struct {
		hours float64
		want  HoursStatus
	}{
		{0, HoursOK},
		{11.75, HoursOK},
		{12, HoursNearLimit},
		{15, HoursNearLimit},
		{15.25, HoursOverLimit},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyHours(policy, tt.hours), "hours %.2f", tt.hours)
	}
}

func TestTeacherHours(t *testing.T) {
	schedule := append(fullWeek("Rhea Kapoor", 12), class("x", model.Monday, "11:00", "L", "Recovery", "Anisha Shah", 0.5))
	schedule = append(schedule, class("y", model.Monday, "12:00", "L", "Barre", model.Unassigned, 1))
	session := sessionWith(schedule)
	session.Locks.LockTeacher("Anisha Shah")
	session.SetAvailability("Rhea Kapoor", false)

	rows, err := TeacherHours(context.Background(), &mockStore{session: session}, allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, TeacherHoursRow{Teacher: "Anisha Shah", Hours: 0.5, Classes: 1, Status: HoursOK, Locked: true}, rows[0])
	assert.Equal(t, TeacherHoursRow{Teacher: "Rhea Kapoor", Hours: 12, Classes: 12, Status: HoursNearLimit, Unavailable: true}, rows[1])
}
