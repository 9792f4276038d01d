package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/performance"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{12500, "₹12.5K"},
		{250000, "₹2.5L"},
		{34000000, "₹3.4Cr"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.amount))
	}
}

func TestRecommendForSlot(t *testing.T) {
	idx := performance.New([]model.HistoricalRecord{
		rec("Barre", model.Monday, "09:00", "L", "A", 10),
		rec("Yoga", model.Monday, "09:00", "L", "B", 12),
		rec("Yoga", model.Monday, "09:00", "L", "B", 8),
		rec("Mat", model.Monday, "09:00", "L", "C", 10),
		rec("Mat", model.Monday, "09:00", "L", "C", 10),
		rec("Pilates", model.Monday, "09:00", "L", "D", 4),
		rec("Spin", model.Monday, "10:00", "L", "D", 30),
	})

	got := RecommendForSlot(idx, model.SlotKey{Day: model.Monday, Time: "09:00", Location: "L"}, DefaultRecommendations)

	require.Len(t, got, 3)
	// All three average 10: more history first, then by name
	assert.Equal(t, "Mat", got[0].Format)
	assert.Equal(t, "Yoga", got[1].Format)
	assert.Equal(t, "Barre", got[2].Format)
	assert.Equal(t, 3, got[2].Priority)
	assert.Equal(t, 10.0, got[0].Average)
	assert.Equal(t, "Historical average: 10.0 attendees", got[0].Reason)

	assert.Empty(t, RecommendForSlot(idx, model.SlotKey{Day: model.Sunday, Time: "09:00", Location: "L"}, 3))
}

func TestBuildAnalytics(t *testing.T) {
	idx := performance.New(studioHistory())
	schedule := model.Snapshot{
		{ID: "1", Day: model.Tuesday, Format: "Yoga", Teacher: "A", Participants: 9, Revenue: 4500},
		{ID: "2", Day: model.Monday, Format: "Yoga", Participants: 5, Revenue: 1000, IsTopPerformer: true},
		{ID: "3", Day: model.Monday, Format: "Barre", Teacher: "B", Participants: 10, Revenue: 5000},
		{ID: "4", Day: model.Monday, Format: "Barre", Teacher: "B", Participants: 10, Revenue: 5000},
	}

	report := BuildAnalytics(idx, schedule)

	assert.Equal(t, 4, report.HistoricalClasses)
	assert.Equal(t, 44, report.TotalCheckedIn)
	assert.Equal(t, 11.0, report.AverageAttendance)
	assert.Equal(t, 22000.0, report.TotalRevenue)
	assert.Equal(t, 4, report.ScheduledClasses)
	assert.Equal(t, 34.0, report.ProjectedAttendees)
	assert.Equal(t, 15500.0, report.ProjectedRevenue)
	assert.Equal(t, 1, report.TopPerformers)
	assert.Equal(t, 1, report.Unassigned)

	assert.Equal(t, []DayFormatCount{
		{Day: model.Monday, Format: "Barre", Count: 2},
		{Day: model.Monday, Format: "Yoga", Count: 1},
		{Day: model.Tuesday, Format: "Yoga", Count: 1},
	}, report.ClassCounts)

	require.Len(t, report.Locations, 1)
	assert.Equal(t, "Kenkere House", report.Locations[0].Location)
	assert.Equal(t, 11.0, report.Locations[0].Average)
}

func TestAnalytics_LoadsStore(t *testing.T) {
	report, err := Analytics(context.Background(), &mockStore{records: studioHistory()}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 4, report.HistoricalClasses)
	assert.Equal(t, 0, report.ScheduledClasses)
}

func TestRecommendSlot_DefaultLimit(t *testing.T) {
	got, err := RecommendSlot(context.Background(), &mockStore{records: studioHistory()}, zap.NewNop(),
		model.SlotKey{Day: model.Monday, Time: "09:00", Location: "Kenkere House"}, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Barre", got[0].Format)
	assert.Equal(t, 10.0, got[0].Average)
}
