package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/populator"
)

// Kenkere House averages 11: Barre with Anisha (12) and HIIT (15) beat it
func TestPopulateTopPerformers_AppendsAndSkipsTakenSlots(t *testing.T) {
	store := &mockStore{records: studioHistory()}

	first, err := PopulateTopPerformers(context.Background(), store, nil, allocator.DefaultPolicy(), zap.NewNop(), PopulateOptions{})
	require.NoError(t, err)

	require.Len(t, first.Added, 1)
	assert.Equal(t, "HIIT", first.Added[0].Format)
	assert.False(t, first.Added[0].IsAssigned())
	assert.True(t, first.Added[0].IsTopPerformer)
	assert.True(t, first.Commit.Accepted)
	assert.Len(t, store.session.Schedule, 1)

	second, err := PopulateTopPerformers(context.Background(), store, nil, allocator.DefaultPolicy(), zap.NewNop(), PopulateOptions{AttributeTeacher: true})
	require.NoError(t, err)

	require.Len(t, second.Added, 1)
	assert.Equal(t, "Barre", second.Added[0].Format)
	assert.Equal(t, model.TeacherID("Anisha Shah"), second.Added[0].Teacher)
	require.Len(t, second.Skipped, 1)
	assert.Equal(t, populator.ReasonSlotOccupied, second.Skipped[0].Reason)

	assert.Len(t, second.Schedule, 2)
	assert.Len(t, store.session.History, 3)
}

func TestPopulateTopPerformers_RejectedOverCap(t *testing.T) {
	load := fullWeek("Anisha Shah", 15)
	store := &mockStore{records: studioHistory(), session: sessionWith(load)}

	result, err := PopulateTopPerformers(context.Background(), store, nil, allocator.DefaultPolicy(), zap.NewNop(), PopulateOptions{AttributeTeacher: true})
	require.NoError(t, err)

	assert.Len(t, result.Added, 2)
	assert.False(t, result.Commit.Accepted)
	require.Len(t, result.Commit.Violations, 1)
	assert.Equal(t, 17.0, result.Commit.Violations[0].Hours)
	assert.Equal(t, load, result.Schedule)
	assert.Equal(t, 0, store.saves)
}

func TestPopulateTopPerformers_EnforceHourCapSkipsInstead(t *testing.T) {
	load := fullWeek("Anisha Shah", 15)
	store := &mockStore{records: studioHistory(), session: sessionWith(load)}

	result, err := PopulateTopPerformers(context.Background(), store, nil, allocator.DefaultPolicy(), zap.NewNop(), PopulateOptions{AttributeTeacher: true, EnforceHourCap: true})
	require.NoError(t, err)

	assert.Empty(t, result.Added)
	require.Len(t, result.Skipped, 2)
	for _, skipped := range result.Skipped {
		assert.Equal(t, populator.ReasonHourCap, skipped.Reason)
		assert.Equal(t, 16.0, skipped.ProjectedHours)
	}
	assert.True(t, result.Commit.Accepted)
	assert.Equal(t, 0, store.saves)
}

func TestPopulateTopPerformers_AllowMultiBooking(t *testing.T) {
	taken := model.Snapshot{class("stretch", model.Saturday, "19:00", "Kenkere House", "Stretch", "Rhea Kapoor", 1)}

	store := &mockStore{records: studioHistory(), session: sessionWith(taken)}
	result, err := PopulateTopPerformers(context.Background(), store, nil, allocator.DefaultPolicy(), zap.NewNop(), PopulateOptions{})
	require.NoError(t, err)

	assert.Empty(t, result.Added)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "stretch", result.Skipped[0].Occupant)
	assert.Equal(t, 0, store.saves)

	store = &mockStore{records: studioHistory(), session: sessionWith(taken)}
	result, err = PopulateTopPerformers(context.Background(), store, nil, allocator.DefaultPolicy(), zap.NewNop(), PopulateOptions{AllowMultiBooking: true})
	require.NoError(t, err)

	require.Len(t, result.Added, 1)
	assert.Equal(t, "HIIT", result.Added[0].Format)
	assert.Equal(t, taken[0].Slot(), result.Added[0].Slot())
	assert.Empty(t, result.Skipped)
	assert.True(t, result.Commit.Accepted)
	assert.Len(t, store.session.Schedule, 2)
}

func TestPopulateTopPerformers_StoreError(t *testing.T) {
	boom := errors.New("boom")

	_, err := PopulateTopPerformers(context.Background(), &mockStore{getErr: boom}, nil, allocator.DefaultPolicy(), zap.NewNop(), PopulateOptions{})
	assert.ErrorIs(t, err, boom)
}
