package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/cache"
	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
	"github.com/jakechorley/studio-scheduler/pkg/metrics"
)

func studioHistory() []model.HistoricalRecord {
	return []model.HistoricalRecord{
		rec("Barre", model.Monday, "09:00", "Kenkere House", "Anisha Shah", 12),
		rec("Barre", model.Monday, "09:00", "Kenkere House", "Rhea Kapoor", 8),
		rec("Yoga", model.Tuesday, "07:00", "Kenkere House", "Rhea Kapoor", 9),
		rec("HIIT", model.Saturday, "19:00", "Kenkere House", "Anisha Shah", 15),
	}
}

func TestOptimizeSchedule_CommitsFirstRun(t *testing.T) {
	store := &mockStore{records: studioHistory()}

	result, err := OptimizeSchedule(context.Background(), store, nil, metrics.NewRecorder(), allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)

	assert.True(t, result.Commit.Accepted)
	assert.Equal(t, 0, result.Iteration)
	assert.Equal(t, 4, result.RecordCount)
	assert.False(t, result.CacheHit)

	// Saturday 19:00 is past the weekend cut-off
	require.Len(t, result.Schedule, 2)
	assert.Equal(t, "Barre", result.Schedule[0].Format)
	assert.Equal(t, model.TeacherID("Anisha Shah"), result.Schedule[0].Teacher)
	assert.Equal(t, 12.0, result.Schedule[0].Participants)
	assert.Equal(t, "Yoga", result.Schedule[1].Format)

	require.NotNil(t, store.session)
	assert.Equal(t, 1, store.session.Iteration)
	assert.Equal(t, result.Schedule, store.session.Schedule)

	// The empty starting schedule is kept as the undo baseline
	require.Len(t, store.session.History, 2)
	assert.Empty(t, store.session.History[0])
	assert.Equal(t, 1, store.session.HistoryIndex)
}

func TestOptimizeSchedule_IsDeterministicForSameIteration(t *testing.T) {
	first := &mockStore{records: studioHistory()}
	second := &mockStore{records: studioHistory()}

	a, err := OptimizeSchedule(context.Background(), first, nil, nil, allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)
	b, err := OptimizeSchedule(context.Background(), second, nil, nil, allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, a.Schedule, b.Schedule)
}

func TestOptimizeSchedule_AdvancesIteration(t *testing.T) {
	store := &mockStore{records: studioHistory()}

	for want := 0; want < 3; want++ {
		result, err := OptimizeSchedule(context.Background(), store, nil, nil, allocator.DefaultPolicy(), zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, want, result.Iteration)
	}
	assert.Equal(t, 3, store.session.Iteration)
}

func TestOptimizeSchedule_PreservesLockedClasses(t *testing.T) {
	locked := class("mine", model.Monday, "09:00", "Kenkere House", "Pilates", "Rhea Kapoor", 1)
	loose := class("loose", model.Friday, "18:00", "Kenkere House", "Zumba", "Anisha Shah", 1)

	session := sessionWith(model.Snapshot{locked, loose})
	session.Locks.LockClass("mine")
	store := &mockStore{records: studioHistory(), session: session}

	result, err := OptimizeSchedule(context.Background(), store, nil, nil, allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)

	require.NotEmpty(t, result.Schedule)
	assert.Equal(t, locked, result.Schedule[0])
	_, stillThere := result.Schedule.Find("loose")
	assert.False(t, stillThere, "unlocked classes are regenerated")

	for _, c := range result.Schedule[1:] {
		assert.NotEqual(t, locked.Slot(), c.Slot())
	}
	assert.True(t, store.session.Locks.IsClassLocked("mine"))
}

func TestOptimizeSchedule_RejectsProposalOverCap(t *testing.T) {
	// A locked 16 hour load can never be committed
	load := fullWeek("Anisha Shah", 16)
	session := sessionWith(load)
	session.Locks.LockAllClasses(load)
	store := &mockStore{records: studioHistory(), session: session}

	result, err := OptimizeSchedule(context.Background(), store, nil, nil, allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)

	assert.False(t, result.Commit.Accepted)
	require.Len(t, result.Commit.Violations, 1)
	assert.Equal(t, 16.0, result.Commit.Violations[0].Hours)

	assert.Equal(t, load, result.Schedule)
	assert.Equal(t, load, store.session.Schedule)
	assert.Len(t, store.session.History, 1)
	assert.Equal(t, 1, store.session.Iteration)
}

func TestOptimizeSchedule_SkipsUnavailableTeacher(t *testing.T) {
	session := db.NewSession()
	session.SetAvailability("Anisha Shah", false)
	store := &mockStore{records: studioHistory(), session: session}

	result, err := OptimizeSchedule(context.Background(), store, nil, nil, allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)

	require.NotEmpty(t, result.Schedule)
	for _, c := range result.Schedule {
		assert.NotEqual(t, model.TeacherID("Anisha Shah"), c.Teacher)
	}
	assert.Equal(t, model.TeacherID("Rhea Kapoor"), result.Schedule[0].Teacher)
}

func TestOptimizeSchedule_UsesRankingCache(t *testing.T) {
	rankings := &mockRankingCache{}
	store := &mockStore{records: studioHistory()}

	first, err := OptimizeSchedule(context.Background(), store, rankings, nil, allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, rankings.sets)
	require.Contains(t, rankings.stored, cache.Fingerprint(store.records))

	second, err := OptimizeSchedule(context.Background(), store, rankings, nil, allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 1, rankings.sets)
}

func TestOptimizeSchedule_NilRankingCacheType(t *testing.T) {
	var rankings *cache.RankingCache
	store := &mockStore{records: studioHistory()}

	result, err := OptimizeSchedule(context.Background(), store, rankings, nil, allocator.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, result.CacheHit)
	assert.Len(t, result.Schedule, 2)
}

func TestOptimizeSchedule_CancelledRunCommitsNothing(t *testing.T) {
	store := &mockStore{records: studioHistory()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := OptimizeSchedule(ctx, store, nil, nil, allocator.DefaultPolicy(), zap.NewNop())

	// Loading may notice the cancelled context first. Either way nothing is saved.
	if err == nil {
		assert.True(t, result.Outcome.Cancelled)
	}
	assert.Equal(t, 0, store.saves)
}

func TestOptimizeSchedule_StoreErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := OptimizeSchedule(context.Background(), &mockStore{getErr: boom}, nil, nil, allocator.DefaultPolicy(), zap.NewNop())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to fetch historical records")

	_, err = OptimizeSchedule(context.Background(), &mockStore{loadErr: boom}, nil, nil, allocator.DefaultPolicy(), zap.NewNop())
	assert.ErrorIs(t, err, boom)

	_, err = OptimizeSchedule(context.Background(), &mockStore{records: studioHistory(), saveErr: boom}, nil, nil, allocator.DefaultPolicy(), zap.NewNop())
	assert.ErrorIs(t, err, boom)
}

func TestOptimizeSchedule_InvalidPolicy(t *testing.T) {
	policy := allocator.DefaultPolicy()
	policy.BlackoutRules = []string{"not a rule"}

	_, err := OptimizeSchedule(context.Background(), &mockStore{records: studioHistory()}, nil, nil, policy, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to optimise schedule")
}
