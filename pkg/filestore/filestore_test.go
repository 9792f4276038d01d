package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

func TestRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewDB(t.TempDir())
	require.NoError(t, err)

	records, err := store.GetRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	want := []model.HistoricalRecord{
		{Format: "Barre", Day: model.Monday, Time: "09:00", Location: "Kenkere House", Teacher: "Anisha Shah", CheckedIn: 9, Revenue: 4500},
		{Format: "HIIT", Day: model.Sunday, Time: "10:00", Location: "Kenkere House", Teacher: model.Unassigned, CheckedIn: 3},
	}
	require.NoError(t, store.ReplaceRecords(ctx, want))

	got, err := store.GetRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewDB(t.TempDir())
	require.NoError(t, err)

	_, err = store.LoadSession(ctx)
	assert.ErrorIs(t, err, db.ErrNoSession)

	session := db.NewSession()
	session.Schedule = model.Snapshot{
		{ID: "c1", Day: model.Monday, Time: "09:00", Location: "L", Format: "Barre", Teacher: "A", Duration: 1, IsTopPerformer: true},
	}
	session.History = []model.Snapshot{{}, session.Schedule}
	session.HistoryIndex = 1
	session.Locks.LockClass("c1")
	session.Locks.LockTeacher("A")
	session.Iteration = 4
	require.NoError(t, store.SaveSession(ctx, session))
	assert.False(t, session.UpdatedAt.IsZero())

	loaded, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Equal(t, session.Schedule, loaded.Schedule)
	assert.Equal(t, 1, loaded.HistoryIndex)
	assert.Len(t, loaded.History, 2)
	assert.True(t, loaded.Locks.IsClassLocked("c1"))
	assert.True(t, loaded.Locks.IsTeacherLocked("A"))
	assert.Equal(t, 4, loaded.Iteration)
}

func TestCorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionFile), []byte("id: [unterminated"), 0644))

	store, err := NewDB(dir)
	require.NoError(t, err)

	_, err = store.LoadSession(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, db.ErrNoSession)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDB(dir)
	require.NoError(t, err)

	require.NoError(t, store.ReplaceRecords(context.Background(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, recordsFile, entries[0].Name())
}
