package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// testDB connects to the database named by STUDIO_TEST_POSTGRES_URL and clears it
func testDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("STUDIO_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("STUDIO_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	database, err := NewDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	require.NoError(t, database.RunMigrations(ctx))
	// Running twice must be a no-op
	require.NoError(t, database.RunMigrations(ctx))

	_, err = database.pool.Exec(ctx, `TRUNCATE history_record, session`)
	require.NoError(t, err)
	return database
}

func TestMigrationFilesAreSorted(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_initial_schema.sql", files[0])
}

func TestRecordsRoundTrip(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	want := []model.HistoricalRecord{
		{Format: "Barre", Day: model.Monday, Time: "09:00", Location: "Kenkere House", Teacher: "Anisha Shah", CheckedIn: 9, Revenue: 4500},
		{Format: "HIIT", Day: model.Sunday, Time: "10:00", Location: "Kenkere House", Teacher: model.Unassigned, CheckedIn: 3},
	}
	require.NoError(t, database.ReplaceRecords(ctx, want))
	require.NoError(t, database.ReplaceRecords(ctx, want))

	got, err := database.GetRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSessionRoundTrip(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	_, err := database.LoadSession(ctx)
	assert.ErrorIs(t, err, db.ErrNoSession)

	session := db.NewSession()
	session.Schedule = model.Snapshot{{ID: "c1", Day: model.Monday, Time: "09:00", Location: "L", Format: "Barre", Teacher: "A", Duration: 1}}
	session.History = []model.Snapshot{{}, session.Schedule}
	session.HistoryIndex = 1
	session.Locks.LockClass("c1")
	session.Iteration = 2
	require.NoError(t, database.SaveSession(ctx, session))

	session.Iteration = 3
	require.NoError(t, database.SaveSession(ctx, session))

	loaded, err := database.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Equal(t, session.Schedule, loaded.Schedule)
	assert.Equal(t, 3, loaded.Iteration)
	assert.True(t, loaded.Locks.IsClassLocked("c1"))
}
