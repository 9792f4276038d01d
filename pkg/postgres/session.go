package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// LoadSession returns the most recently saved session or db.ErrNoSession
func (d *DB) LoadSession(ctx context.Context) (*db.Session, error) {
	var session db.Session
	var schedule, history, locks, unavailable []byte

	err := d.pool.QueryRow(ctx, `
		SELECT id, schedule, history, history_index, locks, unavailable, iteration, updated_at
		FROM session
		ORDER BY updated_at DESC
		LIMIT 1
	`).Scan(&session.ID, &schedule, &history, &session.HistoryIndex, &locks, &unavailable, &session.Iteration, &session.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session.Locks = model.NewLockSet()
	fields := []struct {
		name string
		data []byte
		out  any
	}{
		{"schedule", schedule, &session.Schedule},
		{"history", history, &session.History},
		{"locks", locks, session.Locks},
		{"unavailable", unavailable, &session.Unavailable},
	}
	for _, f := range fields {
		if err := json.Unmarshal(f.data, f.out); err != nil {
			return nil, fmt.Errorf("failed to decode session %s: %w", f.name, err)
		}
	}

	return &session, nil
}

// SaveSession upserts the session by ID, stamping UpdatedAt
func (d *DB) SaveSession(ctx context.Context, session *db.Session) error {
	encoded := make([][]byte, 0, 4)
	for _, value := range []any{session.Schedule, session.History, session.Locks, session.Unavailable} {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		encoded = append(encoded, data)
	}

	session.UpdatedAt = time.Now().UTC()

	_, err := d.pool.Exec(ctx, `
		INSERT INTO session (id, schedule, history, history_index, locks, unavailable, iteration, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			schedule = EXCLUDED.schedule,
			history = EXCLUDED.history,
			history_index = EXCLUDED.history_index,
			locks = EXCLUDED.locks,
			unavailable = EXCLUDED.unavailable,
			iteration = EXCLUDED.iteration,
			updated_at = EXCLUDED.updated_at
	`, session.ID, encoded[0], encoded[1], session.HistoryIndex, encoded[2], encoded[3], session.Iteration, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
