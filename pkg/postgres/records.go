package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// GetRecords retrieves the attendance history in import order
func (db *DB) GetRecords(ctx context.Context) ([]model.HistoricalRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT format, day, class_time, location, teacher, checked_in, revenue
		FROM history_record
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []model.HistoricalRecord{}
	for rows.Next() {
		var r model.HistoricalRecord
		var day string
		var teacher *string
		if err := rows.Scan(&r.Format, &day, &r.Time, &r.Location, &teacher, &r.CheckedIn, &r.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Day = model.Weekday(day)
		if teacher != nil {
			r.Teacher = model.TeacherID(*teacher)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// ReplaceRecords swaps the whole history in one transaction
func (db *DB) ReplaceRecords(ctx context.Context, records []model.HistoricalRecord) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM history_record`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		var teacher *string
		if r.Teacher.IsAssigned() {
			name := string(r.Teacher)
			teacher = &name
		}
		rows = append(rows, []any{r.Format, string(r.Day), r.Time, r.Location, teacher, r.CheckedIn, r.Revenue})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"history_record"},
		[]string{"format", "day", "class_time", "location", "teacher", "checked_in", "revenue"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
