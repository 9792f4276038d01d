package db

import (
	"context"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// HistoryStore defines the operations on the attendance history
type HistoryStore interface {
	GetRecords(ctx context.Context) ([]model.HistoricalRecord, error)
	ReplaceRecords(ctx context.Context, records []model.HistoricalRecord) error
}

// SessionStore defines the operations on the working session
type SessionStore interface {
	// LoadSession returns the stored session, or ErrNoSession if none was saved
	LoadSession(ctx context.Context) (*Session, error)
	SaveSession(ctx context.Context, session *Session) error
}

// Database defines the interface for all storage operations.
// Both the file-backed filestore.DB and postgres.DB implement this interface.
type Database interface {
	HistoryStore
	SessionStore
	Close()
}
