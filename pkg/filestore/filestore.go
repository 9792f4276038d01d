// Package filestore keeps the history and session as YAML files in a directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

const (
	recordsFile = "records.yaml"
	sessionFile = "session.yaml"
)

// DB stores data as YAML files
type DB struct {
	dir string
	mu  sync.Mutex
}

type recordsDocument struct {
	ImportedAt time.Time                `yaml:"importedAt"`
	Records    []model.HistoricalRecord `yaml:"records"`
}

// NewDB opens a store in dir, creating the directory if needed
func NewDB(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &DB{dir: dir}, nil
}

// Close is a no-op for file storage
func (d *DB) Close() {}

// GetRecords returns the stored history, empty if nothing was imported yet
func (d *DB) GetRecords(ctx context.Context) ([]model.HistoricalRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var doc recordsDocument
	found, err := d.read(recordsFile, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	if !found || doc.Records == nil {
		return []model.HistoricalRecord{}, nil
	}
	return doc.Records, nil
}

// ReplaceRecords overwrites the stored history
func (d *DB) ReplaceRecords(ctx context.Context, records []model.HistoricalRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc := recordsDocument{ImportedAt: time.Now().UTC(), Records: records}
	if err := d.write(recordsFile, doc); err != nil {
		return fmt.Errorf("failed to replace records: %w", err)
	}
	return nil
}

// LoadSession returns the saved session or db.ErrNoSession
func (d *DB) LoadSession(ctx context.Context) (*db.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var session db.Session
	found, err := d.read(sessionFile, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		return nil, db.ErrNoSession
	}
	return &session, nil
}

// SaveSession writes the session, stamping UpdatedAt
func (d *DB) SaveSession(ctx context.Context, session *db.Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	session.UpdatedAt = time.Now().UTC()
	if err := d.write(sessionFile, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (d *DB) read(name string, out any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(d.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return true, nil
}

// write replaces the file atomically through a temp file in the same directory
func (d *DB) write(name string, value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(d.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(d.dir, name))
}
