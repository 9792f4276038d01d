package db

import (
	"context"
	"strings"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

// locationScoped limits the history read through a Database to a set of studio locations
type locationScoped struct {
	Database
	locations map[string]bool
}

// ScopeLocations returns a Database whose GetRecords only returns records held at one
// of the locations, matched case-insensitively. Imports still store every record, so
// changing the configured locations needs no re-import. With no locations the
// database is returned unchanged.
func ScopeLocations(database Database, locations []string) Database {
	if len(locations) == 0 {
		return database
	}

	set := make(map[string]bool, len(locations))
	for _, location := range locations {
		set[normaliseLocation(location)] = true
	}
	return &locationScoped{Database: database, locations: set}
}

func (s *locationScoped) GetRecords(ctx context.Context) ([]model.HistoricalRecord, error) {
	records, err := s.Database.GetRecords(ctx)
	if err != nil {
		return nil, err
	}

	scoped := make([]model.HistoricalRecord, 0, len(records))
	for _, record := range records {
		if s.locations[normaliseLocation(record.Location)] {
			scoped = append(scoped, record)
		}
	}
	return scoped, nil
}

func normaliseLocation(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}
