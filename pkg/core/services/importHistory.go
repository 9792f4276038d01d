package services

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/db"
	"github.com/jakechorley/studio-scheduler/pkg/loader"
)

// RowsReader reads a spreadsheet range as rows of strings, header first.
// *sheetsclient.Client implements it.
type RowsReader interface {
	ReadRows(spreadsheetID, sheetRange string) ([][]string, error)
}

// ImportResult summarises a history import
type ImportResult struct {
	Imported int
	Filtered int
	Rejected []loader.RowError
}

// ImportHistoryCSV replaces the stored history with the records of a CSV export
func ImportHistoryCSV(ctx context.Context, store db.HistoryStore, logger *zap.Logger, r io.Reader) (*ImportResult, error) {
	logger.Debug("Parsing history CSV")
	loaded, err := loader.LoadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return storeHistory(ctx, store, logger, loaded)
}

// ImportHistorySheet replaces the stored history with the rows of a Google Sheet range
func ImportHistorySheet(ctx context.Context, store db.HistoryStore, reader RowsReader, logger *zap.Logger, spreadsheetID, sheetRange string) (*ImportResult, error) {
	if spreadsheetID == "" || sheetRange == "" {
		return nil, fmt.Errorf("history sheet ID and range must be configured")
	}

	logger.Debug("Reading history sheet", zap.String("spreadsheet_id", spreadsheetID), zap.String("range", sheetRange))
	rows, err := reader.ReadRows(spreadsheetID, sheetRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read history sheet: %w", err)
	}

	loaded, err := loader.ParseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return storeHistory(ctx, store, logger, loaded)
}

func storeHistory(ctx context.Context, store db.HistoryStore, logger *zap.Logger, loaded *loader.Result) (*ImportResult, error) {
	for _, rejected := range loaded.Rejected {
		logger.Debug("Rejected history row", zap.Int("row", rejected.Row), zap.Error(rejected.Err))
	}

	if len(loaded.Records) == 0 {
		return nil, fmt.Errorf("no usable records found (%d filtered, %d rejected)", loaded.Filtered, len(loaded.Rejected))
	}

	if err := store.ReplaceRecords(ctx, loaded.Records); err != nil {
		return nil, fmt.Errorf("failed to store records: %w", err)
	}

	logger.Info("History imported",
		zap.Int("imported", len(loaded.Records)),
		zap.Int("filtered", loaded.Filtered),
		zap.Int("rejected", len(loaded.Rejected)))

	return &ImportResult{
		Imported: len(loaded.Records),
		Filtered: loaded.Filtered,
		Rejected: loaded.Rejected,
	}, nil
}
