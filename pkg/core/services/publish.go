package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/db"
)

// SchedulePublisher writes a schedule to a spreadsheet tab.
// *sheetsclient.Client implements it.
type SchedulePublisher interface {
	PublishSchedule(spreadsheetID, tabTitle string, schedule model.Snapshot) error
}

// PublishSchedule writes the current schedule, ordered by day, time and location,
// to the given spreadsheet tab. Returns the number of classes published.
func PublishSchedule(ctx context.Context, store db.SessionStore, publisher SchedulePublisher, logger *zap.Logger, spreadsheetID, tabTitle string) (int, error) {
	if spreadsheetID == "" {
		return 0, fmt.Errorf("publish sheet ID must be configured")
	}

	session, err := db.LoadOrCreateSession(ctx, store)
	if err != nil {
		return 0, err
	}

	schedule := session.Schedule.Clone()
	sortBySlot(schedule)

	logger.Debug("Publishing schedule",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("tab", tabTitle),
		zap.Int("classes", len(schedule)))

	if err := publisher.PublishSchedule(spreadsheetID, tabTitle, schedule); err != nil {
		return 0, fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Schedule published", zap.String("tab", tabTitle), zap.Int("classes", len(schedule)))
	return len(schedule), nil
}
