package sheetsclient

import (
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
)

var scheduleHeader = []interface{}{
	"Day", "Time", "Location", "Class", "Teacher", "Duration (h)", "Expected attendance", "Expected revenue", "Top performer", "Private",
}

// PublishSchedule writes the schedule to a tab, creating it if needed and replacing
// anything already there
func (c *Client) PublishSchedule(spreadsheetID, tabTitle string, schedule model.Snapshot) error {
	exists, err := c.hasSheet(spreadsheetID, tabTitle)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := c.CreateSheet(spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	_, err = c.service.Spreadsheets.Values.Clear(spreadsheetID, tabTitle, &sheets.ClearValuesRequest{}).Do()
	if err != nil {
		return fmt.Errorf("failed to clear tab %s: %w", tabTitle, err)
	}

	_, err = c.service.Spreadsheets.Values.Update(
		spreadsheetID,
		fmt.Sprintf("%s!A1", tabTitle),
		&sheets.ValueRange{Values: ScheduleRows(schedule)},
	).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}

	return nil
}

// ScheduleRows renders the schedule as a header row followed by one row per class
func ScheduleRows(schedule model.Snapshot) [][]interface{} {
	rows := make([][]interface{}, 0, len(schedule)+1)
	rows = append(rows, scheduleHeader)

	for _, class := range schedule {
		rows = append(rows, []interface{}{
			string(class.Day),
			class.Time,
			class.Location,
			class.Format,
			class.Teacher.String(),
			class.Duration,
			fmt.Sprintf("%.1f", class.Participants),
			fmt.Sprintf("%.0f", class.Revenue),
			yesNo(class.IsTopPerformer),
			yesNo(class.IsPrivate),
		})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return ""
}
