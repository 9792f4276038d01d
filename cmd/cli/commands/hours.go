package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// HoursCmd creates the hours command
func HoursCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hours",
		Short: "Show each teacher's weekly hours against the limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("hours command")

			rows, err := services.TeacherHours(app.Ctx, app.Database, app.Policy, app.Logger)
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				fmt.Printf("\nNo teachers scheduled.\n\n")
				return nil
			}

			fmt.Printf("\nWeekly hours (warn at %.0fh, limit %.0fh)\n\n", app.Policy.SoftWarnHours, app.Policy.HardCapHours)
			fmt.Printf("  %-28s %6s %8s  %s\n", "Teacher", "Hours", "Classes", "Status")
			for _, row := range rows {
				notes := ""
				if row.Locked {
					notes += " [locked]"
				}
				if row.Unavailable {
					notes += " [unavailable]"
				}
				fmt.Printf("  %-28s %6.2f %8d  %s%s%s%s\n",
					truncate(row.Teacher.String(), 28), row.Hours, row.Classes,
					statusColor(row.Status), row.Status, colorReset, notes)
			}
			fmt.Println()
			return nil
		},
	}
}
