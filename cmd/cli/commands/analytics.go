package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/services"
	"github.com/jakechorley/studio-scheduler/pkg/loader"
)

// AnalyticsCmd creates the analytics command
func AnalyticsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Summarise attendance history and the current schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("analytics command")

			report, err := services.Analytics(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Println("\nHistory")
			fmt.Printf("  Classes:            %d\n", report.HistoricalClasses)
			fmt.Printf("  Checked in:         %d (%.1f per class)\n", report.TotalCheckedIn, report.AverageAttendance)
			fmt.Printf("  Revenue:            %s (%s per class)\n",
				services.FormatCurrency(report.TotalRevenue), services.FormatCurrency(report.AverageRevenue))

			fmt.Println("\nSchedule")
			fmt.Printf("  Classes:            %d (%d top performers, %d unassigned)\n",
				report.ScheduledClasses, report.TopPerformers, report.Unassigned)
			fmt.Printf("  Expected attendees: %.0f\n", report.ProjectedAttendees)
			fmt.Printf("  Expected revenue:   %s\n", services.FormatCurrency(report.ProjectedRevenue))

			if len(report.Locations) > 0 {
				fmt.Println("\nLocations")
				for _, loc := range report.Locations {
					fmt.Printf("  %-28s %4d classes  %5.1f avg  %s avg revenue\n",
						truncate(loc.Location, 28), loc.Classes, loc.Average, services.FormatCurrency(loc.MeanRevenue))
				}
			}

			if len(report.ClassCounts) > 0 {
				fmt.Println("\nClasses per day")
				for _, count := range report.ClassCounts {
					fmt.Printf("  %-10s %-28s %d\n", count.Day, truncate(count.Format, 28), count.Count)
				}
			}
			fmt.Println()
			return nil
		},
	}
}

// RecommendCmd creates the recommend command
func RecommendCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recommend <day> <time> <location>",
		Short:   "Suggest the formats that have drawn the most attendees in a slot",
		Example: `  studio -e prod recommend Monday 09:00 "Kenkere House"`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := parseSlot(args)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			app.Logger.Debug("recommend command", zap.String("slot", slot.String()), zap.Int("limit", limit))

			recommendations, err := services.RecommendSlot(app.Ctx, app.Database, app.Logger, slot, limit)
			if err != nil {
				return err
			}

			if len(recommendations) == 0 {
				fmt.Printf("\nNo classes have run at %s.\n\n", slot)
				return nil
			}

			fmt.Printf("\nRecommended for %s\n", slot)
			for _, r := range recommendations {
				fmt.Printf("  %d. %-28s %s (%d classes)\n", r.Priority, r.Format, r.Reason, r.Count)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().Int("limit", services.DefaultRecommendations, "Number of formats to suggest")

	return cmd
}

func parseSlot(args []string) (model.SlotKey, error) {
	day, err := model.ParseWeekday(args[0])
	if err != nil {
		return model.SlotKey{}, err
	}
	classTime, err := loader.NormaliseTime(args[1])
	if err != nil {
		return model.SlotKey{}, err
	}
	return model.SlotKey{Day: day, Time: classTime, Location: args[2]}, nil
}
