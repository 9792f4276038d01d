package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// AvailabilityCmd creates the availability command
func AvailabilityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability [teacher]",
		Short: "List unavailable teachers, or mark one (un)available",
		Long: `List unavailable teachers, or mark one (un)available.

Unavailable teachers are never picked by optimize. Their existing classes stay
in the schedule.`,
		Example: `  studio -e prod availability
  studio -e prod availability "Rhea Kapoor" --off
  studio -e prod availability "Rhea Kapoor" --on`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, _ := cmd.Flags().GetBool("off")
			on, _ := cmd.Flags().GetBool("on")

			if len(args) == 0 {
				if off || on {
					return fmt.Errorf("--on and --off need a teacher name")
				}
				app.Logger.Debug("availability command")

				unavailable, err := services.ListUnavailable(app.Ctx, app.Database, app.Logger)
				if err != nil {
					return err
				}
				printUnavailable(unavailable)
				return nil
			}

			if off == on {
				return fmt.Errorf("pass exactly one of --on or --off")
			}

			teacher := model.NewTeacherID(args[0])
			app.Logger.Debug("availability command", zap.String("teacher", teacher.String()), zap.Bool("available", on))

			unavailable, err := services.SetAvailability(app.Ctx, app.Database, app.Logger, teacher, on)
			if err != nil {
				return err
			}

			state := "unavailable"
			if on {
				state = "available"
			}
			fmt.Printf("\n✓ %s marked %s\n", teacher, state)
			printUnavailable(unavailable)
			return nil
		},
	}

	cmd.Flags().Bool("off", false, "Mark the teacher unavailable")
	cmd.Flags().Bool("on", false, "Mark the teacher available again")

	return cmd
}

func printUnavailable(teachers []model.TeacherID) {
	if len(teachers) == 0 {
		fmt.Printf("\nEvery teacher is available.\n\n")
		return
	}
	fmt.Printf("\nUnavailable teachers (%d):\n", len(teachers))
	for _, t := range teachers {
		fmt.Printf("  %s✗ %s%s\n", colorRed, t, colorReset)
	}
	fmt.Println()
}
