package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// PopulateCmd creates the populate command
func PopulateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Add historically top-performing classes to the schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attributeTeacher, _ := cmd.Flags().GetBool("attribute-teacher")
			enforceCap, _ := cmd.Flags().GetBool("enforce-cap")
			multiBooking, _ := cmd.Flags().GetBool("allow-multi-booking")

			app.Logger.Debug("populate command",
				zap.Bool("attribute_teacher", attributeTeacher),
				zap.Bool("enforce_cap", enforceCap),
				zap.Bool("allow_multi_booking", multiBooking))

			result, err := services.PopulateTopPerformers(app.Ctx, app.Database, app.Metrics, app.Policy, app.Logger, services.PopulateOptions{
				AttributeTeacher:  attributeTeacher,
				EnforceHourCap:    enforceCap,
				AllowMultiBooking: multiBooking,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nTop performers found: %d\n", len(result.Added))
			for _, c := range result.Added {
				fmt.Printf("  + %-50s %s (%.1f avg)\n", c.Key(), c.Teacher, c.Participants)
			}
			if len(result.Skipped) > 0 {
				fmt.Printf("\nSkipped: %d\n", len(result.Skipped))
				for _, skipped := range result.Skipped {
					fmt.Printf("  %s- %s%s\n", colorDim, skipped, colorReset)
				}
			}

			fmt.Println()
			printCommit(result.Commit)
			if result.Commit.Accepted && len(result.Added) > 0 {
				fmt.Printf("✓ Schedule updated: %d classes\n\n", len(result.Schedule))
			}
			return nil
		},
	}

	cmd.Flags().Bool("attribute-teacher", false, "Propose each class with the teacher who earned it")
	cmd.Flags().Bool("enforce-cap", false, "Skip classes that would take their teacher over the hour cap (needs --attribute-teacher)")
	cmd.Flags().Bool("allow-multi-booking", false, "Add top performers even into slots that already hold a class")

	return cmd
}
