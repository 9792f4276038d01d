package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// OptimizeCmd creates the optimize command
func OptimizeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Regenerate every unlocked class from historical attendance",
		Long: `Regenerate every unlocked class from historical attendance.

Each run advances an iteration counter that rotates the candidate order, so
running optimize again explores a different schedule. Lock classes or
teachers first to keep them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showSkipped, _ := cmd.Flags().GetBool("show-skipped")
			app.Logger.Debug("optimize command", zap.Bool("show_skipped", showSkipped))

			result, err := services.OptimizeSchedule(app.Ctx, app.Database, app.RankingCache(), app.Metrics, app.Policy, app.Logger)
			if err != nil {
				return err
			}

			outcome := result.Outcome
			if outcome.Cancelled {
				fmt.Printf("\n✗ Optimisation cancelled after placing %d classes, nothing was saved.\n\n", outcome.Placed)
				return nil
			}

			fmt.Printf("\nOptimisation run %d over %d historical classes\n", result.Iteration+1, result.RecordCount)
			fmt.Printf("  Kept locked: %d\n", outcome.Preserved)
			fmt.Printf("  Placed:      %d (%d without a teacher)\n", outcome.Placed, outcome.Unassigned)
			fmt.Printf("  Skipped:     %d\n", len(outcome.Skipped))
			if outcome.StoppedEarly {
				fmt.Printf("  Stopped early, every teacher reached %.0fh\n", app.Policy.SoftWarnHours)
			}

			if showSkipped && len(outcome.Skipped) > 0 {
				fmt.Println("\nSkipped candidates:")
				for _, skip := range outcome.Skipped {
					fmt.Printf("  %s%-50s %s (%s)%s\n", colorDim, skip.Candidate, skip.Reason, skip.Detail, colorReset)
				}
			}

			for _, verr := range outcome.ValidationErrors {
				fmt.Printf("%s⚠️  %s: %s%s\n", colorYellow, verr.CriterionName, verr.Description, colorReset)
			}

			fmt.Println()
			printCommit(result.Commit)
			if result.Commit.Accepted {
				fmt.Printf("✓ Schedule updated: %d classes\n\n", len(result.Schedule))
			}
			return nil
		},
	}

	cmd.Flags().Bool("show-skipped", false, "List every candidate that produced no class")

	return cmd
}
