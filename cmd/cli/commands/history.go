package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// UndoCmd creates the undo command
func UndoCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore the previous schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("undo command")

			result, err := services.Undo(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}
			printHistoryMove("undo", result)
			return nil
		},
	}
}

// RedoCmd creates the redo command
func RedoCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Reapply the schedule undone last",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("redo command")

			result, err := services.Redo(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}
			printHistoryMove("redo", result)
			return nil
		},
	}
}

// ClearCmd creates the clear command
func ClearCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the schedule and release every lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("clear command")

			removed, err := services.ClearSchedule(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Cleared %d classes. Run 'undo' to bring them back.\n\n", removed)
			return nil
		},
	}
}

func printHistoryMove(action string, result *services.HistoryResult) {
	if !result.Moved {
		fmt.Printf("\nNothing to %s.\n\n", action)
		return
	}
	fmt.Printf("\n✓ Schedule restored: %d classes\n", len(result.Schedule))
	fmt.Printf("  undo available: %s, redo available: %s\n\n", yesNo(result.CanUndo), yesNo(result.CanRedo))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
