package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// AddCmd creates the add command
func AddCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <day> <time> <location> <format> [teacher]",
		Short: "Add a class to the schedule by hand",
		Example: `  studio -e prod add Wednesday "6:30 PM" "Kenkere House" Barre "Anisha Shah"
  studio -e prod add sat 07:00 "Kenkere House" "Mat Pilates" --private`,
		Args: cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseWeekday(args[0])
			if err != nil {
				return err
			}

			private, _ := cmd.Flags().GetBool("private")
			confirm, _ := cmd.Flags().GetBool("confirm")
			multiBooking, _ := cmd.Flags().GetBool("allow-multi-booking")

			req := services.AddClassRequest{
				Day:               day,
				Time:              args[1],
				Location:          args[2],
				Format:            args[3],
				Private:           private,
				Confirm:           confirm,
				AllowMultiBooking: multiBooking,
			}
			if len(args) == 5 {
				req.Teacher = model.NewTeacherID(args[4])
			}

			app.Logger.Debug("add command", zap.Any("request", req))

			result, err := services.AddClass(app.Ctx, app.Database, app.Policy, app.Logger, req)
			if err != nil {
				return err
			}

			switch {
			case result.Conflict != nil:
				fmt.Printf("\n%s✗ %s%s\n", colorRed, result.Conflict, colorReset)
				fmt.Printf("  Use --allow-multi-booking to add it anyway.\n\n")
			case result.Violation != nil:
				fmt.Printf("\n%s✗ Not added, %s%s\n\n", colorRed, result.Violation, colorReset)
			case result.NeedsConfirmation:
				fmt.Printf("\n%s⚠️  %s%s\n", colorYellow, result.Warning, colorReset)
				fmt.Printf("  Re-run with --confirm to add the class.\n\n")
			default:
				if result.Warning != nil {
					fmt.Printf("\n%s⚠️  %s%s\n", colorYellow, result.Warning, colorReset)
				}
				fmt.Printf("\n✓ Added %s (%s)\n", result.Class.Key(), result.Class.Teacher)
				fmt.Printf("  ID: %s\n\n", result.Class.ID)
			}
			return nil
		},
	}

	cmd.Flags().Bool("private", false, "Mark the class as private")
	cmd.Flags().Bool("confirm", false, "Accept a soft hour threshold warning")
	cmd.Flags().Bool("allow-multi-booking", false, "Add the class even if its slot is taken")

	return cmd
}

// RemoveCmd creates the remove command
func RemoveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <class_id>",
		Short: "Remove a class from the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("remove command", zap.String("id", args[0]))

			removed, err := services.RemoveClass(app.Ctx, app.Database, app.Logger, args[0])
			if errors.Is(err, services.ErrClassNotFound) {
				return fmt.Errorf("no class with ID %s, run 'show' to list class IDs", args[0])
			}
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Removed %s (%s)\n\n", removed.Key(), removed.Teacher)
			return nil
		},
	}
}
