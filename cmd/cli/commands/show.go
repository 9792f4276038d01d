package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// ShowCmd creates the show command
func ShowCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			showIDs, _ := cmd.Flags().GetBool("ids")

			app.Logger.Debug("show command", zap.Any("filter", filter))

			view, err := services.ShowSchedule(app.Ctx, app.Database, app.Logger, filter)
			if err != nil {
				return err
			}

			printSchedule(view.Classes)
			if showIDs {
				fmt.Println("Class IDs:")
				for _, c := range view.Classes {
					fmt.Printf("  %s  %s\n", c.ID, c.Key())
				}
				fmt.Println()
			}
			fmt.Printf("Showing %d of %d classes (undo: %s, redo: %s)\n\n",
				len(view.Classes), view.Total, yesNo(view.CanUndo), yesNo(view.CanRedo))
			return nil
		},
	}

	cmd.Flags().Bool("hide-top", false, "Hide top performer classes")
	cmd.Flags().Bool("hide-private", false, "Hide private classes")
	cmd.Flags().Bool("hide-regular", false, "Hide classes that are neither top performers nor private")
	cmd.Flags().String("teacher", "", "Only classes whose teacher contains this text")
	cmd.Flags().String("format", "", "Only classes whose format contains this text")
	cmd.Flags().String("day", "", "Only classes on this day")
	cmd.Flags().String("location", "", "Only classes whose location contains this text")
	cmd.Flags().Bool("ids", false, "List class IDs for use with remove and lock class")

	return cmd
}

func filterFromFlags(cmd *cobra.Command) (model.Filter, error) {
	flags := cmd.Flags()

	var filter model.Filter
	filter.HideTopPerformers, _ = flags.GetBool("hide-top")
	filter.HidePrivate, _ = flags.GetBool("hide-private")
	filter.HideRegular, _ = flags.GetBool("hide-regular")
	filter.Teacher, _ = flags.GetString("teacher")
	filter.Format, _ = flags.GetString("format")
	filter.Location, _ = flags.GetString("location")

	if day, _ := flags.GetString("day"); day != "" {
		parsed, err := model.ParseWeekday(day)
		if err != nil {
			return model.Filter{}, err
		}
		filter.Day = parsed
	}
	return filter, nil
}
