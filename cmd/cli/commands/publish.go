package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the current schedule to the configured Google Sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Sheets()
			if err != nil {
				return err
			}

			tab, _ := cmd.Flags().GetString("tab")
			if tab == "" {
				tab = app.Cfg.Sheets.PublishTab
			}

			app.Logger.Debug("publish command", zap.String("tab", tab))

			published, err := services.PublishSchedule(app.Ctx, app.Database, client, app.Logger, app.Cfg.Sheets.PublishSheetID, tab)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Published %d classes to tab %q\n\n", published, tab)
			return nil
		},
	}

	cmd.Flags().String("tab", "", "Tab to write to (defaults to sheets.publishTab)")

	return cmd
}
