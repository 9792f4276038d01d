package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv_file>",
		Short: "Replace the attendance history with a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("import command", zap.String("file", args[0]))

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer file.Close()

			result, err := services.ImportHistoryCSV(app.Ctx, app.Database, app.Logger, file)
			if err != nil {
				return err
			}

			printImport(result)
			return nil
		},
	}
}

// ImportSheetCmd creates the importSheet command
func ImportSheetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importSheet",
		Short: "Replace the attendance history with the configured Google Sheet range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Sheets()
			if err != nil {
				return err
			}

			result, err := services.ImportHistorySheet(
				app.Ctx,
				app.Database,
				client,
				app.Logger,
				app.Cfg.Sheets.HistorySheetID,
				app.Cfg.Sheets.HistoryRange,
			)
			if err != nil {
				return err
			}

			printImport(result)
			return nil
		},
	}
}

func printImport(result *services.ImportResult) {
	fmt.Printf("\n✓ Imported %d historical classes\n", result.Imported)
	if result.Filtered > 0 {
		fmt.Printf("  %d hosted or variant-less rows filtered out\n", result.Filtered)
	}
	if len(result.Rejected) > 0 {
		fmt.Printf("\n⚠️  %d rows rejected:\n", len(result.Rejected))
		for _, rejected := range result.Rejected {
			fmt.Printf("  ✗ %s\n", rejected.Error())
		}
	}
	fmt.Println()
}
