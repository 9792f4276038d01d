package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/cmd/cli/commands"
	"github.com/jakechorley/studio-scheduler/internal/config"
	"github.com/jakechorley/studio-scheduler/pkg/cache"
	"github.com/jakechorley/studio-scheduler/pkg/clients/sheetsclient"
	"github.com/jakechorley/studio-scheduler/pkg/db"
	"github.com/jakechorley/studio-scheduler/pkg/filestore"
	"github.com/jakechorley/studio-scheduler/pkg/metrics"
	"github.com/jakechorley/studio-scheduler/pkg/postgres"
	"github.com/jakechorley/studio-scheduler/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     *commands.AppContext
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "studio",
		Short: "Studio Scheduler CLI - Plan the weekly class timetable",
		Long: `A CLI tool for building a fitness studio's weekly class schedule from
historical attendance, with locks, undo/redo and teacher hour limits.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	// app is populated by initApp before any RunE executes
	app = &commands.AppContext{}

	rootCmd.AddCommand(commands.ImportCmd(app))
	rootCmd.AddCommand(commands.ImportSheetCmd(app))
	rootCmd.AddCommand(commands.OptimizeCmd(app))
	rootCmd.AddCommand(commands.PopulateCmd(app))
	rootCmd.AddCommand(commands.AddCmd(app))
	rootCmd.AddCommand(commands.RemoveCmd(app))
	rootCmd.AddCommand(commands.UndoCmd(app))
	rootCmd.AddCommand(commands.RedoCmd(app))
	rootCmd.AddCommand(commands.ClearCmd(app))
	rootCmd.AddCommand(commands.LockCmd(app))
	rootCmd.AddCommand(commands.UnlockCmd(app))
	rootCmd.AddCommand(commands.AvailabilityCmd(app))
	rootCmd.AddCommand(commands.HoursCmd(app))
	rootCmd.AddCommand(commands.ShowCmd(app))
	rootCmd.AddCommand(commands.AnalyticsCmd(app))
	rootCmd.AddCommand(commands.RecommendCmd(app))
	rootCmd.AddCommand(commands.PublishCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// initApp sets up config, logger, storage, cache, metrics and clients
func initApp(ctx context.Context) error {
	var err error
	app.Ctx = ctx

	// Load configuration
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Policy = app.Cfg.ToPolicy()

	// Initialize logger
	app.Logger, err = logging.InitLogger(logging.Options{
		Env:     env,
		Dir:     app.Cfg.Logging.Dir,
		Verbose: verbose || app.Cfg.Logging.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))
	app.Metrics = metrics.NewRecorder()

	// Initialize storage
	switch app.Cfg.Storage.Driver {
	case "postgres":
		app.Logger.Debug("Connecting to postgres")
		pg, err := postgres.NewDB(ctx, app.Cfg.Storage.PostgresURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pg.RunMigrations(ctx); err != nil {
			pg.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Database = pg
	default:
		app.Logger.Debug("Opening file store", zap.String("path", app.Cfg.Storage.Path))
		fs, err := filestore.NewDB(app.Cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open file store: %w", err)
		}
		app.Database = fs
	}
	app.Database = db.ScopeLocations(app.Database, app.Cfg.Locations)
	app.Logger.Debug("Database initialized",
		zap.String("driver", app.Cfg.Storage.Driver),
		zap.Strings("locations", app.Cfg.Locations))

	// Initialize ranking cache
	if app.Cfg.Cache.RedisAddr != "" {
		client, err := cache.NewRedis(ctx, app.Cfg.Cache.RedisAddr, app.Cfg.Cache.RedisPassword, app.Cfg.Cache.RedisDB)
		if err != nil {
			// The cache only saves work, so carry on without it
			app.Logger.Warn("Ranking cache unavailable", zap.Error(err))
		} else {
			app.Rankings = cache.NewRankingCache(client, app.Cfg.Cache.TTL, app.Logger)
			app.Logger.Debug("Ranking cache connected", zap.String("addr", app.Cfg.Cache.RedisAddr))
		}
	}

	// Initialize sheets client
	if app.Cfg.HasSheets() {
		app.SheetsClient, err = sheetsclient.NewClient(ctx, app.Cfg.Sheets.CredentialsFile, env)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.Logger.Debug("Sheets client initialized")
	}

	return nil
}

// closeApp flushes metrics and releases connections
func closeApp() {
	if app.Logger == nil {
		return
	}

	if app.Cfg != nil {
		if err := app.Metrics.WriteTextfile(app.Cfg.Metrics.Textfile); err != nil {
			app.Logger.Warn("Failed to write metrics", zap.Error(err))
		}
	}
	if app.Rankings != nil {
		if err := app.Rankings.Close(); err != nil {
			app.Logger.Warn("Failed to close ranking cache", zap.Error(err))
		}
	}
	if app.Database != nil {
		app.Database.Close()
	}

	app.Logger.Sync()
}
