package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/studio-scheduler/pkg/core/model"
	"github.com/jakechorley/studio-scheduler/pkg/core/services"
)

// LockCmd creates the lock command
func LockCmd(app *AppContext) *cobra.Command {
	return lockCmd(app, true)
}

// UnlockCmd creates the unlock command
func UnlockCmd(app *AppContext) *cobra.Command {
	return lockCmd(app, false)
}

func lockCmd(app *AppContext, locked bool) *cobra.Command {
	verb := "unlock"
	if locked {
		verb = "lock"
	}

	cmd := &cobra.Command{
		Use:   verb,
		Short: fmt.Sprintf("%s classes or teachers so optimize keeps them", capitalise(verb)),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "classes",
		Short: fmt.Sprintf("%s every class in the schedule", capitalise(verb)),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug(verb+" command", zap.String("target", string(services.LockClasses)))
			result, err := services.SetAllLocks(app.Ctx, app.Database, app.Logger, services.LockClasses, locked)
			if err != nil {
				return err
			}
			printLocks(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "teachers",
		Short: fmt.Sprintf("%s every teacher in the schedule", capitalise(verb)),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug(verb+" command", zap.String("target", string(services.LockTeachers)))
			result, err := services.SetAllLocks(app.Ctx, app.Database, app.Logger, services.LockTeachers, locked)
			if err != nil {
				return err
			}
			printLocks(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "class <class_id>",
		Short: fmt.Sprintf("%s a single class", capitalise(verb)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug(verb+" command", zap.String("class", args[0]))
			result, err := services.SetClassLock(app.Ctx, app.Database, app.Logger, args[0], locked)
			if err != nil {
				return err
			}
			printLocks(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "teacher <name>",
		Short: fmt.Sprintf("%s every class of one teacher", capitalise(verb)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teacher := model.NewTeacherID(args[0])
			app.Logger.Debug(verb+" command", zap.String("teacher", teacher.String()))
			result, err := services.SetTeacherLock(app.Ctx, app.Database, app.Logger, teacher, locked)
			if err != nil {
				return err
			}
			printLocks(result)
			return nil
		},
	})

	return cmd
}

func printLocks(result *services.LockResult) {
	fmt.Printf("\n✓ Locks updated\n")
	fmt.Printf("  Locked classes:  %d\n", result.LockedClasses)
	fmt.Printf("  Locked teachers: %d\n", result.LockedTeachers)
	fmt.Printf("  Classes optimize will keep: %d\n\n", result.Protected)
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
