package commands

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (load config once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against the
same storage and cache connections. The session keeps running until you type
'exit' or 'quit'.

Arguments containing spaces can be quoted, e.g. add Monday 09:00 "Kenkere House" Barre.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\n🚀 Starting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			rootCmd := cmd.Root()
			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				parts, err := splitArgs(scanner.Text())
				if err != nil {
					fmt.Printf("❌ %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}

				switch parts[0] {
				case "exit", "quit":
					fmt.Println("👋 Goodbye!")
					return nil
				case "help":
					printInteractiveHelp(rootCmd)
					continue
				case "interactive", "completion":
					fmt.Printf("❌ %s is not available here\n\n", parts[0])
					continue
				}

				if app.Ctx.Err() != nil {
					return app.Ctx.Err()
				}

				// Find resolves nested commands such as "lock teacher"
				targetCmd, cmdArgs, err := rootCmd.Find(parts)
				if err != nil || targetCmd == rootCmd {
					fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", parts[0])
					continue
				}
				if targetCmd.RunE == nil {
					fmt.Printf("❌ %s needs a subcommand: %s\n\n", targetCmd.Name(), subcommandNames(targetCmd))
					continue
				}

				// Flags keep their values between runs unless reset
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Run RunE directly so PersistentPreRunE does not reconnect everything
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("❌ Error parsing flags: %v\n\n", err)
					continue
				}
				cmdArgs = targetCmd.Flags().Args()

				if targetCmd.Args != nil {
					if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
						fmt.Printf("❌ Error: %v\n\n", err)
						continue
					}
				}

				if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
					fmt.Printf("❌ Error: %v\n\n", err)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}
}

// splitArgs splits a line on whitespace, keeping single or double quoted text together
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}

func subcommandNames(cmd *cobra.Command) string {
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func printInteractiveHelp(rootCmd *cobra.Command) {
	fmt.Println("\nAvailable commands:")

	for _, cmd := range rootCmd.Commands() {
		switch cmd.Name() {
		case "interactive", "completion", "help":
			continue
		}
		fmt.Printf("  %-50s %s\n", cmd.Use, cmd.Short)
		for _, sub := range cmd.Commands() {
			fmt.Printf("    %-48s %s\n", sub.Use, sub.Short)
		}
	}

	fmt.Println("\n  help                                               Show this help message")
	fmt.Println("  exit, quit                                         Exit the interactive session")
	fmt.Println()
}
