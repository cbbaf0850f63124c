package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

const banner = `
            _                _   _
 _ __  _ __(_)_ __ ___   ___| |_(_)_ __ ___   ___
| '_ \| '__| | '_ ' _ \ / _ \ __| | '_ ' _ \ / _ \
| |_) | |  | | | | | | |  __/ |_| | | | | | |  __/
| .__/|_|  |_|_| |_| |_|\___|\__|_|_| |_| |_|\___|
|_|
`

type rootFlags struct {
	configPath string
	logActions bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var flags rootFlags
	rootCmd := &cobra.Command{
		Use:   "primetime",
		Short: "Count, look up nth primes and keep favorites",
		Long: `primetime drives the prime time and todos features from the terminal.

Every command opens an interactive prompt. Type "help" at the prompt for
the commands it understands.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			color.New(color.FgCyan).Fprint(cmd.ErrOrStderr(), banner)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.logActions, "log-actions", false, "log every reduced action")

	rootCmd.AddCommand(
		counterCmd(&flags),
		favoritesCmd(&flags),
		todosCmd(&flags),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
