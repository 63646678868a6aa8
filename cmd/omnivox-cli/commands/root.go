package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"omnivox-backend/lib/serviceutil"
	"omnivox-backend/lib/telemetry"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// exitError makes the process exit with a specific status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

var (
	configPath string
	verbose    bool
	dumpHttp   string
	timeout    int
	icsPath    string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "omnivox.json5", "The configuration file to read, <name>.local.json5 overrides it.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug information.")
	flags.StringVar(&dumpHttp, "dump-http", "", "A directory to write every http exchange to (passwords are redacted).")
	flags.IntVar(&timeout, "timeout", 0, "The timeout of a single request in seconds.")
	flags.StringVar(&icsPath, "ics", "", "Also write the calendar events to this iCalendar file.")
}

var rootCmd = &cobra.Command{
	Use:   "omnivox-cli [institution] [student-number] [password]",
	Short: "omnivox-cli prints the documents, assignments and calendar of an omnivox student.",
	Long: `omnivox-cli logs into an omnivox portal and prints the documents, assignments
and calendar events of a student, followed by the portal's "what's new" notices.

Usage: omnivox-cli [CegepName] [StudentNumber] [Password]`,
	Args:          cobra.MaximumNArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
		err := godotenv.Load()
		if err == nil {
			slog.Debug("loaded environment from .env")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return scrapeCmd.RunE(cmd, args)
	},
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintln(os.Stderr, exit.err)
		}
		os.Exit(exit.code)
	}
	serviceutil.Fatal("omnivox-cli failed", err)
}
