package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"omnivox-backend/lib/institution"
	"omnivox-backend/lib/omnivox"
	"omnivox-backend/lib/restyutil"
	"omnivox-backend/lib/scrapers/omnivox/core"
	"omnivox-backend/lib/scrapers/omnivox/lea"
	"omnivox-backend/lib/telemetry"
	"omnivox-backend/lib/timezone"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-input"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <institution> [student-number] [password]",
	Short: "Prints the documents, assignments, calendar and news of a student.",
	Long: `Prints the documents, assignments, calendar and news of a student.

The student number and password can also be given in the configuration file.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(configPath, args, os.Getenv)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		tel, err := telemetry.Setup(cmd.Context(), "omnivox-cli", cfg.Telemetry)
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			err := tel.Shutdown(ctx)
			if err != nil {
				slog.Warn("failed to shutdown telemetry", "err", err)
			}
		}()

		return scrape(cmd.Context(), scrapeOptions{
			Config: cfg,
			Out:    cmd.OutOrStdout(),
			Usage:  cmd.UsageString(),
			Prompt: terminalPrompt,
		})
	},
}

type scrapeOptions struct {
	Config Config
	Out    io.Writer
	Usage  string
	// Prompt asks for credentials missing from the config, nil disables it.
	Prompt func(query string, secret bool) (string, error)
	// Transport and Clock replace the defaults in tests.
	Transport http.RoundTripper
	Clock     timezone.Clock
}

func terminalPrompt(query string, secret bool) (string, error) {
	ui := input.DefaultUI()
	return ui.Ask(query, &input.Options{
		Required:  true,
		Loop:      true,
		Mask:      secret,
		HideOrder: true,
	})
}

func scrape(ctx context.Context, opts scrapeOptions) error {
	cfg := opts.Config

	inst, err := institution.Lookup(cfg.Institution, opts.Clock)
	if err != nil {
		var unknown *institution.UnknownError
		if errors.As(err, &unknown) {
			fmt.Fprint(opts.Out, opts.Usage)
			fmt.Fprintf(opts.Out, "\nSupported institutions: %s\n", strings.Join(institution.Names(), ", "))
		}
		return &exitError{code: 2, err: err}
	}
	if opts.Prompt != nil {
		if cfg.Username == "" {
			cfg.Username, err = opts.Prompt("student number:", false)
			if err != nil {
				return fmt.Errorf("read student number: %w", err)
			}
		}
		if cfg.Password == "" {
			cfg.Password, err = opts.Prompt("password:", true)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
		}
	}
	if cfg.Username == "" || cfg.Password == "" {
		return &exitError{code: 2, err: fmt.Errorf("a student number and a password are required")}
	}

	var output restyutil.InstrumentOutput
	if cfg.DumpHttp != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(cfg.DumpHttp)
		if err != nil {
			return fmt.Errorf("create http dump directory: %w", err)
		}
		slog.Info("dumping http exchanges", "dir", fsOutput.Dir())
		output = fsOutput
	}

	fetcher := lea.NewFetcher(inst.Portal, core.ClientOptions{
		LoginUrl:          cfg.LoginUrl,
		Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Transport:         opts.Transport,
		InstrumentOutput:  output,
	})

	student := &omnivox.Student{}
	manager := omnivox.NewManager(fetcher, inst.Assembler, student, telemetry.SlogAPI{})

	slog.Info("logging in", "institution", inst.Name)
	err = manager.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		return err
	}

	// a failed collection leaves its section empty, the others still print
	var errs []error
	collectors := []func(context.Context) error{
		manager.CollectDocuments,
		manager.CollectAssignments,
		manager.CollectCalendarEvents,
	}
	for _, collect := range collectors {
		err = collect(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}
	omnivox.PrintStudent(opts.Out, student)
	fmt.Fprintln(opts.Out)
	if cfg.Ics != "" {
		err = writeIcs(cfg.Ics, inst.Name, student.Events, opts.Clock)
		if err != nil {
			errs = append(errs, err)
		}
	}

	err = manager.PrintWhatsNew(ctx, opts.Out)
	if err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func writeIcs(path, institution string, events []omnivox.CalendarEvent, clock timezone.Clock) error {
	if clock == nil {
		clock = timezone.StandardClock{}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ics file: %w", err)
	}
	defer f.Close()

	err = omnivox.ExportCalendar(f, institution, events, clock.Now())
	if err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	slog.Info("wrote calendar", "path", path, "events", len(events))
	return nil
}
