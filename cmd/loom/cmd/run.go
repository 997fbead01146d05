package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/go-drift/loom/pkg/config"
	"github.com/go-drift/loom/pkg/errors"
	"github.com/go-drift/loom/showcase"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	LogFile string
	Level   string
	Tick    time.Duration
	Mouse   bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the counter showcase",
		Long: `Run the counter showcase in the current terminal.

Settings come from loom.yaml in the project root when present. Flags
override the file.

Keys:
  + / -           Change the count
  up / down       Move through the history
  enter           Restore the selected value
  r               Reset
  q, ctrl+c       Quit

Example:
  loom run --log loom.log --level debug
  loom run --tick 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowcase(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.LogFile, "log", "", "write logs to this file (relative to the project root)")
	cmd.Flags().StringVar(&opts.Level, "level", "", "log level (trace, debug, info, warn, error)")
	cmd.Flags().DurationVar(&opts.Tick, "tick", 0, "uptime clock interval, 0 disables it")
	cmd.Flags().BoolVar(&opts.Mouse, "mouse", false, "enable mouse reporting")

	return cmd
}

func runShowcase(cmd *cobra.Command, opts *RunOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	if err := opts.apply(cfg, cmd.Flags().Changed("tick")); err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	errors.SetHandler(&errors.LogHandler{Logger: log, Verbose: cfg.VerboseErrors})
	defer errors.SetHandler(nil)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exit, err := showcase.Run(ctx, cfg, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: count %d (%s)\n", cfg.AppName, exit.Count, exit.Reason)
	return nil
}

// apply layers the flags over the resolved configuration. The tick flag
// only wins when it was given, since zero is a meaningful value.
func (o *RunOptions) apply(cfg *config.Resolved, tickSet bool) error {
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
		if !filepath.IsAbs(cfg.LogFile) {
			cfg.LogFile = filepath.Join(cfg.Root, cfg.LogFile)
		}
	}
	if o.Level != "" {
		level, err := zerolog.ParseLevel(o.Level)
		if err != nil {
			return fmt.Errorf("invalid --level: %w", err)
		}
		cfg.LogLevel = level
	}
	if tickSet {
		if o.Tick < 0 {
			return fmt.Errorf("invalid --tick: must not be negative")
		}
		cfg.Tick = o.Tick
	}
	if o.Mouse {
		cfg.Mouse = true
	}
	return nil
}

// newLogger returns the file logger named by cfg. The terminal belongs to the
// app while it runs, so without a log file logging is disabled. Each run is
// tagged with a fresh session id so appended log files stay readable.
func newLogger(cfg *config.Resolved) (zerolog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	log := zerolog.New(f).Level(cfg.LogLevel).With().
		Timestamp().
		Str("app", cfg.AppName).
		Str("session", uuid.Must(uuid.NewV7()).String()).
		Logger()
	return log, func() { f.Close() }, nil
}
