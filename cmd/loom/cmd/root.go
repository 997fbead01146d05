// Package cmd implements the Loom CLI commands.
//
// The root command dispatches to subcommands (run, config, version). Every
// command resolves the project configuration the same way, so flags given on
// the command line layer over loom.yaml.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/loom/pkg/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	// Dir overrides the project root. Empty means search upward for go.mod.
	Dir     string
	Verbose bool
}

// NewRootCommand creates the root command for the Loom CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "loom",
		Short: "Loom - cooperative async UI runtime for the terminal",
		Long: `Loom drives component trees from native terminal events on a single
cooperative executor. The run command starts the counter showcase.

Use "loom <command> --help" for more information about a command.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("Loom version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&opts.Dir, "dir", "C", "", "project directory (default: nearest go.mod)")
	cmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "include stack traces in reported errors")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// resolve loads the configuration for the selected project root.
func (o *RootOptions) resolve() (*config.Resolved, error) {
	root := o.Dir
	if root == "" {
		var err error
		root, err = config.FindProjectRoot()
		if err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("project directory: %w", err)
	}

	cfg, err := config.Resolve(root)
	if err != nil {
		return nil, err
	}
	if o.Verbose {
		cfg.VerboseErrors = true
	}
	return cfg, nil
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Loom version %s (built %s)\n", Version, BuildTime)
		},
	}
}
