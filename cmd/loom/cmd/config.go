package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration loom run would use.

Values come from loom.yaml in the project root, falling back to defaults
derived from go.mod.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.resolve()
			if err != nil {
				return err
			}

			logFile := cfg.LogFile
			if logFile == "" {
				logFile = "(disabled)"
			}
			module := cfg.ModulePath
			if module == "" {
				module = "(none)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project: %s (%s)\n", cfg.AppName, cfg.AppID)
			fmt.Fprintf(out, "  %-10s %s\n", "root:", cfg.Root)
			fmt.Fprintf(out, "  %-10s %s\n", "module:", module)
			fmt.Fprintf(out, "  %-10s %s\n", "log:", logFile)
			fmt.Fprintf(out, "  %-10s %s\n", "level:", cfg.LogLevel)
			fmt.Fprintf(out, "  %-10s %s\n", "tick:", cfg.Tick)
			fmt.Fprintf(out, "  %-10s %t\n", "mouse:", cfg.Mouse)
			return nil
		},
	}
}
