// Package cmd contains the CLI commands for the tck application.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// Global flag state shared by all subcommands.
var (
	verbose      bool
	jsonOutput   bool
	configFile   string
	manifestFlag string
	failFast     bool
	failFastSet  bool
)

func init() {
	rootCmd = BuildCommandTree(wireService, os.Getwd)
}

// GetVerbose returns the current verbose flag state.
func GetVerbose() bool {
	return verbose
}

// GetJSON reports whether --json was given on the root command.
func GetJSON() bool {
	return jsonOutput
}

// addFailFastFlag registers --fail-fast on cmd. Only an explicit flag
// overrides the fail_fast configuration value.
func addFailFastFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first invalid target (overrides fail_fast)")
}

// recordFailFast notes whether --fail-fast was given explicitly.
func recordFailFast(cmd *cobra.Command) {
	failFastSet = cmd.Flags().Changed("fail-fast")
}

// NewRootCmd creates a new root command instance without subcommands.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tck",
		Short:         "Check that build targets point at source files",
		Long:          "tck validates the entrypoint paths declared by build targets in a Cargo-style manifest and suggests the conventional file when a directory was given.",
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a configuration file (default .tck.yaml)")
	cmd.PersistentFlags().StringVarP(&manifestFlag, "manifest", "m", "", "Path to the manifest (default: search upward)")

	return cmd
}

// BuildCommandTree creates the root command with every subcommand wired to
// services built by factory. A nil factory leaves manifest commands
// returning ErrNotInProject.
func BuildCommandTree(factory serviceFactory, getwd func() (string, error)) *cobra.Command {
	root := NewRootCmd()

	root.AddCommand(NewCheckCmd(&checkAdapter{factory: factory}))
	root.AddCommand(NewFixCmd(&fixAdapter{factory: factory}))
	root.AddCommand(NewValidateCmd(&validateAdapter{factory: factory}))
	root.AddCommand(NewInitCmd(getwd))
	root.AddCommand(NewConfigCmd(getwd))

	return root
}

// ExecuteContext runs the root command with the given context.
// This enables graceful shutdown via context cancellation (e.g., on SIGINT).
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
