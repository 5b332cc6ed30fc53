package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateRunner checks a single target path outside any manifest.
type ValidateRunner interface {
	Validate(ctx context.Context, path, name, kind string) (*CheckFinding, error)
}

// validateJSONResponse is the JSON output structure for the validate command.
type validateJSONResponse struct {
	Valid   bool          `json:"valid"`
	Finding *CheckFinding `json:"finding,omitempty"`
}

// NewValidateCmd creates the validate command with the given runner.
func NewValidateCmd(runner ValidateRunner) *cobra.Command {
	var name string
	var kind string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:          "validate <path>",
		Short:        "Check that a single target path is a source file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if name == "" {
				return errors.New("--name is required")
			}

			finding, err := runner.Validate(cmd.Context(), path, name, kind)
			if err != nil {
				return err
			}

			if jsonFlag || GetJSON() {
				writeJSON(cmd.OutOrStdout(), validateJSONResponse{Valid: finding == nil, Finding: finding})
			} else if finding == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %s `%s` at `%s`\n", kind, name, path)
			}

			if finding != nil {
				return &InvalidTargetError{Err: errors.New(finding.Message)}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Target name used in diagnostics")
	cmd.Flags().StringVar(&kind, "kind", "bin", "Target kind (lib, bin, test, example, example-lib, bench, custom-build)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output results as JSON")

	return cmd
}
