package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// FixAction represents a single path rewrite.
type FixAction struct {
	Target string `json:"target"`
	Kind   string `json:"kind"`
	Old    string `json:"old"`
	New    string `json:"new"`
}

// FixResult holds the rewrites and the findings left without a fix.
type FixResult struct {
	Manifest string         `json:"manifest"`
	Fixes    []FixAction    `json:"fixes"`
	Unfixed  []CheckFinding `json:"unfixed"`
	Applied  bool           `json:"applied"`
}

// FixRunner defines the interface for planning and applying fixes.
type FixRunner interface {
	Fix(ctx context.Context, apply bool) (*FixResult, error)
}

// UnfixedError is returned when fix leaves findings unresolved.
type UnfixedError struct {
	Count int
}

// Error implements the error interface.
func (e *UnfixedError) Error() string {
	return fmt.Sprintf("fix left %d unfixed findings", e.Count)
}

// ExitCode returns the exit code for unfixed findings (always 2).
func (e *UnfixedError) ExitCode() int {
	return 2
}

// NewFixCmd creates the fix command with the given runner.
func NewFixCmd(runner FixRunner) *cobra.Command {
	var applyFlag bool
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:          "fix",
		Short:        "Point directory targets at their conventional entrypoint",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			recordFailFast(cmd)
			result, err := runner.Fix(cmd.Context(), applyFlag)
			if err != nil {
				return err
			}
			if result.Fixes == nil {
				result.Fixes = []FixAction{}
			}
			if result.Unfixed == nil {
				result.Unfixed = []CheckFinding{}
			}

			if jsonFlag || GetJSON() {
				writeJSON(cmd.OutOrStdout(), result)
			} else {
				writeFixHuman(cmd, result)
			}

			if len(result.Unfixed) > 0 {
				return &UnfixedError{Count: len(result.Unfixed)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&applyFlag, "apply", false, "Rewrite the manifest (default is report only)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output results as JSON")
	addFailFastFlag(cmd)

	return cmd
}

func writeFixHuman(cmd *cobra.Command, result *FixResult) {
	w := cmd.OutOrStdout()
	verb := "Would set"
	if result.Applied {
		verb = "Set"
	}
	for _, f := range result.Fixes {
		fmt.Fprintf(w, "%s %s `%s` path: %s -> %s\n", verb, f.Kind, f.Target, f.Old, f.New)
	}
	for _, f := range result.Unfixed {
		fmt.Fprintf(w, "unfixed %s[%s]: %s\n", f.Severity, f.Type, f.Message)
	}
	if result.Applied && len(result.Fixes) > 0 {
		fmt.Fprintf(w, "Rewrote %s (comments and key order are not preserved)\n", result.Manifest)
	}
}
