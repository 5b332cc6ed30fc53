package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/tck/internal/config"
)

// NewInitCmd creates the init command. The getwd function returns the working
// directory where the configuration file will be written.
func NewInitCmd(getwd func() (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:          "init",
		Short:        "Write a default " + config.FileName + " in the current directory",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}

			created, err := config.WriteDefault(cwd)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintln(cmd.OutOrStdout(), "tck already configured")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.FileName)
			return nil
		},
	}
}
