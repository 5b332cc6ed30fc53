package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/tck/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(getwd func() (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "config",
		Short:        "Inspect tck configuration",
		SilenceUsage: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "show",
		Short:        "Print the effective configuration as YAML",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}

			cfg, source, err := config.Load(cmd.Context(), config.LoadOptions{Dir: cwd, ConfigFile: configFile})
			if err != nil {
				return err
			}
			if GetJSON() {
				writeJSON(cmd.OutOrStdout(), cfg)
				return nil
			}

			out, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			if source != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", source)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	})

	return cmd
}
