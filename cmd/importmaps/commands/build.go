package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/importmaps/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the application with shared dependencies split into import-mapped chunks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, jsonMode := globalFlags(cmd)
			outDir, _ := cmd.Flags().GetString("out-dir")

			return c.app.Build(cmd.Context(), app.BuildOptions{
				Config: config,
				OutDir: outDir,
				JSON:   jsonMode,
			})
		},
	}
	cmd.Flags().StringP("out-dir", "o", "", "Override the configured output directory")
	return cmd
}
