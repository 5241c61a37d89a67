package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/importmaps/internal/app"
)

func (c *CLI) newDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Serve the application with a live import map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, jsonMode := globalFlags(cmd)
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")

			return c.app.Dev(cmd.Context(), app.DevOptions{
				Config: config,
				Host:   host,
				Port:   port,
				JSON:   jsonMode,
			})
		},
	}
	cmd.Flags().String("host", "", "Override the configured server host")
	cmd.Flags().IntP("port", "p", 0, "Override the configured server port")
	return cmd
}
