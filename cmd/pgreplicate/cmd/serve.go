/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/suryatmodulus/pg-replicate/pkg/api"
	"github.com/suryatmodulus/pg-replicate/pkg/sources"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the control-plane API server",
	Long: `Start the pg-replicate control-plane API.

The API lets tenants register and manage the source databases they replicate
from. Every request is authenticated with the configured API key and scoped
to the tenant named in the tenant_id header.

Examples:
  pgreplicate serve --config ./pg-replicate.yaml
  pgreplicate serve --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}
		if cfg.API.APIKey == "" || cfg.API.APIKey == "auto" {
			return fmt.Errorf("api key is not configured (run 'pgreplicate init' first)")
		}

		store, err := sources.NewStore(filepath.Join(cfg.Sink.Dir, "sources"))
		if err != nil {
			return err
		}
		defer store.Close()

		serverConfig := api.ServerConfig{
			Bind:   cfg.API.Bind,
			Port:   cfg.API.Port,
			APIKey: cfg.API.APIKey,
		}
		return api.StartServer(store, serverConfig, api.NewMetrics())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Override the configured API port")
}
