/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/suryatmodulus/pg-replicate/pkg/config"
	"github.com/suryatmodulus/pg-replicate/pkg/telemetry"
)

// cfg is the loaded configuration, populated before any subcommand runs.
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pgreplicate",
	Short: "pg-replicate - PostgreSQL to warehouse replication",
	Long: `pg-replicate converts PostgreSQL COPY and logical replication output
into typed rows and lands them in a destination sink.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath != "" && config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = config.DefaultConfig()
		}
		telemetry.Init("pgreplicate", cfg.Logging.Level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.GetDefaultConfigPath(), "Path to the configuration file")
}
