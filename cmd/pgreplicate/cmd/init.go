/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/suryatmodulus/pg-replicate/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Create a pg-replicate configuration file with a freshly generated API key.

Existing configuration is never overwritten unless --force is given.

Examples:
  pgreplicate init
  pgreplicate init --config ./pg-replicate.yaml --data-dir ./data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s (use --force to overwrite)\n", configPath)
			return nil
		}

		bootstrapped, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			return err
		}
		cmd.Printf("Configuration written to %s\n", configPath)
		cmd.Printf("API key: %s\n", bootstrapped.API.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("data-dir", "", "Data directory for the sink")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}
