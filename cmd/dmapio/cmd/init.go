/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sdarn/dmapio/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a dmapio config file",
	Long: `Write a config file with a freshly generated API key. Run this once
before 'dmapio serve'.

Examples:
  dmapio init
  dmapio init --config=./dmapio.yaml --index-dir=/data/index`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		indexDir, _ := cmd.Flags().GetString("index-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(configPath, indexDir)
		if err != nil {
			return err
		}

		cmd.Printf("Wrote config to %s\n", configPath)
		cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("config", "", "Config file path")
	initCmd.Flags().String("index-dir", "", "Catalog directory to record in the config")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config")
}
