package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/captionworks/yt-transcripts/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for yt-transcripts.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [DATABASE_URL]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with database connection and worker settings.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var databaseURL string
		if len(args) > 0 {
			databaseURL = args[0]
		}

		if err := config.InitConfig(databaseURL); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Created configuration file: %s\n", configPath)
		fmt.Println("Please edit the database_url in this file to match your PostgreSQL database.")

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration file path and effective settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration file: %s\n\n", configPath)

		// Load and display effective config
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		fmt.Printf("DATABASE_URL: %s\n", cfg.DatabaseURL)
		fmt.Printf("Batch limit: %d\n", cfg.Fetch.BatchLimit)
		fmt.Printf("Languages: %s\n", strings.Join(cfg.Fetch.Languages, ", "))
		fmt.Printf("Max retries: %d\n", cfg.Fetch.MaxRetries)
		fmt.Printf("Retry delay: %s\n", cfg.Fetch.RetryDelay())
		fmt.Printf("Sleep between fetches: %s\n", cfg.Fetch.SleepInterval())
		if cfg.Fetch.ProxyURL != "" {
			fmt.Printf("Proxy: %s\n", cfg.Fetch.ProxyURL)
		}
		if cfg.Metrics.PushgatewayURL != "" {
			fmt.Printf("Pushgateway: %s\n", cfg.Metrics.PushgatewayURL)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
