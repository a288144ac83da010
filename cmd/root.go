package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yt-transcripts",
	Short: "Backfill YouTube transcripts for cataloged videos",
	Long: `yt-transcripts fetches time-coded captions for YouTube videos already
stored in the database. Each run selects videos without a transcript,
fetches their captions, and records every outcome so permanent failures
are never retried.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging installs the default slog handler before any command runs
func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})))
}

func init() {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
