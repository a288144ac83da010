package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/captionworks/yt-transcripts/internal/config"
	"github.com/captionworks/yt-transcripts/internal/model"
	"github.com/captionworks/yt-transcripts/internal/repository"
)

// statusCmd shows the transcript backlog and stored outcome counts
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show transcript backlog and fetch outcome counts",
	Long:  `Display how many cataloged videos still lack a transcript and how stored fetches ended, grouped by status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Load configuration
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// Create database connection
		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		// Create repositories
		videoRepo := repository.NewVideoRepository(dbPool)
		transcriptRepo := repository.NewTranscriptRepository(dbPool)

		backlog, err := videoRepo.CountWithoutTranscript(ctx)
		if err != nil {
			return fmt.Errorf("failed to count backlog: %w", err)
		}

		counts, err := transcriptRepo.CountByStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to count transcripts: %w", err)
		}

		fmt.Printf("Backlog: %d video(s) without a transcript\n\n", backlog)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "STATUS\tCOUNT")
		for _, status := range model.AllStatuses {
			if count, ok := counts[status]; ok {
				fmt.Fprintf(w, "%s\t%d\n", status, count)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
