package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/captionworks/yt-transcripts/internal/config"
	"github.com/captionworks/yt-transcripts/internal/metrics"
	"github.com/captionworks/yt-transcripts/internal/model"
	"github.com/captionworks/yt-transcripts/internal/repository"
	"github.com/captionworks/yt-transcripts/internal/service/transcript"
	"github.com/captionworks/yt-transcripts/internal/service/youtube"
)

// fetchPipeline bundles the selector and worker one run needs
type fetchPipeline struct {
	selector transcript.Selector
	worker   transcript.Worker
	cleanup  func()
}

// fetchConnector builds the pipeline from loaded config (swapped in tests)
type fetchConnector func(ctx context.Context, cfg *config.Config) (*fetchPipeline, error)

// fetchCmd runs one batch of transcript fetches
var fetchCmd = newFetchCommand(connectFetchPipeline)

// newFetchCommand creates the fetch command
func newFetchCommand(connect fetchConnector) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch transcripts for videos that have none",
		Long: `Select videos missing a transcript plus earlier failures still worth
retrying, fetch their captions from YouTube, and store every outcome.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration
			cfg, err := config.NewConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Flag overrides config and environment
			if cmd.Flags().Changed("limit") {
				cfg.Fetch.BatchLimit, _ = cmd.Flags().GetInt("limit")
			}

			// Batch runs with backoff can take a while
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
			defer cancel()

			pipe, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pipe.cleanup()

			// Dry run only lists what a real run would process
			if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
				batch, err := pipe.selector.SelectBatch(ctx, cfg.Fetch.BatchLimit)
				if err != nil {
					return fmt.Errorf("failed to select videos: %w", err)
				}
				if len(batch) == 0 {
					cmd.Println("No videos need transcripts.")
					return nil
				}
				cmd.Printf("Would fetch transcripts for %d video(s):\n", len(batch))
				for _, videoID := range batch {
					cmd.Printf("  %s\n", videoID)
				}
				return nil
			}

			stats, runErr := pipe.worker.Run(ctx)

			// Report what completed even when the run aborted early
			printRunSummary(cmd, stats)
			metrics.Push(cfg.Metrics.PushgatewayURL)

			if runErr != nil {
				return fmt.Errorf("fetch run aborted: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 0, "Maximum number of videos to process (overrides config)")
	cmd.Flags().Bool("dry-run", false, "List the selected videos without fetching anything")

	return cmd
}

// connectFetchPipeline wires the real database, client, and worker
func connectFetchPipeline(ctx context.Context, cfg *config.Config) (*fetchPipeline, error) {
	// Create database connection
	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create repositories
	videoRepo := repository.NewVideoRepository(dbPool)
	transcriptRepo := repository.NewTranscriptRepository(dbPool)

	selector := transcript.NewSelector(videoRepo, transcriptRepo, cfg.Fetch.MaxRetries)

	// Create YouTube caption client
	client, err := youtube.NewClient(cfg.Fetch.ProxyURL)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	engine := transcript.NewEngine(client, cfg.Fetch.Languages, cfg.Fetch.MaxRetries, cfg.Fetch.RetryDelay(), cfg.Fetch.SleepInterval())
	worker := transcript.NewWorker(selector, engine, transcriptRepo, cfg.Fetch.BatchLimit)

	return &fetchPipeline{
		selector: selector,
		worker:   worker,
		cleanup:  dbPool.Close,
	}, nil
}

// printRunSummary prints per-status counts for a finished run
func printRunSummary(cmd *cobra.Command, stats *transcript.RunStats) {
	cmd.Printf("Processed %d video(s)\n", stats.Total())
	for _, status := range model.AllStatuses {
		if count := stats.Count(status); count > 0 {
			cmd.Printf("  %-12s %d\n", status, count)
		}
	}
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
