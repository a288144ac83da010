package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/captionworks/yt-transcripts/internal/config"
	apperrors "github.com/captionworks/yt-transcripts/internal/errors"
	"github.com/captionworks/yt-transcripts/internal/model"
	"github.com/captionworks/yt-transcripts/internal/repository"
)

// transcriptReader is the slice of the transcript store the show command reads
type transcriptReader interface {
	GetByVideoID(ctx context.Context, videoID string) (*model.TranscriptRecord, error)
}

// showConnector builds the reader from loaded config (swapped in tests)
type showConnector func(ctx context.Context, cfg *config.Config) (transcriptReader, func(), error)

// showCmd displays a stored transcript
var showCmd = newShowCommand(connectTranscriptReader)

// newShowCommand creates the show command
func newShowCommand(connect showConnector) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [VIDEO_ID]",
		Short: "Show the stored transcript for a video",
		Long:  `Display the stored transcript record for a video, including fetch status and timed segments.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := args[0]

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			// Load configuration
			cfg, err := config.NewConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			reader, cleanup, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			record, err := reader.GetByVideoID(ctx, videoID)
			if apperrors.IsCode(err, apperrors.CodeNotFound) {
				cmd.Printf("No transcript stored for video ID: %s\n", videoID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get transcript: %w", err)
			}

			// Check format flag
			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				jsonData, err := json.MarshalIndent(record, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}
				fmt.Fprintln(out, string(jsonData))

			default:
				fmt.Fprintf(out, "Video ID: %s\n", record.VideoID)
				fmt.Fprintf(out, "Status: %s\n", record.FetchStatus)
				if record.Language != nil {
					fmt.Fprintf(out, "Language: %s\n", *record.Language)
				}
				fmt.Fprintf(out, "Attempts: %d\n", record.FetchAttempts)
				fmt.Fprintf(out, "Fetched: %s\n", record.FetchedAt.Format(time.RFC3339))
				if record.ErrorMessage != nil {
					fmt.Fprintf(out, "Error: %s\n", *record.ErrorMessage)
				}

				if len(record.TranscriptJSON) > 0 {
					fmt.Fprintf(out, "\n--- Segments (%d) ---\n", len(record.TranscriptJSON))
					for _, segment := range record.TranscriptJSON {
						fmt.Fprintf(out, "[%.1f -> %.1f] %s\n", segment.Start, segment.Start+segment.Duration, segment.Text)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format: text, json")

	return cmd
}

// connectTranscriptReader opens the real database-backed reader
func connectTranscriptReader(ctx context.Context, cfg *config.Config) (transcriptReader, func(), error) {
	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return repository.NewTranscriptRepository(dbPool), dbPool.Close, nil
}

func init() {
	rootCmd.AddCommand(showCmd)
}
