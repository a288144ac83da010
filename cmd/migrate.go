package cmd

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/captionworks/yt-transcripts/internal/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
	Long:  `Apply or roll back the database schema migrations in the migrations directory.`,
}

// migrateUpCmd applies all pending migrations
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("Database schema is already up to date.")
				return nil
			}
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		fmt.Println("✅ Migrations applied successfully!")
		return nil
	},
}

// migrateDownCmd rolls back the most recent migration
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Confirm rollback
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Println("Rolling back drops schema objects. Use --confirm flag to proceed.")
			return nil
		}

		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Steps(-1); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("Nothing to roll back.")
				return nil
			}
			return fmt.Errorf("failed to roll back migration: %w", err)
		}

		fmt.Println("✅ Migration rolled back successfully!")
		return nil
	},
}

// newMigrator builds a migrator from the configured database URL
func newMigrator(cmd *cobra.Command) (*migrate.Migrate, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dir, _ := cmd.Flags().GetString("dir")
	m, err := migrate.New(fmt.Sprintf("file://%s", dir), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}

func init() {
	migrateCmd.PersistentFlags().String("dir", "migrations", "Directory containing migration files")
	migrateDownCmd.Flags().Bool("confirm", false, "Confirm rollback without prompt")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}
