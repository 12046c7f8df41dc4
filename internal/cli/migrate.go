package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handora/gamesapi/internal/adapters/turso"
	"github.com/handora/gamesapi/internal/infrastructure/config"
	"github.com/handora/gamesapi/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations against the configured Turso database.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  handora migrate      # Run all pending migrations
  handora migrate 1    # Migrate to version 1
  handora migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("HANDORA_DATABASE_URL is not set")
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migrate.EnsureTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", currentVersion)
	}

	all, err := migrate.Load()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	fmt.Printf("Current version: %d\n", currentVersion)

	targetVersion := currentVersion
	if len(args) == 0 {
		if len(all) > 0 {
			targetVersion = all[len(all)-1].Version
		}
	} else {
		targetVersion, err = strconv.Atoi(args[0])
		if err != nil || targetVersion < 0 {
			return fmt.Errorf("invalid target version %q", args[0])
		}
	}

	if targetVersion == currentVersion {
		fmt.Println("No migrations to run")
		return nil
	}

	if err := migrate.To(ctx, db, all, currentVersion, targetVersion); err != nil {
		return err
	}

	newVersion, _, _ := migrate.CurrentVersion(ctx, db)
	fmt.Printf("Migrated to version %d\n", newVersion)
	return nil
}
