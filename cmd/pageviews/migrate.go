package main

import (
	"context"
	"fmt"
	"log/slog"

	corecfg "github.com/aevon-lab/pageviews/internal/core/config"
	"github.com/aevon-lab/pageviews/internal/core/storage/backend"
	"github.com/aevon-lab/pageviews/internal/migrations"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded PostgreSQL migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrate(cmd.Context())
	},
}

func runMigrate(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Type != corecfg.StoragePostgres {
		return fmt.Errorf("migrate requires storage.type %q, got %q", corecfg.StoragePostgres, cfg.Storage.Type)
	}

	db, err := backend.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.RunMigrations(db, true); err != nil {
		return wrapErr("run migrations", err)
	}

	version, dirty, err := migrations.Version(db)
	if err != nil {
		return err
	}
	slog.Info("Schema is current", "version", version, "dirty", dirty)
	return nil
}
