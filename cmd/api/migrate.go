package main

import (
	"context"
	"fmt"
	"log/slog"

	"gohire/internal/config"
	"gohire/internal/database"
	"gohire/internal/logging"
)

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("migrate needs STORE=%s", config.StorePostgres)
	}
	logger := logging.NewLogger(cfg.LogLevel)
	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		logger.Info("database is up to date")
		return nil
	}
	for _, name := range applied {
		logger.Info("migration applied", slog.String("name", name))
	}
	return nil
}
