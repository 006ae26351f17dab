package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables (postgres) or indexes (mongo) for STORE_BACKEND",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			be, err := openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer be.close(ctx)

			if err := be.migrate(ctx); err != nil {
				return fmt.Errorf("migrate %s: %w", cfg.StoreBackend, err)
			}
			logger.Info("migration complete", zap.String("backend", cfg.StoreBackend))
			return nil
		},
	}
}
