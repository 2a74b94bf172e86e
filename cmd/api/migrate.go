package main

import (
	"github.com/spf13/cobra"

	"github.com/99minutos/catalog-api/internal/infrastructure/db"
	"github.com/99minutos/catalog-api/pkg/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the store schema and indexes, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			log := logger.Get()

			stores, err := db.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			log.Info().Str("driver", cfg.Store.Driver).Msg("migration complete")
			return stores.Close(ctx)
		},
	}
}
