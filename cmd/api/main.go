// Package main provides the catalog-api binary entry point.
//
// @title                       Catalog API
// @version                     1.0
// @description                 User registration, login and role-gated product catalog.
// @BasePath                    /
// @securityDefinitions.apikey  TokenAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/99minutos/catalog-api/internal/core/service"
	"github.com/99minutos/catalog-api/internal/infrastructure/config"
	"github.com/99minutos/catalog-api/internal/infrastructure/db"
	"github.com/99minutos/catalog-api/internal/infrastructure/security"
	"github.com/99minutos/catalog-api/pkg/logger"
)

const appName = "catalog-api"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Product catalog API with token authentication",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serveCmd(), migrateCmd(), useraddCmd())
	return cmd
}

// bootstrap loads configuration and initialises the process logger, which
// callers then retrieve with logger.Get.
func bootstrap(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: appName,
	})
	return cfg, nil
}

// newAuthService wires the authentication use cases over the opened stores.
func newAuthService(cfg *config.Config, stores *db.Stores, log zerolog.Logger) (*service.AuthService, *security.TokenService, error) {
	hasher, err := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, nil, err
	}
	tokens := security.NewTokenService(cfg.Auth.JWTSecret)
	return service.NewAuthService(stores.Users, hasher, tokens, log), tokens, nil
}
