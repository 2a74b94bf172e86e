package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/99minutos/catalog-api/docs"
	"github.com/99minutos/catalog-api/internal/api"
	"github.com/99minutos/catalog-api/internal/core/service"
	"github.com/99minutos/catalog-api/internal/infrastructure/db"
	"github.com/99minutos/catalog-api/pkg/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	log := logger.Get()

	stores, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing stores")
		}
	}()

	authService, tokens, err := newAuthService(cfg, stores, log)
	if err != nil {
		return err
	}
	productService := service.NewProductService(stores.Products, stores.Idempotency, log)

	if cfg.APIPrefix != "" {
		docs.SwaggerInfo.BasePath = cfg.APIPrefix
	}

	e := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		ProductService: productService,
		Tokens:         tokens,
		Probes:         stores.Probes,
		Log:            log,
		Options: api.Options{
			APIPrefix:            cfg.APIPrefix,
			StaticDir:            cfg.StaticDir,
			PublicProductListing: cfg.Auth.PublicProductListing,
			UnifyAuthFailures:    cfg.Auth.UnifyFailures,
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.Store.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server exited")
	return nil
}
