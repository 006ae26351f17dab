package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gopalbasak1/wind-house-management-server/internal/config"
	httpapi "github.com/gopalbasak1/wind-house-management-server/internal/http"
	"github.com/gopalbasak1/wind-house-management-server/internal/service"
	"github.com/gopalbasak1/wind-house-management-server/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var addr string
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			return runServe(cfg, migrate)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema/indexes before serving")
	return cmd
}

func runServe(cfg *config.Config, migrate bool) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	secret, err := tokenSecret(cfg, logger)
	if err != nil {
		return err
	}

	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if migrate {
		if err := be.migrateOrClose(ctx, logger); err != nil {
			return err
		}
	}

	sc := openSideChannels(ctx, cfg, logger)
	defer sc.close(logger)

	tokens := service.NewTokenService(secret, cfg.Auth.TokenTTL, store.NewRevocationList(sc.kv), logger)

	var gateway service.PaymentGateway
	if cfg.Payment.SecretKey != "" {
		gateway = service.NewStripeClient(cfg.Payment.GatewayURL, cfg.Payment.SecretKey, logger)
	} else {
		logger.Warn("PAYMENT_SECRET_KEY not set, /create-payment-intent will fail")
	}

	svc := httpapi.NewServices(be.store, tokens, sc.publisher, gateway, cfg.Payment.Currency, logger)
	router := httpapi.NewRouter(logger)
	router.RegisterRoutes(httpapi.NewAPI(be.store, svc, cfg.Production(), logger))

	handler := httpapi.AccessLog(logger, httpapi.CORS(cfg.HTTP.CORSOrigins, router))
	srv := service.NewServer(cfg.HTTP.Addr, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			serveErr = err
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := be.close(shutdownCtx); err != nil {
		logger.Warn("store close", zap.Error(err))
	}
	return serveErr
}
