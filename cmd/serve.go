package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"footprint/internal/api"
	"footprint/internal/api/handler"
	"footprint/internal/config"
	"footprint/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config) func(ctx context.Context) {
	mp, err := api.NewMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
	}

	server, err := api.NewServer(api.Deps{
		Deps: handler.Deps{Searcher: getSearcher(ctx, cfg, mp)},
	}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	if cfg.HTTP.RequestTimeout > 0 && cfg.HTTP.RequestTimeout <= cfg.Probe.OverallTimeout {
		logger.Warn(ctx, "request timeout does not exceed the overall probe timeout, searches may be cut off",
			zap.Duration("request_timeout", cfg.HTTP.RequestTimeout),
			zap.Duration("overall_timeout", cfg.Probe.OverallTimeout))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "could not stop meter provider", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the username search API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stopWebserver := setupServer(ctx, cfg)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
		},
	}

	return cmd
}
