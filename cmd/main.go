// Package main provides the CLI entrypoint for the footprint service.
// It wires subcommands (serve, probe), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"footprint/internal/config"
	"footprint/internal/registry"
	"footprint/internal/search"
	"footprint/pkg/httpx"
	"footprint/pkg/logger"
	"footprint/pkg/metrics"
	"footprint/pkg/prober"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// getSearcher builds the searcher from the target catalog and probe settings.
// Instruments are created on mp.
func getSearcher(ctx context.Context, cfg *config.Config, mp metric.MeterProvider) search.Searcher {
	catalog, err := registry.Load(cfg.Probe.CatalogPath)
	if err != nil {
		logger.Fatal(ctx, "could not load target catalog", zap.Error(err))
	}
	logger.Info(ctx, "target catalog loaded", zap.Int("targets", catalog.Len()))

	client, err := httpx.NewClient(clientConfig(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create http client", zap.Error(err))
	}

	probes, err := metrics.NewProbes(mp)
	if err != nil {
		logger.Fatal(ctx, "could not create metrics", zap.Error(err))
	}

	p := prober.New(client, prober.Options{
		UserAgent: cfg.Probe.UserAgent,
		Policy:    prober.Policy{RedirectExists: cfg.Probe.RedirectExists},
	})

	return search.New(catalog, p, probes, search.NewOptions(cfg))
}

// clientConfig derives the probe client settings. Classifying redirects as
// existing profiles only works on the first 3xx, so following is disabled then.
func clientConfig(cfg *config.Config) httpx.ClientConfig {
	maxRedirects := cfg.Probe.MaxRedirects
	if cfg.Probe.RedirectExists {
		maxRedirects = -1
	}

	return httpx.ClientConfig{
		MaxRedirects: maxRedirects,
		ProxyURL:     cfg.Probe.ProxyURL,
	}
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "footprint",
		Short: "Finds the platforms on which a username has a profile",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	// cobra reports flag errors itself
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("c", "config.yml", "The config file path")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	logger.SetupWithOptions(logger.Options{
		Environment: cfg.Environment,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		probeCommand(cfg),
	)

	err = rootCmd.ExecuteContext(ctx)
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
