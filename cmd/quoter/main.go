// Package main is the entry point for the Uniswap V3 pool quoter.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fd1az/pool-quoter/business/pool"
	"github.com/fd1az/pool-quoter/business/quoting"
	"github.com/fd1az/pool-quoter/internal/apm"
	"github.com/fd1az/pool-quoter/internal/config"
	"github.com/fd1az/pool-quoter/internal/health"
	"github.com/fd1az/pool-quoter/internal/logger"
	"github.com/fd1az/pool-quoter/internal/metrics"
	"github.com/fd1az/pool-quoter/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "quoter",
		Short:         "Uniswap V3 single-pool quote engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newQuoteCmd(), newPoolCmd(), newWatchCmd(), newVersionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// application is the subset of the monolith the commands drive.
type application interface {
	monolith.Monolith
	RegisterModules(modules ...monolith.Module) error
	StartModules(ctx context.Context, modules ...monolith.Module) error
	Close() error
}

// runtime holds everything a command needs once the app is started.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	mono     application
	cleanups []func()
}

func (r *runtime) Close() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
}

// bootstrap loads config, sets up logging and telemetry, and starts the
// pool and quoting modules. logOut receives the logs (io.Discard in TUI mode).
func bootstrap(ctx context.Context, cmd *cobra.Command, logOut io.Writer) (*runtime, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := cfg.App.LogLevel
	if override, _ := cmd.Flags().GetString("log-level"); override != "" {
		logLevel = override
	}

	log := logger.New(logOut, logger.ParseLevel(logLevel), cfg.App.Name, nil)
	rt := &runtime{cfg: cfg, log: log}
	rt.cleanups = append(rt.cleanups, func() { _ = log.Sync() })

	log.Info(ctx, "starting pool quoter",
		"version", version,
		"environment", cfg.App.Environment,
		"command", cmd.Name(),
	)

	// Initialize observability if enabled
	if cfg.Telemetry.Enabled {
		if err := setupTelemetry(ctx, rt); err != nil {
			rt.Close()
			return nil, err
		}
	}

	// Create monolith (application container)
	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to create monolith: %w", err)
	}
	rt.mono = mono
	rt.cleanups = append(rt.cleanups, func() { _ = mono.Close() })

	if cfg.Ethereum.ChainID != 0 {
		if id, err := mono.ChainClient().ChainID(ctx); err == nil && id.Uint64() != cfg.Ethereum.ChainID {
			log.Warn(ctx, "connected node reports a different chain id",
				"configured", cfg.Ethereum.ChainID,
				"node", id.Uint64(),
			)
		}
	}

	// Define modules in dependency order
	modules := []monolith.Module{
		&pool.Module{},    // Pool directory over the chain client
		&quoting.Module{}, // Depends on the pool directory
	}

	if err := mono.RegisterModules(modules...); err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to start modules: %w", err)
	}

	return rt, nil
}

func setupTelemetry(ctx context.Context, rt *runtime) error {
	cfg := rt.cfg.Telemetry

	headers, err := apm.ParseHeaders(cfg.OTLPHeaders)
	if err != nil {
		return fmt.Errorf("telemetry headers: %w", err)
	}

	tp, err := apm.NewTraceProvider(ctx, apm.Options{
		ServiceName: cfg.ServiceName,
		Provider:    apm.Provider(cfg.Exporter),
		Endpoint:    cfg.OTLPEndpoint,
		Headers:     headers,
		Writer:      os.Stderr,
	}, rt.log)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	rt.cleanups = append(rt.cleanups, func() { _ = tp.Stop() })

	metricOpts := []metrics.OptionFn{
		metrics.WithServiceName(cfg.ServiceName),
		metrics.WithProviderConfig(metrics.NewPrometheusConfig()),
	}
	if apm.Provider(cfg.Exporter) == apm.OTLPGRPCProvider {
		metricOpts = append(metricOpts, metrics.WithProviderConfig(
			metrics.NewOtelCollectorConfig(cfg.OTLPEndpoint, headers, metrics.InsecureOtel)))
	}

	mp, err := metrics.NewMetricProvider(ctx, metricOpts...)
	if err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}
	rt.cleanups = append(rt.cleanups, func() { _ = mp.Shutdown(context.Background()) })

	// Start Prometheus metrics server in background
	metricsCtx, cancel := context.WithCancel(ctx)
	rt.cleanups = append(rt.cleanups, cancel)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.PrometheusPort)
		if err := metrics.ServePrometheusMetrics(metricsCtx, addr, rt.log); err != nil {
			rt.log.Error(metricsCtx, "metrics server failed", "error", err)
		}
	}()

	return nil
}

// startHealth serves the probes while a long-running command is active.
func startHealth(ctx context.Context, rt *runtime) {
	if !rt.cfg.Health.Enabled {
		return
	}

	srv := health.NewServer(rt.cfg.Health.Addr, version, rt.log)
	srv.RegisterCheck("ethereum", health.BlockNumberCheck(rt.mono.ChainClient().BlockNumber))
	if err := srv.Start(ctx); err != nil {
		rt.log.Warn(ctx, "failed to start health server", "error", err)
		return
	}
	rt.cleanups = append(rt.cleanups, func() { _ = srv.Stop(context.Background()) })
}
