package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/colonybot-go/internal/adapters/metrics"
	"github.com/andrescamacho/colonybot-go/internal/adapters/runner"
	"github.com/andrescamacho/colonybot-go/internal/application/logging"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/config"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/pidfile"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("Colony Daemon v0.1.0")
	fmt.Println("====================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)

	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		log.Fatalf("Failed to acquire PID file lock: %v", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		// Fatal would skip the deferred pid file release
		log.Printf("Fatal error: %v", err)
		_ = pf.Release()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// 1. Metrics
	var commandMetrics *metrics.CommandMetricsCollector
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		colonyMetrics := metrics.NewColonyMetricsCollector()
		if err := colonyMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register colony metrics: %w", err)
		}
		metrics.SetGlobalCollector(colonyMetrics)

		commandMetrics = metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}

		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr(),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Metrics server error: %v", err)
			}
		}()
		fmt.Printf("Metrics exposed on http://%s%s\n", metricsServer.Addr, cfg.Metrics.Path)
	}

	// 2. World, database, logger and tick handler
	scenario, err := runner.LoadScenario(cfg.Simulation.Scenario)
	if err != nil {
		return err
	}
	fmt.Printf("Scenario: %s\n", scenario.Name)

	app, err := runner.NewApp(cfg, scenario, "", commandMetrics)
	if err != nil {
		return err
	}
	defer app.Close()
	fmt.Printf("Run id: %s\n", app.RunID)

	// 3. Signals cancel the tick loop
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = app.Context(ctx)
	logger := logging.LoggerFromContext(ctx)

	r := app.Runner(runner.Options{
		MaxTicks: cfg.Simulation.MaxTicks,
		Limiter:  rate.NewLimiter(rate.Every(cfg.Simulation.TickInterval), 1),
	})

	seeded, err := r.Seed(ctx)
	if err != nil {
		return err
	}
	logger.Log(logging.LevelInfo, "Daemon started", map[string]interface{}{
		"run_id":        app.RunID,
		"scenario":      scenario.Name,
		"tick_interval": cfg.Simulation.TickInterval.String(),
		"seeded":        seeded,
	})

	fmt.Println("\n✓ Daemon is running")
	fmt.Println("Press Ctrl+C to stop")

	summary, runErr := r.Run(ctx)

	logger.Log(logging.LevelInfo, "Daemon stopping", map[string]interface{}{
		"ticks":   summary.Ticks,
		"spawned": len(summary.Spawned),
	})

	// 4. Shut the metrics server down within the configured timeout
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: metrics server shutdown: %v", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("tick loop failed: %w", runErr)
	}

	fmt.Printf("\nDaemon stopped after %d tick(s)\n", summary.Ticks)
	return nil
}
