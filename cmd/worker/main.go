package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"scoresheet/ingestion/internal/app"
	"scoresheet/ingestion/internal/cache"
	"scoresheet/ingestion/internal/config"
	"scoresheet/ingestion/internal/metrics"
	"scoresheet/ingestion/internal/repository"
	"scoresheet/ingestion/internal/scheduler"
	"scoresheet/ingestion/internal/webhook"
)

func main() {
	// Setup logger
	app.SetupLogger(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	log.Info().Msg("Starting score sheet ingestion worker")

	// Load configuration
	cfg := config.MustLoad()
	app.SetupLogger(cfg.AppEnv, cfg.LogLevel)
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("grid_backend", cfg.GridBackend).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	grid, err := app.NewGrid(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize grid")
	}

	dir, err := app.LoadDirectory(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load directory")
	}

	// Initialize database connection
	db, err := repository.NewDatabase(ctx, app.DatabaseConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare database schema")
	}
	log.Info().Msg("Database connection established")

	service := app.NewService(cfg, grid, dir).WithRecorder(db)

	// Initialize Redis client
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     fmt.Sprintf("%d", cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.DedupeTTL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without delivery guard")
	} else {
		defer redisCache.Close()
		service.WithDeduper(redisCache)
		log.Info().Msg("Redis cache connected")
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort, db)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.NewScheduler(scheduler.Config{
		Cron:  cfg.ReplayCron,
		Limit: cfg.ReplayLimit,
	}, db, service)

	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Replay stored messages once so the sheet catches up after downtime
	if cfg.InitialReplayEnabled {
		log.Info().Msg("Running initial replay...")
		if _, err := sched.Replay(ctx); err != nil {
			log.Error().Err(err).Msg("Initial replay failed, continuing anyway...")
		} else {
			log.Info().Msg("Initial replay completed successfully")
		}
	}

	var server *webhook.Server
	if cfg.WebhookEnabled {
		server = webhook.NewServer(webhook.Config{
			Port:     cfg.IngestionPort,
			Secret:   cfg.WebhookSecret,
			ChatName: cfg.ChatName,
		}, service)

		go func() {
			if err := server.ListenAndServe(); err != nil {
				log.Error().Err(err).Msg("Webhook server failed")
				cancel()
			}
		}()
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	if server != nil {
		log.Info().Msg("Shutting down webhook server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Webhook server shutdown failed")
		}
		shutdownCancel()
	}

	if cfg.EnableScheduler {
		log.Info().Msg("Shutting down scheduler...")
		sched.Stop()
	}

	log.Info().Msg("Worker shutdown complete")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int, db *repository.Database) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
