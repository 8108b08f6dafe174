// Package main is the entry point for the fund performance benchmarking service.
// It serves a small dashboard where a user enters their fund's details and
// performance metrics, and compares them against percentile and average
// benchmarks computed over a catalog of peer funds.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/meridianlake/fundbench/internal/config"
	"github.com/meridianlake/fundbench/internal/database"
	"github.com/meridianlake/fundbench/internal/events"
	"github.com/meridianlake/fundbench/internal/metrics"
	"github.com/meridianlake/fundbench/internal/modules/auth"
	"github.com/meridianlake/fundbench/internal/modules/benchmark"
	benchmarkhandlers "github.com/meridianlake/fundbench/internal/modules/benchmark/handlers"
	"github.com/meridianlake/fundbench/internal/modules/catalog"
	"github.com/meridianlake/fundbench/internal/modules/charts"
	"github.com/meridianlake/fundbench/internal/scheduler"
	"github.com/meridianlake/fundbench/internal/server"
	"github.com/meridianlake/fundbench/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting fundbench")

	// Cache database for catalog snapshots
	db, err := database.New(filepath.Join(cfg.DataDir, "cache.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache database")
	}
	defer db.Close()

	snapshotRepo := catalog.NewSnapshotRepository(db.Conn(), log)
	if err := snapshotRepo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshot schema")
	}

	eventBus := events.NewBus(log)
	m := metrics.New()

	// Catalog loader: memoized per source, snapshots enable degraded starts
	loader := catalog.NewLoader(catalog.LoaderConfig{
		Fetcher:   catalog.NewFetcher(),
		Snapshots: snapshotRepo,
		EventBus:  eventBus,
		Source:    cfg.CatalogSource,
		Sheet:     cfg.CatalogSheet,
		Log:       log,
	})

	// Load the catalog up front so the first query doesn't pay for it.
	// A failed initial load is not fatal: queries report the condition and
	// a manual or scheduled refresh can recover.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	if loaded, err := loader.Load(loadCtx); err != nil {
		log.Error().Err(err).Str("source", cfg.CatalogSource).Msg("Initial catalog load failed")
	} else {
		m.CatalogRefreshed(loaded.Len())
	}
	cancelLoad()

	// Services
	authService := auth.NewService(
		cfg.AuthorizedEmails,
		cfg.AuthSecret,
		time.Duration(cfg.TokenTTLHours)*time.Hour,
		log,
	)
	benchmarkService := benchmark.NewService(loader, log)
	chartService := charts.NewService(log)

	// Scheduled catalog refresh (optional)
	sched := scheduler.New(log)
	if cfg.CatalogRefreshSchedule != "" {
		job := scheduler.NewCatalogRefreshJob(loader, m, log)
		if err := sched.AddJob(cfg.CatalogRefreshSchedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.CatalogRefreshSchedule).Msg("Invalid refresh schedule")
		}
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:             cfg.Port,
		DevMode:          cfg.DevMode,
		Log:              log,
		AuthService:      authService,
		AuthHandler:      auth.NewHandler(authService, log),
		CatalogHandler:   catalog.NewHandler(loader, log),
		BenchmarkHandler: benchmarkhandlers.NewHandler(benchmarkService, chartService, m, log),
		EventBus:         eventBus,
		Metrics:          m,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
