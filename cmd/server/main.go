package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/liaolj/iot-board/internal/config"
	"github.com/liaolj/iot-board/internal/database"
	"github.com/liaolj/iot-board/internal/ingest"
	"github.com/liaolj/iot-board/internal/logging"
	"github.com/liaolj/iot-board/internal/realtime"
	"github.com/liaolj/iot-board/internal/server"
	"github.com/liaolj/iot-board/internal/simulator"
)

func setupConfig() *config.Config {
	// Best-effort .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func runGracefulShutdown(srv *server.Server, sim *simulator.Simulator, registry *realtime.Registry, pool *pgxpool.Pool) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if sim != nil {
			sim.Stop()
		}
		registry.Close()
		pool.Close()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)

	registry := realtime.NewRegistry(clock)
	broadcaster := realtime.NewBroadcaster(registry, clock)

	readingRepo := database.NewReadingRepo(pool)
	deviceRepo := database.NewDeviceRepo(pool)
	alarmRepo := database.NewAlarmRepo(pool)
	auditRepo := database.NewAuditRepo(pool)
	fieldRepo := database.NewFieldRepo(pool)
	cropRepo := database.NewCropRepo(pool)
	operationRepo := database.NewOperationRepo(pool)

	ingestSvc := ingest.NewService(readingRepo, deviceRepo, alarmRepo, auditRepo, broadcaster)

	var sim *simulator.Simulator
	if cfg.SimulationMode {
		sim = simulator.New(ingestSvc, clock, cfg.SimulationInterval)
		sim.Start(context.Background())
	}

	healthChecks := []server.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
	}

	srv := server.NewServer(cfg, ingestSvc, server.Repositories{
		Readings:   readingRepo,
		Devices:    deviceRepo,
		Alarms:     alarmRepo,
		Fields:     fieldRepo,
		Crops:      cropRepo,
		Operations: operationRepo,
	}, registry, healthChecks)

	done := runGracefulShutdown(srv, sim, registry, pool)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}
