// Command server runs the expense tracker persistence service.
//
// It binds one of the two storage backends based on configuration, exposes the
// REST API over it, and optionally schedules periodic snapshot backups.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sivaworkplace/money-expense-tracker/internal/backup"
	"github.com/sivaworkplace/money-expense-tracker/internal/config"
	"github.com/sivaworkplace/money-expense-tracker/internal/photos"
	"github.com/sivaworkplace/money-expense-tracker/internal/scheduler"
	"github.com/sivaworkplace/money-expense-tracker/internal/server"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage"
	"github.com/sivaworkplace/money-expense-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("platform", string(cfg.Platform)).
		Str("dataDir", cfg.DataDir).
		Msg("Starting expense tracker")

	store := storage.New(cfg, log)
	if err := store.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer store.Close()

	photoStore := photos.New(cfg.PhotosDir, log)

	var backups *backup.Manager
	var sched *scheduler.Scheduler
	if cfg.BackupEnabled {
		backups = backup.NewManager(store, cfg.BackupDir, cfg.BackupRetention, log)

		sched = scheduler.New(log)
		if err := sched.AddJob(cfg.BackupSchedule, backup.NewJob(backups)); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.BackupSchedule).Msg("Invalid backup schedule")
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := server.New(server.Config{
		Log:     log,
		Store:   store,
		Photos:  photoStore,
		Backups: backups,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
