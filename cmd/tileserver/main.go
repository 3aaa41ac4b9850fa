package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	httpadapter "github.com/couchcryptid/weather-tile-service/internal/adapter/http"
	"github.com/couchcryptid/weather-tile-service/internal/config"
	"github.com/couchcryptid/weather-tile-service/internal/observability"
	"github.com/couchcryptid/weather-tile-service/internal/pipeline"
	"github.com/couchcryptid/weather-tile-service/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	paths, err := inputPaths(cfg)
	if err != nil {
		logger.Error("failed to enumerate inputs", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		logger.Warn("no input files configured, serving an empty map")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The profile session is scoped to ingestion: acquired here, stopped
	// as soon as the parse-heavy phase ends.
	var profile *observability.ProfileSession
	if cfg.CPUProfile != "" {
		if profile, err = observability.StartCPUProfile(cfg.CPUProfile); err != nil {
			logger.Error("failed to start cpu profile", "error", err)
			os.Exit(1)
		}
		logger.Info("cpu profiling ingestion", "path", cfg.CPUProfile)
	}

	p := pipeline.New(cfg.Workers, cfg.ResultBuffer, cfg.MaxMeasurements, logger, metrics)
	store, err := p.Run(ctx, paths)
	if err != nil {
		logger.Error("ingestion interrupted", "error", err)
	}

	if err := profile.Stop(); err != nil {
		logger.Error("failed to stop cpu profile", "error", err)
	}

	if cfg.RenderDir != "" {
		if err := render.WriteWeeklySnapshots(cfg.RenderDir, store.Stations(), cfg.RenderStart, cfg.RenderWeeks, logger); err != nil {
			logger.Error("batch render failed", "error", err)
			os.Exit(1)
		}
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, p, metrics, cfg.StaticDir, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// inputPaths enumerates the station files to ingest: the single configured
// file, or every regular file in the configured directory, capped at
// MaxStations.
func inputPaths(cfg *config.Config) ([]string, error) {
	if cfg.InputFile != "" {
		return []string{cfg.InputFile}, nil
	}
	if cfg.InputDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(cfg.InputDir, entry.Name()))
		if cfg.MaxStations > 0 && len(paths) >= cfg.MaxStations {
			break
		}
	}
	return paths, nil
}
