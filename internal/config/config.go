package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Ingestion inputs. At most one station file, or a directory of them.
	InputFile string
	InputDir  string

	MaxStations     int // 0 = unlimited
	MaxMeasurements int // 0 = unlimited
	Workers         int
	ResultBuffer    int // capacity of the pipeline result channel

	// Batch rendering. Weekly world snapshots are written when RenderDir
	// is set.
	RenderDir   string
	RenderStart time.Time
	RenderWeeks int

	HTTPAddr        string
	StaticDir       string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// CPUProfile, when set, is the output path of a CPU profile covering
	// the ingestion phase.
	CPUProfile string
}

// Load reads configuration from the environment (and an optional .env
// file), applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env file is the normal production case.
	_ = godotenv.Load()

	workers, err := envInt("WORKERS", 8)
	if err != nil {
		return nil, err
	}
	resultBuffer, err := envInt("RESULT_BUFFER", 64)
	if err != nil {
		return nil, err
	}
	maxStations, err := envInt("MAX_STATIONS", 0)
	if err != nil {
		return nil, err
	}
	maxMeasurements, err := envInt("MAX_MEASUREMENTS", 0)
	if err != nil {
		return nil, err
	}
	renderWeeks, err := envInt("RENDER_WEEKS", 52)
	if err != nil {
		return nil, err
	}

	renderStart, err := envDate("RENDER_START", time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputFile:       os.Getenv("INPUT_FILE"),
		InputDir:        os.Getenv("INPUT_DIR"),
		MaxStations:     maxStations,
		MaxMeasurements: maxMeasurements,
		Workers:         workers,
		ResultBuffer:    resultBuffer,
		RenderDir:       os.Getenv("RENDER_DIR"),
		RenderStart:     renderStart,
		RenderWeeks:     renderWeeks,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		StaticDir:       envOrDefault("STATIC_DIR", "static"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CPUProfile:      os.Getenv("CPU_PROFILE"),
	}

	if cfg.Workers < 1 {
		return nil, errors.New("WORKERS must be at least 1")
	}
	if cfg.ResultBuffer < 1 {
		return nil, errors.New("RESULT_BUFFER must be at least 1")
	}
	if cfg.MaxStations < 0 || cfg.MaxMeasurements < 0 {
		return nil, errors.New("MAX_STATIONS and MAX_MEASUREMENTS must not be negative")
	}
	if cfg.RenderWeeks < 1 {
		return nil, errors.New("RENDER_WEEKS must be at least 1")
	}
	if cfg.InputFile != "" && cfg.InputDir != "" {
		return nil, errors.New("INPUT_FILE and INPUT_DIR are mutually exclusive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func envDate(key string, fallback time.Time) (time.Time, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}
