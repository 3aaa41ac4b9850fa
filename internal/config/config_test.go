package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.InputFile)
	assert.Empty(t, cfg.InputDir)
	assert.Equal(t, 0, cfg.MaxStations)
	assert.Equal(t, 0, cfg.MaxMeasurements)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 64, cfg.ResultBuffer)
	assert.Empty(t, cfg.RenderDir)
	assert.Equal(t, time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), cfg.RenderStart)
	assert.Equal(t, 52, cfg.RenderWeeks)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.CPUProfile)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("INPUT_DIR", "/data/noaa/2016")
	t.Setenv("MAX_STATIONS", "100")
	t.Setenv("MAX_MEASUREMENTS", "5000")
	t.Setenv("WORKERS", "16")
	t.Setenv("RESULT_BUFFER", "32")
	t.Setenv("RENDER_DIR", "/tmp/render")
	t.Setenv("RENDER_START", "2017-06-01")
	t.Setenv("RENDER_WEEKS", "4")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STATIC_DIR", "/srv/static")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CPU_PROFILE", "ingest.profile")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/noaa/2016", cfg.InputDir)
	assert.Equal(t, 100, cfg.MaxStations)
	assert.Equal(t, 5000, cfg.MaxMeasurements)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 32, cfg.ResultBuffer)
	assert.Equal(t, "/tmp/render", cfg.RenderDir)
	assert.Equal(t, time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC), cfg.RenderStart)
	assert.Equal(t, 4, cfg.RenderWeeks)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "/srv/static", cfg.StaticDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "ingest.profile", cfg.CPUProfile)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero workers", "WORKERS", "0"},
		{"non-numeric workers", "WORKERS", "many"},
		{"zero result buffer", "RESULT_BUFFER", "0"},
		{"negative max stations", "MAX_STATIONS", "-1"},
		{"zero render weeks", "RENDER_WEEKS", "0"},
		{"bad render start", "RENDER_START", "June 2017"},
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExclusiveInputs(t *testing.T) {
	t.Setenv("INPUT_FILE", "722860-23119-2016")
	t.Setenv("INPUT_DIR", "/data/noaa")

	_, err := Load()
	assert.Error(t, err)
}
