// Package http serves map tiles and operational endpoints over HTTP.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weather-tile-service/internal/domain"
	"github.com/couchcryptid/weather-tile-service/internal/observability"
	"github.com/couchcryptid/weather-tile-service/internal/render"
)

const (
	tileSize = 256
	maxZoom  = 19
)

// Interactive tiles cover the full archive rather than a query window.
var (
	tileTimeMin = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	tileTimeMax = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the tile API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	store      *domain.StationStore
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires the router. staticDir may be empty to disable the index
// page. The store must not be written to after the server starts serving.
func NewServer(addr string, store *domain.StationStore, ready ReadinessChecker, metrics *observability.Metrics, staticDir string, logger *slog.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:   store,
		metrics: metrics,
		logger:  logger,
	}

	router.HandleFunc("/api/map/{zoom:[0-9]+}/{x:[0-9]+}/{y:[0-9]+}/tile.png", s.handleTile).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/readyz", handleReady(ready)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	if staticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	vars := mux.Vars(r)
	zoom, err1 := strconv.Atoi(vars["zoom"])
	x, err2 := strconv.Atoi(vars["x"])
	y, err3 := strconv.Atoi(vars["y"])
	if err1 != nil || err2 != nil || err3 != nil {
		http.Error(w, "bad tile address", http.StatusBadRequest)
		return
	}
	if zoom > maxZoom || float64(x) >= math.Exp2(float64(zoom)) || float64(y) >= math.Exp2(float64(zoom)) {
		http.Error(w, "tile address out of range", http.StatusBadRequest)
		return
	}

	box := render.TileBox(zoom, x, y)
	img, err := render.DrawStations(s.store.Stations(), box, tileSize, tileSize, render.DotRadius(zoom), tileTimeMin, tileTimeMax)
	if err != nil {
		s.logger.Error("tile render failed", "zoom", zoom, "x", x, "y", y, "error", err)
		http.Error(w, "tile render failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.logger.Error("tile encode failed", "zoom", zoom, "x", x, "y", y, "error", err)
		http.Error(w, "tile encode failed", http.StatusInternalServerError)
		return
	}

	s.metrics.TilesRendered.Inc()
	s.metrics.TileRenderDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes()) //nolint:errcheck // client gone, nothing to do
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
