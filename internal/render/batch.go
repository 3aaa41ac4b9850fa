package render

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/weather-tile-service/internal/domain"
)

// Snapshot dimensions: equirectangular longitude, Mercator latitude.
const (
	snapshotWidth  = 1024
	snapshotHeight = 512
)

var worldBox = Box{LonMin: -180, LonMax: 180, LatMin: -90, LatMax: 90}

// WriteWeeklySnapshots renders consecutive one-week world maps starting at
// start and writes them to dir as weather-NNNN.png, one per week index.
// A failed week aborts the batch; rendering is cheap enough to rerun whole.
func WriteWeeklySnapshots(dir string, stations []*domain.WeatherStation, start time.Time, weeks int, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("render dir: %w", err)
	}

	for week := 0; week < weeks; week++ {
		from := start.AddDate(0, 0, 7*week)
		to := start.AddDate(0, 0, 7*(week+1))

		img, err := DrawStations(stations, worldBox, snapshotWidth, snapshotHeight, 1, from, to)
		if err != nil {
			return fmt.Errorf("week %d: %w", week, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("weather-%04d.png", week))
		if err := writePNG(path, img); err != nil {
			return fmt.Errorf("week %d: %w", week, err)
		}
		logger.Debug("wrote weekly snapshot", "path", path, "from", from, "to", to)
	}

	logger.Info("batch render complete", "dir", dir, "weeks", weeks, "start", start)
	return nil
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
