package pipeline_test

import (
	"compress/gzip"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-tile-service/internal/observability"
	"github.com/couchcryptid/weather-tile-service/internal/pipeline"
)

// isdLine builds one valid fixed-width record for the given station codes.
// embeddedUSAF lets a test plant a station-code mismatch on a single line.
func isdLine(embeddedUSAF, embeddedWBAN, hhmm string) string {
	buf := make([]byte, 105)
	for i := range buf {
		buf[i] = '0'
	}
	copy(buf[4:10], embeddedUSAF)
	copy(buf[10:15], embeddedWBAN)
	copy(buf[15:23], "20160101")
	copy(buf[23:27], hhmm)
	copy(buf[28:34], "+34300")
	copy(buf[34:41], "-116166")
	copy(buf[46:51], "+0625")
	copy(buf[60:63], "130")
	buf[64] = 'N'
	copy(buf[65:69], "0046")
	copy(buf[87:92], "+0250")
	copy(buf[99:104], "10132")
	return string(buf)
}

func stationLines(usaf, wban string, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = isdLine(usaf, wban, fmt.Sprintf("%02d00", i))
	}
	return lines
}

func writeFile(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func writeGzipFile(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func newPipeline(opts ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(4, 8, 0, slog.Default(), observability.NewMetricsForTesting(), opts...)
}

func TestRun_IngestsDirectoryWithOneCorruptFile(t *testing.T) {
	dir := t.TempDir()

	// One good station, one gzipped good station, and one file whose fifth
	// line carries the wrong station code.
	good := writeFile(t, dir, "722860-23119-2016", stationLines("722860", "23119", 8))
	gzipped := writeGzipFile(t, dir, "724940-23234-2016.gz", stationLines("724940", "23234", 8))

	corruptLines := stationLines("999999", "99999", 8)
	corruptLines[4] = isdLine("111111", "99999", "0400")
	bad := writeFile(t, dir, "999999-99999-2016", corruptLines)

	p := newPipeline()
	store, err := p.Run(context.Background(), []string{good, gzipped, bad})
	require.NoError(t, err)

	// Two stations ingested, the corrupt one reported and skipped; the
	// batch still completes.
	require.Equal(t, 2, store.Len())
	ids := []string{store.Stations()[0].ID(), store.Stations()[1].ID()}
	assert.ElementsMatch(t, []string{"722860-23119", "724940-23234"}, ids)
	for _, s := range store.Stations() {
		assert.Len(t, s.Measurements, 8)
	}

	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestRun_GzipTransparentDecompression(t *testing.T) {
	dir := t.TempDir()
	path := writeGzipFile(t, dir, "722860-23119-2016.gz", stationLines("722860", "23119", 3))

	store, err := newPipeline().Run(context.Background(), []string{path})
	require.NoError(t, err)

	require.Equal(t, 1, store.Len())
	station := store.Stations()[0]
	assert.Equal(t, "722860", station.USAF)
	assert.Equal(t, "23119", station.WBAN)
	assert.Len(t, station.Measurements, 3)
	assert.Equal(t, 34.3, station.Latitude)
}

func TestRun_CorruptGzipIsPerFileFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "722860-23119-2016", stationLines("722860", "23119", 2))
	broken := filepath.Join(dir, "724940-23234-2016.gz")
	require.NoError(t, os.WriteFile(broken, []byte("not gzip data"), 0o644))

	store, err := newPipeline().Run(context.Background(), []string{good, broken})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestRun_MissingFileIsPerFileFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "722860-23119-2016", stationLines("722860", "23119", 2))

	store, err := newPipeline().Run(context.Background(), []string{good, filepath.Join(dir, "does-not-exist")})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestRun_MoreFilesThanWorkers(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 20; i++ {
		usaf := fmt.Sprintf("%06d", 700000+i)
		wban := fmt.Sprintf("%05d", 10000+i)
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("%s-%s-2016", usaf, wban), stationLines(usaf, wban, 4)))
	}

	// Workers and result buffer both smaller than the file count exercises
	// the bounded-channel backpressure path.
	p := pipeline.New(2, 2, 0, slog.Default(), observability.NewMetricsForTesting())
	store, err := p.Run(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, 20, store.Len())
}

func TestRun_MaxMeasurementsTruncates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "722860-23119-2016", stationLines("722860", "23119", 10))

	p := pipeline.New(1, 1, 3, slog.Default(), observability.NewMetricsForTesting())
	store, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)

	require.Equal(t, 1, store.Len())
	assert.Len(t, store.Stations()[0].Measurements, 3)
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "722860-23119-2016", stationLines("722860", "23119", 2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store, err := newPipeline().Run(ctx, []string{path, path, path})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
}

func TestRun_WithFakeClock(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "722860-23119-2016", stationLines("722860", "23119", 2))

	p := newPipeline(pipeline.WithClock(clockwork.NewFakeClock()))
	store, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestCheckReadiness_BeforeAndAfterRun(t *testing.T) {
	p := newPipeline()
	assert.Error(t, p.CheckReadiness(context.Background()))

	_, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestStationCodes(t *testing.T) {
	tests := []struct {
		path    string
		usaf    string
		wban    string
		wantErr bool
	}{
		{"722860-23119-2016", "722860", "23119", false},
		{"/data/noaa/722860-23119-2016.gz", "722860", "23119", false},
		{"724940-23234-1987", "724940", "23234", false},
		{"no_dashes_here", "", "", true},
		{"-23119-2016", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			usaf, wban, err := pipeline.StationCodes(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.usaf, usaf)
			assert.Equal(t, tt.wban, wban)
		})
	}
}
