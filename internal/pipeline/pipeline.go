// Package pipeline ingests station archive files into the in-memory store.
//
// Each file is one unit of work: a fixed pool of workers parses files
// concurrently, and a single collector drains exactly one result per file,
// so the store has a single writer until ingestion completes and is
// lock-free read-only afterwards.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-tile-service/internal/domain"
	"github.com/couchcryptid/weather-tile-service/internal/observability"
)

// Pipeline runs the concurrent ingestion of station files.
type Pipeline struct {
	workers         int
	resultBuffer    int
	maxMeasurements int

	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock

	ready atomic.Bool
}

// Option adjusts pipeline construction.
type Option func(*Pipeline)

// WithClock swaps the time source used for throughput reporting. Tests pass
// a fake clock.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// New creates a Pipeline with workers parallel parse tasks and a result
// channel of capacity resultBuffer. The bounded channel applies
// backpressure: workers stall once the collector falls resultBuffer files
// behind, keeping memory flat on very large directories.
func New(workers, resultBuffer, maxMeasurements int, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		workers:         workers,
		resultBuffer:    resultBuffer,
		maxMeasurements: maxMeasurements,
		logger:          logger,
		metrics:         metrics,
		clock:           clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once ingestion has drained every result and
// the store is safe for concurrent readers.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return fmt.Errorf("ingestion still running")
	}
	return nil
}

// fileResult is one parse task's outcome. Exactly one is produced per input
// file, error or not.
type fileResult struct {
	path    string
	station *domain.WeatherStation
	tally   domain.Tally
	err     error
}

// Run parses every path across the worker pool and collects the results
// into a station store. Per-file failures are logged and counted, never
// fatal; Run returns once all len(paths) results have been observed.
// Cancelling ctx stops workers from starting new files, but the collector
// still drains one result per file before returning.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*domain.StationStore, error) {
	p.logger.Info("ingestion starting", "files", len(paths), "workers", p.workers)
	p.metrics.IngestRunning.Set(1)
	defer p.metrics.IngestRunning.Set(0)

	// All tasks are submitted up front; the jobs channel is the queue.
	jobs := make(chan string, len(paths))
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)

	results := make(chan fileResult, p.resultBuffer)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := ctx.Err(); err != nil {
					results <- fileResult{path: path, err: err}
					continue
				}
				results <- p.parseFile(path)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	store := p.collect(results, len(paths))

	p.ready.Store(true)
	return store, ctx.Err()
}

// collect drains exactly n results, accumulating stations and merging the
// per-task soft-missing tallies. Throughput is reported at most once per
// second.
func (p *Pipeline) collect(results <-chan fileResult, n int) *domain.StationStore {
	store := &domain.StationStore{}
	failed := 0
	measurements := 0

	start := p.clock.Now()
	lastReport := start

	for i := 0; i < n; i++ {
		res := <-results

		for field, count := range res.tally {
			p.metrics.SoftMissing.WithLabelValues(field).Add(float64(count))
		}

		if res.err != nil {
			failed++
			p.metrics.FileFailures.Inc()
			p.logger.Warn("station file rejected", "path", res.path, "error", res.err)
			continue
		}

		store.Add(res.station)
		measurements += len(res.station.Measurements)
		p.metrics.FilesIngested.Inc()
		p.metrics.StationsLoaded.Set(float64(store.Len()))
		p.metrics.MeasurementsLoaded.Add(float64(len(res.station.Measurements)))

		if p.clock.Since(lastReport) > time.Second {
			lastReport = p.clock.Now()
			elapsed := p.clock.Since(start).Seconds()
			p.logger.Info("ingestion progress",
				"processed", i+1,
				"elapsed_seconds", elapsed,
				"files_per_second", float64(i+1)/elapsed,
			)
		}
	}

	p.logger.Info("ingestion complete",
		"stations", store.Len(),
		"measurements", measurements,
		"failed", failed,
		"elapsed", p.clock.Since(start),
	)
	return store
}

// parseFile runs one parse task. A panic inside parsing is converted to an
// error result so a corrupt file can never take down the pool.
func (p *Pipeline) parseFile(path string) (res fileResult) {
	res = fileResult{path: path}
	defer func() {
		if r := recover(); r != nil {
			res.station = nil
			res.err = fmt.Errorf("parse panic: %v", r)
		}
	}()

	start := p.clock.Now()

	usaf, wban, err := StationCodes(path)
	if err != nil {
		res.err = err
		return res
	}

	rc, err := OpenRecords(path)
	if err != nil {
		res.err = err
		return res
	}
	defer rc.Close()

	res.station, res.tally, res.err = domain.ReadStation(usaf, wban, rc, p.maxMeasurements)
	if res.err != nil {
		res.err = fmt.Errorf("parsing %s: %w", path, res.err)
	}

	p.metrics.FileParseDuration.Observe(p.clock.Since(start).Seconds())
	return res
}
