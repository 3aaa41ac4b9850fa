// Command isdcheck parses a directory of ISD station files without serving
// anything, reporting per-file failures and soft-missing sensor tallies.
// Useful for vetting a freshly downloaded archive before pointing the tile
// server at it.
//
// Usage:
//
//	go run ./cmd/isdcheck -dir /data/noaa/2016
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/weather-tile-service/internal/domain"
	"github.com/couchcryptid/weather-tile-service/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dir := flag.String("dir", "", "directory of station files to check")
	maxMeasurements := flag.Int("max-measurements", 0, "truncate each station's series (0 = unlimited)")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		return fmt.Errorf("-dir is required")
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		return err
	}

	tally := domain.Tally{}
	checked, failed, measurements := 0, 0, 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(*dir, entry.Name())
		checked++

		station, fileTally, err := checkFile(path, *maxMeasurements)
		tally.Merge(fileTally)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", path, err)
			continue
		}
		measurements += len(station.Measurements)
	}

	fmt.Printf("checked %d files: %d ok, %d failed, %d measurements\n",
		checked, checked-failed, failed, measurements)

	fields := make([]string, 0, len(tally))
	for field := range tally {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Printf("soft-missing %s: %d\n", field, tally[field])
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, checked)
	}
	return nil
}

func checkFile(path string, maxMeasurements int) (*domain.WeatherStation, domain.Tally, error) {
	usaf, wban, err := pipeline.StationCodes(path)
	if err != nil {
		return nil, nil, err
	}

	rc, err := pipeline.OpenRecords(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	return domain.ReadStation(usaf, wban, rc, maxMeasurements)
}
