// Command genisd generates synthetic NOAA ISD station files for local
// development and testing. Each generated file follows the
// <USAF>-<WBAN>-<year> naming convention and contains chronologically
// ordered fixed-width records that the service's parser accepts.
//
// Usage:
//
//	go run ./cmd/genisd -out testdata/isd -stations 50 -records 720 -gzip
package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for generated station files")
	stations := flag.Int("stations", 10, "number of stations to generate")
	records := flag.Int("records", 240, "records per station (hourly cadence)")
	year := flag.Int("year", 2016, "observation year")
	compress := flag.Bool("gzip", false, "gzip-compress the generated files")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("-out is required")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	for i := 0; i < *stations; i++ {
		usaf := fmt.Sprintf("%06d", 720000+i)
		wban := fmt.Sprintf("%05d", 10000+i)

		name := fmt.Sprintf("%s-%s-%d", usaf, wban, *year)
		if *compress {
			name += ".gz"
		}
		path := filepath.Join(*out, name)
		if err := writeStation(path, usaf, wban, *year, *records, *compress, rng); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	fmt.Printf("generated %d station files in %s\n", *stations, *out)
	return nil
}

func writeStation(path, usaf, wban string, year, records int, compress bool, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		w = gz
	}

	lat := rng.Float64()*160 - 80
	lon := rng.Float64()*360 - 180
	elevation := rng.Intn(2500)

	when := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < records; i++ {
		// A rough annual temperature curve with noise, in tenths of a degree.
		day := float64(when.YearDay())
		temp := int(100*math.Sin((day-105)/365*2*math.Pi)+50) + rng.Intn(60) - 30
		pressure := 10000 + rng.Intn(400)
		windDir := rng.Intn(361)
		windSpeed := rng.Intn(200)

		line := isdLine(usaf, wban, when, lat, lon, elevation, windDir, windSpeed, temp, pressure)
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
		when = when.Add(time.Hour)
	}

	if gz != nil {
		return gz.Close()
	}
	return nil
}

// isdLine formats one fixed-width record. Offsets match the mandatory data
// section of the ISD format document; bytes the parser never reads are
// zero-filled. Wind speed, temperature, and pressure are in tenths.
func isdLine(usaf, wban string, when time.Time, lat, lon float64, elevation, windDir, windSpeed, temp, pressure int) string {
	buf := make([]byte, 105)
	for i := range buf {
		buf[i] = '0'
	}

	copy(buf[4:10], usaf)
	copy(buf[10:15], wban)
	copy(buf[15:23], when.Format("20060102"))
	copy(buf[23:27], when.Format("1504"))
	copy(buf[28:34], fmt.Sprintf("%+06d", int(lat*1000)))
	copy(buf[34:41], fmt.Sprintf("%+07d", int(lon*1000)))
	copy(buf[46:51], fmt.Sprintf("%+05d", elevation))
	copy(buf[60:63], fmt.Sprintf("%03d", windDir))
	buf[64] = 'N'
	copy(buf[65:69], fmt.Sprintf("%04d", windSpeed))
	copy(buf[87:92], fmt.Sprintf("%+05d", temp))
	copy(buf[99:104], fmt.Sprintf("%05d", pressure))

	return string(buf)
}
