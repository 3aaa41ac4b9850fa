package domain

import (
	"bufio"
	"fmt"
	"io"
)

// ReadStation consumes one station file's lines and builds the station's
// measurement series. The station location is latched from the line that
// produces the first retained measurement; elevation from the first in-range
// value seen. maxMeasurements > 0 truncates the series once reached (not an
// error). Any hard parse failure aborts the remaining lines of the file.
func ReadStation(usaf, wban string, r io.Reader, maxMeasurements int) (*WeatherStation, Tally, error) {
	station := &WeatherStation{USAF: usaf, WBAN: wban}
	tally := Tally{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		rec, err := ParseRecord(scanner.Text(), usaf, wban, tally)
		if err != nil {
			return nil, tally, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if station.Elevation == nil && rec.HasElevation {
			elevation := rec.Elevation
			station.Elevation = &elevation
		}

		// A record with no sensor values contributes nothing.
		if rec.Measurement.Empty() {
			continue
		}

		if len(station.Measurements) == 0 {
			station.Latitude = rec.Latitude
			station.Longitude = rec.Longitude
		}
		station.Measurements = append(station.Measurements, rec.Measurement)

		if maxMeasurements > 0 && len(station.Measurements) >= maxMeasurements {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, tally, fmt.Errorf("reading line %d: %w", lineNo+1, err)
	}

	return station, tally, nil
}
