package domain

import (
	"fmt"
	"time"
)

// Tally counts soft-missing sensor fields by field name. Each parse task
// owns its own tally; the ingestion collector merges them, so no tally is
// ever shared between goroutines.
type Tally map[string]int

// Inc increments the count for a field name.
func (t Tally) Inc(field string) { t[field]++ }

// Merge adds the counts of other into t.
func (t Tally) Merge(other Tally) {
	for field, n := range other {
		t[field] += n
	}
}

// Record is one decoded ISD line: the per-line location fields plus the
// measurement values that survived validation.
type Record struct {
	Latitude  float64
	Longitude float64

	Elevation    int
	HasElevation bool

	Measurement WeatherMeasurement
}

const recordTimeLayout = "200601021504"

// ParseRecord decodes one fixed-width ISD line. usaf and wban are the codes
// derived from the filename and are cross-checked against the line; a
// mismatch or an invalid required field is a hard error that aborts the
// file. Optional sensor fields outside their valid range are counted in
// tally and left absent.
func ParseRecord(line, usaf, wban string, tally Tally) (Record, error) {
	if len(line) < MinRecordLength {
		return Record{}, fmt.Errorf("%d bytes: %w", len(line), ErrRecordTooShort)
	}

	if got := line[usafStart:usafEnd]; got != usaf {
		return Record{}, fmt.Errorf("usaf %q != %q: %w", got, usaf, ErrStationMismatch)
	}
	if got := line[wbanStart:wbanEnd]; got != wban {
		return Record{}, fmt.Errorf("wban %q != %q: %w", got, wban, ErrStationMismatch)
	}

	// Strict layout parsing rejects calendar-invalid dates like Feb 30.
	stamp := line[dateStart:dateEnd] + line[timeStart:timeEnd]
	when, err := time.Parse(recordTimeLayout, stamp)
	if err != nil {
		return Record{}, fmt.Errorf("timestamp %q: %w", stamp, ErrRangeViolation)
	}

	rec := Record{Measurement: WeatherMeasurement{Time: when}}

	if rec.Latitude, _, err = FieldLatitude.decode(line); err != nil {
		return Record{}, err
	}
	if rec.Longitude, _, err = FieldLongitude.decode(line); err != nil {
		return Record{}, err
	}

	elevation, ok, _ := FieldElevation.decode(line)
	if ok {
		rec.Elevation = int(elevation)
		rec.HasElevation = true
	} else {
		tally.Inc(FieldElevation.Name)
	}

	rec.Measurement.Wind = parseWind(line, tally)

	if temperature, ok, _ := FieldTemperature.decode(line); ok {
		rec.Measurement.AirTemperature = &temperature
	} else {
		tally.Inc(FieldTemperature.Name)
	}

	if pressure, ok, _ := FieldPressure.decode(line); ok {
		rec.Measurement.AirPressure = &pressure
	} else {
		tally.Inc(FieldPressure.Name)
	}

	return rec, nil
}

// parseWind applies the wind decoding precedence: a valid direction/speed
// pair wins, then the calm and variable type codes, otherwise the
// observation is absent and tallied.
func parseWind(line string, tally Tally) *WindMeasurement {
	direction, dirOK, _ := FieldWindDir.decode(line)
	speed, speedOK, _ := FieldWindSpeed.decode(line)
	windType := line[windTypeStart:windTypeEnd]

	switch {
	case dirOK && speedOK:
		return &WindMeasurement{Kind: WindNormal, Speed: speed, Direction: int(direction)}
	case windType == "C" || (windType == "9" && speedOK && speed == 0):
		return &WindMeasurement{Kind: WindCalm}
	case windType == "V":
		return &WindMeasurement{Kind: WindVariable}
	default:
		tally.Inc("wind")
		return nil
	}
}
