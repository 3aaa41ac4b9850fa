package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Field describes one fixed-width numeric field of an ISD record: where it
// sits in the line, how to scale the raw integer, and what range is valid.
// Keeping the schema declarative lets the offsets be tested and versioned
// independently of the parse loop.
type Field struct {
	Name     string
	Start    int // byte offset, inclusive
	End      int // byte offset, exclusive
	Scale    float64
	Min, Max float64
	Required bool // out-of-range aborts the file instead of soft-missing
}

// Numeric fields of the ISD mandatory data section. String fields (station
// codes, date, time, wind type code) are handled directly by the parser.
var (
	FieldLatitude    = Field{Name: "latitude", Start: 28, End: 34, Scale: 1000, Min: -90, Max: 90, Required: true}
	FieldLongitude   = Field{Name: "longitude", Start: 34, End: 41, Scale: 1000, Min: -180, Max: 180, Required: true}
	FieldElevation   = Field{Name: "elevation", Start: 46, End: 51, Scale: 1, Min: -400, Max: 9000}
	FieldWindDir     = Field{Name: "wind_direction", Start: 60, End: 63, Scale: 1, Min: 0, Max: 360}
	FieldWindSpeed   = Field{Name: "wind_speed", Start: 65, End: 69, Scale: 10, Min: 0, Max: 90}
	FieldTemperature = Field{Name: "air_temperature", Start: 87, End: 92, Scale: 10, Min: -100, Max: 100}
	FieldPressure    = Field{Name: "air_pressure", Start: 99, End: 104, Scale: 10, Min: 0, Max: 2000}
)

// Fixed-position string slices consumed by the parser.
const (
	usafStart, usafEnd         = 4, 10
	wbanStart, wbanEnd         = 10, 15
	dateStart, dateEnd         = 15, 23
	timeStart, timeEnd         = 23, 27
	windTypeStart, windTypeEnd = 64, 65
)

// MinRecordLength is the number of bytes a line must have to cover every
// field the parser reads.
const MinRecordLength = 104

// decode extracts the field from line, scales it, and checks its bounds.
// For required fields an unparsable token or out-of-range value is an error;
// for optional fields both simply report ok=false.
func (f Field) decode(line string) (value float64, ok bool, err error) {
	raw := strings.TrimSpace(line[f.Start:f.End])
	n, perr := strconv.Atoi(raw)
	if perr != nil {
		if f.Required {
			return 0, false, fmt.Errorf("%s: parsing %q: %w", f.Name, raw, ErrRangeViolation)
		}
		return 0, false, nil
	}
	value = float64(n) / f.Scale
	if value < f.Min || value > f.Max {
		if f.Required {
			return 0, false, fmt.Errorf("%s: %v outside [%v, %v]: %w", f.Name, value, f.Min, f.Max, ErrRangeViolation)
		}
		return 0, false, nil
	}
	return value, true, nil
}
