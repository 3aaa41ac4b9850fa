package domain

import (
	"sort"
	"time"
)

// WindKind distinguishes the three wind observation variants.
type WindKind int

const (
	WindNormal WindKind = iota
	WindCalm
	WindVariable
)

// WindMeasurement is one wind observation. Speed and Direction are only
// meaningful for WindNormal.
type WindMeasurement struct {
	Kind      WindKind
	Speed     float64 // meters per second
	Direction int     // degrees, 0-360
}

// WeatherMeasurement is one observation record reduced to the fields the
// service renders. Nil pointers mark sensor values the record did not carry.
type WeatherMeasurement struct {
	Time           time.Time // UTC, minute precision
	Wind           *WindMeasurement
	AirTemperature *float64 // degrees Celsius
	AirPressure    *float64 // hectopascals
}

// Empty reports whether the measurement carries no sensor value at all.
// Empty measurements are dropped during aggregation.
func (m WeatherMeasurement) Empty() bool {
	return m.Wind == nil && m.AirTemperature == nil && m.AirPressure == nil
}

// WeatherStation is one station's identity, location, and measurement series.
// Latitude and Longitude are latched from the line that produced the first
// retained measurement and never updated afterwards. Measurements are
// ascending by Time. A station is immutable once its file has been ingested.
type WeatherStation struct {
	USAF string
	WBAN string

	Latitude  float64
	Longitude float64
	Elevation *int // meters

	Measurements []WeatherMeasurement
}

// ID returns the combined station code, e.g. "722860-23119".
func (s *WeatherStation) ID() string {
	return s.USAF + "-" + s.WBAN
}

// MeasurementsBetween returns the sub-series with start <= Time < end using
// two lower-bound binary searches over the time-ordered series. The returned
// slice aliases the station's series and must not be modified.
func (s *WeatherStation) MeasurementsBetween(start, end time.Time) []WeatherMeasurement {
	lo := sort.Search(len(s.Measurements), func(i int) bool {
		return !s.Measurements[i].Time.Before(start)
	})
	hi := sort.Search(len(s.Measurements), func(i int) bool {
		return !s.Measurements[i].Time.Before(end)
	})
	return s.Measurements[lo:hi]
}

// FirstTemperature returns the first in-window temperature in series order,
// or ok=false if the window holds no measurement with a present temperature.
func (s *WeatherStation) FirstTemperature(start, end time.Time) (float64, bool) {
	for _, m := range s.MeasurementsBetween(start, end) {
		if m.AirTemperature != nil {
			return *m.AirTemperature, true
		}
	}
	return 0, false
}

// StationStore accumulates stations during ingestion and is read-only
// afterwards. The ingestion collector is the only writer; once it finishes,
// concurrent tile requests share the store without locking.
type StationStore struct {
	stations []*WeatherStation
}

// Add appends a completed station. Only the ingestion collector calls this.
func (st *StationStore) Add(s *WeatherStation) {
	st.stations = append(st.stations, s)
}

// Stations returns the underlying slice. Callers must treat it as read-only.
func (st *StationStore) Stations() []*WeatherStation {
	return st.stations
}

// Len returns the number of ingested stations.
func (st *StationStore) Len() int {
	return len(st.stations)
}
