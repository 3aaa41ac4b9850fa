// Package domain models NOAA Integrated Surface Database (ISD) station data.
//
// # Data Source
//
// Observation files come from the NOAA ISD archive at
// https://www1.ncdc.noaa.gov/pub/data/noaa/, one file per station per year,
// named <USAF>-<WBAN>-<year> and optionally gzip-compressed. Each line is one
// fixed-width observation record; the format is documented in
// https://www1.ncdc.noaa.gov/pub/data/noaa/ish-format-document.pdf.
//
// # Field Conventions
//
// Numeric fields are fixed-width signed integers, often scaled:
//
//	latitude/longitude: thousandths of a degree ("+34300" → 34.300)
//	wind speed: tenths of a meter per second ("0046" → 4.6 m/s)
//	air temperature: tenths of a degree Celsius ("+0250" → 25.0 °C)
//	air pressure: tenths of a hectopascal ("10132" → 1013.2 hPa)
//
// Missing values are encoded as all-nines sentinels ("+9999", "999") which
// fall outside each field's documented valid range. Fields split into two
// classes: structurally required fields (station codes, date, time, latitude,
// longitude) where an out-of-range or unparsable value means the file is
// corrupt, and optional sensor fields (elevation, wind, temperature,
// pressure) where it means the sensor simply did not report. The required
// class aborts the file; the optional class increments a soft-missing tally
// and the record is kept if any sensor value remains.
//
// Wind is a three-way variant. A record with a valid direction [0,360] and
// speed [0,90] m/s carries a normal observation; otherwise type code 'C'
// (or '9' with zero speed) means calm, and 'V' means variable direction.
//
// # Ordering
//
// Archive files are chronologically sorted, so a station's measurement slice
// is ascending by time without re-sorting. The tile renderer's lower-bound
// binary search depends on this ordering.
package domain
