// Package render rasterizes station temperature maps: a pure dot renderer
// over an immutable station set, the Web Mercator projection and slippy-tile
// geometry it depends on, and a batch mode writing weekly world snapshots.
package render

import "math"

// MaxMercatorLat is the latitude limit of the Web Mercator projection.
// Latitudes are clamped here before projecting so that world-spanning
// bounding boxes ([-90, 90]) keep finite pixel coordinates.
const MaxMercatorLat = 85.05112877980659

// Mercator applies the Web Mercator vertical transform to a latitude in
// degrees: ln(tan(π/4 + lat/2)).
// Following https://en.wikipedia.org/wiki/Web_Mercator#Formulas
func Mercator(latitude float64) float64 {
	latitude = math.Max(-MaxMercatorLat, math.Min(MaxMercatorLat, latitude))
	return math.Log(math.Tan(math.Pi/4 + latitude*math.Pi/180/2))
}

// Box is a geographic bounding box in degrees.
type Box struct {
	LonMin, LonMax float64
	LatMin, LatMax float64
}

// Contains reports whether the station coordinate is inside the box,
// boundaries included.
func (b Box) Contains(lat, lon float64) bool {
	return lon >= b.LonMin && lon <= b.LonMax && lat >= b.LatMin && lat <= b.LatMax
}

// TileBox returns the geographic bounds of a slippy-map tile.
func TileBox(zoom, x, y int) Box {
	return Box{
		LonMin: tileLon(zoom, x),
		LonMax: tileLon(zoom, x+1),
		LatMin: tileLat(zoom, y+1),
		LatMax: tileLat(zoom, y),
	}
}

func tileLon(zoom, x int) float64 {
	n := math.Exp2(float64(zoom))
	return float64(x)/n*360 - 180
}

func tileLat(zoom, y int) float64 {
	n := math.Exp2(float64(zoom))
	return math.Atan(math.Sinh(math.Pi*(1-2*float64(y)/n))) * 180 / math.Pi
}

// DotRadius returns the station dot size for a zoom level: single pixels on
// far-out tiles, growing squares once individual stations separate.
func DotRadius(zoom int) int {
	if zoom < 5 {
		return 1
	}
	return zoom - 3
}
