package render

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/couchcryptid/weather-tile-service/internal/domain"
)

// Temperature bounds of the color scale in degrees Celsius. Values outside
// clamp to the boundary colors.
const (
	TempMin = -30.0
	TempMax = 40.0
)

var noData = color.RGBA{0, 0, 0, 255}

// TemperatureColor maps a temperature to the blue-to-red scale: -30 °C is
// (0,127,255), 40 °C is (255,127,0), green stays constant.
func TemperatureColor(t float64) color.RGBA {
	if t < TempMin {
		t = TempMin
	}
	if t > TempMax {
		t = TempMax
	}
	scaled := (t - TempMin) / (TempMax - TempMin)
	return color.RGBA{
		R: uint8(255 * scaled),
		G: 127,
		B: uint8(255 * (1 - scaled)),
		A: 255,
	}
}

// DrawStations renders every in-box station as a dotRadius-sized square dot
// colored by its first temperature reading inside [start, end), black when
// the window holds none. It is a pure function of its inputs; the station
// set is only read. A station that projects outside the image despite being
// inside the box is a geometry bug and returns domain.ErrGeometry.
func DrawStations(stations []*domain.WeatherStation, box Box, width, height, dotRadius int, start, end time.Time) (*image.RGBA, error) {
	if width < 2 || height < 2 || box.LonMax <= box.LonMin || box.LatMax <= box.LatMin {
		return nil, fmt.Errorf("render: degenerate box %+v or size %dx%d", box, width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	mercMin := Mercator(box.LatMin)
	mercMax := Mercator(box.LatMax)
	if mercMax <= mercMin {
		// Both latitudes clamped onto the same pole.
		return nil, fmt.Errorf("render: box %+v collapses under mercator", box)
	}

	for _, station := range stations {
		if !box.Contains(station.Latitude, station.Longitude) {
			continue
		}

		x := int((station.Longitude - box.LonMin) / (box.LonMax - box.LonMin) * float64(width-1))
		if x < 0 || x >= width {
			return nil, fmt.Errorf("station %s: x=%d for width %d: %w", station.ID(), x, width, domain.ErrGeometry)
		}

		y := int((1 - (Mercator(station.Latitude)-mercMin)/(mercMax-mercMin)) * float64(height-1))
		if y < 0 || y >= height {
			return nil, fmt.Errorf("station %s: y=%d for height %d: %w", station.ID(), y, height, domain.ErrGeometry)
		}

		dot := noData
		if t, ok := station.FirstTemperature(start, end); ok {
			dot = TemperatureColor(t)
		}

		drawDot(img, x, y, dotRadius, dot)
	}

	return img, nil
}

// drawDot fills a radius x radius square centered on (x, y), silently
// clipping pixels that fall outside the image.
func drawDot(img *image.RGBA, x, y, radius int, c color.RGBA) {
	bounds := img.Bounds()
	for dx := 0; dx < radius; dx++ {
		for dy := 0; dy < radius; dy++ {
			px := x + dx - radius/2
			py := y + dy - radius/2
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.SetRGBA(px, py, c)
			}
		}
	}
}
