package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultMarkerColor is used when no marker colour is given.
const DefaultMarkerColor = "#00FF00"

// ParseMarkerColor parses "#RRGGBB" into an opaque colour.
func ParseMarkerColor(hex string) (color.RGBA, error) {
	if hex == "" {
		hex = DefaultMarkerColor
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid marker color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// DrawMarker fills a square of the given radius centered on (x, y). Pixels
// outside dst are skipped.
func DrawMarker(dst draw.Image, x, y, radius int, c color.Color) {
	if radius < 0 {
		radius = 0
	}
	r := image.Rect(x-radius, y-radius, x+radius+1, y+radius+1).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}
