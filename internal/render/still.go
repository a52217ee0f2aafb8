package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// Still-photo placement, as fractions of the photo height. The frame spans
// the full photo width.
const (
	StillHeightRatio = 0.4
	StillTopRatio    = 0.28
)

// ErrStillSize is returned when the photo is too small to hold a frame.
var ErrStillSize = errors.New("photo too small for overlay")

// ApplyStill blends frame onto a copy of photo without landmarks. The frame
// is resized to the photo width by StillHeightRatio of its height, centered
// horizontally and placed StillTopRatio of the height from the top.
func ApplyStill(photo, frame image.Image) (*image.RGBA, error) {
	base := imaging.Clone(photo)
	w, h := base.Bounds().Dx(), base.Bounds().Dy()

	fh := int(float64(h) * StillHeightRatio)
	if w < 1 || fh < 1 || frame.Bounds().Empty() {
		return nil, ErrStillSize
	}

	scaled := imaging.Resize(frame, w, fh, imaging.Lanczos)
	at := image.Pt((w-scaled.Bounds().Dx())/2, int(float64(h)*StillTopRatio))
	layer := imaging.Paste(imaging.New(w, h, color.Transparent), scaled, at)

	log.Debug().Int("width", w).Int("height", h).Int("top", at.Y).Msg("still overlay applied")
	return blend.Normal(base, layer), nil
}
