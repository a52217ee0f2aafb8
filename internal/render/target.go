package render

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ironsheep/tryon-mcp/internal/placement"
)

// maxOverlayFactor caps the overlay size relative to the larger target
// dimension. Anything bigger comes from bogus landmarks.
const maxOverlayFactor = 4

// Target is the DrawTarget: a transparent RGBA surface matched to the
// source frame.
type Target struct {
	img *image.RGBA
}

// NewTarget returns an empty zero-size target.
func NewTarget() *Target {
	return &Target{img: image.NewRGBA(image.Rect(0, 0, 0, 0))}
}

// Resize sets the surface to width x height. The surface is reallocated
// only when the size changes; contents are undefined until Clear.
func (t *Target) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := t.img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return
	}
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Clear makes every pixel fully transparent.
func (t *Target) Clear() {
	clear(t.img.Pix)
}

// Bounds returns the surface bounds.
func (t *Target) Bounds() image.Rectangle {
	return t.img.Bounds()
}

// Snapshot returns a copy of the surface.
func (t *Target) Snapshot() *image.RGBA {
	out := image.NewRGBA(t.img.Bounds())
	copy(out.Pix, t.img.Pix)
	return out
}

// IsEmpty reports whether every pixel is fully transparent.
func (t *Target) IsEmpty() bool {
	return isTransparent(t.img)
}

func isTransparent(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// DrawOverlay composites asset centered on p.Mid, rotated by p.Angle and
// scaled to p.Width x p.Height. It reports false when the overlay rounds to
// nothing or is implausibly large, leaving the surface untouched.
//
// Scaling happens inside the transform, so memory use is bounded by the
// target and the asset, never by the overlay size.
func (t *Target) DrawOverlay(asset image.Image, p placement.Placement) bool {
	if math.Round(p.Width) < 1 || math.Round(p.Height) < 1 {
		return false
	}
	b := t.img.Bounds()
	limit := float64(maxOverlayFactor * max(b.Dx(), b.Dy()))
	if p.Width > limit || p.Height > limit {
		return false
	}

	sr := asset.Bounds()
	if sr.Empty() {
		return false
	}

	// Scale about the asset center, rotate, then move onto the midpoint.
	sx := p.Width / float64(sr.Dx())
	sy := p.Height / float64(sr.Dy())
	cx := float64(sr.Min.X+sr.Max.X) / 2
	cy := float64(sr.Min.Y+sr.Max.Y) / 2
	sin, cos := math.Sincos(p.Angle)

	s2d := f64.Aff3{
		cos * sx, -sin * sy, p.Mid.X - cos*sx*cx + sin*sy*cy,
		sin * sx, cos * sy, p.Mid.Y - sin*sx*cx - cos*sy*cy,
	}
	xdraw.CatmullRom.Transform(t.img, s2d, asset, sr, xdraw.Over, nil)
	return true
}
