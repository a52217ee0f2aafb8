// Package placement computes where an eyewear overlay goes on a face.
//
// The placement is a 2D similarity transform derived from the two outer eye
// corners: the overlay is centered on their midpoint, scaled from their
// distance and rotated to match head roll. Pitch and yaw are not modelled.
package placement

import (
	"errors"
	"math"

	"github.com/ironsheep/tryon-mcp/internal/landmark"
)

// Default scale factors for eyewear assets.
const (
	// DefaultWidthScale makes the frame span past the eye corners.
	DefaultWidthScale = 1.8

	// DefaultAspectRatio is height/width of a pre-cropped glasses image.
	DefaultAspectRatio = 0.8
)

var (
	// ErrMissingAnchors is returned when the landmark set does not contain
	// both outer eye corners.
	ErrMissingAnchors = errors.New("landmark set is missing eye anchors")

	// ErrDegenerate is returned when the anchors coincide or are not finite,
	// leaving size and rotation undefined.
	ErrDegenerate = errors.New("degenerate eye vector")

	// ErrEmptyTarget is returned for a zero-area target.
	ErrEmptyTarget = errors.New("target has zero area")
)

// Point is a position in target pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Geometry holds the scale factors applied to the eye distance.
type Geometry struct {
	WidthScale  float64
	AspectRatio float64
}

// DefaultGeometry returns the standard eyewear factors.
func DefaultGeometry() Geometry {
	return Geometry{
		WidthScale:  DefaultWidthScale,
		AspectRatio: DefaultAspectRatio,
	}
}

// Placement is the computed overlay transform for one frame.
type Placement struct {
	LeftEye  Point   `json:"left_eye"`
	RightEye Point   `json:"right_eye"`
	EyeDist  float64 `json:"eye_distance"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Mid      Point   `json:"mid"`

	// Angle is in radians; positive is clockwise in image coordinates.
	Angle float64 `json:"angle"`
}

// AngleDegrees returns Angle in degrees.
func (p Placement) AngleDegrees() float64 {
	return p.Angle * 180 / math.Pi
}

// Compute places an overlay from two normalized anchors on a width x height
// target.
func (g Geometry) Compute(left, right landmark.Landmark, width, height int) (Placement, error) {
	if width <= 0 || height <= 0 {
		return Placement{}, ErrEmptyTarget
	}

	w := float64(width)
	h := float64(height)

	l := Point{X: left.X * w, Y: left.Y * h}
	r := Point{X: right.X * w, Y: right.Y * h}

	dx := r.X - l.X
	dy := r.Y - l.Y
	eyeDist := math.Hypot(dx, dy)
	if eyeDist == 0 || math.IsNaN(eyeDist) || math.IsInf(eyeDist, 0) {
		return Placement{}, ErrDegenerate
	}

	frameWidth := eyeDist * g.WidthScale
	return Placement{
		LeftEye:  l,
		RightEye: r,
		EyeDist:  eyeDist,
		Width:    frameWidth,
		Height:   frameWidth * g.AspectRatio,
		Mid:      Point{X: (l.X + r.X) / 2, Y: (l.Y + r.Y) / 2},
		Angle:    math.Atan2(dy, dx),
	}, nil
}

// ComputeSet places an overlay from face landmarks.
func (g Geometry) ComputeSet(set landmark.Set, width, height int) (Placement, error) {
	left, right, ok := set.Anchors()
	if !ok {
		return Placement{}, ErrMissingAnchors
	}
	return g.Compute(left, right, width, height)
}
