package placement

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/tryon-mcp/internal/landmark"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCompute_Level(t *testing.T) {
	g := DefaultGeometry()
	p, err := g.Compute(landmark.Landmark{X: 0.3, Y: 0.5}, landmark.Landmark{X: 0.7, Y: 0.5}, 640, 480)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"left.x", p.LeftEye.X, 192},
		{"left.y", p.LeftEye.Y, 240},
		{"right.x", p.RightEye.X, 448},
		{"right.y", p.RightEye.Y, 240},
		{"eyeDist", p.EyeDist, 256},
		{"width", p.Width, 460.8},
		{"height", p.Height, 368.64},
		{"mid.x", p.Mid.X, 320},
		{"mid.y", p.Mid.Y, 240},
		{"angle", p.Angle, 0},
	}
	for _, c := range checks {
		if !approx(c.got, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCompute_RotationSign(t *testing.T) {
	g := DefaultGeometry()

	tests := []struct {
		name      string
		left      landmark.Landmark
		right     landmark.Landmark
		wantSign  float64
		wantAngle float64
	}{
		{"right eye lower", landmark.Landmark{X: 0.3, Y: 0.4}, landmark.Landmark{X: 0.7, Y: 0.6}, 1, -1},
		{"right eye higher", landmark.Landmark{X: 0.3, Y: 0.6}, landmark.Landmark{X: 0.7, Y: 0.4}, -1, -1},
		{"45 degrees", landmark.Landmark{X: 0, Y: 0}, landmark.Landmark{X: 0.5, Y: 0.5}, 1, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := g.Compute(tt.left, tt.right, 100, 100)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if math.Copysign(1, p.Angle) != tt.wantSign || math.Abs(p.Angle) < eps {
				t.Errorf("angle sign: got %v, want sign %v", p.Angle, tt.wantSign)
			}
			if tt.wantAngle >= 0 && math.Abs(p.AngleDegrees()-tt.wantAngle) > 1e-6 {
				t.Errorf("AngleDegrees: got %v, want %v", p.AngleDegrees(), tt.wantAngle)
			}
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	g := DefaultGeometry()
	left := landmark.Landmark{X: 0.41, Y: 0.37}
	right := landmark.Landmark{X: 0.63, Y: 0.42}

	first, err := g.Compute(left, right, 1280, 720)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, _ := g.Compute(left, right, 1280, 720)
		if next != first {
			t.Fatalf("run %d: got %+v, want %+v", i, next, first)
		}
	}
}

func TestCompute_Degenerate(t *testing.T) {
	g := DefaultGeometry()
	same := landmark.Landmark{X: 0.5, Y: 0.5}

	_, err := g.Compute(same, same, 640, 480)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("coincident anchors: got %v, want ErrDegenerate", err)
	}

	_, err = g.Compute(landmark.Landmark{X: math.NaN()}, same, 640, 480)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("NaN anchor: got %v, want ErrDegenerate", err)
	}
}

func TestCompute_EmptyTarget(t *testing.T) {
	g := DefaultGeometry()
	_, err := g.Compute(landmark.Landmark{X: 0.3}, landmark.Landmark{X: 0.7}, 0, 480)
	if !errors.Is(err, ErrEmptyTarget) {
		t.Errorf("got %v, want ErrEmptyTarget", err)
	}
}

func TestComputeSet(t *testing.T) {
	g := DefaultGeometry()

	_, err := g.ComputeSet(make(landmark.Set, 100), 640, 480)
	if !errors.Is(err, ErrMissingAnchors) {
		t.Errorf("short set: got %v, want ErrMissingAnchors", err)
	}

	set := landmark.Synthetic(landmark.Landmark{X: 0.3, Y: 0.5}, landmark.Landmark{X: 0.7, Y: 0.5})
	p, err := g.ComputeSet(set, 640, 480)
	if err != nil {
		t.Fatalf("ComputeSet failed: %v", err)
	}
	if !approx(p.Width, 460.8) {
		t.Errorf("Width: got %v, want 460.8", p.Width)
	}
}

func TestGeometry_CustomFactors(t *testing.T) {
	g := Geometry{WidthScale: 2, AspectRatio: 0.5}
	p, err := g.Compute(landmark.Landmark{X: 0.25, Y: 0.5}, landmark.Landmark{X: 0.75, Y: 0.5}, 200, 100)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if !approx(p.Width, 200) || !approx(p.Height, 100) {
		t.Errorf("size: got %vx%v, want 200x100", p.Width, p.Height)
	}
}
