// Package landmark defines the face-landmark data handed to the try-on engine
// by an external detector.
//
// Coordinates are normalized to the source frame: X and Y are in [0,1] with
// (0,0) at the top-left corner, X increasing rightward and Y downward. Z is
// carried through when the detector supplies it but is never read by the
// placement math.
//
// Indices follow the MediaPipe Face Mesh convention (468 points, 478 with
// iris refinement). Only the two outer eye corners are used here.
package landmark

// Face Mesh indices of the anchor points.
const (
	LeftEyeOuter  = 33
	RightEyeOuter = 263

	// MinPoints is the smallest set that still contains both anchors.
	MinPoints = RightEyeOuter + 1
)

// Landmark is a single normalized point.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Set is the ordered landmark list of one face.
type Set []Landmark

// Anchors returns the left and right outer eye corners. ok is false when the
// set is too short to contain them.
func (s Set) Anchors() (left, right Landmark, ok bool) {
	if len(s) < MinPoints {
		return Landmark{}, Landmark{}, false
	}
	return s[LeftEyeOuter], s[RightEyeOuter], true
}

// Result is one detection cycle's output.
type Result struct {
	MultiFaceLandmarks []Set `json:"multiFaceLandmarks,omitempty"`
}

// PrimaryFace returns face 0, or nil when no face was detected.
//
// A nil *Result is valid and reports no face.
func (r *Result) PrimaryFace() Set {
	if r == nil || len(r.MultiFaceLandmarks) == 0 {
		return nil
	}
	return r.MultiFaceLandmarks[0]
}

// HasFace reports whether face 0 is present and non-empty.
func (r *Result) HasFace() bool {
	return len(r.PrimaryFace()) > 0
}

// Synthetic builds a full-size set with every point at the frame center
// except the two anchors. It is used for fixtures and for callers that only
// know the eye corners.
func Synthetic(left, right Landmark) Set {
	s := make(Set, MinPoints)
	for i := range s {
		s[i] = Landmark{X: 0.5, Y: 0.5}
	}
	s[LeftEyeOuter] = left
	s[RightEyeOuter] = right
	return s
}
