package landmark

import (
	"context"
	"image"
	"sync"
)

// Detector runs face-landmark detection on a frame.
//
// Implementations return a nil or empty Result when no face is found; an
// error is reserved for failures of the detector itself.
type Detector interface {
	Detect(ctx context.Context, frame image.Image) (*Result, error)
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func(ctx context.Context, frame image.Image) (*Result, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, frame image.Image) (*Result, error) {
	return f(ctx, frame)
}

// Replay is a Detector fed with results computed outside the process.
//
// The MCP client runs the real model and sends its output with each frame;
// Replay hands that output back whenever the frame is processed, including
// the re-runs triggered by a new asset selection.
type Replay struct {
	mu     sync.RWMutex
	result *Result
	calls  int
}

// NewReplay returns a Replay that reports no face until Set is called.
func NewReplay() *Replay {
	return &Replay{}
}

// Set replaces the result returned by subsequent Detect calls.
func (r *Replay) Set(result *Result) {
	r.mu.Lock()
	r.result = result
	r.mu.Unlock()
}

// Detect returns the last result passed to Set.
func (r *Replay) Detect(ctx context.Context, _ image.Image) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.result, nil
}

// Calls reports how many times Detect has run.
func (r *Replay) Calls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls
}
