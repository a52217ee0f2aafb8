// Package session holds the try-on application state: the selected asset,
// the most recent frame and the detector that turns frames into landmarks.
//
// Calls are serialised, mirroring a UI event loop that delivers one
// detection callback at a time.
package session

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ironsheep/tryon-mcp/internal/landmark"
	"github.com/ironsheep/tryon-mcp/internal/logging"
	"github.com/ironsheep/tryon-mcp/internal/render"
)

var log zerolog.Logger = logging.For("session")

// Session ties a detector and a render engine to the user's selection.
type Session struct {
	mu       sync.Mutex
	engine   *render.Engine
	detector landmark.Detector
	selected string
	frame    image.Image
	markers  *render.Markers
}

// New creates a session with nothing selected and no frame seen.
func New(engine *render.Engine, detector landmark.Detector) *Session {
	return &Session{
		engine:   engine,
		detector: detector,
	}
}

// Engine returns the underlying render engine.
func (s *Session) Engine() *render.Engine {
	return s.engine
}

// Selected returns the selected asset source, or "" when none is selected.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Frame returns the most recently processed frame, or nil.
func (s *Session) Frame() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// SetMarkers enables anchor markers for subsequent renders; nil disables
// them.
func (s *Session) SetMarkers(m *render.Markers) {
	s.mu.Lock()
	s.markers = m
	s.mu.Unlock()
}

// ProcessFrame runs detection on frame and renders the result. The frame is
// kept so a later selection change can redraw without a new frame.
func (s *Session) ProcessFrame(ctx context.Context, frame image.Image) (*render.Job, error) {
	if frame == nil {
		return nil, fmt.Errorf("nil frame")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame = frame
	return s.processLocked(ctx)
}

// Select changes the selected asset and, when a frame has already been
// seen, re-runs detection on it so the overlay updates immediately. An empty
// source clears the selection. The returned job is nil when no frame has
// been processed yet.
func (s *Session) Select(ctx context.Context, source string) (*render.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = source
	log.Info().Str("asset", source).Msg("asset selected")

	if source != "" {
		// Start decoding now; the render below picks it up or defers.
		s.engine.Assets().Request(source)
	}
	if s.frame == nil {
		return nil, nil
	}
	return s.processLocked(ctx)
}

func (s *Session) processLocked(ctx context.Context) (*render.Job, error) {
	b := s.frame.Bounds()

	result, err := s.detector.Detect(ctx, s.frame)
	if err != nil {
		// Still clear the surface so no stale overlay survives.
		job := s.engine.Render(render.Request{Width: b.Dx(), Height: b.Dy()})
		return job, fmt.Errorf("landmark detection failed: %w", err)
	}

	job := s.engine.Render(render.Request{
		Result:  result,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Asset:   s.selected,
		Markers: s.markers,
	})
	log.Debug().
		Uint64("gen", job.Generation()).
		Bool("face", result.HasFace()).
		Str("status", string(job.Status())).
		Msg("frame rendered")
	return job, nil
}
