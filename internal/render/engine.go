// Package render draws the selected eyewear asset onto the DrawTarget for
// each detection cycle.
//
// Every Render call resizes the target to the frame, clears it, and only then
// decides whether anything is drawn, so a frame without a face or without a
// selection always comes out empty. When the asset is already decoded the
// draw happens before Render returns; otherwise it is deferred until the
// asset store finishes loading. A newer Render supersedes any deferred draw
// still waiting, so a stale placement never reaches the surface.
package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/anthonynsimon/bild/blend"

	"github.com/ironsheep/tryon-mcp/internal/imaging"
	"github.com/ironsheep/tryon-mcp/internal/landmark"
	"github.com/ironsheep/tryon-mcp/internal/placement"
)

// ErrOverlaySize is reported when the computed overlay cannot be drawn at
// a sane size.
var ErrOverlaySize = errors.New("overlay size out of range")

// Status is the outcome of a render job.
type Status string

const (
	// StatusPending means the job is waiting for its asset to load.
	StatusPending Status = "pending"

	// StatusEmpty means no face was detected or no asset is selected.
	StatusEmpty Status = "empty"

	// StatusDrawn means the overlay was composited onto the target.
	StatusDrawn Status = "drawn"

	// StatusSkipped means the landmarks or the overlay size were unusable.
	StatusSkipped Status = "skipped"

	// StatusFailed means the asset could not be fetched or decoded.
	StatusFailed Status = "failed"

	// StatusSuperseded means a newer Render started before the asset loaded.
	StatusSuperseded Status = "superseded"
)

// Markers draws the anchor points on top of the overlay.
type Markers struct {
	Color  color.Color
	Radius int
}

// Request is one detection cycle's input.
type Request struct {
	Result *landmark.Result
	Width  int
	Height int

	// Asset is the selected asset source; empty means nothing selected.
	Asset string

	Markers *Markers
}

// Job tracks a single Render call to completion.
type Job struct {
	gen       uint64
	done      chan struct{}
	status    Status
	placement *placement.Placement
	err       error
}

func newJob(gen uint64) *Job {
	return &Job{gen: gen, done: make(chan struct{}), status: StatusPending}
}

func (j *Job) finish(status Status, err error) {
	j.status = status
	j.err = err
	close(j.done)
}

// Generation is the engine generation this job was issued at.
func (j *Job) Generation() uint64 { return j.gen }

// Done is closed once the job reaches a final status.
func (j *Job) Done() <-chan struct{} { return j.done }

// Status returns the current status without blocking.
func (j *Job) Status() Status {
	select {
	case <-j.done:
		return j.status
	default:
		return StatusPending
	}
}

// Err returns the reason for a skipped or failed job.
func (j *Job) Err() error {
	select {
	case <-j.done:
		return j.err
	default:
		return nil
	}
}

// Placement returns the computed placement, if landmarks were usable.
func (j *Job) Placement() (placement.Placement, bool) {
	if j.placement == nil {
		return placement.Placement{}, false
	}
	return *j.placement, true
}

// Wait blocks until the job is final or ctx is done. On ctx expiry it
// returns StatusPending and the context error.
func (j *Job) Wait(ctx context.Context) (Status, error) {
	select {
	case <-j.done:
		return j.status, nil
	case <-ctx.Done():
		return StatusPending, ctx.Err()
	}
}

// Engine owns the DrawTarget and serialises all drawing onto it.
type Engine struct {
	mu       sync.Mutex
	target   *Target
	assets   *imaging.AssetStore
	geometry placement.Geometry
	gen      uint64
	draws    uint64
}

// NewEngine creates an engine drawing assets from store.
func NewEngine(store *imaging.AssetStore, geometry placement.Geometry) *Engine {
	return &Engine{
		target:   NewTarget(),
		assets:   store,
		geometry: geometry,
	}
}

// Assets returns the store the engine draws from.
func (e *Engine) Assets() *imaging.AssetStore {
	return e.assets
}

// Render processes one detection cycle. The returned job is already final
// unless the asset is still loading.
func (e *Engine) Render(req Request) *Job {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gen++
	job := newJob(e.gen)

	e.target.Resize(req.Width, req.Height)
	e.target.Clear()

	face := req.Result.PrimaryFace()
	if len(face) == 0 || req.Asset == "" {
		job.finish(StatusEmpty, nil)
		return job
	}

	p, err := e.geometry.ComputeSet(face, req.Width, req.Height)
	if err != nil {
		log.Debug().Err(err).Uint64("gen", job.gen).Msg("placement skipped")
		job.finish(StatusSkipped, err)
		return job
	}
	job.placement = &p

	if img, ok := e.assets.Resident(req.Asset); ok {
		e.drawLocked(job, img, req)
		return job
	}

	load := e.assets.Request(req.Asset)
	go e.deferred(job, load, req)
	return job
}

func (e *Engine) deferred(job *Job, load *imaging.Load, req Request) {
	<-load.Done()
	img, err := load.Result()

	e.mu.Lock()
	defer e.mu.Unlock()

	if job.gen != e.gen {
		job.finish(StatusSuperseded, nil)
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("asset", req.Asset).Msg("overlay draw skipped")
		job.finish(StatusFailed, err)
		return
	}
	e.drawLocked(job, img, req)
}

func (e *Engine) drawLocked(job *Job, img image.Image, req Request) {
	if !e.target.DrawOverlay(img, *job.placement) {
		job.finish(StatusSkipped, ErrOverlaySize)
		return
	}

	if m := req.Markers; m != nil {
		for _, pt := range []placement.Point{job.placement.LeftEye, job.placement.RightEye, job.placement.Mid} {
			imaging.DrawMarker(e.target.img, int(pt.X), int(pt.Y), m.Radius, m.Color)
		}
	}

	e.draws++
	job.finish(StatusDrawn, nil)
}

// Snapshot copies the current DrawTarget.
func (e *Engine) Snapshot() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target.Snapshot()
}

// Empty reports whether the DrawTarget has no visible pixels.
func (e *Engine) Empty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target.IsEmpty()
}

// Composite blends the current DrawTarget over frame, the way the overlay
// canvas sits on the live video.
func (e *Engine) Composite(frame image.Image) *image.RGBA {
	return blend.Normal(frame, e.Snapshot())
}

// Draws counts overlays actually composited since the engine was created.
func (e *Engine) Draws() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draws
}
