package render

import (
	"image"
	"image/color"
	"runtime"
	"testing"

	"github.com/ironsheep/tryon-mcp/internal/landmark"
	"github.com/ironsheep/tryon-mcp/internal/placement"
)

func TestTarget_ResizeAndClear(t *testing.T) {
	tgt := NewTarget()
	if !tgt.Bounds().Empty() {
		t.Fatal("new target should be zero-size")
	}

	tgt.Resize(8, 6)
	if tgt.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Fatalf("bounds: got %v, want 8x6", tgt.Bounds())
	}

	tgt.img.Set(2, 2, color.RGBA{1, 2, 3, 255})
	if tgt.IsEmpty() {
		t.Fatal("target with a pixel set should not be empty")
	}

	tgt.Resize(8, 6)
	if tgt.IsEmpty() {
		t.Error("same-size Resize should keep the surface")
	}

	tgt.Clear()
	if !tgt.IsEmpty() {
		t.Error("Clear should leave the target empty")
	}

	tgt.Resize(-1, 4)
	if tgt.Bounds() != image.Rect(0, 0, 0, 4) {
		t.Errorf("negative width: got %v", tgt.Bounds())
	}
}

func TestTarget_SnapshotIsCopy(t *testing.T) {
	tgt := NewTarget()
	tgt.Resize(4, 4)

	snap := tgt.Snapshot()
	snap.Set(1, 1, color.White)
	if !tgt.IsEmpty() {
		t.Error("modifying a snapshot changed the target")
	}
}

func TestTarget_DrawOverlayTooSmall(t *testing.T) {
	tgt := NewTarget()
	tgt.Resize(10, 10)

	p := placement.Placement{Width: 0.4, Height: 0.3, Mid: placement.Point{X: 5, Y: 5}}
	if tgt.DrawOverlay(solidAsset(4, 4, red), p) {
		t.Error("sub-pixel overlay should not be drawn")
	}
	if !tgt.IsEmpty() {
		t.Error("target should be untouched")
	}
}

func TestTarget_DrawOverlayCentered(t *testing.T) {
	tgt := NewTarget()
	tgt.Resize(100, 100)

	p := placement.Placement{Width: 40, Height: 20, Mid: placement.Point{X: 50, Y: 50}}
	if !tgt.DrawOverlay(solidAsset(10, 5, red), p) {
		t.Fatal("DrawOverlay returned false")
	}

	if !isRed(tgt.img.RGBAAt(50, 50)) || !isRed(tgt.img.RGBAAt(35, 45)) {
		t.Error("overlay missing inside its box")
	}
	if tgt.img.RGBAAt(25, 50).A != 0 || tgt.img.RGBAAt(50, 35).A != 0 {
		t.Error("overlay drawn outside its box")
	}
}

func TestTarget_DrawOverlayOutOfRangeAnchors(t *testing.T) {
	const side = 1024

	tgt := NewTarget()
	tgt.Resize(side, side)
	asset := solidAsset(100, 80, red)

	// Anchors past the right edge give an overlay about 4x the frame.
	p, err := placement.DefaultGeometry().Compute(
		landmark.Landmark{X: 0, Y: 0.5},
		landmark.Landmark{X: 2.2, Y: 0.5},
		side, side,
	)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if p.Width < 4000 {
		t.Fatalf("overlay width: got %.1f, want above 4000", p.Width)
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	drawn := tgt.DrawOverlay(asset, p)
	runtime.ReadMemStats(&after)

	if !drawn {
		t.Fatal("DrawOverlay returned false")
	}
	// A full-size intermediate would be about 52 MB.
	if alloc := after.TotalAlloc - before.TotalAlloc; alloc > 8<<20 {
		t.Errorf("DrawOverlay allocated %d bytes, want under 8 MiB", alloc)
	}
	if !isRed(tgt.img.RGBAAt(side/2, side/2)) || !isRed(tgt.img.RGBAAt(side-1, side-1)) {
		t.Error("overlay should cover the target")
	}
}

func TestTarget_DrawOverlayTooLarge(t *testing.T) {
	tgt := NewTarget()
	tgt.Resize(100, 100)

	p := placement.Placement{Width: 401, Height: 300, Mid: placement.Point{X: 50, Y: 50}}
	if tgt.DrawOverlay(solidAsset(4, 4, red), p) {
		t.Error("overlay beyond the size cap should not be drawn")
	}
	if !tgt.IsEmpty() {
		t.Error("target should be untouched")
	}
}
