package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	tryimaging "github.com/ironsheep/tryon-mcp/internal/imaging"
	"github.com/ironsheep/tryon-mcp/internal/landmark"
	"github.com/ironsheep/tryon-mcp/internal/placement"
	"github.com/ironsheep/tryon-mcp/internal/render"
)

// maxFrameSide bounds frames declared by width/height alone.
const maxFrameSide = 8192

// markerRadius is the half-size of anchor markers in pixels.
const markerRadius = 3

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "tryon_frame", "tryon_select").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "tryon_select":
		return s.handleSelect(args)
	case "tryon_frame":
		return s.handleFrame(args)
	case "tryon_place":
		return s.handlePlace(args)
	case "tryon_asset_info":
		return s.handleAssetInfo(args)
	case "tryon_assets":
		return s.handleAssets(args)
	case "tryon_apply_still":
		return s.handleApplyStill(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// waitContext bounds how long a tool call waits for a deferred draw.
func (s *Server) waitContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.cfg.WaitTimeout)
}

// placementView is a Placement as reported to clients.
type placementView struct {
	placement.Placement
	AngleDegrees float64 `json:"angle_degrees"`
}

func viewOf(p placement.Placement) *placementView {
	return &placementView{Placement: p, AngleDegrees: p.AngleDegrees()}
}

// renderResult describes the outcome of one render cycle.
type renderResult struct {
	Status     render.Status            `json:"status"`
	Generation uint64                   `json:"generation"`
	Selected   string                   `json:"selected"`
	Placement  *placementView           `json:"placement,omitempty"`
	Reason     string                   `json:"reason,omitempty"`
	Image      *tryimaging.EncodedImage `json:"image,omitempty"`
}

// finishRender waits for job and packages the DrawTarget, optionally
// blended over frame.
func (s *Server) finishRender(job *render.Job, frame image.Image, composite, includeImage bool) (*renderResult, error) {
	ctx, cancel := s.waitContext()
	defer cancel()

	status, _ := job.Wait(ctx)

	res := &renderResult{
		Status:     status,
		Generation: job.Generation(),
		Selected:   s.session.Selected(),
	}
	if p, ok := job.Placement(); ok {
		res.Placement = viewOf(p)
	}
	if err := job.Err(); err != nil {
		res.Reason = err.Error()
	}

	if includeImage {
		engine := s.session.Engine()
		var out image.Image
		if composite && frame != nil {
			out = engine.Composite(frame)
		} else {
			out = engine.Snapshot()
		}
		enc, err := tryimaging.EncodePNG(out)
		if err != nil {
			return nil, err
		}
		res.Image = enc
	}
	return res, nil
}

// === Selection ===

type selectArgs struct {
	Path         string `json:"path"`
	IncludeImage *bool  `json:"include_image"`
}

type selectResult struct {
	Selected string        `json:"selected"`
	Render   *renderResult `json:"render,omitempty"`
}

func (s *Server) handleSelect(args json.RawMessage) (interface{}, error) {
	var a selectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	job, err := s.session.Select(context.Background(), a.Path)
	if err != nil {
		return nil, err
	}
	res := &selectResult{Selected: a.Path}
	if job == nil {
		return res, nil
	}

	res.Render, err = s.finishRender(job, s.session.Frame(), false, boolOr(a.IncludeImage, true))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// === Frames ===

type frameArgs struct {
	FramePath    string             `json:"frame_path"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	Faces        []landmark.Set     `json:"faces"`
	LeftEye      *landmark.Landmark `json:"left_eye"`
	RightEye     *landmark.Landmark `json:"right_eye"`
	Composite    bool               `json:"composite"`
	ShowAnchors  bool               `json:"show_anchors"`
	MarkerColor  string             `json:"marker_color"`
	IncludeImage *bool              `json:"include_image"`
}

func (s *Server) handleFrame(args json.RawMessage) (interface{}, error) {
	var a frameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	frame, err := s.loadFrame(a)
	if err != nil {
		return nil, err
	}
	faces, err := a.faces()
	if err != nil {
		return nil, err
	}

	var markers *render.Markers
	if a.ShowAnchors {
		c, err := tryimaging.ParseMarkerColor(a.MarkerColor)
		if err != nil {
			return nil, err
		}
		markers = &render.Markers{Color: c, Radius: markerRadius}
	}
	s.session.SetMarkers(markers)

	s.replay.Set(&landmark.Result{MultiFaceLandmarks: faces})
	job, err := s.session.ProcessFrame(context.Background(), frame)
	if err != nil {
		return nil, err
	}
	return s.finishRender(job, frame, a.Composite, boolOr(a.IncludeImage, true))
}

// faces returns the detection result, or a single face built from the eye
// corners when only left_eye and right_eye are given.
func (a frameArgs) faces() ([]landmark.Set, error) {
	if a.LeftEye == nil && a.RightEye == nil {
		return a.Faces, nil
	}
	if a.LeftEye == nil || a.RightEye == nil {
		return nil, fmt.Errorf("left_eye and right_eye must be given together")
	}
	if len(a.Faces) > 0 {
		return nil, fmt.Errorf("give either faces or left_eye/right_eye, not both")
	}
	return []landmark.Set{landmark.Synthetic(*a.LeftEye, *a.RightEye)}, nil
}

func (s *Server) loadFrame(a frameArgs) (image.Image, error) {
	if a.FramePath != "" {
		return s.fetchImage(a.FramePath, "frame")
	}

	if a.Width <= 0 || a.Height <= 0 {
		return nil, fmt.Errorf("frame_path or positive width and height required")
	}
	if a.Width > maxFrameSide || a.Height > maxFrameSide {
		return nil, fmt.Errorf("frame %dx%d exceeds %d pixels per side", a.Width, a.Height, maxFrameSide)
	}
	return imaging.New(a.Width, a.Height, color.Transparent), nil
}

// fetchImage loads a frame or photo. Relative paths resolve against the
// working directory, not TRYON_ASSET_DIR.
func (s *Server) fetchImage(path, what string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.LoadTimeout)
	defer cancel()
	img, err := s.frames.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", what, err)
	}
	return img, nil
}

// === Placement ===

type placeArgs struct {
	LeftEye  landmark.Landmark `json:"left_eye"`
	RightEye landmark.Landmark `json:"right_eye"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
}

func (s *Server) handlePlace(args json.RawMessage) (interface{}, error) {
	var a placeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := s.geometry.Compute(a.LeftEye, a.RightEye, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	return viewOf(p), nil
}

// === Assets ===

type assetInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleAssetInfo(args json.RawMessage) (interface{}, error) {
	var a assetInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ctx, cancel := s.waitContext()
	defer cancel()
	return tryimaging.LoadAssetInfo(ctx, s.session.Engine().Assets(), a.Path)
}

type assetsArgs struct {
	Action string `json:"action"`
	Path   string `json:"path"`
}

type assetsResult struct {
	Assets []string `json:"assets"`
	Count  int      `json:"count"`
}

func (s *Server) handleAssets(args json.RawMessage) (interface{}, error) {
	var a assetsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	store := s.session.Engine().Assets()
	switch a.Action {
	case "", "list":
	case "evict":
		if a.Path == "" {
			return nil, fmt.Errorf("path required for evict")
		}
		store.Evict(a.Path)
	case "clear":
		store.Clear()
	default:
		return nil, fmt.Errorf("unknown action: %s", a.Action)
	}

	sources := store.Sources()
	return &assetsResult{Assets: sources, Count: len(sources)}, nil
}

// === Still photo ===

type applyStillArgs struct {
	PhotoPath string `json:"photo_path"`
	Path      string `json:"path"`
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
}

type applyStillResult struct {
	Asset string                   `json:"asset"`
	Top   int                      `json:"top"`
	Image *tryimaging.EncodedImage `json:"image"`
}

func (s *Server) handleApplyStill(args json.RawMessage) (interface{}, error) {
	var a applyStillArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.PhotoPath == "" {
		return nil, fmt.Errorf("photo_path is required")
	}

	asset := a.Path
	if asset == "" {
		asset = s.session.Selected()
	}
	if asset == "" {
		return nil, fmt.Errorf("path required when no asset is selected")
	}

	photo, err := s.fetchImage(a.PhotoPath, "photo")
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.waitContext()
	defer cancel()
	frame, err := s.session.Engine().Assets().Load(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}

	out, err := render.ApplyStill(photo, frame)
	if err != nil {
		return nil, err
	}

	var enc *tryimaging.EncodedImage
	switch a.Format {
	case "", "jpeg", "jpg":
		enc, err = tryimaging.EncodeJPEG(out, a.Quality)
	case "png":
		enc, err = tryimaging.EncodePNG(out)
	default:
		return nil, fmt.Errorf("unknown format: %s", a.Format)
	}
	if err != nil {
		return nil, err
	}

	return &applyStillResult{
		Asset: asset,
		Top:   int(float64(out.Bounds().Dy()) * render.StillTopRatio),
		Image: enc,
	}, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
