package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pointSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number", "description": "Normalized X (0 = left edge, 1 = right edge)"},
			"y": map[string]interface{}{"type": "number", "description": "Normalized Y (0 = top edge, 1 = bottom edge)"},
		},
		"required": []string{"x", "y"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "tryon_select",
			Description: "Select the glasses image to try on. If a frame has already been submitted, it is re-processed immediately so the overlay updates without waiting for a new frame. An empty path clears the selection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "File path or http(s) URL of the overlay image. Relative paths resolve against TRYON_ASSET_DIR.",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the rendered overlay as base64 PNG. Default true",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "tryon_frame",
			Description: "Submit one video frame with its face-landmark detection result and render the selected glasses onto it. Landmarks use the MediaPipe Face Mesh convention (index 33 = left eye outer corner, 263 = right eye outer corner); only face 0 is used.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"frame_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path or URL of the frame image. Required for composite output. Relative paths resolve against the server working directory, not TRYON_ASSET_DIR.",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Frame width in pixels when frame_path is not given",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Frame height in pixels when frame_path is not given",
					},
					"faces": map[string]interface{}{
						"type":        "array",
						"description": "Detected faces; each face is an array of normalized {x, y, z} landmarks. Empty or omitted means no face.",
						"items": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"x": map[string]interface{}{"type": "number"},
									"y": map[string]interface{}{"type": "number"},
									"z": map[string]interface{}{"type": "number"},
								},
							},
						},
					},
					"left_eye":  pointSchema("Left eye outer corner, instead of faces when only the eye corners are known"),
					"right_eye": pointSchema("Right eye outer corner, given together with left_eye"),
					"composite": map[string]interface{}{
						"type":        "boolean",
						"description": "Blend the overlay onto the frame instead of returning the transparent overlay alone. Default false",
						"default":     false,
					},
					"show_anchors": map[string]interface{}{
						"type":        "boolean",
						"description": "Mark the eye anchors and midpoint. Default false",
						"default":     false,
					},
					"marker_color": map[string]interface{}{
						"type":        "string",
						"description": "Anchor marker color as hex (e.g., '#00FF00'). Default green",
						"default":     "#00FF00",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the rendered image as base64 PNG. Default true",
						"default":     true,
					},
				},
			},
		},
		{
			Name:        "tryon_place",
			Description: "Compute overlay placement (midpoint, size, rotation) for two eye anchors on a target size without rendering.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"left_eye":  pointSchema("Left eye outer corner"),
					"right_eye": pointSchema("Right eye outer corner"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Target width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Target height in pixels",
					},
				},
				"required": []string{"left_eye", "right_eye", "width", "height"},
			},
		},
		{
			Name:        "tryon_asset_info",
			Description: "Load an overlay image and return its dimensions, format and aspect ratio.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "File path or http(s) URL of the overlay image",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "tryon_assets",
			Description: "Manage the overlay image cache: list loaded images, evict one, or clear all.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"action": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"list", "evict", "clear"},
						"description": "Cache operation. Default list",
						"default":     "list",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image to evict (for action=evict)",
					},
				},
			},
		},
		{
			Name:        "tryon_apply_still",
			Description: "Apply glasses to a still photo without landmarks. The overlay is resized to the photo width by 40% of its height, centered horizontally 28% from the top, and alpha-blended. Returns JPEG by default.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"photo_path": map[string]interface{}{
						"type":        "string",
						"description": "Path or URL of the photo. Relative paths resolve against the server working directory.",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Overlay image; defaults to the selected asset",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"jpeg", "png"},
						"description": "Output format. Default jpeg",
						"default":     "jpeg",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100. Default 90",
						"default":     90,
					},
				},
				"required": []string{"photo_path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
