// Package server implements the MCP (Model Context Protocol) server for
// virtual eyewear try-on.
//
// A client streams video frames together with the face-landmark result its
// own detector produced, and the server answers with the glasses overlay
// positioned on the eye anchors (landmarks 33 and 263). The overlay is kept
// on a transparent DrawTarget the size of the last frame, so it can be
// layered over live video or returned already blended onto the frame.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - tryon_select: Choose the overlay image; redraws the last frame at once
//   - tryon_frame: Submit a frame and its landmarks, get the rendered overlay
//   - tryon_place: Compute placement for two eye anchors without drawing
//   - tryon_asset_info: Dimensions and format of an overlay image
//   - tryon_assets: List, evict or clear cached overlay images
//
// # Render Status
//
// Every render reports one of empty, drawn, skipped, failed, superseded or
// pending. The DrawTarget is cleared at the start of every render, so only
// a drawn status leaves pixels on it.
//
// # Image Caching
//
// Overlay images are decoded once and kept for the lifetime of the process.
// Concurrent requests for the same image share one load. Failed loads are
// not cached, so selecting the image again retries.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A failed overlay load is not a tool error: the render reports status
// failed with the reason, and the overlay stays empty.
//
// # Usage
//
//	srv := server.New(config.Load())
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server error")
//	}
package server
