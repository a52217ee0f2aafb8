// Package imaging provides the image plumbing behind the try-on engine:
// loading and caching overlay assets, encoding rendered surfaces for
// transport, and drawing debug markers.
//
// # Asset Loading
//
// AssetStore loads an asset once per source string (file path or http(s)
// URL) on a background goroutine. Callers either check Resident for an
// already-decoded asset or take the one-shot Load returned by Request and
// wait on its Done channel. Concurrent requests for the same source share a
// single fetch; failed fetches are not cached.
//
// Supported formats are PNG, JPEG, GIF, WebP and BMP.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward.
//
// # Thread Safety
//
// AssetStore is safe for concurrent use. Decoded assets are shared between
// callers and must be treated as read-only.
package imaging
