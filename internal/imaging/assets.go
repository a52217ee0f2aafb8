package imaging

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultLoadTimeout bounds a single asset fetch.
const DefaultLoadTimeout = 10 * time.Second

// Fetcher retrieves and decodes an overlay asset.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (image.Image, error)
}

// SourceFetcher loads assets from local paths or http(s) URLs.
//
// Relative paths are resolved against BaseDir when it is set.
type SourceFetcher struct {
	BaseDir string
	Client  *http.Client
}

// Fetch opens source and decodes it as PNG, JPEG, GIF, WebP or BMP.
func (f *SourceFetcher) Fetch(ctx context.Context, source string) (image.Image, error) {
	if source == "" {
		return nil, fmt.Errorf("empty asset source")
	}

	var r io.ReadCloser
	if isURL(source) {
		body, err := f.get(ctx, source)
		if err != nil {
			return nil, err
		}
		r = body
	} else {
		file, err := os.Open(f.resolve(source))
		if err != nil {
			return nil, fmt.Errorf("failed to open asset: %w", err)
		}
		r = file
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset: %w", err)
	}
	return img, nil
}

func (f *SourceFetcher) resolve(path string) string {
	if f.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.BaseDir, path)
}

func (f *SourceFetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build asset request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch asset: %s", resp.Status)
	}
	return resp.Body, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load is a one-shot asset load. Done is closed exactly once, after which
// Result is stable.
type Load struct {
	source string
	done   chan struct{}
	img    image.Image
	err    error
}

// Done is closed when the load completes, successfully or not.
func (l *Load) Done() <-chan struct{} { return l.done }

// Result returns the decoded asset or the load error. It must only be called
// after Done is closed.
func (l *Load) Result() (image.Image, error) { return l.img, l.err }

// Wait blocks until the load completes or ctx is done.
func (l *Load) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-l.done:
		return l.img, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AssetStore holds decoded overlay assets keyed by source string.
//
// Loads run in the background and concurrent requests for the same source
// share a single fetch. Failed loads are dropped from the store so the next
// request retries.
//
// AssetStore is safe for concurrent use.
type AssetStore struct {
	mu      sync.Mutex
	fetcher Fetcher
	timeout time.Duration
	assets  map[string]*Load
}

// NewAssetStore creates an empty store. A non-positive timeout selects
// DefaultLoadTimeout.
func NewAssetStore(fetcher Fetcher, timeout time.Duration) *AssetStore {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	return &AssetStore{
		fetcher: fetcher,
		timeout: timeout,
		assets:  make(map[string]*Load),
	}
}

// Resident returns the asset if it has finished loading successfully.
func (s *AssetStore) Resident(source string) (image.Image, bool) {
	s.mu.Lock()
	l, ok := s.assets[source]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	select {
	case <-l.done:
		if l.err != nil {
			return nil, false
		}
		return l.img, true
	default:
		return nil, false
	}
}

// Request returns the load for source, starting one if none is cached or in
// flight.
func (s *AssetStore) Request(source string) *Load {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.assets[source]; ok {
		return l
	}

	l := &Load{source: source, done: make(chan struct{})}
	s.assets[source] = l
	go s.run(l)
	return l
}

func (s *AssetStore) run(l *Load) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	l.img, l.err = s.fetcher.Fetch(ctx, l.source)
	if l.err != nil {
		log.Warn().Err(l.err).Str("source", l.source).Msg("asset load failed")
		s.mu.Lock()
		if s.assets[l.source] == l {
			delete(s.assets, l.source)
		}
		s.mu.Unlock()
	} else {
		b := l.img.Bounds()
		log.Debug().Str("source", l.source).Int("width", b.Dx()).Int("height", b.Dy()).Msg("asset loaded")
	}
	close(l.done)
}

// Load fetches source, waiting for completion or ctx.
func (s *AssetStore) Load(ctx context.Context, source string) (image.Image, error) {
	return s.Request(source).Wait(ctx)
}

// Sources lists the resident assets in sorted order.
func (s *AssetStore) Sources() []string {
	s.mu.Lock()
	loads := make([]*Load, 0, len(s.assets))
	for _, l := range s.assets {
		loads = append(loads, l)
	}
	s.mu.Unlock()

	sources := make([]string, 0, len(loads))
	for _, l := range loads {
		select {
		case <-l.done:
			if l.err == nil {
				sources = append(sources, l.source)
			}
		default:
		}
	}
	sort.Strings(sources)
	return sources
}

// Evict removes source from the store. A load still in flight completes for
// its existing waiters but is no longer reachable by new requests.
func (s *AssetStore) Evict(source string) {
	s.mu.Lock()
	delete(s.assets, source)
	s.mu.Unlock()
}

// Clear removes every asset from the store.
func (s *AssetStore) Clear() {
	s.mu.Lock()
	s.assets = make(map[string]*Load)
	s.mu.Unlock()
}

// AssetInfo contains metadata about an overlay asset.
type AssetInfo struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Format is detected from the extension: "png", "jpeg", "gif", "webp",
	// "bmp" or "unknown".
	Format   string `json:"format"`
	HasAlpha bool   `json:"has_alpha"`

	// AspectRatio is height/width of the asset as stored.
	AspectRatio float64 `json:"aspect_ratio"`
}

// LoadAssetInfo loads source through the store and describes it.
func LoadAssetInfo(ctx context.Context, store *AssetStore, source string) (*AssetInfo, error) {
	img, err := store.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Paletted:
		hasAlpha = true
	}

	var ratio float64
	if bounds.Dx() > 0 {
		ratio = float64(bounds.Dy()) / float64(bounds.Dx())
	}

	return &AssetInfo{
		Source:      source,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Format:      formatFromExt(source),
		HasAlpha:    hasAlpha,
		AspectRatio: ratio,
	}, nil
}

func formatFromExt(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 && isURL(source) {
		source = source[:i]
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	case ".bmp":
		return "bmp"
	}
	return "unknown"
}
