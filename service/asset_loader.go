package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/webp"

	"mascota-mockups/mockup"
	"mascota-mockups/utils"
)

// maxAssetBytes bounds remote downloads
const maxAssetBytes = 32 << 20

// maxImagePixels bounds the decoded size of any image, checked from its header
const maxImagePixels = 40_000_000

// errAssetNotFound hides file system details from callers
var errAssetNotFound = errors.New("asset not found")

// AssetLoaderInterface fetches and decodes design and template images
type AssetLoaderInterface interface {
	Fetch(ctx context.Context, kind mockup.AssetKind, ref string) ([]byte, error)
	Load(ctx context.Context, kind mockup.AssetKind, ref string) (image.Image, error)
}

// AssetLoader resolves image references: data URLs, http(s) URLs,
// drive://<fileID> and paths relative to the assets directory.
// Sprites only accept data URLs and http(s) URLs.
// Every load runs under its own timeout.
type AssetLoader struct {
	httpClient *http.Client
	drive      DriveServiceInterface
	assetsDir  string
	timeout    time.Duration
}

// Ensure AssetLoader implements AssetLoaderInterface
var _ AssetLoaderInterface = (*AssetLoader)(nil)

// NewAssetLoader creates a loader. drive may be nil when Drive is not configured.
func NewAssetLoader(assetsDir string, timeout time.Duration, drive DriveServiceInterface) *AssetLoader {
	return &AssetLoader{
		httpClient: &http.Client{},
		drive:      drive,
		assetsDir:  assetsDir,
		timeout:    timeout,
	}
}

// Fetch returns the raw bytes behind ref
func (l *AssetLoader) Fetch(ctx context.Context, kind mockup.AssetKind, ref string) ([]byte, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, &mockup.AssetLoadError{Kind: kind, Ref: ref, Err: errors.New("empty image reference")}
	}
	if kind == mockup.AssetSprite && !utils.IsDataURL(ref) && !isHTTPRef(ref) {
		log.Printf("⚠️ AssetLoader: rejected design reference %s", shortRef(ref))
		return nil, &mockup.AssetLoadError{Kind: kind, Ref: shortRef(ref), Err: errors.New("design must be a data URL or an http(s) URL")}
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	data, err := l.fetch(ctx, ref)
	if err != nil {
		log.Printf("❌ AssetLoader: failed to load %s %s: %v", kind, shortRef(ref), err)
		return nil, &mockup.AssetLoadError{Kind: kind, Ref: shortRef(ref), Err: err}
	}
	return data, nil
}

// Load fetches ref and decodes it as PNG, JPEG, GIF or WebP
func (l *AssetLoader) Load(ctx context.Context, kind mockup.AssetKind, ref string) (image.Image, error) {
	data, err := l.Fetch(ctx, kind, ref)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, &mockup.AssetLoadError{Kind: kind, Ref: shortRef(ref), Err: err}
	}
	return img, nil
}

func (l *AssetLoader) fetch(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case utils.IsDataURL(ref):
		_, data, err := utils.ParseDataURL(ref)
		return data, err

	case isHTTPRef(ref):
		return l.fetchHTTP(ctx, ref)

	case strings.HasPrefix(ref, DriveRefScheme):
		if l.drive == nil {
			return nil, errors.New("google drive is not configured")
		}
		return l.fetchWithContext(ctx, func() ([]byte, error) {
			return l.drive.DownloadImage(ctx, strings.TrimPrefix(ref, DriveRefScheme))
		})

	default:
		return l.readFile(ref)
	}
}

func (l *AssetLoader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxAssetBytes)
	}
	return data, nil
}

// fetchWithContext runs fn and gives up when ctx is done, for clients that
// do not honor cancellation on every path
func (l *AssetLoader) fetchWithContext(ctx context.Context, fn func() ([]byte, error)) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := fn()
		ch <- result{data, err}
	}()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// readFile reads ref below the assets directory. Absolute refs are refused
// and ".." segments cannot climb out of the directory.
func (l *AssetLoader) readFile(ref string) ([]byte, error) {
	if filepath.IsAbs(ref) || filepath.VolumeName(ref) != "" {
		return nil, errAssetNotFound
	}
	base := l.assetsDir
	if base == "" {
		base = "."
	}
	path := filepath.Join(base, filepath.Clean("/"+ref))
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ AssetLoader: failed to read %s: %v", path, err)
		return nil, errAssetNotFound
	}
	return data, nil
}

func isHTTPRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// DecodeImage decodes any registered image format. Images whose header
// declares more than maxImagePixels are refused before any pixel is allocated.
func DecodeImage(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if err := checkImageSize(cfg.Width, cfg.Height, maxImagePixels); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	log.Printf("📸 Image decoded: format=%s, bounds=%v", format, img.Bounds())
	return img, nil
}

func checkImageSize(w, h, limit int) error {
	if int64(w)*int64(h) > int64(limit) {
		return fmt.Errorf("image dimensions %dx%d exceed the %d pixel limit", w, h, limit)
	}
	return nil
}

// shortRef keeps data URLs out of logs and error messages
func shortRef(ref string) string {
	if utils.IsDataURL(ref) {
		if i := strings.IndexByte(ref, ','); i > 0 {
			return ref[:i] + ",..."
		}
		return "data:..."
	}
	return ref
}
