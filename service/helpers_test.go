package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"mascota-mockups/mockup"
	"mascota-mockups/models"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// fakeLoader serves backgrounds from a map; missing refs fail like a 404
type fakeLoader struct {
	mu     sync.Mutex
	images map[string]image.Image
	calls  map[string]int
}

func newFakeLoader(images map[string]image.Image) *fakeLoader {
	return &fakeLoader{images: images, calls: map[string]int{}}
}

func (f *fakeLoader) Fetch(ctx context.Context, kind mockup.AssetKind, ref string) ([]byte, error) {
	img, err := f.Load(ctx, kind, ref)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *fakeLoader) Load(_ context.Context, kind mockup.AssetKind, ref string) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[ref]++
	img, ok := f.images[ref]
	if !ok {
		return nil, &mockup.AssetLoadError{Kind: kind, Ref: ref, Err: errors.New("status 404")}
	}
	return img, nil
}

func (f *fakeLoader) callCount(ref string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[ref]
}

type fakeCatalog struct {
	templates map[string]models.MockupTemplate
	styles    map[string]models.ProductStyle
}

func (c *fakeCatalog) Template(id string) (models.MockupTemplate, bool) {
	t, ok := c.templates[id]
	return t, ok
}

func (c *fakeCatalog) Style(id string) (models.ProductStyle, bool) {
	s, ok := c.styles[id]
	return s, ok
}

func (c *fakeCatalog) CategoryOfStyle(string) (models.ProductCategory, bool) {
	return models.ProductCategory{
		ID: "frame", Name: "Cuadro", Currency: "COP",
		Sizes: []models.ProductSize{{ID: "S", Label: "20x25", Price: 35000}},
	}, true
}

func testCatalog() *fakeCatalog {
	frame := models.MockupTemplate{
		ID: "frame-front", Name: "Frente", Category: models.CategoryFrame,
		BackgroundImage: "bg/frame.png",
		OverlayArea:     models.OverlayArea{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5},
		BlendMode:       models.BlendSourceOver,
	}
	mug := models.MockupTemplate{
		ID: "mug-front", Name: "Mug", Category: models.CategoryOther,
		BackgroundImage: "bg/mug.png",
		OverlayArea:     models.OverlayArea{X: 0.2, Y: 0.2, Width: 0.6, Height: 0.6},
		BlendMode:       models.BlendMultiply,
	}
	broken := models.MockupTemplate{
		ID: "frame-side", Name: "Lateral", Category: models.CategoryFrame,
		BackgroundImage: "bg/missing.png",
		OverlayArea:     models.OverlayArea{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5},
		BlendMode:       models.BlendSourceOver,
	}
	return &fakeCatalog{
		templates: map[string]models.MockupTemplate{frame.ID: frame, mug.ID: mug, broken.ID: broken},
		styles: map[string]models.ProductStyle{
			"frame-wood": {ID: "frame-wood", Name: "Marco", Templates: []models.MockupTemplate{frame, broken}},
		},
	}
}

func testLoader() *fakeLoader {
	return newFakeLoader(map[string]image.Image{
		"bg/frame.png": solidImage(200, 200, white),
		"bg/mug.png":   solidImage(300, 200, white),
	})
}

// memoryCache is a map-backed cache.Cache
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

type fakeStorage struct {
	uploads map[string][]byte
}

func (s *fakeStorage) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	if s.uploads == nil {
		s.uploads = map[string][]byte{}
	}
	s.uploads[path] = data
	return "https://cdn.example.com/" + path, nil
}

type fakeRepo struct {
	mu      sync.Mutex
	records map[string]models.MockupRecord
}

func (r *fakeRepo) Insert(_ context.Context, record *models.MockupRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.records == nil {
		r.records = map[string]models.MockupRecord{}
	}
	r.records[record.ID] = *record
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*models.MockupRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, errors.New("mockup not found")
	}
	return &rec, nil
}

func (r *fakeRepo) ListByDesignHash(_ context.Context, hash string) ([]models.MockupRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MockupRecord
	for _, rec := range r.records {
		if rec.DesignHash == hash {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}
