package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"

	"mascota-mockups/mockup"
	"mascota-mockups/models"
	"mascota-mockups/utils"
)

func newTestService(c *memoryCache, storage StorageServiceInterface, repo *fakeRepo) (*MockupService, *fakeLoader) {
	loader := testLoader()
	svc := NewMockupService(testCatalog(), mockup.NewCompositor(mockup.DefaultConfig()), loader, nil, storage, nil, MockupServiceOptions{
		Concurrency:       2,
		PlaceholderWidth:  120,
		PlaceholderHeight: 90,
	})
	if c != nil {
		svc.cache = c
	}
	if repo != nil {
		svc.repo = repo
	}
	return svc, loader
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	return img
}

func TestRender_Composites(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)
	design := pngBytes(t, solidImage(40, 40, red))

	result, err := svc.Render(context.Background(), design, "frame-front", RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if result.Placeholder || result.Cached {
		t.Errorf("result flags placeholder=%v cached=%v", result.Placeholder, result.Cached)
	}
	if result.ContentType != "image/png" || result.Width != 200 || result.Height != 200 {
		t.Errorf("result = %s %dx%d", result.ContentType, result.Width, result.Height)
	}
	if result.DesignHash != utils.HashBytes(design) {
		t.Errorf("DesignHash = %s", result.DesignHash)
	}

	img := decodePNG(t, result.Data)
	r, g, b, _ := img.At(100, 100).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("center pixel = %d,%d,%d, want red", r>>8, g>>8, b>>8)
	}
}

func TestRender_CacheHitReturnsIdenticalBytes(t *testing.T) {
	c := newMemoryCache()
	svc, loader := newTestService(c, nil, nil)
	design := pngBytes(t, solidImage(40, 40, red))

	first, err := svc.Render(context.Background(), design, "frame-front", RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := svc.Render(context.Background(), design, "frame-front", RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !second.Cached {
		t.Error("second render was not served from cache")
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Error("cached bytes differ from the first render")
	}
	if second.Width != 200 || second.Height != 200 {
		t.Errorf("cached dimensions = %dx%d", second.Width, second.Height)
	}
	if n := loader.callCount("bg/frame.png"); n != 1 {
		t.Errorf("background loaded %d times, want 1", n)
	}
}

func TestRender_PlaceholderOnMissingBackground(t *testing.T) {
	c := newMemoryCache()
	svc, _ := newTestService(c, nil, nil)
	design := pngBytes(t, solidImage(40, 40, red))

	result, err := svc.Render(context.Background(), design, "frame-side", RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !result.Placeholder {
		t.Fatal("expected a placeholder render")
	}
	if result.Width != 120 || result.Height != 90 {
		t.Errorf("placeholder size = %dx%d, want 120x90", result.Width, result.Height)
	}
	if len(c.data) != 0 {
		t.Error("placeholder renders must not be cached")
	}
}

func TestRender_Errors(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Render(ctx, pngBytes(t, solidImage(10, 10, red)), "nope", RenderOptions{})
	if !errors.Is(err, ErrTemplateNotFound) || ErrorKind(err) != models.ErrorKindTemplateNotFound {
		t.Errorf("unknown template error = %v", err)
	}

	_, err = svc.Render(ctx, []byte("not an image"), "frame-front", RenderOptions{})
	if !mockup.IsSpriteFailure(err) || ErrorKind(err) != models.ErrorKindSpriteInvalid {
		t.Errorf("undecodable design error = %v", err)
	}

	_, err = svc.Render(ctx, pngBytes(t, solidImage(10, 10, white)), "frame-front", RenderOptions{})
	if !errors.Is(err, mockup.ErrEmptySprite) || ErrorKind(err) != models.ErrorKindEmptySprite {
		t.Errorf("all-white design error = %v", err)
	}

	_, err = svc.Render(ctx, pngBytes(t, solidImage(10, 10, red)), "frame-front", RenderOptions{Store: true})
	if !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("store without storage error = %v", err)
	}
}

func TestRender_StoreUploadsAndRecords(t *testing.T) {
	storage := &fakeStorage{}
	repo := &fakeRepo{}
	svc, _ := newTestService(nil, storage, repo)
	design := pngBytes(t, solidImage(40, 40, red))

	result, err := svc.Render(context.Background(), design, "frame-front", RenderOptions{Store: true, Format: models.FormatJPEG})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	rec := result.Record
	if rec == nil {
		t.Fatal("no record returned")
	}
	if !strings.HasPrefix(rec.PublicURL, "https://cdn.example.com/mockups/") || !strings.HasSuffix(rec.StoragePath, ".jpeg") {
		t.Errorf("record = %+v", rec)
	}
	if !bytes.Equal(storage.uploads[rec.StoragePath], result.Data) {
		t.Error("uploaded bytes differ from the render")
	}

	got, err := svc.GetRecord(context.Background(), rec.ID)
	if err != nil || got.TemplateID != "frame-front" || got.SizeBytes != int64(len(result.Data)) {
		t.Errorf("GetRecord() = %+v, %v", got, err)
	}
	list, err := svc.ListRecords(context.Background(), result.DesignHash)
	if err != nil || len(list) != 1 {
		t.Errorf("ListRecords() = %d records, %v", len(list), err)
	}
}

func TestRecords_Disabled(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)
	if _, err := svc.GetRecord(context.Background(), "x"); !errors.Is(err, ErrRecordsDisabled) {
		t.Errorf("GetRecord() error = %v", err)
	}
	if err := svc.DeleteRecord(context.Background(), "x"); !errors.Is(err, ErrRecordsDisabled) {
		t.Errorf("DeleteRecord() error = %v", err)
	}
}

func TestRenderBatch_BestEffort(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)
	design := pngBytes(t, solidImage(40, 40, blue))
	ids := []string{"frame-front", "frame-side", "unknown", "mug-front"}

	var mu sync.Mutex
	var seen []string
	resp, err := svc.RenderBatch(context.Background(), design, ids, RenderOptions{}, func(i int, item models.BatchMockupItem) {
		mu.Lock()
		defer mu.Unlock()
		if ids[i] != item.TemplateID {
			t.Errorf("progress index %d carries %s, want %s", i, item.TemplateID, ids[i])
		}
		seen = append(seen, item.TemplateID)
	})
	if err != nil {
		t.Fatalf("RenderBatch() error = %v", err)
	}

	if len(resp.Items) != len(ids) || len(seen) != len(ids) {
		t.Fatalf("items = %d, progress calls = %d, want %d", len(resp.Items), len(seen), len(ids))
	}
	for i, id := range ids {
		if resp.Items[i].TemplateID != id {
			t.Errorf("item %d = %s, want %s", i, resp.Items[i].TemplateID, id)
		}
	}

	front, side, unknown, mug := resp.Items[0], resp.Items[1], resp.Items[2], resp.Items[3]
	if front.DataURL == "" || front.Error != "" {
		t.Errorf("frame-front = %+v", front)
	}
	if !side.Placeholder || side.DataURL == "" || side.ErrorKind != models.ErrorKindTemplateAsset {
		t.Errorf("frame-side should be a placeholder: %+v", side)
	}
	if unknown.DataURL != "" || unknown.ErrorKind != models.ErrorKindTemplateNotFound {
		t.Errorf("unknown = %+v", unknown)
	}
	if mug.DataURL == "" {
		t.Errorf("mug-front = %+v", mug)
	}
	if resp.Succeeded != 3 || resp.Failed != 1 {
		t.Errorf("succeeded=%d failed=%d, want 3/1", resp.Succeeded, resp.Failed)
	}

	mediaType, data, err := utils.ParseDataURL(front.DataURL)
	if err != nil || mediaType != "image/png" {
		t.Fatalf("ParseDataURL(front) = %s, %v", mediaType, err)
	}
	if b := decodePNG(t, data).Bounds(); b.Dx() != 200 {
		t.Errorf("front width = %d", b.Dx())
	}
}

func TestRenderBatch_DuplicateTemplateIndexes(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)
	design := pngBytes(t, solidImage(40, 40, blue))
	ids := []string{"frame-front", "mug-front", "frame-front", "frame-front"}

	var mu sync.Mutex
	indexes := map[int]int{}
	_, err := svc.RenderBatch(context.Background(), design, ids, RenderOptions{}, func(i int, item models.BatchMockupItem) {
		mu.Lock()
		defer mu.Unlock()
		indexes[i]++
		if item.TemplateID != ids[i] {
			t.Errorf("index %d carries %s, want %s", i, item.TemplateID, ids[i])
		}
	})
	if err != nil {
		t.Fatalf("RenderBatch() error = %v", err)
	}
	for i := range ids {
		if indexes[i] != 1 {
			t.Errorf("index %d reported %d times, want once", i, indexes[i])
		}
	}
}

func TestRenderBatch_InvalidDesignMarksEveryItem(t *testing.T) {
	svc, loader := newTestService(nil, nil, nil)

	resp, err := svc.RenderBatch(context.Background(), []byte("garbage"), []string{"frame-front", "mug-front"}, RenderOptions{}, nil)
	if err != nil {
		t.Fatalf("RenderBatch() error = %v", err)
	}
	for _, item := range resp.Items {
		if item.ErrorKind != models.ErrorKindSpriteInvalid || item.DataURL != "" {
			t.Errorf("item = %+v, want sprite_invalid", item)
		}
	}
	if loader.callCount("bg/frame.png") != 0 {
		t.Error("backgrounds should not be loaded for an invalid design")
	}
	if _, err := svc.RenderBatch(context.Background(), nil, nil, RenderOptions{}, nil); err == nil {
		t.Error("RenderBatch() with no templates should fail")
	}
}

func TestResolveDesign(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)
	ctx := context.Background()
	raw := pngBytes(t, solidImage(4, 4, red))

	fromDataURL, err := svc.ResolveDesign(ctx, "", utils.EncodeDataURL("image/png", raw))
	if err != nil || !bytes.Equal(fromDataURL, raw) {
		t.Errorf("data URL design = %v", err)
	}

	if _, err := svc.ResolveDesign(ctx, "", ""); !errors.Is(err, ErrNoDesign) {
		t.Errorf("empty design error = %v", err)
	}
	if _, err := svc.ResolveDesign(ctx, "", "%%%"); !mockup.IsSpriteFailure(err) {
		t.Errorf("bad base64 error = %v", err)
	}
	if _, err := svc.ResolveDesign(ctx, "bg/frame.png", ""); err != nil {
		t.Errorf("design by ref error = %v", err)
	}
}

func TestTemplateIDsForStyle(t *testing.T) {
	svc, _ := newTestService(nil, nil, nil)
	ids, err := svc.TemplateIDsForStyle("frame-wood")
	if err != nil || len(ids) != 2 || ids[0] != "frame-front" {
		t.Errorf("TemplateIDsForStyle() = %v, %v", ids, err)
	}
	if _, err := svc.TemplateIDsForStyle("nope"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("unknown style error = %v", err)
	}
}
