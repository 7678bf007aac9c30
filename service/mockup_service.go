package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mascota-mockups/cache"
	"mascota-mockups/mockup"
	"mascota-mockups/models"
	"mascota-mockups/repository"
	"mascota-mockups/utils"
)

var (
	// ErrTemplateNotFound is returned for template ids missing from the catalog
	ErrTemplateNotFound = errors.New("template not found")
	// ErrStyleNotFound is returned for style ids missing from the catalog
	ErrStyleNotFound = errors.New("style not found")
	// ErrStorageDisabled is returned when a stored render is requested without storage
	ErrStorageDisabled = errors.New("mockup storage is not configured")
	// ErrRecordsDisabled is returned when no mockup repository is configured
	ErrRecordsDisabled = errors.New("mockup records are not configured")
	// ErrNoDesign is returned when a request carries neither a design URL nor base64 data
	ErrNoDesign = errors.New("designUrl or designBase64 is required")
)

// TemplateCatalog is the read side of the catalog used for rendering
type TemplateCatalog interface {
	Template(id string) (models.MockupTemplate, bool)
	Style(id string) (models.ProductStyle, bool)
}

// RenderOptions controls the output of a render
type RenderOptions struct {
	Format  models.RenderFormat
	Quality int
	Thumb   int
	Store   bool
}

// RenderResult is an encoded mockup
type RenderResult struct {
	Data        []byte
	Format      models.RenderFormat
	ContentType string
	Width       int
	Height      int
	DesignHash  string
	Placeholder bool
	Cached      bool
	Record      *models.MockupRecord
}

// MockupServiceOptions holds the tunables of MockupService
type MockupServiceOptions struct {
	Concurrency       int
	PlaceholderWidth  int
	PlaceholderHeight int
	PlaceholderColor  color.NRGBA
}

// MockupService renders designs onto catalog templates
// Implements MockupServiceInterface
type MockupService struct {
	catalog    TemplateCatalog
	compositor *mockup.Compositor
	loader     AssetLoaderInterface
	cache      cache.Cache
	storage    StorageServiceInterface
	repo       repository.MockupRepositoryInterface
	opts       MockupServiceOptions
}

// Ensure MockupService implements MockupServiceInterface
var _ MockupServiceInterface = (*MockupService)(nil)

// NewMockupService creates a MockupService. mockupCache, storage and repo may
// be nil; storage and records are then unavailable.
func NewMockupService(
	catalog TemplateCatalog,
	compositor *mockup.Compositor,
	loader AssetLoaderInterface,
	mockupCache cache.Cache,
	storage StorageServiceInterface,
	repo repository.MockupRepositoryInterface,
	opts MockupServiceOptions,
) *MockupService {
	if mockupCache == nil {
		mockupCache = cache.NopCache{}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.PlaceholderWidth < 1 {
		opts.PlaceholderWidth = 800
	}
	if opts.PlaceholderHeight < 1 {
		opts.PlaceholderHeight = 800
	}
	if opts.PlaceholderColor.A == 0 {
		opts.PlaceholderColor = color.NRGBA{R: 238, G: 238, B: 238, A: 255}
	}
	return &MockupService{
		catalog:    catalog,
		compositor: compositor,
		loader:     loader,
		cache:      mockupCache,
		storage:    storage,
		repo:       repo,
		opts:       opts,
	}
}

// ResolveDesign returns the raw bytes of a design given as base64 (plain or
// data URL) or as a URL the asset loader understands
func (s *MockupService) ResolveDesign(ctx context.Context, designURL, designBase64 string) ([]byte, error) {
	if designBase64 = strings.TrimSpace(designBase64); designBase64 != "" {
		var data []byte
		var err error
		if utils.IsDataURL(designBase64) {
			_, data, err = utils.ParseDataURL(designBase64)
		} else {
			data, err = utils.DecodeBase64(designBase64)
		}
		if err != nil {
			return nil, &mockup.AssetLoadError{Kind: mockup.AssetSprite, Ref: "designBase64", Err: err}
		}
		return data, nil
	}
	if designURL = strings.TrimSpace(designURL); designURL != "" {
		return s.loader.Fetch(ctx, mockup.AssetSprite, designURL)
	}
	return nil, ErrNoDesign
}

// TemplateIDsForStyle lists the template ids (one per angle) of a product style
func (s *MockupService) TemplateIDsForStyle(styleID string) ([]string, error) {
	style, ok := s.catalog.Style(styleID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStyleNotFound, styleID)
	}
	ids := make([]string, 0, len(style.Templates))
	for _, t := range style.Templates {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

type backgroundResult struct {
	img image.Image
	err error
}

func (s *MockupService) loadBackground(ctx context.Context, tmpl models.MockupTemplate) <-chan backgroundResult {
	ch := make(chan backgroundResult, 1)
	go func() {
		img, err := s.loader.Load(ctx, mockup.AssetBackground, tmpl.BackgroundImage)
		ch <- backgroundResult{img: img, err: err}
	}()
	return ch
}

func decodeDesign(design []byte) (image.Image, error) {
	if len(design) == 0 {
		return nil, &mockup.AssetLoadError{Kind: mockup.AssetSprite, Ref: "design", Err: errors.New("design is empty")}
	}
	img, err := DecodeImage(design)
	if err != nil {
		return nil, &mockup.AssetLoadError{Kind: mockup.AssetSprite, Ref: "design", Err: err}
	}
	return img, nil
}

// Render composites one design onto one template. The design and the
// template photo are loaded concurrently. A template photo that cannot be
// loaded yields a placeholder render instead of an error.
func (s *MockupService) Render(ctx context.Context, design []byte, templateID string, opts RenderOptions) (*RenderResult, error) {
	tmpl, ok := s.catalog.Template(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}
	if opts.Format == "" {
		opts.Format = models.FormatPNG
	}

	hash := utils.HashBytes(design)
	log.Printf("🔍 Render: design=%s template=%s format=%s", hash[:12], tmpl.ID, opts.Format)

	if cached := s.fromCache(ctx, hash, tmpl, opts); cached != nil {
		return s.finish(ctx, cached, tmpl, opts)
	}

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bgCh := s.loadBackground(loadCtx, tmpl)
	sprite, err := decodeDesign(design)
	if err != nil {
		cancel()
		<-bgCh
		return nil, err
	}
	bg := <-bgCh

	result, err := s.compose(ctx, sprite, hash, tmpl, bg, opts)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, result, tmpl, opts)
}

// RenderBatch renders one design onto many templates with bounded
// concurrency. Every template gets an item; a failure on one template never
// aborts the others. progress, when set, is called once per finished item
// with the item's position in templateIDs, and never concurrently.
func (s *MockupService) RenderBatch(ctx context.Context, design []byte, templateIDs []string, opts RenderOptions, progress func(index int, item models.BatchMockupItem)) (*models.BatchMockupResponse, error) {
	if len(templateIDs) == 0 {
		return nil, errors.New("at least one template id is required")
	}
	if opts.Format == "" {
		opts.Format = models.FormatPNG
	}
	opts.Store = false

	hash := utils.HashBytes(design)
	log.Printf("🔄 RenderBatch: design=%s templates=%d concurrency=%d", hash[:12], len(templateIDs), s.opts.Concurrency)

	items := make([]models.BatchMockupItem, len(templateIDs))

	var progressMu sync.Mutex
	report := func(i int, item models.BatchMockupItem) {
		items[i] = item
		if progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		progress(i, item)
	}

	sprite, spriteErr := decodeDesign(design)
	if spriteErr != nil {
		log.Printf("❌ RenderBatch: design could not be decoded: %v", spriteErr)
	}

	sem := make(chan struct{}, s.opts.Concurrency)
	var wg sync.WaitGroup
	for i, id := range templateIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			item := models.BatchMockupItem{TemplateID: id}

			if spriteErr != nil {
				item.Error = spriteErr.Error()
				item.ErrorKind = ErrorKind(spriteErr)
				report(i, item)
				return
			}

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				item.Error = ctx.Err().Error()
				item.ErrorKind = models.ErrorKindRenderFailed
				report(i, item)
				return
			}

			result, err := s.renderDecoded(ctx, sprite, hash, id, opts)
			if err != nil {
				log.Printf("❌ RenderBatch: template %s failed: %v", id, err)
				item.Error = err.Error()
				item.ErrorKind = ErrorKind(err)
				report(i, item)
				return
			}

			item.DataURL = utils.EncodeDataURL(result.ContentType, result.Data)
			item.Cached = result.Cached
			item.Placeholder = result.Placeholder
			if result.Placeholder {
				item.ErrorKind = models.ErrorKindTemplateAsset
			}
			report(i, item)
		}(i, id)
	}
	wg.Wait()

	resp := &models.BatchMockupResponse{DesignHash: hash, Items: items}
	for _, item := range items {
		if item.DataURL != "" {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	log.Printf("🎉 RenderBatch completed: %d rendered, %d failed out of %d templates", resp.Succeeded, resp.Failed, len(items))
	return resp, nil
}

func (s *MockupService) renderDecoded(ctx context.Context, sprite image.Image, hash, templateID string, opts RenderOptions) (*RenderResult, error) {
	tmpl, ok := s.catalog.Template(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}
	if cached := s.fromCache(ctx, hash, tmpl, opts); cached != nil {
		return cached, nil
	}
	bg := <-s.loadBackground(ctx, tmpl)
	return s.compose(ctx, sprite, hash, tmpl, bg, opts)
}

// compose runs the compositor, falling back to a placeholder canvas when the
// template photo failed to load, then encodes the result
func (s *MockupService) compose(ctx context.Context, sprite image.Image, hash string, tmpl models.MockupTemplate, bg backgroundResult, opts RenderOptions) (*RenderResult, error) {
	placeholder := false
	background := bg.img
	if bg.err != nil {
		log.Printf("⚠️ Template %s photo unavailable, rendering placeholder: %v", tmpl.ID, bg.err)
		background = RenderPlaceholder(s.opts.PlaceholderWidth, s.opts.PlaceholderHeight, s.opts.PlaceholderColor, tmpl.Name)
		placeholder = true
	}

	out, err := s.compositor.Composite(sprite, tmpl, background)
	if err != nil {
		return nil, err
	}

	final := Thumbnail(out, opts.Thumb)
	data, err := EncodeImage(final, opts.Format, opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mockup: %w", err)
	}

	if !placeholder {
		key := cache.Key(hash, tmpl.ID, opts.Format, opts.Quality, opts.Thumb)
		if err := s.cache.Set(ctx, key, data); err != nil {
			log.Printf("⚠️ Failed to cache mockup %s: %v", key, err)
		}
	}

	b := final.Bounds()
	return &RenderResult{
		Data:        data,
		Format:      opts.Format,
		ContentType: opts.Format.ContentType(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		DesignHash:  hash,
		Placeholder: placeholder,
	}, nil
}

func (s *MockupService) fromCache(ctx context.Context, hash string, tmpl models.MockupTemplate, opts RenderOptions) *RenderResult {
	key := cache.Key(hash, tmpl.ID, opts.Format, opts.Quality, opts.Thumb)
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("⚠️ Cache lookup failed for %s: %v", key, err)
		return nil
	}
	if !ok {
		return nil
	}

	result := &RenderResult{
		Data:        data,
		Format:      opts.Format,
		ContentType: opts.Format.ContentType(),
		DesignHash:  hash,
		Cached:      true,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		result.Width, result.Height = cfg.Width, cfg.Height
	}
	log.Printf("✓ Cache hit: %s", key)
	return result
}

// finish uploads and records the render when requested
func (s *MockupService) finish(ctx context.Context, result *RenderResult, tmpl models.MockupTemplate, opts RenderOptions) (*RenderResult, error) {
	if !opts.Store {
		return result, nil
	}
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	id := uuid.New().String()
	path := fmt.Sprintf("mockups/%s/%s-%s.%s", result.DesignHash[:16], tmpl.ID, id[:8], result.Format)
	publicURL, err := s.storage.Upload(ctx, path, result.Data, result.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store mockup: %w", err)
	}

	record := &models.MockupRecord{
		ID:          id,
		DesignHash:  result.DesignHash,
		TemplateID:  tmpl.ID,
		Format:      result.Format,
		StoragePath: path,
		PublicURL:   publicURL,
		Width:       result.Width,
		Height:      result.Height,
		SizeBytes:   int64(len(result.Data)),
		Placeholder: result.Placeholder,
		CreatedAt:   time.Now().UTC(),
	}
	if s.repo != nil {
		if err := s.repo.Insert(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to record mockup: %w", err)
		}
	}
	result.Record = record
	return result, nil
}

// GetRecord returns a stored mockup record
func (s *MockupService) GetRecord(ctx context.Context, id string) (*models.MockupRecord, error) {
	if s.repo == nil {
		return nil, ErrRecordsDisabled
	}
	return s.repo.GetByID(ctx, id)
}

// ListRecords returns the stored mockups of a design
func (s *MockupService) ListRecords(ctx context.Context, designHash string) ([]models.MockupRecord, error) {
	if s.repo == nil {
		return nil, ErrRecordsDisabled
	}
	return s.repo.ListByDesignHash(ctx, designHash)
}

// DeleteRecord removes a stored mockup record
func (s *MockupService) DeleteRecord(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrRecordsDisabled
	}
	return s.repo.Delete(ctx, id)
}

// ErrorKind classifies a render error for API clients
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, mockup.ErrEmptySprite):
		return models.ErrorKindEmptySprite
	case mockup.IsSpriteFailure(err):
		return models.ErrorKindSpriteInvalid
	case mockup.IsTemplateAssetFailure(err):
		return models.ErrorKindTemplateAsset
	case errors.Is(err, ErrTemplateNotFound):
		return models.ErrorKindTemplateNotFound
	default:
		return models.ErrorKindRenderFailed
	}
}
