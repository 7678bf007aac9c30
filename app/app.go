package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"mascota-mockups/app/controller"
	"mascota-mockups/app/router"
	"mascota-mockups/cache"
	"mascota-mockups/catalog"
	"mascota-mockups/config"
	"mascota-mockups/db"
	"mascota-mockups/mockup"
	"mascota-mockups/repository"
	"mascota-mockups/service"
	"mascota-mockups/utils"
)

// App holds the HTTP handler and the resources to release on shutdown
type App struct {
	Handler http.Handler
	closers []func() error
}

// Close releases the cache and database connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("⚠️ Shutdown: %v", err)
		}
	}
}

// Initialize initializes the application
func Initialize(cfg *config.Config) (*App, error) {
	a := &App{}

	// Load and validate the template catalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	// Initialize Drive service (optional)
	var driveService service.DriveServiceInterface
	if cfg.DriveEnabled() {
		ds, err := service.NewDriveService(cfg.GoogleCredentialsPath, cfg.GoogleCredentialsJSON)
		if err != nil {
			return nil, err
		}
		driveService = ds
	} else {
		log.Printf("⚠️ Google Drive credentials not set, drive:// template photos are unavailable")
	}

	loader := service.NewAssetLoader(cfg.AssetsDir, cfg.AssetLoadTimeout, driveService)
	compositor := mockup.NewCompositor(cfg.Engine)

	mockupCache, err := newCache(cfg, a)
	if err != nil {
		return nil, err
	}

	// Initialize storage (optional)
	var storage service.StorageServiceInterface
	if cfg.SupabaseEnabled() {
		storage = service.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
	}

	repo, err := newRepository(cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	placeholderColor, err := utils.ParseHexColor(cfg.PlaceholderColor)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid PLACEHOLDER_COLOR: %w", err)
	}

	mockupService := service.NewMockupService(cat, compositor, loader, mockupCache, storage, repo, service.MockupServiceOptions{
		Concurrency:       cfg.BatchConcurrency,
		PlaceholderWidth:  cfg.PlaceholderWidth,
		PlaceholderHeight: cfg.PlaceholderHeight,
		PlaceholderColor:  placeholderColor,
	})
	previewSheetService := service.NewPreviewSheetService(mockupService, cat, cfg.ChromePath)

	// Create controllers
	controllers := &router.Controllers{
		Mockup:       controller.NewMockupController(mockupService),
		Template:     controller.NewTemplateController(cat, driveService),
		BatchStream:  controller.NewBatchStreamController(mockupService),
		PreviewSheet: controller.NewPreviewSheetController(mockupService, previewSheetService),
	}

	// Setup routes
	a.Handler = router.SetupRoutes(controllers)

	log.Printf("✅ Application initialized: %d templates", len(cat.Templates()))
	return a, nil
}

// newCache picks Redis, then a cache directory, then no cache
func newCache(cfg *config.Config, a *App) (cache.Cache, error) {
	switch {
	case cfg.RedisEnabled():
		rc, err := cache.NewRedisCache(cache.RedisOptions{
			Addr:     cfg.RedisAddr(),
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
			UseTLS:   cfg.RedisUseTLS,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}
		a.closers = append(a.closers, rc.Close)
		return rc, nil

	case cfg.CacheDir != "":
		dc, err := cache.NewDiskCache(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		log.Printf("💾 Mockup cache directory: %s", cfg.CacheDir)
		return dc, nil

	default:
		log.Printf("⚠️ No mockup cache configured")
		return cache.NopCache{}, nil
	}
}

// newRepository picks Postgres, then Supabase. It returns nil when neither is
// configured; mockup records are then unavailable.
func newRepository(cfg *config.Config, a *App) (repository.MockupRepositoryInterface, error) {
	if connStr := db.ConnString(cfg.DatabaseURL); connStr != "" {
		if err := db.InitDB(connStr); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, db.CloseDB)

		repo := repository.NewPostgresMockupRepository(db.DB)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create mockups table: %w", err)
		}
		return repo, nil
	}

	if cfg.SupabaseEnabled() {
		repo, err := repository.NewSupabaseMockupRepository(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	log.Printf("⚠️ No database configured, mockup records are disabled")
	return nil, nil
}
