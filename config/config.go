package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"mascota-mockups/mockup"
)

// Config holds every environment setting of the service
type Config struct {
	// Server
	Port    string
	BaseURL string

	// Catalog and assets
	CatalogPath      string
	AssetsDir        string
	AssetLoadTimeout time.Duration

	// Rendering
	Engine            mockup.Config
	BatchConcurrency  int
	PlaceholderWidth  int
	PlaceholderHeight int
	PlaceholderColor  string

	// Cache
	CacheDir      string
	CacheTTL      time.Duration
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Persistence
	DatabaseURL        string
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	// Google Drive
	GoogleCredentialsPath string
	GoogleCredentialsJSON string

	// Preview sheets
	ChromePath string
}

var globalConfig *Config

// Load reads the configuration from the environment. .env files are loaded
// by main before this is called.
func Load() (*Config, error) {
	cfg := &Config{
		Port:    strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		BaseURL: getEnv("BASE_URL", ""),

		CatalogPath:      getEnv("CATALOG_PATH", ""),
		AssetsDir:        getEnv("ASSETS_DIR", "assets"),
		AssetLoadTimeout: getEnvDuration("ASSET_LOAD_TIMEOUT", 10*time.Second),

		Engine: mockup.Config{
			Strip: mockup.StripConfig{
				WhiteThreshold: getEnvFloat("STRIP_WHITE_THRESHOLD", mockup.DefaultWhiteThreshold),
				GrayThreshold:  getEnvFloat("STRIP_GRAY_THRESHOLD", mockup.DefaultGrayThreshold),
				GrayTolerance:  getEnvInt("STRIP_GRAY_TOLERANCE", mockup.DefaultGrayTolerance),
			},
			Curve: mockup.CurveConfig{
				Slices: getEnvInt("CURVE_SLICES", mockup.DefaultCurveSlices),
				Bulge:  getEnvFloat("CURVE_BULGE", mockup.DefaultCurveBulge),
			},
		},
		BatchConcurrency:  getEnvInt("BATCH_CONCURRENCY", 4),
		PlaceholderWidth:  getEnvInt("PLACEHOLDER_WIDTH", 800),
		PlaceholderHeight: getEnvInt("PLACEHOLDER_HEIGHT", 800),
		PlaceholderColor:  getEnv("PLACEHOLDER_COLOR", "#eeeeee"),

		CacheDir:      getEnv("CACHE_DIR", ""),
		CacheTTL:      getEnvDuration("CACHE_TTL", 24*time.Hour),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   getEnvBool("REDIS_USE_TLS", false),

		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SupabaseURL:        strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "mockups"),

		GoogleCredentialsPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""),

		ChromePath: getEnv("CHROME_PATH", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	globalConfig = cfg
	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Catalog: %s", orDefault(cfg.CatalogPath, "(embedded)"))
	log.Printf("   Engine: white>%.0f gray>%.0f tol=%d slices=%d bulge=%.2f",
		cfg.Engine.Strip.WhiteThreshold, cfg.Engine.Strip.GrayThreshold, cfg.Engine.Strip.GrayTolerance,
		cfg.Engine.Curve.Slices, cfg.Engine.Curve.Bulge)
	if cfg.RedisEnabled() {
		log.Printf("   Redis: %s (TLS: %v)", cfg.RedisAddr(), cfg.RedisUseTLS)
	}
	if cfg.SupabaseEnabled() {
		log.Printf("   Supabase: %s (bucket %s)", cfg.SupabaseURL, cfg.SupabaseBucket)
	}
	return cfg, nil
}

// Get returns the loaded configuration
func Get() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call Load() first.")
	}
	return globalConfig
}

func (c *Config) validate() error {
	s := c.Engine.Strip
	if s.WhiteThreshold < 0 || s.WhiteThreshold > 255 {
		return fmt.Errorf("STRIP_WHITE_THRESHOLD must be within [0,255], got %g", s.WhiteThreshold)
	}
	if s.GrayThreshold < 0 || s.GrayThreshold > 255 {
		return fmt.Errorf("STRIP_GRAY_THRESHOLD must be within [0,255], got %g", s.GrayThreshold)
	}
	if s.GrayTolerance < 0 || s.GrayTolerance > 255 {
		return fmt.Errorf("STRIP_GRAY_TOLERANCE must be within [0,255], got %d", s.GrayTolerance)
	}
	if c.Engine.Curve.Slices < 1 {
		return fmt.Errorf("CURVE_SLICES must be at least 1, got %d", c.Engine.Curve.Slices)
	}
	if c.Engine.Curve.Bulge < 0 {
		return fmt.Errorf("CURVE_BULGE must not be negative, got %g", c.Engine.Curve.Bulge)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be at least 1, got %d", c.BatchConcurrency)
	}
	if c.AssetLoadTimeout <= 0 {
		return fmt.Errorf("ASSET_LOAD_TIMEOUT must be positive")
	}
	if c.PlaceholderWidth < 1 || c.PlaceholderHeight < 1 {
		return fmt.Errorf("PLACEHOLDER_WIDTH and PLACEHOLDER_HEIGHT must be positive")
	}
	if (c.SupabaseURL == "") != (c.SupabaseServiceKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set together")
	}
	return nil
}

// RedisEnabled reports whether a Redis cache is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr returns host:port of the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// SupabaseEnabled reports whether Supabase storage and records are configured
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

// DriveEnabled reports whether Google Drive credentials are available
func (c *Config) DriveEnabled() bool {
	return c.GoogleCredentialsPath != "" || c.GoogleCredentialsJSON != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("⚠️ Config: invalid integer for %s=%q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		log.Printf("⚠️ Config: invalid number for %s=%q, using %g", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("⚠️ Config: invalid boolean for %s=%q, using %v", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("15s") or plain seconds ("15")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("⚠️ Config: invalid duration for %s=%q, using %s", key, value, defaultValue)
	return defaultValue
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
