package config

import (
	"strings"
	"testing"
	"time"

	"mascota-mockups/mockup"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine != mockup.DefaultConfig() {
		t.Errorf("Engine = %+v, want defaults %+v", cfg.Engine, mockup.DefaultConfig())
	}
	if cfg.Port != "8080" || cfg.AssetLoadTimeout != 10*time.Second || cfg.BatchConcurrency != 4 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.RedisEnabled() || cfg.SupabaseEnabled() {
		t.Error("optional backends should be disabled by default")
	}
	if Get() != cfg {
		t.Error("Get() does not return the loaded config")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("STRIP_WHITE_THRESHOLD", "250")
	t.Setenv("STRIP_GRAY_TOLERANCE", "10")
	t.Setenv("CURVE_SLICES", "32")
	t.Setenv("CURVE_BULGE", "0.15")
	t.Setenv("ASSET_LOAD_TIMEOUT", "3")
	t.Setenv("CACHE_TTL", "90m")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_USE_TLS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Engine.Strip.WhiteThreshold != 250 || cfg.Engine.Strip.GrayTolerance != 10 {
		t.Errorf("Strip = %+v", cfg.Engine.Strip)
	}
	if cfg.Engine.Curve.Slices != 32 || cfg.Engine.Curve.Bulge != 0.15 {
		t.Errorf("Curve = %+v", cfg.Engine.Curve)
	}
	if cfg.AssetLoadTimeout != 3*time.Second || cfg.CacheTTL != 90*time.Minute {
		t.Errorf("durations = %s, %s", cfg.AssetLoadTimeout, cfg.CacheTTL)
	}
	if !cfg.RedisEnabled() || cfg.RedisAddr() != "cache.internal:6379" || !cfg.RedisUseTLS {
		t.Errorf("redis = %s tls=%v", cfg.RedisAddr(), cfg.RedisUseTLS)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"STRIP_WHITE_THRESHOLD", "300", "STRIP_WHITE_THRESHOLD"},
		{"CURVE_SLICES", "0", "CURVE_SLICES"},
		{"CURVE_BULGE", "-0.5", "CURVE_BULGE"},
		{"BATCH_CONCURRENCY", "0", "BATCH_CONCURRENCY"},
		{"SUPABASE_URL", "https://x.supabase.co", "SUPABASE_SERVICE_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
