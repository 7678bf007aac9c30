package cache

import (
	"context"
	"fmt"

	"mascota-mockups/models"
)

// Cache stores encoded mockups by key
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Key builds the cache key of a rendered mockup. Equal keys always render
// byte-identical output.
func Key(designHash, templateID string, format models.RenderFormat, quality, thumb int) string {
	return fmt.Sprintf("mockup:%s:%s:%s:q%d:t%d", designHash, templateID, format, quality, thumb)
}

// NopCache never stores anything
type NopCache struct{}

var _ Cache = NopCache{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopCache) Set(context.Context, string, []byte) error { return nil }
