package mockup

import (
	"errors"
	"fmt"
)

// AssetKind tells which input of a composite failed to load
type AssetKind string

const (
	AssetBackground AssetKind = "background"
	AssetSprite     AssetKind = "sprite"
)

// ErrEmptySprite is returned when background removal leaves no opaque pixel,
// e.g. an all-white design. The user should be asked for a different image.
var ErrEmptySprite = errors.New("design has no visible content after background removal")

// AssetLoadError reports an image that could not be fetched or decoded
type AssetLoadError struct {
	Kind AssetKind
	Ref  string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("failed to load %s asset %q: %v", e.Kind, e.Ref, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// IsTemplateAssetFailure reports whether err is a background template load failure.
// Those are recoverable by rendering a placeholder.
func IsTemplateAssetFailure(err error) bool {
	var loadErr *AssetLoadError
	return errors.As(err, &loadErr) && loadErr.Kind == AssetBackground
}

// IsSpriteFailure reports whether the caller must prompt for a new design
func IsSpriteFailure(err error) bool {
	if errors.Is(err, ErrEmptySprite) {
		return true
	}
	var loadErr *AssetLoadError
	return errors.As(err, &loadErr) && loadErr.Kind == AssetSprite
}
