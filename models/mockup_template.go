package models

import (
	"fmt"
	"math"
	"strings"
)

// TemplateCategory selects the placement strategy family of a template
type TemplateCategory string

const (
	CategoryApparel TemplateCategory = "apparel"
	CategoryFrame   TemplateCategory = "frame"
	CategoryPhone   TemplateCategory = "phone"
	CategoryOther   TemplateCategory = "other"
)

// PlacementKind names a placement strategy of the compositor
type PlacementKind string

const (
	PlacementDirect PlacementKind = "direct"
	PlacementAffine PlacementKind = "affine"
	PlacementCurved PlacementKind = "curved"
)

// BlendMode names the compositing operator used to draw the sprite
type BlendMode string

const (
	BlendSourceOver BlendMode = "source-over"
	BlendMultiply   BlendMode = "multiply"
	BlendScreen     BlendMode = "screen"
	BlendOverlay    BlendMode = "overlay"
	BlendDarken     BlendMode = "darken"
	BlendLighten    BlendMode = "lighten"
)

// Normalize maps aliases ("normal", "", upper case) to the canonical mode name
func (b BlendMode) Normalize() BlendMode {
	switch s := strings.ToLower(strings.TrimSpace(string(b))); s {
	case "", "normal", "over":
		return BlendSourceOver
	default:
		return BlendMode(s)
	}
}

// OverlayArea is a rectangle normalized to [0,1] relative to the background image
type OverlayArea struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Transform holds the affine placement of side and back views.
// Rotation and skews are in degrees.
type Transform struct {
	Rotation float64 `json:"rotation" yaml:"rotation"`
	Scale    float64 `json:"scale" yaml:"scale"`
	SkewX    float64 `json:"skewX" yaml:"skewX"`
	SkewY    float64 `json:"skewY" yaml:"skewY"`
}

// MockupTemplate describes one renderable view of one product style
type MockupTemplate struct {
	ID              string           `json:"id" yaml:"id"`
	Name            string           `json:"name" yaml:"name"`
	Category        TemplateCategory `json:"category" yaml:"category"`
	BackgroundImage string           `json:"backgroundImage" yaml:"backgroundImage"`
	OverlayArea     OverlayArea      `json:"overlayArea" yaml:"overlayArea"`
	BlendMode       BlendMode        `json:"blendMode" yaml:"blendMode"`
	Opacity         *float64         `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Transform       *Transform       `json:"transform,omitempty" yaml:"transform,omitempty"`
	Placement       PlacementKind    `json:"placement,omitempty" yaml:"placement,omitempty"`
}

// InvalidTemplateGeometryError reports a catalog template whose overlay geometry
// cannot be rendered. It is a configuration error raised at catalog load.
type InvalidTemplateGeometryError struct {
	TemplateID string
	Reason     string
}

func (e *InvalidTemplateGeometryError) Error() string {
	return fmt.Sprintf("invalid template geometry for %q: %s", e.TemplateID, e.Reason)
}

// ValidateGeometry checks the geometry and opacity of the template
func (t *MockupTemplate) ValidateGeometry() error {
	a := t.OverlayArea
	fail := func(format string, args ...interface{}) error {
		return &InvalidTemplateGeometryError{TemplateID: t.ID, Reason: fmt.Sprintf(format, args...)}
	}

	for _, v := range []float64{a.X, a.Y, a.Width, a.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fail("overlay values must be finite (got x=%g y=%g w=%g h=%g)", a.X, a.Y, a.Width, a.Height)
		}
	}
	if a.Width <= 0 || a.Height <= 0 {
		return fail("overlay width and height must be > 0 (got %gx%g)", a.Width, a.Height)
	}
	if a.X < 0 || a.Y < 0 || a.X > 1 || a.Y > 1 || a.Width > 1 || a.Height > 1 {
		return fail("overlay values must lie within [0,1] (got x=%g y=%g w=%g h=%g)", a.X, a.Y, a.Width, a.Height)
	}
	// small tolerance for catalog values written with limited precision
	const eps = 1e-9
	if a.X+a.Width > 1+eps || a.Y+a.Height > 1+eps {
		return fail("overlay area extends past the background (x+w=%g, y+h=%g)", a.X+a.Width, a.Y+a.Height)
	}
	if tr := t.Transform; tr != nil {
		for _, v := range []float64{tr.Rotation, tr.Scale, tr.SkewX, tr.SkewY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fail("transform values must be finite (got rotation=%g scale=%g skew=%g,%g)", tr.Rotation, tr.Scale, tr.SkewX, tr.SkewY)
			}
		}
		if tr.Scale < 0 {
			return fail("transform scale must be positive (got %g)", tr.Scale)
		}
	}
	if o := t.Opacity; o != nil && (math.IsNaN(*o) || *o < 0 || *o > 1) {
		return fail("opacity must lie within [0,1] (got %g)", *o)
	}
	return nil
}

// EffectiveOpacity returns the sprite opacity. An absent opacity means fully
// opaque; an explicit 0 hides the sprite.
func (t *MockupTemplate) EffectiveOpacity() float64 {
	if t.Opacity == nil {
		return 1
	}
	return *t.Opacity
}

// Float64 returns a pointer to v, for optional template fields
func Float64(v float64) *float64 {
	return &v
}
