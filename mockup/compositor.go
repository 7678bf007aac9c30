package mockup

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"mascota-mockups/models"
)

// Compositor renders product mockups. It holds no per-call state and is safe
// for concurrent use; every call owns its canvas.
type Compositor struct {
	config     Config
	placements map[models.PlacementKind]Placement
}

// NewCompositor creates a compositor with the strategy table for every placement kind
func NewCompositor(config Config) *Compositor {
	config.Curve = config.Curve.withDefaults()
	return &Compositor{
		config: config,
		placements: map[models.PlacementKind]Placement{
			models.PlacementDirect: DirectPlacement{},
			models.PlacementAffine: AffinePlacement{},
			models.PlacementCurved: CurvedPlacement{Config: config.Curve},
		},
	}
}

// PrepareSprite strips the background of a design and trims it to its content
func (c *Compositor) PrepareSprite(design image.Image) (*image.NRGBA, error) {
	stripped := Strip(design, c.config.Strip)
	return Trim(stripped)
}

// Composite draws the design onto the background following the template.
// The result has the dimensions of background. Neither input is modified.
func (c *Compositor) Composite(sprite image.Image, tmpl models.MockupTemplate, background image.Image) (*image.NRGBA, error) {
	if background == nil {
		return nil, &AssetLoadError{Kind: AssetBackground, Ref: tmpl.BackgroundImage, Err: fmt.Errorf("background image is nil")}
	}
	if sprite == nil {
		return nil, &AssetLoadError{Kind: AssetSprite, Ref: tmpl.ID, Err: fmt.Errorf("design image is nil")}
	}
	if err := tmpl.ValidateGeometry(); err != nil {
		return nil, err
	}

	canvas := imaging.Clone(background)

	trimmed, err := c.PrepareSprite(sprite)
	if err != nil {
		return nil, err
	}

	rect := OverlayRect(tmpl.OverlayArea, canvas.Bounds())
	kind := ResolvePlacement(tmpl)
	placement, ok := c.placements[kind]
	if !ok {
		return nil, fmt.Errorf("no placement strategy %q for template %s", kind, tmpl.ID)
	}

	layer := image.NewRGBA(canvas.Bounds())
	drawn := placement.Place(layer, trimmed, rect, tmpl)

	if err := blendLayer(canvas, layer, drawn, tmpl.BlendMode, tmpl.EffectiveOpacity()); err != nil {
		return nil, fmt.Errorf("failed to blend template %s: %w", tmpl.ID, err)
	}
	return canvas, nil
}
