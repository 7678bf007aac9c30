package mockup

import (
	"image"
	"math"
	"strings"

	"mascota-mockups/models"
)

// Placement maps a trimmed sprite into the overlay rectangle of a template.
// It draws onto layer, a transparent canvas-sized buffer, and returns the area it touched.
type Placement interface {
	Place(layer *image.RGBA, sprite *image.NRGBA, rect image.Rectangle, tmpl models.MockupTemplate) image.Rectangle
}

// cylindrical products get the curved placement unless a template says otherwise
var cylindricalKeywords = []string{"mug", "cup", "tumbler", "bottle"}

// ResolvePlacement picks the placement strategy for a template: the explicit
// placement field first, then the id convention for cylindrical products,
// then the transform, then the category.
func ResolvePlacement(tmpl models.MockupTemplate) models.PlacementKind {
	if tmpl.Placement != "" {
		return tmpl.Placement
	}
	id := strings.ToLower(tmpl.ID)
	for _, kw := range cylindricalKeywords {
		if strings.Contains(id, kw) {
			return models.PlacementCurved
		}
	}
	if tmpl.Transform != nil {
		return models.PlacementAffine
	}
	if tmpl.Category == models.CategoryApparel {
		return models.PlacementAffine
	}
	return models.PlacementDirect
}

// OverlayRect converts a normalized overlay area to pixels of bounds
func OverlayRect(area models.OverlayArea, bounds image.Rectangle) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	x0 := bounds.Min.X + int(math.Round(area.X*w))
	y0 := bounds.Min.Y + int(math.Round(area.Y*h))
	rw := maxInt(1, int(math.Round(area.Width*w)))
	rh := maxInt(1, int(math.Round(area.Height*h)))

	return image.Rect(x0, y0, x0+rw, y0+rh).Intersect(bounds)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
