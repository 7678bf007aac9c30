package mockup

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"mascota-mockups/models"
)

func frameTemplate(area models.OverlayArea) models.MockupTemplate {
	return models.MockupTemplate{
		ID:          "frame-front",
		Name:        "Frame",
		Category:    models.CategoryFrame,
		OverlayArea: area,
		BlendMode:   models.BlendSourceOver,
	}
}

func TestComposite_RedSquareDirectOverlay(t *testing.T) {
	c := NewCompositor(DefaultConfig())
	sprite := solidImage(400, 400, red)
	bg := solidImage(800, 800, white)
	tmpl := frameTemplate(models.OverlayArea{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5})

	out, err := c.Composite(sprite, tmpl, bg)
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	if out.Bounds() != bg.Bounds() {
		t.Fatalf("Composite() bounds = %v, want %v", out.Bounds(), bg.Bounds())
	}

	checks := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{name: "center", x: 400, y: 400, want: red},
		{name: "overlay top left", x: 200, y: 200, want: red},
		{name: "overlay bottom right", x: 599, y: 599, want: red},
		{name: "corner background", x: 10, y: 10, want: white},
		{name: "just outside overlay", x: 199, y: 199, want: white},
		{name: "just past overlay", x: 600, y: 600, want: white},
	}
	for _, tt := range checks {
		t.Run(tt.name, func(t *testing.T) {
			if got := out.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if bg.NRGBAAt(400, 400) != white {
		t.Errorf("Composite() modified the background")
	}
}

func TestPrepareSprite_CircleOnWhite(t *testing.T) {
	c := NewCompositor(DefaultConfig())

	trimmed, err := c.PrepareSprite(circleSprite(400, 100))
	if err != nil {
		t.Fatalf("PrepareSprite() error = %v", err)
	}
	if trimmed.Bounds().Dx() != 100 || trimmed.Bounds().Dy() != 100 {
		t.Fatalf("trimmed size = %dx%d, want 100x100", trimmed.Bounds().Dx(), trimmed.Bounds().Dy())
	}
	if got := trimmed.NRGBAAt(50, 50); got != black {
		t.Errorf("circle center = %v, want opaque black", got)
	}
	if got := trimmed.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("corner outside circle alpha = %d, want 0", got)
	}
	box, ok := OpaqueBounds(trimmed)
	if !ok || box != trimmed.Bounds() {
		t.Errorf("trim is not tight: opaque %v, extent %v", box, trimmed.Bounds())
	}
}

func TestComposite_CurvedBulge(t *testing.T) {
	c := NewCompositor(DefaultConfig())
	bg := solidImage(600, 600, white)
	tmpl := models.MockupTemplate{
		ID:          "mug-front",
		Category:    models.CategoryOther,
		OverlayArea: models.OverlayArea{X: 0.3, Y: 0.3, Width: 0.4, Height: 0.4},
		BlendMode:   models.BlendSourceOver,
	}
	if ResolvePlacement(tmpl) != models.PlacementCurved {
		t.Fatalf("mug template should resolve to curved placement")
	}

	out, err := c.Composite(circleSprite(400, 100), tmpl, bg)
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}

	darkInColumn := func(x int) int {
		n := 0
		for y := 0; y < 600; y++ {
			if isDark(out.NRGBAAt(x, y)) {
				n++
			}
		}
		return n
	}

	leftmost := -1
	for x := 0; x < 600; x++ {
		if darkInColumn(x) > 0 {
			leftmost = x
			break
		}
	}
	if leftmost < 0 {
		t.Fatalf("no sprite pixels found in the composite")
	}

	center := darkInColumn(300)
	edge := darkInColumn(leftmost)
	if center <= edge {
		t.Errorf("center column has %d sprite pixels, leftmost column %d has %d; want center > edge", center, leftmost, edge)
	}
	if center <= 240 {
		t.Errorf("center column should bulge past the nominal 240px overlay height, got %d", center)
	}
}

func TestComposite_Idempotent(t *testing.T) {
	c := NewCompositor(DefaultConfig())
	bg := solidImage(300, 300, color.NRGBA{R: 90, G: 140, B: 200, A: 255})
	sprite := circleSprite(200, 120)

	templates := []models.MockupTemplate{
		frameTemplate(models.OverlayArea{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.6}),
		{
			ID: "tshirt-side", Category: models.CategoryApparel, BlendMode: models.BlendMultiply, Opacity: models.Float64(0.9),
			OverlayArea: models.OverlayArea{X: 0.3, Y: 0.2, Width: 0.4, Height: 0.4},
			Transform:   &models.Transform{Rotation: -8, Scale: 0.9, SkewX: 5, SkewY: 2},
		},
		{
			ID: "mug-left", Category: models.CategoryOther, BlendMode: models.BlendMultiply,
			OverlayArea: models.OverlayArea{X: 0.2, Y: 0.2, Width: 0.5, Height: 0.5},
		},
	}

	for _, tmpl := range templates {
		t.Run(tmpl.ID, func(t *testing.T) {
			a, err := c.Composite(sprite, tmpl, bg)
			if err != nil {
				t.Fatalf("Composite() error = %v", err)
			}
			b, err := c.Composite(sprite, tmpl, bg)
			if err != nil {
				t.Fatalf("Composite() error = %v", err)
			}

			var bufA, bufB bytes.Buffer
			if err := png.Encode(&bufA, a); err != nil {
				t.Fatalf("encode: %v", err)
			}
			if err := png.Encode(&bufB, b); err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !bytes.Equal(bufA.Bytes(), bufB.Bytes()) {
				t.Errorf("two renders of the same input differ")
			}
		})
	}
}

func TestComposite_BlendModeRespected(t *testing.T) {
	c := NewCompositor(DefaultConfig())
	bg := solidImage(100, 100, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	sprite := solidImage(50, 50, color.NRGBA{R: 200, G: 50, B: 50, A: 255})

	tmpl := frameTemplate(models.OverlayArea{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5})
	over, err := c.Composite(sprite, tmpl, bg)
	if err != nil {
		t.Fatalf("Composite(source-over) error = %v", err)
	}

	tmpl.BlendMode = models.BlendMultiply
	multiplied, err := c.Composite(sprite, tmpl, bg)
	if err != nil {
		t.Fatalf("Composite(multiply) error = %v", err)
	}

	o := over.NRGBAAt(50, 50)
	m := multiplied.NRGBAAt(50, 50)
	if o == m {
		t.Fatalf("multiply and source-over produced the same pixel %v", o)
	}
	if o.R != 200 {
		t.Errorf("source-over red = %d, want 200", o.R)
	}
	// 200 * 128 / 255
	if m.R < 99 || m.R > 101 {
		t.Errorf("multiply red = %d, want ~100", m.R)
	}
}

func TestComposite_Opacity(t *testing.T) {
	c := NewCompositor(DefaultConfig())
	tmpl := frameTemplate(models.OverlayArea{X: 0, Y: 0, Width: 1, Height: 1})
	tmpl.Opacity = models.Float64(0.5)

	out, err := c.Composite(solidImage(10, 10, red), tmpl, solidImage(10, 10, white))
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	got := out.NRGBAAt(5, 5)
	if got.R != 255 || got.G < 127 || got.G > 128 || got.A != 255 {
		t.Errorf("half-opacity red over white = %v, want ~{255 128 128 255}", got)
	}
}

func TestComposite_ZeroOpacityHidesSprite(t *testing.T) {
	c := NewCompositor(DefaultConfig())
	tmpl := frameTemplate(models.OverlayArea{X: 0, Y: 0, Width: 1, Height: 1})
	tmpl.Opacity = models.Float64(0)

	out, err := c.Composite(solidImage(10, 10, red), tmpl, solidImage(10, 10, white))
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	if got := out.NRGBAAt(5, 5); got != white {
		t.Errorf("zero-opacity pixel = %v, want background %v", got, white)
	}
}

func TestComposite_AffineContainment(t *testing.T) {
	c := NewCompositor(DefaultConfig())
	bg := solidImage(400, 300, white)
	tmpl := models.MockupTemplate{
		ID:          "hoodie-back",
		Category:    models.CategoryApparel,
		OverlayArea: models.OverlayArea{X: 0.2, Y: 0.3, Width: 0.5, Height: 0.4},
		BlendMode:   models.BlendSourceOver,
		Transform:   &models.Transform{Rotation: 0, Scale: 1},
	}

	out, err := c.Composite(solidImage(64, 64, red), tmpl, bg)
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}

	rect := OverlayRect(tmpl.OverlayArea, bg.Bounds())
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			p := image.Pt(x, y)
			got := out.NRGBAAt(x, y)
			if p.In(rect) {
				if got != red {
					t.Fatalf("pixel %v inside overlay = %v, want red", p, got)
				}
			} else if got != white {
				t.Fatalf("pixel %v outside overlay %v was drawn: %v", p, rect, got)
			}
		}
	}
}

func TestComposite_AffineRotation(t *testing.T) {
	c := NewCompositor(DefaultConfig())
	sprite := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	blue := color.NRGBA{B: 255, A: 255}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				sprite.SetNRGBA(x, y, red)
			} else {
				sprite.SetNRGBA(x, y, blue)
			}
		}
	}
	tmpl := models.MockupTemplate{
		ID:          "tshirt-upside-down",
		Category:    models.CategoryApparel,
		OverlayArea: models.OverlayArea{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5},
		BlendMode:   models.BlendSourceOver,
		Transform:   &models.Transform{Rotation: 180, Scale: 1},
	}

	out, err := c.Composite(sprite, tmpl, solidImage(200, 200, white))
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	if got := out.NRGBAAt(70, 100); got.B < 200 || got.R > 50 {
		t.Errorf("left half after 180deg rotation = %v, want blue", got)
	}
	if got := out.NRGBAAt(130, 100); got.R < 200 || got.B > 50 {
		t.Errorf("right half after 180deg rotation = %v, want red", got)
	}
}

func TestComposite_Errors(t *testing.T) {
	c := NewCompositor(DefaultConfig())
	valid := frameTemplate(models.OverlayArea{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5})

	t.Run("nil background is a template asset failure", func(t *testing.T) {
		_, err := c.Composite(solidImage(10, 10, red), valid, nil)
		if !IsTemplateAssetFailure(err) {
			t.Errorf("error = %v, want background AssetLoadError", err)
		}
	})

	t.Run("nil sprite is a sprite failure", func(t *testing.T) {
		_, err := c.Composite(nil, valid, solidImage(10, 10, white))
		if !IsSpriteFailure(err) || IsTemplateAssetFailure(err) {
			t.Errorf("error = %v, want sprite AssetLoadError", err)
		}
	})

	t.Run("all white design is empty", func(t *testing.T) {
		_, err := c.Composite(solidImage(50, 50, white), valid, solidImage(100, 100, white))
		if !errors.Is(err, ErrEmptySprite) {
			t.Errorf("error = %v, want ErrEmptySprite", err)
		}
	})

	t.Run("invalid geometry is rejected", func(t *testing.T) {
		bad := frameTemplate(models.OverlayArea{X: 0.8, Y: 0.1, Width: 0.5, Height: 0.5})
		_, err := c.Composite(solidImage(10, 10, red), bad, solidImage(100, 100, white))
		var geomErr *models.InvalidTemplateGeometryError
		if !errors.As(err, &geomErr) || geomErr.TemplateID != "frame-front" {
			t.Errorf("error = %v, want InvalidTemplateGeometryError for frame-front", err)
		}
	})
}
