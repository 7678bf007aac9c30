package mockup

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"mascota-mockups/models"
)

// CurvedPlacement approximates wrapping the sprite around a cylinder.
// The sprite is cut into vertical strips whose heights follow a sine bulge,
// tallest at the horizontal center and flat at both edges. Banding between
// strips is expected and shrinks as Slices grows.
type CurvedPlacement struct {
	Config CurveConfig
}

// CurveStrips returns the destination rectangle of every strip for an overlay rect.
// Strip i spans [x0 + i*W/N, x0 + (i+1)*W/N) and is vertically centered on rect.
// N is capped at the overlay width so every strip is at least one pixel wide.
func CurveStrips(rect image.Rectangle, cfg CurveConfig) []image.Rectangle {
	cfg = cfg.withDefaults()
	w := rect.Dx()
	h := rect.Dy()
	cfg.Slices = stripCount(w, cfg.Slices)
	n := cfg.Slices

	strips := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		x0 := rect.Min.X + int(math.Round(float64(i)*float64(w)/float64(n)))
		x1 := rect.Min.X + int(math.Round(float64(i+1)*float64(w)/float64(n)))
		sh := StripHeight(h, i, cfg)
		y0 := rect.Min.Y + (h-sh)/2
		strips = append(strips, image.Rect(x0, y0, x1, y0+sh))
	}
	return strips
}

// stripCount caps n at the overlay width, with a floor of one strip
func stripCount(w, n int) int {
	if n > w {
		n = w
	}
	if n < 1 {
		n = 1
	}
	return n
}

// StripHeight is h * (1 + sin(t*pi) * bulge). t is i/(N-1) rather than i/N:
// it runs from 0 at the first strip to exactly 1 at the last, so both edge
// strips keep the nominal height and the bulge is symmetric. With i/N the last
// strip would sit at sin((N-1)/N*pi) and stay slightly taller than h.
func StripHeight(h, i int, cfg CurveConfig) int {
	cfg = cfg.withDefaults()
	if cfg.Slices < 2 {
		return h
	}
	t := float64(i) / float64(cfg.Slices-1)
	return int(math.Round(float64(h) * (1 + math.Sin(t*math.Pi)*cfg.Bulge)))
}

func (p CurvedPlacement) Place(layer *image.RGBA, sprite *image.NRGBA, rect image.Rectangle, _ models.MockupTemplate) image.Rectangle {
	if rect.Empty() {
		return image.Rectangle{}
	}
	cfg := p.Config.withDefaults()
	sw := sprite.Bounds().Dx()
	sh := sprite.Bounds().Dy()

	strips := CurveStrips(rect, cfg)
	n := len(strips)

	var touched image.Rectangle
	for i, dst := range strips {
		if dst.Empty() {
			continue
		}
		sx0 := int(math.Round(float64(i) * float64(sw) / float64(n)))
		sx1 := int(math.Round(float64(i+1) * float64(sw) / float64(n)))
		if sx1 <= sx0 {
			sx1 = sx0 + 1
		}
		if sx1 > sw {
			sx1 = sw
			sx0 = minInt(sx0, sw-1)
		}

		strip := imaging.Crop(sprite, image.Rect(sx0, 0, sx1, sh))
		scaled := imaging.Resize(strip, dst.Dx(), dst.Dy(), imaging.Lanczos)
		draw.Draw(layer, dst, scaled, image.Point{}, draw.Src)
		touched = touched.Union(dst)
	}
	return touched.Intersect(layer.Bounds())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
