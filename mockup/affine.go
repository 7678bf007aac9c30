package mockup

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"mascota-mockups/models"
)

// AffinePlacement draws the sprite centered on the overlay rectangle after
// rotate, scale and skew, in that order. It approximates side and back
// garment shots without a 3D model.
type AffinePlacement struct{}

// affine is the 2x3 matrix x' = a*x + b*y + c, y' = d*x + e*y + f
type affine struct {
	a, b, c float64
	d, e, f float64
}

func translate(tx, ty float64) affine { return affine{a: 1, c: tx, e: 1, f: ty} }

func rotate(rad float64) affine {
	sin, cos := math.Sincos(rad)
	return affine{a: cos, b: -sin, d: sin, e: cos}
}

func scale(s float64) affine { return affine{a: s, e: s} }

func shear(kx, ky float64) affine { return affine{a: 1, b: kx, d: ky, e: 1} }

// then returns m applied after n
func (m affine) then(n affine) affine {
	return affine{
		a: m.a*n.a + m.b*n.d,
		b: m.a*n.b + m.b*n.e,
		c: m.a*n.c + m.b*n.f + m.c,
		d: m.d*n.a + m.e*n.d,
		e: m.d*n.b + m.e*n.e,
		f: m.d*n.c + m.e*n.f + m.f,
	}
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.b*y + m.c, m.d*x + m.e*y + m.f
}

func (m affine) isTranslation() bool {
	return m.a == 1 && m.b == 0 && m.d == 0 && m.e == 1
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }

// placementMatrix builds T(center) * R * S * K * T(-w/2, -h/2) for a sprite of size w x h
func placementMatrix(rect image.Rectangle, t *models.Transform) affine {
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	cx := float64(rect.Min.X) + w/2
	cy := float64(rect.Min.Y) + h/2

	m := translate(cx, cy)
	if t != nil {
		s := t.Scale
		if s == 0 {
			s = 1
		}
		m = m.then(rotate(degToRad(t.Rotation))).
			then(scale(s)).
			then(shear(math.Tan(degToRad(t.SkewX)), math.Tan(degToRad(t.SkewY))))
	}
	return m.then(translate(-w/2, -h/2))
}

func (AffinePlacement) Place(layer *image.RGBA, sprite *image.NRGBA, rect image.Rectangle, tmpl models.MockupTemplate) image.Rectangle {
	if rect.Empty() {
		return image.Rectangle{}
	}
	resized := imaging.Resize(sprite, rect.Dx(), rect.Dy(), imaging.Lanczos)
	m := placementMatrix(rect, tmpl.Transform)

	if m.isTranslation() {
		x, y := m.apply(0, 0)
		dst := resized.Bounds().Add(image.Pt(int(math.Round(x)), int(math.Round(y))))
		draw.Draw(layer, dst, resized, image.Point{}, draw.Src)
		return dst.Intersect(layer.Bounds())
	}

	s2d := f64.Aff3{m.a, m.b, m.c, m.d, m.e, m.f}
	draw.BiLinear.Transform(layer, s2d, resized, resized.Bounds(), draw.Src, nil)
	return transformedBounds(m, resized.Bounds()).Intersect(layer.Bounds())
}

// transformedBounds is the integer bounding box of r after m
func transformedBounds(m affine, r image.Rectangle) image.Rectangle {
	corners := [4][2]float64{
		{float64(r.Min.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Min.Y)},
		{float64(r.Min.X), float64(r.Max.Y)},
		{float64(r.Max.X), float64(r.Max.Y)},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		x, y := m.apply(p[0], p[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}
