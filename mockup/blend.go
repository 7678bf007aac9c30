package mockup

import (
	"fmt"
	"image"
	"math"

	"mascota-mockups/models"
)

// blendFunc mixes a backdrop channel cb with a source channel cs, both in [0,1]
type blendFunc func(cb, cs float64) float64

func blendNormal(cb, cs float64) float64   { return cs }
func blendMultiply(cb, cs float64) float64 { return cb * cs }
func blendScreen(cb, cs float64) float64   { return cb + cs - cb*cs }
func blendDarken(cb, cs float64) float64   { return math.Min(cb, cs) }
func blendLighten(cb, cs float64) float64  { return math.Max(cb, cs) }
func blendOverlay(cb, cs float64) float64 {
	if cb <= 0.5 {
		return 2 * cb * cs
	}
	return blendScreen(2*cb-1, cs)
}

var blendFuncs = map[models.BlendMode]blendFunc{
	models.BlendSourceOver: blendNormal,
	models.BlendMultiply:   blendMultiply,
	models.BlendScreen:     blendScreen,
	models.BlendOverlay:    blendOverlay,
	models.BlendDarken:     blendDarken,
	models.BlendLighten:    blendLighten,
}

// SupportedBlendMode reports whether mode (after alias normalization) can be rendered
func SupportedBlendMode(mode models.BlendMode) bool {
	_, ok := blendFuncs[mode.Normalize()]
	return ok
}

// blendLayer composites layer onto canvas within area using mode at the given opacity.
// layer is premultiplied and shares the canvas coordinate space. The blend
// settings apply to this call only.
func blendLayer(canvas *image.NRGBA, layer *image.RGBA, area image.Rectangle, mode models.BlendMode, opacity float64) error {
	fn, ok := blendFuncs[mode.Normalize()]
	if !ok {
		return fmt.Errorf("unsupported blend mode %q", mode)
	}
	opacity = clamp01(opacity)
	if opacity == 0 {
		return nil
	}

	area = area.Intersect(canvas.Bounds()).Intersect(layer.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			li := layer.PixOffset(x, y)
			la := layer.Pix[li+3]
			if la == 0 {
				continue
			}
			ci := canvas.PixOffset(x, y)

			sa := float64(la) / 255 * opacity
			ab := float64(canvas.Pix[ci+3]) / 255
			ao := sa + ab*(1-sa)

			for c := 0; c < 3; c++ {
				cs := clamp01(float64(layer.Pix[li+c]) / float64(la))
				cb := float64(canvas.Pix[ci+c]) / 255
				mixed := (1-ab)*cs + ab*fn(cb, cs)
				co := sa*mixed + (1-sa)*ab*cb
				canvas.Pix[ci+c] = toByte(co / ao)
			}
			canvas.Pix[ci+3] = toByte(ao)
		}
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
