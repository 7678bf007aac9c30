package mockup

import (
	"image"
	"image/color"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	black = color.NRGBA{A: 255}
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// circleSprite draws a black disc of the given diameter centered on a white square
func circleSprite(size, diameter int) *image.NRGBA {
	img := solidImage(size, size, white)
	c := float64(size) / 2
	r := float64(diameter) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - c
			dy := float64(y) + 0.5 - c
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, black)
			}
		}
	}
	return img
}

func isDark(c color.NRGBA) bool {
	return c.R < 128 && c.G < 128 && c.B < 128
}
