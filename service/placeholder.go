package service

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// placeholderText is drawn on every placeholder canvas
const placeholderText = "preview unavailable"

// RenderPlaceholder draws a solid canvas with a centered label near the
// bottom edge. The label names the template whose photo could not be loaded.
func RenderPlaceholder(width, height int, bg color.NRGBA, label string) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()

	lines := []string{placeholderText}
	if label = strings.TrimSpace(label); label != "" {
		lines = append(lines, label)
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(labelColor(bg)),
		Face: face,
	}

	const pad = 12
	y := height - pad - lineHeight*(len(lines)-1)
	for _, line := range lines {
		w := drawer.MeasureString(line).Ceil()
		x := (width - w) / 2
		if x < 0 {
			x = 0
		}
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
		y += lineHeight
	}
	return canvas
}

// labelColor picks dark text on light canvases and light text on dark ones
func labelColor(bg color.NRGBA) color.NRGBA {
	if int(bg.R)+int(bg.G)+int(bg.B) > 3*128 {
		return color.NRGBA{R: 70, G: 70, B: 70, A: 255}
	}
	return color.NRGBA{R: 235, G: 235, B: 235, A: 255}
}
