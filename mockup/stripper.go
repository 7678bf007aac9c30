package mockup

import (
	"image"

	"github.com/disintegration/imaging"
)

// Strip returns a copy of img where background pixels are fully transparent.
// The copy always carries an alpha channel; img is never modified.
// Non-background pixels keep their original alpha. Edges are hard cut, there
// is no feathering.
func Strip(img image.Image, cfg StripConfig) *image.NRGBA {
	out := imaging.Clone(img)

	tol := cfg.GrayTolerance
	for i := 0; i+3 < len(out.Pix); i += 4 {
		r, g, b := int(out.Pix[i]), int(out.Pix[i+1]), int(out.Pix[i+2])
		if isBackground(r, g, b, cfg.WhiteThreshold, cfg.GrayThreshold, tol) {
			out.Pix[i+3] = 0
		}
	}
	return out
}

func isBackground(r, g, b int, white, gray float64, tol int) bool {
	brightness := float64(r+g+b) / 3
	if brightness > white {
		return true
	}
	nearGray := absInt(r-g) < tol && absInt(g-b) < tol && absInt(r-b) < tol
	return nearGray && brightness > gray
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
