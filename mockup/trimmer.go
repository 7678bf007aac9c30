package mockup

import (
	"image"
)

// Trim crops img to the bounding box of its non-transparent pixels.
// The result is a new buffer with its origin at (0,0).
// A fully transparent input yields a 1x1 transparent image and ErrEmptySprite.
func Trim(img *image.NRGBA) (*image.NRGBA, error) {
	box, ok := OpaqueBounds(img)
	if !ok {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), ErrEmptySprite
	}

	out := image.NewNRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	rowLen := box.Dx() * 4
	for y := box.Min.Y; y < box.Max.Y; y++ {
		src := img.PixOffset(box.Min.X, y)
		dst := (y - box.Min.Y) * out.Stride
		copy(out.Pix[dst:dst+rowLen], img.Pix[src:src+rowLen])
	}
	return out, nil
}

// OpaqueBounds returns the smallest rectangle holding every pixel with alpha > 0
func OpaqueBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[off+3] != 0 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
			off += 4
		}
	}

	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
