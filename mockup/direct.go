package mockup

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"mascota-mockups/models"
)

// DirectPlacement stretches the sprite over the overlay rectangle.
// Used for frames and prints where the surface is flat.
type DirectPlacement struct{}

func (DirectPlacement) Place(layer *image.RGBA, sprite *image.NRGBA, rect image.Rectangle, _ models.MockupTemplate) image.Rectangle {
	if rect.Empty() {
		return image.Rectangle{}
	}
	resized := imaging.Resize(sprite, rect.Dx(), rect.Dy(), imaging.Lanczos)
	draw.Draw(layer, rect, resized, image.Point{}, draw.Src)
	return rect
}
