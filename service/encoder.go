package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"mascota-mockups/models"
)

const (
	defaultJPEGQuality = 90
	defaultWebPQuality = 85
	maxThumbSize       = 1024
)

// ParseFormat normalizes a requested output format, defaulting to PNG
func ParseFormat(s string) (models.RenderFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return models.FormatPNG, nil
	case "jpg", "jpeg":
		return models.FormatJPEG, nil
	case "webp":
		return models.FormatWebP, nil
	default:
		return "", fmt.Errorf("unsupported format %q (png, jpeg or webp)", s)
	}
}

// EncodeImage encodes a rendered mockup. quality applies to JPEG and WebP;
// zero selects the default. PNG output is deterministic for equal inputs.
func EncodeImage(img image.Image, format models.RenderFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case models.FormatJPEG:
		if quality <= 0 || quality > 100 {
			quality = defaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
		}

	case models.FormatWebP:
		if quality <= 0 || quality > 100 {
			quality = defaultWebPQuality
		}
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
		if err != nil {
			return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
		}
		if err := webp.Encode(&buf, img, options); err != nil {
			return nil, fmt.Errorf("failed to encode WebP: %w", err)
		}

	case models.FormatPNG, "":
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode to PNG: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	log.Printf("✓ Mockup encoded: format=%s, quality=%d, output_size=%d bytes", format, quality, len(buf.Bytes()))
	return buf.Bytes(), nil
}

// Thumbnail downscales img so its longest side is at most maxDim, keeping the
// aspect ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	if maxDim > maxThumbSize {
		maxDim = maxThumbSize
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxDim
		newHeight = int(float64(height) * float64(maxDim) / float64(width))
	} else {
		newHeight = maxDim
		newWidth = int(float64(width) * float64(maxDim) / float64(height))
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	log.Printf("🔄 Resizing mockup: %dx%d -> %dx%d", width, height, newWidth, newHeight)
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
}
