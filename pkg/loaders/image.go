package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"

	"github.com/fogleman/gg"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// EncodePNG writes img as a PNG through a gg drawing context
func EncodePNG(w io.Writer, img *renderer.Image) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("cannot encode an empty image")
	}
	return gg.NewContextForRGBA(img.ToRGBA()).EncodePNG(w)
}

// DecodeImage reads a PNG or JPEG and converts it to an 8-bit frame.
// Alpha is dropped.
func DecodeImage(r io.Reader) (*renderer.Image, error) {
	// Decode image (auto-detects PNG/JPEG from file header)
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	img := renderer.NewImage(bounds.Dx(), bounds.Dy())

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, _ := src.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			img.Set(x, y, core.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
		}
	}

	return img, nil
}
