package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Image is a rendered frame stored row-major, top row first
type Image struct {
	Width  int
	Height int
	Pixels []core.RGB
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]core.RGB, width*height),
	}
}

// At returns the pixel at column x of row y
func (img *Image) At(x, y int) core.RGB {
	return img.Pixels[y*img.Width+x]
}

// Set stores the pixel at column x of row y
func (img *Image) Set(x, y int, c core.RGB) {
	img.Pixels[y*img.Width+x] = c
}

// Row returns the backing slice for row y
func (img *Image) Row(y int) []core.RGB {
	return img.Pixels[y*img.Width : (y+1)*img.Width]
}

// ToRGBA converts the frame to an opaque standard library image
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			p := img.At(x, y)
			out.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return out
}
