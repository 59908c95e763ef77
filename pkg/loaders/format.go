package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ErrUnknownFormat is returned for output paths with an unrecognized extension
var ErrUnknownFormat = errors.New("unknown image format")

// Format identifies an on-disk image encoding
type Format int

const (
	FormatPPM       Format = iota // Plain P3 text
	FormatPPMZstd                 // P3 text in a zstd stream (.ppm.zst)
	FormatPPMSnappy               // P3 text in a framed snappy stream (.ppm.sz)
	FormatPNG                     // PNG via gg
)

func (f Format) String() string {
	switch f {
	case FormatPPM:
		return "ppm"
	case FormatPPMZstd:
		return "ppm+zstd"
	case FormatPPMSnappy:
		return "ppm+snappy"
	case FormatPNG:
		return "png"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatForPath picks the encoding from the file extension
func FormatForPath(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".ppm.zst"):
		return FormatPPMZstd, nil
	case strings.HasSuffix(name, ".ppm.sz"):
		return FormatPPMSnappy, nil
	case strings.HasSuffix(name, ".ppm"):
		return FormatPPM, nil
	case strings.HasSuffix(name, ".png"):
		return FormatPNG, nil
	default:
		return 0, fmt.Errorf("%w for %q (use .ppm, .ppm.zst, .ppm.sz or .png)", ErrUnknownFormat, path)
	}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img *renderer.Image, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatPPMZstd:
		stream, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if err := WritePPM(stream, img); err != nil {
			stream.Close()
			return err
		}
		return stream.Close()
	case FormatPPMSnappy:
		stream := snappy.NewBufferedWriter(w)
		if err := WritePPM(stream, img); err != nil {
			stream.Close()
			return err
		}
		return stream.Close()
	case FormatPNG:
		return EncodePNG(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// Decode reads an image from r in the given format
func Decode(r io.Reader, format Format) (*renderer.Image, error) {
	switch format {
	case FormatPPM:
		return ReadPPM(r)
	case FormatPPMZstd:
		stream, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer stream.Close()
		return ReadPPM(stream)
	case FormatPPMSnappy:
		return ReadPPM(snappy.NewReader(r))
	case FormatPNG:
		return DecodeImage(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// SaveImage writes img to path, choosing the format from the extension
func SaveImage(path string, img *renderer.Image) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(file, img, format); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// LoadImage reads an image from path, choosing the format from the extension
func LoadImage(path string) (*renderer.Image, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return Decode(file, format)
}
