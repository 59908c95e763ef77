package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ErrInvalidPPM is returned when a stream is not a well-formed plain PPM image
var ErrInvalidPPM = errors.New("invalid PPM image")

// WritePPM writes img as a plain-text P3 image: a header of magic, size and
// max value, then one "r g b" line per pixel, row-major from the top row.
func WritePPM(w io.Writer, img *renderer.Image) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: nothing to write", ErrInvalidPPM)
	}
	if len(img.Pixels) != img.Width*img.Height {
		return fmt.Errorf("%w: %d pixels for a %dx%d image", ErrInvalidPPM, len(img.Pixels), img.Width, img.Height)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}
	for _, p := range img.Pixels {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", p.R, p.G, p.B); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadPPM parses a plain-text P3 image. Comments starting with '#' are
// skipped and channels are rescaled when the max value is not 255.
func ReadPPM(r io.Reader) (*renderer.Image, error) {
	tr := &tokenReader{r: bufio.NewReader(r)}

	magic, err := tr.next()
	if err != nil {
		return nil, fmt.Errorf("%w: reading magic: %v", ErrInvalidPPM, err)
	}
	if magic != "P3" {
		return nil, fmt.Errorf("%w: unsupported magic %q", ErrInvalidPPM, magic)
	}

	width, err := tr.nextInt("width")
	if err != nil {
		return nil, err
	}
	height, err := tr.nextInt("height")
	if err != nil {
		return nil, err
	}
	maxVal, err := tr.nextInt("max value")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidPPM, width, height)
	}
	if maxVal <= 0 || maxVal > 255 {
		return nil, fmt.Errorf("%w: max value %d outside [1, 255]", ErrInvalidPPM, maxVal)
	}

	img := renderer.NewImage(width, height)
	for i := range img.Pixels {
		var channels [3]uint8
		for c := range channels {
			v, err := tr.nextInt("channel")
			if err != nil {
				return nil, fmt.Errorf("pixel %d: %w", i, err)
			}
			if v < 0 || v > maxVal {
				return nil, fmt.Errorf("%w: pixel %d channel %d outside [0, %d]", ErrInvalidPPM, i, v, maxVal)
			}
			channels[c] = uint8(v * 255 / maxVal)
		}
		img.Pixels[i] = core.RGB{R: channels[0], G: channels[1], B: channels[2]}
	}

	return img, nil
}

// tokenReader splits a PPM stream into whitespace separated tokens
type tokenReader struct {
	r *bufio.Reader
}

func (tr *tokenReader) next() (string, error) {
	var token []byte
	for {
		b, err := tr.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(token) > 0 {
				return string(token), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}

		switch {
		case b == '#' && len(token) == 0:
			if _, err := tr.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(token) > 0 {
				return string(token), nil
			}
		default:
			token = append(token, b)
		}
	}
}

func (tr *tokenReader) nextInt(field string) (int, error) {
	token, err := tr.next()
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %v", ErrInvalidPPM, field, err)
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidPPM, field, token)
	}
	return v, nil
}
