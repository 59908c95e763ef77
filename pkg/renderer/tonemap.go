package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
)

// maxChannel keeps a fully saturated channel at 255 after truncation
const maxChannel = 255.9

// ToneMap converts an accumulated radiance sum into a display pixel.
// The sum is averaged over samples, gamma corrected with a square root,
// scaled to [0, 255.9] and truncated. NaN and negative channels map to 0.
func ToneMap(accum core.Vec3, samples int) core.RGB {
	if samples <= 0 {
		return core.RGB{}
	}
	avg := accum.Multiply(1.0 / float64(samples))
	return core.RGB{
		R: toneMapChannel(avg.X),
		G: toneMapChannel(avg.Y),
		B: toneMapChannel(avg.Z),
	}
}

func toneMapChannel(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return uint8(mgl64.Clamp(math.Sqrt(v)*maxChannel, 0, maxChannel))
}
