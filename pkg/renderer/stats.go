package renderer

import (
	"fmt"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width        int           // Image width in pixels
	Height       int           // Image height in pixels
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of camera samples taken
	Workers      int           // Goroutines that rendered rows, 1 for serial renders
	Duration     time.Duration // Wall time of the render
}

// SamplesPerSecond returns camera samples traced per second of wall time
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%dx%d, %d samples, %d workers in %v (%.0f samples/s)",
		s.Width, s.Height, s.TotalSamples, s.Workers, s.Duration.Round(time.Millisecond), s.SamplesPerSecond())
}
