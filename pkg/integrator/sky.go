package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// SkyConfig describes the background seen by rays that escape the scene
type SkyConfig struct {
	TopColor    core.Vec3 // Color straight up
	BottomColor core.Vec3 // Color straight down
	// Directional modulates the gradient by how closely the ray points at LightDirection.
	// When false the plain gradient is returned.
	Directional    bool
	LightDirection core.Vec3
}

// DefaultSkyConfig returns the directional sky used by the built-in scenes
func DefaultSkyConfig() SkyConfig {
	return SkyConfig{
		TopColor:       core.NewVec3(0.5, 0.7, 1.0),
		BottomColor:    core.NewVec3(0.9, 1.0, 1.0),
		Directional:    true,
		LightDirection: core.NewVec3(1.0, 0.4, -0.5),
	}
}

// GradientSkyConfig returns the unmodulated gradient sky
func GradientSkyConfig() SkyConfig {
	sky := DefaultSkyConfig()
	sky.Directional = false
	return sky
}

// Color returns the sky radiance for a ray direction (need not be normalized)
func (s SkyConfig) Color(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()

	// Map y from [-1,1] to [0,1]
	grad := 0.5 + 0.5*unitDirection.Y
	sky := s.TopColor.Multiply(grad).Add(s.BottomColor.Multiply(1.0 - grad))

	if s.Directional {
		sky = sky.Multiply(math.Max(0, unitDirection.Dot(s.LightDirection)))
	}
	return sky
}
