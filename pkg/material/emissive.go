package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Emissive represents a light-emitting material
type Emissive struct {
	Emission core.Vec3 // Emitted light color/intensity
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// Scatter terminates the path and returns the emitted color
func (e *Emissive) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) core.ScatterResult {
	return core.ScatterResult{Attenuation: e.Emission}
}
