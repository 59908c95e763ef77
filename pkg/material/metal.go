package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Metal represents a metallic material with glossy specular reflection
type Metal struct {
	Albedo    core.Vec3 // Metal color
	Roughness float64   // 0.0 = perfect mirror, larger values widen the reflection lobe
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, roughness float64) *Metal {
	return &Metal{Albedo: albedo, Roughness: roughness}
}

// Scatter implements the Material interface for metal scattering.
// Perturbed rays that end up below the surface are still returned; they are
// not absorbed.
func (m *Metal) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) core.ScatterResult {
	reflected := rayIn.Direction.Normalize().Reflect(hit.Normal)
	reflected = reflected.Add(sampler.RandomUnitVector().Multiply(m.Roughness))

	scattered := core.NewRay(hit.Point, reflected)
	return core.ScatterResult{
		Scattered:   &scattered,
		Attenuation: m.Albedo,
	}
}
