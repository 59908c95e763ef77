package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) core.ScatterResult {
	scatterDirection := hit.Normal.Add(sampler.RandomUnitVector())

	// The random vector can cancel the normal exactly, leaving a zero-length direction
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	scattered := core.NewRay(hit.Point, scatterDirection)
	return core.ScatterResult{
		Scattered:   &scattered,
		Attenuation: l.Albedo,
	}
}
