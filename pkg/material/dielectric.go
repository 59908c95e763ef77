package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	Albedo          core.Vec3 // Tint applied to every transmitted or reflected ray
	Roughness       float64   // Frosting applied to the chosen direction
	RefractiveIndex float64   // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(albedo core.Vec3, roughness, refractiveIndex float64) *Dielectric {
	return &Dielectric{Albedo: albedo, Roughness: roughness, RefractiveIndex: refractiveIndex}
}

// NewGlass creates a clear, smooth dielectric
func NewGlass(refractiveIndex float64) *Dielectric {
	return NewDielectric(core.NewVec3(1, 1, 1), 0, refractiveIndex)
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) core.ScatterResult {
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex // entering the material
	} else {
		refractionRatio = d.RefractiveIndex // leaving the material
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(unitDirection.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	// Total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || sampler.Get1D() < Reflectance(cosTheta, refractionRatio) {
		direction = unitDirection.Reflect(hit.Normal)
	} else {
		direction = unitDirection.Refract(hit.Normal, refractionRatio)
	}
	direction = direction.Add(sampler.RandomUnitVector().Multiply(d.Roughness))

	scattered := core.NewRay(hit.Point, direction)
	return core.ScatterResult{
		Scattered:   &scattered,
		Attenuation: d.Albedo,
	}
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation.
// r0 depends only on the ratio of indices, so passing n or 1/n gives the same value.
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
