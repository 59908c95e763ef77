package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ShadowAcneEpsilon is the lower bound of the intersection interval for every traced ray.
// Secondary rays start on a surface; without the offset they re-hit it at t≈0.
const ShadowAcneEpsilon = 0.001

// PathTracingIntegrator implements recursive unidirectional path tracing
type PathTracingIntegrator struct {
	sky SkyConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(sky SkyConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{sky: sky}
}

// Sky returns the background configuration
func (pt *PathTracingIntegrator) Sky() SkyConfig {
	return pt.sky
}

// RayColor computes the color for a single ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world core.Shape, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return pt.sky.Color(ray.Direction)
	}

	scatter := hit.Material.Scatter(ray, *hit, sampler)
	if !scatter.Scatters() {
		// Absorbed or emitted: the attenuation is the terminal contribution
		return scatter.Attenuation
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColor(*scatter.Scattered, world, sampler, depth-1))
}
