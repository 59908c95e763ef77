package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything. Useful in tests.
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

// Shape interface for objects that can be hit by rays.
// A returned hit always satisfies tMin < hit.T < tMax.
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

// Material interface for surfaces that scatter rays
type Material interface {
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) ScatterResult
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   *Ray // Outgoing ray, nil when the path terminates at this surface
	Attenuation Vec3 // Color attenuation, or the terminal color when Scattered is nil
}

// Scatters returns true if the material produced an outgoing ray
func (s ScatterResult) Scatters() bool {
	return s.Scattered != nil
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Unit surface normal, facing against the incoming ray
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether ray hit the front face
	Material  Material // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
