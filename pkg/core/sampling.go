package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64         // Uniform value in [0, 1)
	RandomUnitVector() Vec3 // Uniform direction on the unit sphere
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic generator
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// RandomUnitVector returns a uniformly distributed direction on the unit sphere
func (r *RandomSampler) RandomUnitVector() Vec3 {
	return SampleOnUnitSphere(r.random.Float64(), r.random.Float64())
}

// SampleOnUnitSphere maps two uniform values to a uniform direction on the unit sphere
func SampleOnUnitSphere(u1, u2 float64) Vec3 {
	z := 1.0 - 2.0*u1 // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * u2
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(u1, u2 float64) Vec3 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	ox, oy := 2*u1-1, 2*u2-1
	if ox == 0 && oy == 0 {
		return NewVec3(0, 0, 0)
	}

	var theta, r float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = math.Pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - math.Pi/4*(ox/oy)
	}

	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// SeedForRow derives a decorrelated generator seed for one image row.
// Rows rendered by different workers use independent streams, so output does not
// depend on scheduling.
func SeedForRow(seed int64, row int) int64 {
	// splitmix64 finalizer
	z := uint64(seed) + uint64(row+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
