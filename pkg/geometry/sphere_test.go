package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// stubMaterial lets tests tell apart which shape produced a hit
type stubMaterial struct{ id int }

func (m *stubMaterial) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) core.ScatterResult {
	return core.ScatterResult{}
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_ThroughCenter(t *testing.T) {
	tests := []struct {
		name   string
		origin core.Vec3
		center core.Vec3
		radius float64
	}{
		{"unit sphere on z axis", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -3), 1.0},
		{"off-axis sphere", core.NewVec3(1, 2, 3), core.NewVec3(-4, 6, 0), 0.5},
		{"large sphere", core.NewVec3(0, 0, 0), core.NewVec3(0, -100.5, -1), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(tt.center, tt.radius, nil)
			direction := tt.center.Subtract(tt.origin)
			ray := core.NewRay(tt.origin, direction)

			hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			// Distance along the ray equals |C-O| - r once scaled by the direction length
			expectedDistance := direction.Length() - tt.radius
			if math.Abs(hit.T*direction.Length()-expectedDistance) > 1e-9 {
				t.Errorf("Expected hit distance %f, got %f", expectedDistance, hit.T*direction.Length())
			}

			expectedNormal := hit.Point.Subtract(tt.center).Divide(tt.radius)
			if hit.Normal.Subtract(expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	tests := []struct {
		name       string
		tMin, tMax float64
		expectHit  bool
		expectedT  float64
	}{
		{"tMax before near root", 0.001, 0.5, false, 0},
		{"tMin past far root", 3.5, 1000.0, false, 0},
		{"tMax equal to near root is excluded", 0.001, 1.0, false, 0},
		{"tMin equal to near root falls back to far root", 1.0, 1000.0, true, 3.0},
		{"tMin between roots", 2.0, 1000.0, true, 3.0},
		{"tMin equal to far root is excluded", 3.0, 1000.0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := sphere.Hit(ray, tt.tMin, tt.tMax)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if isHit && math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if isHit && (hit.T <= tt.tMin || hit.T >= tt.tMax) {
				t.Errorf("Hit t=%f outside open interval (%f, %f)", hit.T, tt.tMin, tt.tMax)
			}
		})
	}
}

func TestSphere_Hit_NormalFacesRay(t *testing.T) {
	sampler := core.NewSeededSampler(42)
	spheres := []*Sphere{
		NewSphere(core.NewVec3(0, 0, 0), 1.0, nil),
		NewSphere(core.NewVec3(0, 0, 0), -1.0, nil),
	}

	for _, sphere := range spheres {
		for i := 0; i < 500; i++ {
			// Origins both inside and outside the sphere
			origin := sampler.RandomUnitVector().Multiply(3 * sampler.Get1D())
			ray := core.NewRay(origin, sampler.RandomUnitVector())

			hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				continue
			}
			if ray.Direction.Dot(hit.Normal) > 0 {
				t.Fatalf("Normal %v does not face ray direction %v (radius %f)", hit.Normal, ray.Direction, sphere.Radius)
			}
			if math.Abs(hit.Normal.Length()-1.0) > 1e-9 {
				t.Fatalf("Normal should be unit length, got %f", hit.Normal.Length())
			}
		}
	}
}

func TestSphere_Hit_CarriesMaterial(t *testing.T) {
	mat := &stubMaterial{id: 7}
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5, mat)

	hit, isHit := sphere.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, 1000)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Material != mat {
		t.Errorf("Expected hit material %v, got %v", mat, hit.Material)
	}
}

func TestHittableList_ClosestHit(t *testing.T) {
	near := &stubMaterial{id: 1}
	far := &stubMaterial{id: 2}

	// Far sphere added first so order cannot decide the result
	list := NewHittableList(
		NewSphere(core.NewVec3(0, 0, -10), 1.0, far),
		NewSphere(core.NewVec3(0, 0, -3), 1.0, near),
	)

	hit, isHit := list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Material != near {
		t.Errorf("Expected the nearer sphere to win, got material %v", hit.Material)
	}
	if math.Abs(hit.T-2.0) > 1e-9 {
		t.Errorf("Expected t=2, got t=%f", hit.T)
	}
}

func TestHittableList_TieKeepsFirst(t *testing.T) {
	first := &stubMaterial{id: 1}
	second := &stubMaterial{id: 2}

	list := NewHittableList()
	list.Add(NewSphere(core.NewVec3(0, 0, -3), 1.0, first))
	list.Add(NewSphere(core.NewVec3(0, 0, -3), 1.0, second))

	hit, isHit := list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Material != first {
		t.Errorf("Expected first-encountered shape to win the tie, got material %v", hit.Material)
	}
}

func TestHittableList_Miss(t *testing.T) {
	list := NewHittableList(
		NewSphere(core.NewVec3(0, 0, -1), 0.5, nil),
		NewSphere(core.NewVec3(0, -100.5, -1), 100, nil),
	)

	hit, isHit := list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), 0.001, math.Inf(1))
	if isHit {
		t.Errorf("Expected miss, got hit at t=%f", hit.T)
	}
	if list.Len() != 2 {
		t.Errorf("Expected 2 shapes, got %d", list.Len())
	}
}

func TestHittableList_Empty(t *testing.T) {
	var list HittableList
	if _, isHit := list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1)); isHit {
		t.Error("Empty list should never report a hit")
	}
}
