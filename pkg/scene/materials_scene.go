package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewMaterialsScene creates a row of spheres showing each material side by side
func NewMaterialsScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(-2, 2, 1),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        30.0,
	}

	s := &Scene{
		Name:         "materials",
		Description:  "Diffuse, fuzzy metal, solid and hollow glass and an emissive orb",
		CameraConfig: mergeCamera(defaultCameraConfig, cameraOverrides),
		SamplingConfig: renderer.SamplingConfig{
			SamplesPerPixel: 64,
			MaxDepth:        16, // Glass needs extra bounces to exit the hollow shell
			Seed:            42,
		},
		Sky:   integrator.GradientSkyConfig(),
		World: geometry.NewHittableList(),
	}

	lambertianGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	materialGlass := material.NewGlass(1.5)
	frostedGlass := material.NewDielectric(core.NewVec3(0.9, 0.95, 1.0), 0.05, 1.5)
	warmLight := material.NewEmissive(core.NewVec3(4, 3, 2))

	s.AddShapes(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, lambertianGround),
		geometry.NewSphere(core.NewVec3(0, 0, -1.2), 0.5, lambertianBlue),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, metalGold),

		// Hollow glass: the negative radius flips the normals of the inner wall
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, materialGlass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.4, materialGlass),

		geometry.NewSphere(core.NewVec3(0.45, -0.35, -0.4), 0.15, frostedGlass),
		geometry.NewSphere(core.NewVec3(-0.4, -0.38, -0.3), 0.1, warmLight),
	)

	return s
}

// NewDefocusScene renders the materials scene through a wide aperture focused on the center sphere
func NewDefocusScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewMaterialsScene()
	s.Name = "defocus"
	s.Description = "Materials scene with depth of field focused on the center sphere"

	focused := s.CameraConfig
	focused.VFov = 20.0
	focused.DefocusAngle = 10.0
	focused.FocusDistance = focused.Center.Subtract(focused.LookAt).Length()

	s.CameraConfig = mergeCamera(focused, cameraOverrides)
	return s
}
