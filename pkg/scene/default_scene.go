package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewDefaultScene creates a white diffuse sphere resting on a huge ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        90.0,
	}

	s := &Scene{
		Name:           "default",
		Description:    "White diffuse sphere on a ground sphere under the sky",
		CameraConfig:   mergeCamera(defaultCameraConfig, cameraOverrides),
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Sky:            integrator.DefaultSkyConfig(),
		World:          geometry.NewHittableList(),
	}

	white := material.NewLambertian(core.NewVec3(1, 1, 1))

	s.AddShapes(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, white),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, white), // ground
	)

	return s
}
