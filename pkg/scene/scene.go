package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Description    string
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Sky            integrator.SkyConfig
	World          *geometry.HittableList // Objects in the scene, tested in insertion order
}

// AddShapes appends shapes to the world
func (s *Scene) AddShapes(shapes ...core.Shape) {
	for _, shape := range shapes {
		s.World.Add(shape)
	}
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// NewRaytracer builds the camera and integrator for this scene
func (s *Scene) NewRaytracer() (*renderer.Raytracer, error) {
	camera, err := renderer.NewCamera(s.CameraConfig)
	if err != nil {
		return nil, err
	}
	return renderer.NewRaytracer(camera, s.World, integrator.NewPathTracingIntegrator(s.Sky), s.SamplingConfig)
}

// mergeCamera applies the first override, if any, onto the scene's camera
func mergeCamera(base renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(base, overrides[0])
	}
	return base
}
