package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// centerSampler aims every camera ray through the pixel center and the lens center
type centerSampler struct{}

func (centerSampler) Get1D() float64 { return 0.5 }

func (centerSampler) RandomUnitVector() core.Vec3 { return core.NewVec3(0, 0, 1) }

// InspectResult contains rich information about an object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *core.HitRecord
	Shape     core.Shape // The shape that produced the closest hit
}

// inspectPixel casts a ray through the center of the given pixel and reports the first object hit
func inspectPixel(sceneObj *scene.Scene, camera *renderer.Camera, pixelX, pixelY int) InspectResult {
	ray := camera.GetRay(pixelX, pixelY, centerSampler{})

	hit, isHit := sceneObj.World.Hit(ray, integrator.ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}

	// The list does not report which shape won, so find the first with the same t
	for _, shape := range sceneObj.World.Shapes {
		if shapeHit, ok := shape.Hit(ray, integrator.ShadowAcneEpsilon, math.Inf(1)); ok && shapeHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Shape: shape}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit}
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat core.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vecToArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecToArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["roughness"] = m.Roughness
		return "metal", properties

	case *material.Dielectric:
		properties["albedo"] = vecToArray(m.Albedo)
		properties["roughness"] = m.Roughness
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = hexColor(m.Albedo)
		return "dielectric", properties

	case *material.Emissive:
		properties["emission"] = vecToArray(m.Emission)
		properties["color"] = hexColor(m.Emission)
		return "emissive", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape core.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecToArray(geom.Center)
		properties["radius"] = geom.Radius
		properties["hollow"] = geom.Radius < 0
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	camera, err := renderer.NewCamera(sceneObj.CameraConfig)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if pixelX < 0 || pixelX >= camera.Width() || pixelY < 0 || pixelY >= camera.Height() {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, camera, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecToArray(result.HitRecord.Point),
		Normal:       vecToArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

func vecToArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(v core.Vec3) string {
	c := v.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}
