package renderer

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrInvalidCamera is returned when a camera configuration cannot produce a view
var ErrInvalidCamera = errors.New("invalid camera configuration")

// DefaultFocusDistance is used when CameraConfig.FocusDistance is zero
const DefaultFocusDistance = 1.0

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center        core.Vec3 // Camera position (look from)
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	Width         int       // Image width in pixels
	AspectRatio   float64   // Width / height; height is truncated to an integer
	VFov          float64   // Vertical field of view in degrees
	DefocusAngle  float64   // Aperture cone angle in degrees, 0 disables depth of field
	FocusDistance float64   // Distance to the plane of perfect focus, 0 means DefaultFocusDistance
}

// Camera generates rays for rendering
type Camera struct {
	config       CameraConfig
	height       int
	center       core.Vec3
	pixel00Loc   core.Vec3 // Center of the top-left pixel
	pixelDeltaU  core.Vec3 // Offset to the pixel to the right
	pixelDeltaV  core.Vec3 // Offset to the pixel below
	defocusDiskU core.Vec3
	defocusDiskV core.Vec3
	u, v, w      core.Vec3 // Camera basis, w points away from the view direction
}

// MergeCameraConfig overlays the non-zero fields of overrides onto base.
// A zero field means "keep base", so an override cannot move the camera to the
// origin or turn depth of field off; assign those fields directly instead.
func MergeCameraConfig(base, overrides CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}

	if overrides.Center != zero {
		result.Center = overrides.Center
	}
	if overrides.LookAt != zero {
		result.LookAt = overrides.LookAt
	}
	if overrides.Up != zero {
		result.Up = overrides.Up
	}
	if overrides.Width != 0 {
		result.Width = overrides.Width
	}
	if overrides.AspectRatio != 0 {
		result.AspectRatio = overrides.AspectRatio
	}
	if overrides.VFov != 0 {
		result.VFov = overrides.VFov
	}
	if overrides.DefocusAngle != 0 {
		result.DefocusAngle = overrides.DefocusAngle
	}
	if overrides.FocusDistance != 0 {
		result.FocusDistance = overrides.FocusDistance
	}

	return result
}

// Height returns the image height derived from width and aspect ratio
func (c CameraConfig) Height() int {
	if c.AspectRatio <= 0 {
		return 0
	}
	return int(float64(c.Width) / c.AspectRatio)
}

// Validate reports every problem with the configuration in one error
func (c CameraConfig) Validate() error {
	var problems []string

	if c.Width <= 0 {
		problems = append(problems, fmt.Sprintf("width must be positive, got %d", c.Width))
	}
	if c.AspectRatio <= 0 || math.IsNaN(c.AspectRatio) || math.IsInf(c.AspectRatio, 0) {
		problems = append(problems, fmt.Sprintf("aspect ratio must be a positive number, got %v", c.AspectRatio))
	} else if c.Width > 0 && c.Height() < 1 {
		problems = append(problems, fmt.Sprintf("width %d and aspect ratio %v give an image height below 1", c.Width, c.AspectRatio))
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		problems = append(problems, fmt.Sprintf("vertical field of view must be in (0, 180) degrees, got %v", c.VFov))
	}
	if !(c.DefocusAngle >= 0 && c.DefocusAngle < 180) {
		problems = append(problems, fmt.Sprintf("defocus angle must be in [0, 180) degrees, got %v", c.DefocusAngle))
	}
	if !(c.FocusDistance >= 0) || math.IsInf(c.FocusDistance, 0) {
		problems = append(problems, fmt.Sprintf("focus distance must be a finite non-negative number, got %v", c.FocusDistance))
	}

	finite := true
	for _, f := range []struct {
		name string
		v    core.Vec3
	}{{"look-from", c.Center}, {"look-at", c.LookAt}, {"up", c.Up}} {
		if !isFinite(f.v) {
			problems = append(problems, fmt.Sprintf("%s must be finite, got %v", f.name, f.v))
			finite = false
		}
	}

	if finite {
		view := toMgl(c.Center).Sub(toMgl(c.LookAt))
		up := toMgl(c.Up)
		switch {
		case view.Len() == 0:
			problems = append(problems, fmt.Sprintf("look-from and look-at must differ, both are %v", c.Center))
		case up.Len() == 0:
			problems = append(problems, "up vector must be non-zero")
		case up.Normalize().Cross(view.Normalize()).Len() < 1e-12:
			problems = append(problems, fmt.Sprintf("up vector %v must not be parallel to the view direction", c.Up))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCamera, strings.Join(problems, "; "))
	}
	return nil
}

// NewCamera validates the configuration and precomputes the viewport
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = DefaultFocusDistance
	}
	height := config.Height()

	// Orthonormal basis
	w := toMgl(config.Center).Sub(toMgl(config.LookAt)).Normalize()
	u := toMgl(config.Up).Cross(w).Normalize()
	v := w.Cross(u)

	theta := mgl64.DegToRad(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * focusDistance
	viewportWidth := viewportHeight * float64(config.Width) / float64(height)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := u.Mul(viewportWidth)
	viewportV := v.Mul(-viewportHeight)

	pixelDeltaU := viewportU.Mul(1 / float64(config.Width))
	pixelDeltaV := viewportV.Mul(1 / float64(height))

	center := toMgl(config.Center)
	viewportUpperLeft := center.
		Sub(w.Mul(focusDistance)).
		Sub(viewportU.Mul(0.5)).
		Sub(viewportV.Mul(0.5))
	pixel00Loc := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Mul(0.5))

	defocusRadius := focusDistance * math.Tan(mgl64.DegToRad(config.DefocusAngle/2))

	return &Camera{
		config:       config,
		height:       height,
		center:       config.Center,
		pixel00Loc:   fromMgl(pixel00Loc),
		pixelDeltaU:  fromMgl(pixelDeltaU),
		pixelDeltaV:  fromMgl(pixelDeltaV),
		defocusDiskU: fromMgl(u.Mul(defocusRadius)),
		defocusDiskV: fromMgl(v.Mul(defocusRadius)),
		u:            fromMgl(u),
		v:            fromMgl(v),
		w:            fromMgl(w),
	}, nil
}

// GetRay returns a jittered ray through pixel (i, j), with (0, 0) the top-left pixel.
// With depth of field enabled the origin is sampled on the defocus disk.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offsetX := sampler.Get1D() - 0.5
	offsetY := sampler.Get1D() - 0.5

	pixelSample := c.pixel00Loc.
		Add(c.pixelDeltaU.Multiply(float64(i) + offsetX)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offsetY))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		origin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

// defocusDiskSample returns a random point on the camera's defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.SamplePointInUnitDisk(sampler.Get1D(), sampler.Get1D())
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.height
}

// Center returns the camera position
func (c *Camera) Center() core.Vec3 {
	return c.center
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// GetCameraForward returns the normalized viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

func isFinite(v core.Vec3) bool {
	for _, x := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
