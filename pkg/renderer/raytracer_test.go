package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// createTestRaytracer builds the diffuse sphere over a ground sphere at a small resolution
func createTestRaytracer(t *testing.T, sky integrator.SkyConfig, width int, config SamplingConfig) *Raytracer {
	t.Helper()

	diffuse := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, diffuse),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, diffuse),
	)

	cameraConfig := testCameraConfig()
	cameraConfig.Width = width
	cameraConfig.AspectRatio = 2.0

	camera, err := NewCamera(cameraConfig)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	rt, err := NewRaytracer(camera, world, integrator.NewPathTracingIntegrator(sky), config)
	if err != nil {
		t.Fatalf("NewRaytracer: %v", err)
	}
	return rt
}

func TestSamplingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  SamplingConfig
		wantErr bool
	}{
		{"defaults", DefaultSamplingConfig(), false},
		{"zero depth renders black hits", SamplingConfig{SamplesPerPixel: 1, MaxDepth: 0}, false},
		{"zero samples", SamplingConfig{SamplesPerPixel: 0, MaxDepth: 5}, true},
		{"negative samples", SamplingConfig{SamplesPerPixel: -4, MaxDepth: 5}, true},
		{"negative depth", SamplingConfig{SamplesPerPixel: 1, MaxDepth: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSampling) {
				t.Errorf("Expected ErrInvalidSampling, got %v", err)
			}
		})
	}
}

func TestNewRaytracer_RejectsInvalidInput(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	world := geometry.NewHittableList()
	integ := integrator.NewPathTracingIntegrator(integrator.DefaultSkyConfig())

	if _, err := NewRaytracer(nil, world, integ, DefaultSamplingConfig()); !errors.Is(err, ErrInvalidCamera) {
		t.Errorf("Expected ErrInvalidCamera for nil camera, got %v", err)
	}
	if _, err := NewRaytracer(camera, nil, integ, DefaultSamplingConfig()); err == nil {
		t.Error("Expected error for nil world")
	}
	if _, err := NewRaytracer(camera, world, nil, DefaultSamplingConfig()); err == nil {
		t.Error("Expected error for nil integrator")
	}
	if _, err := NewRaytracer(camera, world, integ, SamplingConfig{}); !errors.Is(err, ErrInvalidSampling) {
		t.Errorf("Expected ErrInvalidSampling, got %v", err)
	}
}

func TestRaytracer_FirstPixelReplaysSky(t *testing.T) {
	skies := map[string]integrator.SkyConfig{
		"gradient":    integrator.GradientSkyConfig(),
		"directional": integrator.DefaultSkyConfig(),
	}

	for name, sky := range skies {
		t.Run(name, func(t *testing.T) {
			config := SamplingConfig{SamplesPerPixel: 1, MaxDepth: 8, Seed: 42}
			rt := createTestRaytracer(t, sky, 40, config)

			img, _, err := rt.Render(context.Background())
			if err != nil {
				t.Fatalf("Render: %v", err)
			}

			// The top-left ray points up and away from both spheres, so the
			// pixel is the sky seen along the first camera ray of row 0
			sampler := core.NewSeededSampler(core.SeedForRow(config.Seed, 0))
			ray := rt.Camera().GetRay(0, 0, sampler)
			expected := ToneMap(sky.Color(ray.Direction), 1)

			if got := img.At(0, 0); got != expected {
				t.Errorf("Expected pixel (0,0) = %v, got %v", expected, got)
			}
		})
	}
}

func TestRaytracer_CenterPixelIsLitDiffuse(t *testing.T) {
	config := SamplingConfig{SamplesPerPixel: 400, MaxDepth: 2, Seed: 7}
	rt := createTestRaytracer(t, integrator.GradientSkyConfig(), 41, config)

	row := make([]core.RGB, rt.Camera().Width())
	center := rt.Camera().Height() / 2
	rt.RenderRow(center, row)

	pixel := row[rt.Camera().Width()/2]
	for _, c := range []uint8{pixel.R, pixel.G, pixel.B} {
		if c < 60 || c > 220 {
			t.Errorf("Expected a mid-tone for the sky-lit sphere, got %v", pixel)
			break
		}
	}
	if pixel.B < pixel.R {
		t.Errorf("Sky light should tint the sphere blue, got %v", pixel)
	}
}

func TestRaytracer_ZeroDepthSphereIsBlack(t *testing.T) {
	config := SamplingConfig{SamplesPerPixel: 4, MaxDepth: 0, Seed: 1}
	rt := createTestRaytracer(t, integrator.GradientSkyConfig(), 20, config)

	img, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i, p := range img.Pixels {
		if p != (core.RGB{}) {
			t.Fatalf("Expected every pixel black at depth 0, pixel %d is %v", i, p)
		}
	}
}

func TestRaytracer_Deterministic(t *testing.T) {
	config := SamplingConfig{SamplesPerPixel: 3, MaxDepth: 5, Seed: 99}
	first, _, err := createTestRaytracer(t, integrator.DefaultSkyConfig(), 32, config).Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, _, err := createTestRaytracer(t, integrator.DefaultSkyConfig(), 32, config).Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for i := range first.Pixels {
		if first.Pixels[i] != second.Pixels[i] {
			t.Fatalf("Pixel %d differs between identical renders: %v vs %v", i, first.Pixels[i], second.Pixels[i])
		}
	}

	other := config
	other.Seed = 100
	third, _, err := createTestRaytracer(t, integrator.DefaultSkyConfig(), 32, other).Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	same := true
	for i := range first.Pixels {
		if first.Pixels[i] != third.Pixels[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds should produce different noise")
	}
}

func TestRaytracer_ParallelMatchesSerial(t *testing.T) {
	config := SamplingConfig{SamplesPerPixel: 2, MaxDepth: 6, Seed: 5}
	serial, serialStats, err := createTestRaytracer(t, integrator.DefaultSkyConfig(), 48, config).Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if serialStats.Workers != 1 {
		t.Errorf("Serial render should report one worker, got %d", serialStats.Workers)
	}

	for _, workers := range []int{1, 3, 8, 0} {
		rt := createTestRaytracer(t, integrator.DefaultSkyConfig(), 48, config)
		parallel, stats, err := rt.RenderParallel(context.Background(), workers)
		if err != nil {
			t.Fatalf("RenderParallel(%d): %v", workers, err)
		}
		if stats.Workers < 1 {
			t.Errorf("Expected at least one worker, got %d", stats.Workers)
		}
		for i := range serial.Pixels {
			if serial.Pixels[i] != parallel.Pixels[i] {
				t.Fatalf("%d workers: pixel %d is %v, serial render has %v", workers, i, parallel.Pixels[i], serial.Pixels[i])
			}
		}
	}
}

func TestRaytracer_Stats(t *testing.T) {
	config := SamplingConfig{SamplesPerPixel: 3, MaxDepth: 2, Seed: 1}
	rt := createTestRaytracer(t, integrator.DefaultSkyConfig(), 20, config)

	img, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Width != 20 || img.Height != 10 {
		t.Errorf("Expected 20x10 image, got %dx%d", img.Width, img.Height)
	}
	if stats.TotalPixels != 200 {
		t.Errorf("Expected 200 pixels, got %d", stats.TotalPixels)
	}
	if stats.TotalSamples != 600 {
		t.Errorf("Expected 600 samples, got %d", stats.TotalSamples)
	}
	if stats.String() == "" {
		t.Error("Expected a printable summary")
	}
}

func TestRaytracer_ProgressMonotonic(t *testing.T) {
	config := SamplingConfig{SamplesPerPixel: 1, MaxDepth: 2, Seed: 1}

	renders := map[string]func(*Raytracer) error{
		"serial": func(rt *Raytracer) error {
			_, _, err := rt.Render(context.Background())
			return err
		},
		"parallel": func(rt *Raytracer) error {
			_, _, err := rt.RenderParallel(context.Background(), 4)
			return err
		},
	}

	for name, render := range renders {
		t.Run(name, func(t *testing.T) {
			rt := createTestRaytracer(t, integrator.DefaultSkyConfig(), 30, config)

			var updates []int
			rt.SetProgressFunc(func(percent int) {
				updates = append(updates, percent)
			})
			if err := render(rt); err != nil {
				t.Fatalf("render: %v", err)
			}

			if len(updates) != rt.Camera().Height() {
				t.Errorf("Expected one update per row (%d), got %d", rt.Camera().Height(), len(updates))
			}
			for i := 1; i < len(updates); i++ {
				if updates[i] < updates[i-1] {
					t.Fatalf("Progress went backwards: %v", updates)
				}
			}
			if len(updates) == 0 || updates[len(updates)-1] != 100 {
				t.Errorf("Expected progress to finish at 100, got %v", updates)
			}
		})
	}
}

func TestRaytracer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rt := createTestRaytracer(t, integrator.DefaultSkyConfig(), 20, DefaultSamplingConfig())

	if _, _, err := rt.Render(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Render: expected context.Canceled, got %v", err)
	}
	if _, _, err := rt.RenderParallel(ctx, 4); !errors.Is(err, context.Canceled) {
		t.Errorf("RenderParallel: expected context.Canceled, got %v", err)
	}
}

func TestWorkerPool_ClampsWorkers(t *testing.T) {
	rt := createTestRaytracer(t, integrator.DefaultSkyConfig(), 8, DefaultSamplingConfig())
	pool := NewWorkerPool(rt, 4, 16)
	if pool.GetNumWorkers() != 4 {
		t.Errorf("Expected workers clamped to 4 rows, got %d", pool.GetNumWorkers())
	}
	if NewWorkerPool(rt, 4, 0).GetNumWorkers() < 1 {
		t.Error("Expected a positive default worker count")
	}
}

func TestImage_ToRGBA(t *testing.T) {
	img := NewImage(3, 2)
	img.Set(2, 1, core.RGB{R: 10, G: 20, B: 30})

	rgba := img.ToRGBA()
	if rgba.Bounds().Dx() != 3 || rgba.Bounds().Dy() != 2 {
		t.Fatalf("Expected 3x2 bounds, got %v", rgba.Bounds())
	}
	c := rgba.RGBAAt(2, 1)
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 255 {
		t.Errorf("Expected opaque (10,20,30), got %v", c)
	}
	if rgba.RGBAAt(0, 0).A != 255 {
		t.Error("Untouched pixels should be opaque black")
	}
}
