package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// ErrInvalidSampling is returned for sampling settings that cannot render
var ErrInvalidSampling = errors.New("invalid sampling configuration")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Base seed; every row derives its own generator from it
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 32,
		MaxDepth:        8,
		Seed:            42,
	}
}

// Validate reports every problem with the configuration in one error
func (c SamplingConfig) Validate() error {
	var problems []string
	if c.SamplesPerPixel <= 0 {
		problems = append(problems, fmt.Sprintf("samples per pixel must be positive, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth < 0 {
		problems = append(problems, fmt.Sprintf("max depth must be non-negative, got %d", c.MaxDepth))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSampling, strings.Join(problems, "; "))
	}
	return nil
}

// ProgressFunc receives the completed percentage after each finished row
type ProgressFunc func(percent int)

// Raytracer drives the camera and integrator over every pixel of the image
type Raytracer struct {
	camera     *Camera
	world      core.Shape
	integrator integrator.Integrator
	config     SamplingConfig
	logger     core.Logger
	progress   ProgressFunc
}

// NewRaytracer creates a new raytracer
func NewRaytracer(camera *Camera, world core.Shape, integ integrator.Integrator, config SamplingConfig) (*Raytracer, error) {
	if camera == nil {
		return nil, fmt.Errorf("%w: camera is nil", ErrInvalidCamera)
	}
	if world == nil {
		return nil, errors.New("raytracer needs a world to render")
	}
	if integ == nil {
		return nil, errors.New("raytracer needs an integrator")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Raytracer{
		camera:     camera,
		world:      world,
		integrator: integ,
		config:     config,
		logger:     core.NopLogger{},
	}, nil
}

// SetLogger replaces the logger used for render summaries
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	rt.logger = logger
}

// SetProgressFunc installs a progress callback, nil disables reporting
func (rt *Raytracer) SetProgressFunc(fn ProgressFunc) {
	rt.progress = fn
}

// Camera returns the camera used for primary rays
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// RenderRow traces every pixel of row j into out, which must hold Width pixels.
// The row owns a generator seeded from the base seed, so a row renders the
// same regardless of which goroutine traces it.
func (rt *Raytracer) RenderRow(j int, out []core.RGB) {
	sampler := core.NewSeededSampler(core.SeedForRow(rt.config.Seed, j))
	width := rt.camera.Width()

	for i := 0; i < width; i++ {
		colorAccum := core.Vec3{}
		for s := 0; s < rt.config.SamplesPerPixel; s++ {
			ray := rt.camera.GetRay(i, j, sampler)
			colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, rt.world, sampler, rt.config.MaxDepth))
		}
		out[i] = ToneMap(colorAccum, rt.config.SamplesPerPixel)
	}
}

// Render traces the image one row at a time, top row first
func (rt *Raytracer) Render(ctx context.Context) (*Image, RenderStats, error) {
	start := time.Now()
	width, height := rt.camera.Width(), rt.camera.Height()
	img := NewImage(width, height)

	rt.logger.Printf("Rendering %dx%d, %d samples per pixel, max depth %d\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth)

	for j := 0; j < height; j++ {
		if err := ctx.Err(); err != nil {
			return nil, RenderStats{}, fmt.Errorf("render cancelled at row %d: %w", j, err)
		}
		rt.RenderRow(j, img.Row(j))
		rt.reportProgress(((j + 1) * 100) / height)
	}

	stats := rt.stats(1, time.Since(start))
	rt.logger.Printf("Render complete: %v\n", stats)
	return img, stats, nil
}

// RenderParallel distributes rows over a worker pool. The result is
// identical to Render for the same configuration.
func (rt *Raytracer) RenderParallel(ctx context.Context, numWorkers int) (*Image, RenderStats, error) {
	start := time.Now()
	width, height := rt.camera.Width(), rt.camera.Height()
	img := NewImage(width, height)

	pool := NewWorkerPool(rt, height, numWorkers)
	rt.logger.Printf("Rendering %dx%d, %d samples per pixel, max depth %d, %d workers\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, pool.GetNumWorkers())

	pool.Start(ctx)
	for j := 0; j < height; j++ {
		pool.SubmitTask(RowTask{Row: j})
	}
	go pool.Stop()

	var firstErr error
	completed := 0
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("render cancelled at row %d: %w", result.Row, result.Error)
			}
			continue
		}
		copy(img.Row(result.Row), result.Pixels)
		completed++
		if firstErr == nil {
			rt.reportProgress((completed * 100) / height)
		}
	}

	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	stats := rt.stats(pool.GetNumWorkers(), time.Since(start))
	rt.logger.Printf("Render complete: %v\n", stats)
	return img, stats, nil
}

func (rt *Raytracer) reportProgress(percent int) {
	if rt.progress != nil {
		rt.progress(percent)
	}
}

func (rt *Raytracer) stats(workers int, elapsed time.Duration) RenderStats {
	width, height := rt.camera.Width(), rt.camera.Height()
	return RenderStats{
		Width:        width,
		Height:       height,
		TotalPixels:  width * height,
		TotalSamples: width * height * rt.config.SamplesPerPixel,
		Workers:      workers,
		Duration:     elapsed,
	}
}
