package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	Scene         string
	Width         int
	Samples       int
	Depth         int
	Seed          int64
	Workers       int
	Output        string
	Sky           string
	DefocusAngle  float64
	FocusDistance float64
	Help          bool

	set map[string]bool // flags given explicitly on the command line
}

func parseOptions(args []string, output io.Writer) (options, error) {
	var opts options
	defaults := renderer.DefaultSamplingConfig()

	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.Scene, "scene", "default", "Scene name: "+strings.Join(scene.Names(), ", "))
	fs.IntVar(&opts.Width, "width", 0, "Image width in pixels (0 keeps the scene width)")
	fs.IntVar(&opts.Samples, "samples", defaults.SamplesPerPixel, "Samples per pixel")
	fs.IntVar(&opts.Depth, "depth", defaults.MaxDepth, "Maximum bounce depth")
	fs.Int64Var(&opts.Seed, "seed", defaults.Seed, "Base random seed")
	fs.IntVar(&opts.Workers, "workers", 0, "Worker goroutines (0 = one per CPU, 1 = serial)")
	fs.StringVar(&opts.Output, "out", "", "Output file (.ppm, .ppm.zst, .ppm.sz or .png); default output/<scene>/render_<timestamp>.ppm")
	fs.StringVar(&opts.Sky, "sky", "", "Sky model: directional or gradient (empty keeps the scene sky)")
	fs.Float64Var(&opts.DefocusAngle, "defocus-angle", 0, "Aperture cone angle in degrees, enables depth of field")
	fs.Float64Var(&opts.FocusDistance, "focus-distance", 0, "Distance to the plane in perfect focus")
	fs.BoolVar(&opts.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if opts.Help {
		fmt.Fprintln(output, "Path Tracer")
		fmt.Fprintln(output, "Usage: pathtracer [options]")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Available scenes:")
		for _, info := range scene.ListScenes() {
			fmt.Fprintf(output, "  %-10s %s\n", info.ID, info.Description)
		}
	}

	return opts, nil
}

// createScene builds the named scene with command line overrides applied
func createScene(opts options) (*scene.Scene, error) {
	var cameraOverrides renderer.CameraConfig
	if opts.set["width"] {
		if opts.Width <= 0 {
			return nil, fmt.Errorf("%w: width must be positive, got %d", renderer.ErrInvalidCamera, opts.Width)
		}
		cameraOverrides.Width = opts.Width
	}

	sceneObj, err := scene.NewScene(opts.Scene, cameraOverrides)
	if err != nil {
		return nil, err
	}

	// Zero is meaningful for these, so they bypass the merge
	if opts.set["defocus-angle"] {
		sceneObj.CameraConfig.DefocusAngle = opts.DefocusAngle
	}
	if opts.set["focus-distance"] {
		sceneObj.CameraConfig.FocusDistance = opts.FocusDistance
	}

	if opts.set["samples"] {
		sceneObj.SamplingConfig.SamplesPerPixel = opts.Samples
	}
	if opts.set["depth"] {
		sceneObj.SamplingConfig.MaxDepth = opts.Depth
	}
	if opts.set["seed"] {
		sceneObj.SamplingConfig.Seed = opts.Seed
	}

	switch opts.Sky {
	case "":
	case "directional":
		sceneObj.Sky = integrator.DefaultSkyConfig()
	case "gradient":
		sceneObj.Sky = integrator.GradientSkyConfig()
	default:
		return nil, fmt.Errorf("unknown sky model %q (use directional or gradient)", opts.Sky)
	}

	return sceneObj, nil
}

// outputPath returns the explicit output file or a timestamped one under output/<scene>
func outputPath(opts options, now time.Time) string {
	if opts.Output != "" {
		return opts.Output
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", opts.Scene, fmt.Sprintf("render_%s.ppm", timestamp))
}

// run renders the selected scene and saves it, returning the written path
func run(ctx context.Context, opts options, logger core.Logger) (string, error) {
	sceneObj, err := createScene(opts)
	if err != nil {
		return "", err
	}

	path := outputPath(opts, time.Now())
	if _, err := loaders.FormatForPath(path); err != nil {
		return "", err
	}

	raytracer, err := sceneObj.NewRaytracer()
	if err != nil {
		return "", err
	}
	raytracer.SetLogger(logger)

	lastReported := -1
	raytracer.SetProgressFunc(func(percent int) {
		if percent/10 != lastReported/10 {
			lastReported = percent
			logger.Printf("Progress: %d%%\n", percent)
		}
	})

	logger.Printf("Using %s scene (%d shapes)...\n", sceneObj.Name, sceneObj.GetPrimitiveCount())

	var img *renderer.Image
	if opts.Workers == 1 {
		img, _, err = raytracer.Render(ctx)
	} else {
		img, _, err = raytracer.RenderParallel(ctx, opts.Workers)
	}
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if err := loaders.SaveImage(path, img); err != nil {
		return "", err
	}

	return path, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if opts.Help {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := renderer.NewDefaultLogger()
	logger.Printf("Starting Path Tracer...\n")

	path, err := run(ctx, opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}

	logger.Printf("Render saved as %s\n", path)
}
