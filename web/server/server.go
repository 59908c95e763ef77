package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

//go:embed static/index.html
var indexPage []byte

// Server handles web requests for the path tracer
type Server struct {
	port int
	mux  *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	s := &Server{port: port, mux: http.NewServeMux()}

	s.mux.HandleFunc("/", s.handleIndex)

	// API endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/ws/render", s.handleRender)

	return s
}

// Handler exposes the routes, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Built-in scene name
	Width   int    `json:"width"`   // Image width, height follows the scene's aspect ratio
	Samples int    `json:"samples"` // Samples per pixel
	Depth   int    `json:"depth"`   // Maximum bounce depth
	Seed    int64  `json:"seed"`    // Base random seed
	Sky     string `json:"sky"`     // "directional", "gradient" or empty for the scene default
}

// handleIndex serves the bundled render client
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": scene.ListScenes()})
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: "default"}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	defaults := renderer.DefaultSamplingConfig()

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 8, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", defaults.SamplesPerPixel, 1, 10000); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", defaults.MaxDepth, 0, 1000); err != nil {
		return nil, err
	}
	if req.Seed, err = parseSeedParam(values, "seed", defaults.Seed); err != nil {
		return nil, err
	}

	req.Sky = values.Get("sky")
	if req.Sky != "" && req.Sky != "directional" && req.Sky != "gradient" {
		return nil, fmt.Errorf("sky must be directional or gradient, got: %s", req.Sky)
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func parseSeedParam(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene with the request's overrides applied
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.NewScene(req.Scene, renderer.CameraConfig{Width: req.Width})
	if err != nil {
		return nil, err
	}

	sceneObj.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.Depth,
		Seed:            req.Seed,
	}

	switch req.Sky {
	case "directional":
		sceneObj.Sky = integrator.DefaultSkyConfig()
	case "gradient":
		sceneObj.Sky = integrator.GradientSkyConfig()
	}

	return sceneObj, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
