package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Builder creates a scene, optionally overriding parts of its camera
type Builder func(cameraOverrides ...renderer.CameraConfig) *Scene

var builtins = map[string]Builder{
	"default":   NewDefaultScene,
	"materials": NewMaterialsScene,
	"defocus":   NewDefocusScene,
}

// NewScene looks up a built-in scene by name
func NewScene(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return build(cameraOverrides...), nil
}

// Names returns the registered scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns a description of every built-in scene, sorted by name
func ListScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range Names() {
		s := builtins[name]()
		scenes = append(scenes, SceneInfo{ID: name, Description: s.Description})
	}
	return scenes
}
