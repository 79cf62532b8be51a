package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string
	Description string
}

type builtin struct {
	info        SceneInfo
	description func() Description
}

var builtins = map[string]builtin{
	"default": {
		SceneInfo{"default", "metal, diffuse and glass spheres on a ground sphere"},
		DefaultSceneDescription,
	},
	"single": {
		SceneInfo{"single", "one diffuse sphere in front of the camera"},
		SingleSphereDescription,
	},
	"spheregrid": {
		SceneInfo{"spheregrid", "20x20 grid of metal, diffuse and glass spheres"},
		func() Description { return SphereGridDescription(20) },
	},
	"empty": {
		SceneInfo{"empty", "background only"},
		EmptyDescription,
	},
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the built-in scenes sorted by name
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, name := range Names() {
		infos = append(infos, builtins[name].info)
	}
	return infos
}

// Describe returns the description of a built-in scene with camera overrides applied.
// Zero fields of the override keep the scene's values.
func Describe(name string, cameraOverrides ...geometry.CameraConfig) (Description, error) {
	b, ok := builtins[name]
	if !ok {
		return Description{}, fmt.Errorf("unknown scene %q (available: %v): %w", name, Names(), core.ErrSceneConstruction)
	}

	desc := b.description()
	if len(cameraOverrides) > 0 {
		desc.Camera = geometry.MergeCameraConfig(desc.Camera, cameraOverrides[0])
	}
	return desc, nil
}

// New builds a built-in scene
func New(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	desc, err := Describe(name, cameraOverrides...)
	if err != nil {
		return nil, err
	}
	return Build(desc)
}
