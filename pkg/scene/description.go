package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MaterialKind names a material variant in a Description
type MaterialKind string

const (
	KindLambertian MaterialKind = "lambertian"
	KindMetal      MaterialKind = "metal"
	KindDielectric MaterialKind = "dielectric"
	KindAbsorber   MaterialKind = "absorber"
)

// MaterialSpec describes one entry of the material palette.
// Fields not used by Kind are ignored.
type MaterialSpec struct {
	Kind            MaterialKind
	Albedo          core.Vec3 // lambertian, metal
	Fuzz            float64   // metal
	RefractiveIndex float64   // dielectric
}

// SphereSpec places a sphere and refers to a palette entry by name
type SphereSpec struct {
	Center   core.Vec3
	Radius   float64
	Material string
}

// Description is a complete scene before validation: an ordered shape list,
// a named material palette, camera parameters and a background
type Description struct {
	Camera     geometry.CameraConfig
	Background BackgroundSpec
	Materials  map[string]MaterialSpec
	Spheres    []SphereSpec
	Sampling   SamplingConfig
}

// Build resolves material references, validates everything and returns a preprocessed scene.
// Every validation failure wraps core.ErrSceneConstruction.
func Build(desc Description) (*Scene, error) {
	// Sorted so the first reported error does not depend on map order
	names := make([]string, 0, len(desc.Materials))
	for name := range desc.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	palette := make(map[string]material.Material, len(names))
	for _, name := range names {
		mat, err := desc.Materials[name].build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		palette[name] = mat
	}

	shapes := make([]geometry.Shape, 0, len(desc.Spheres))
	for i, spec := range desc.Spheres {
		mat, ok := palette[spec.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d references unknown material %q: %w", i, spec.Material, core.ErrSceneConstruction)
		}
		shapes = append(shapes, geometry.NewSphere(spec.Center, spec.Radius, mat))
	}

	camera, err := geometry.NewCamera(desc.Camera)
	if err != nil {
		return nil, err
	}
	background, err := desc.Background.build()
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Camera:         camera,
		CameraConfig:   desc.Camera,
		Shapes:         shapes,
		Environment:    background,
		SamplingConfig: desc.Sampling,
	}
	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}

func (m MaterialSpec) build() (material.Material, error) {
	var mat material.Material
	switch m.Kind {
	case KindLambertian:
		mat = material.NewLambertian(m.Albedo)
	case KindMetal:
		mat = material.NewMetal(m.Albedo, m.Fuzz)
	case KindDielectric:
		mat = material.NewDielectric(m.RefractiveIndex)
	case KindAbsorber:
		mat = material.NewAbsorber()
	default:
		return nil, fmt.Errorf("unknown material kind %q: %w", m.Kind, core.ErrSceneConstruction)
	}
	if err := mat.Validate(); err != nil {
		return nil, err
	}
	return mat, nil
}
