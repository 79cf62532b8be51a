package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Background returns the radiance seen along rays that escape the scene
type Background interface {
	Color(direction core.Vec3) core.Vec3
}

// Gradient blends from Bottom to Top with the height of the ray direction
type Gradient struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// NewGradient creates a vertical sky gradient
func NewGradient(top, bottom core.Vec3) Gradient {
	return Gradient{Top: top, Bottom: bottom}
}

// Color maps direction.Y from [-1,1] to a blend factor in [0,1]
func (g Gradient) Color(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return g.Bottom.Multiply(1.0 - t).Add(g.Top.Multiply(t))
}

// Uniform is the same radiance in every direction
type Uniform struct {
	Emission core.Vec3
}

// Color returns the constant emission
func (u Uniform) Color(core.Vec3) core.Vec3 {
	return u.Emission
}

// DefaultBackground is the blue-to-white sky shared by the built-in scenes
func DefaultBackground() Gradient {
	return NewGradient(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0))
}

// BackgroundKind names a background variant in a Description
type BackgroundKind string

const (
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundUniform  BackgroundKind = "uniform"
)

// BackgroundSpec describes the background of a scene. An empty Kind selects the default sky.
type BackgroundSpec struct {
	Kind   BackgroundKind
	Top    core.Vec3 // gradient
	Bottom core.Vec3 // gradient
	Color  core.Vec3 // uniform
}

func (b BackgroundSpec) build() (Background, error) {
	switch b.Kind {
	case "":
		return DefaultBackground(), nil
	case BackgroundGradient:
		if !b.Top.IsFinite() || !b.Bottom.IsFinite() {
			return nil, fmt.Errorf("gradient background must be finite: %w", core.ErrSceneConstruction)
		}
		return NewGradient(b.Top, b.Bottom), nil
	case BackgroundUniform:
		if !b.Color.IsFinite() {
			return nil, fmt.Errorf("uniform background must be finite: %w", core.ErrSceneConstruction)
		}
		return Uniform{Emission: b.Color}, nil
	default:
		return nil, fmt.Errorf("unknown background kind %q: %w", b.Kind, core.ErrSceneConstruction)
	}
}
