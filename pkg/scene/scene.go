package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Shapes         []geometry.Shape // Objects in the scene
	Environment    Background       // Radiance of escaping rays
	SamplingConfig SamplingConfig
	BVH            *geometry.BVH // Acceleration structure for ray-object intersection
}

// SamplingConfig holds the render settings a scene suggests
type SamplingConfig struct {
	SamplesPerPixel           int // Number of rays per pixel
	MaxDepth                  int // Maximum ray bounce depth
	RussianRouletteMinBounces int // Minimum bounces before Russian roulette can activate, 0 disables it
}

// Preprocess validates every shape and builds the BVH. The scene must not be modified afterwards.
func (s *Scene) Preprocess() error {
	if s.Camera == nil {
		return fmt.Errorf("scene has no camera: %w", core.ErrSceneConstruction)
	}
	if s.Environment == nil {
		s.Environment = DefaultBackground()
	}

	for i, shape := range s.Shapes {
		if shape == nil {
			return fmt.Errorf("shape %d is nil: %w", i, core.ErrSceneConstruction)
		}
		if err := shape.Validate(); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}

	bvh, err := geometry.NewBVH(s.Shapes)
	if err != nil {
		return err
	}
	s.BVH = bvh
	return nil
}

// Hit finds the closest intersection, falling back to a linear scan before Preprocess
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if s.BVH == nil {
		return geometry.ShapeList(s.Shapes).Hit(ray, tMin, tMax)
	}
	return s.BVH.Hit(ray, tMin, tMax)
}

// Background returns the environment radiance for an escaping ray direction
func (s *Scene) Background(direction core.Vec3) core.Vec3 {
	if s.Environment == nil {
		return core.Vec3{}
	}
	return s.Environment.Color(direction)
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *geometry.Camera {
	return s.Camera
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}
