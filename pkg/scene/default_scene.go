package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// DefaultSceneDescription returns three spheres on a large ground sphere, with glass in front
func DefaultSceneDescription() Description {
	return Description{
		Camera: geometry.CameraConfig{
			Center:        core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
			LookAt:        core.NewVec3(0, 0.5, -1), // Look at the sphere center
			Up:            core.NewVec3(0, 1, 0),    // Standard up direction
			Width:         400,
			AspectRatio:   16.0 / 9.0,
			VFov:          40.0, // Narrower field of view for focus effect
			Aperture:      0.05,
			FocusDistance: 0.0, // Auto-calculate focus distance
		},
		Background: BackgroundSpec{Kind: BackgroundGradient, Top: core.NewVec3(0.5, 0.7, 1.0), Bottom: core.NewVec3(1, 1, 1)},
		Materials: map[string]MaterialSpec{
			"ground": {Kind: KindLambertian, Albedo: core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6)},
			"red":    {Kind: KindLambertian, Albedo: core.NewVec3(0.65, 0.25, 0.2)},
			"blue":   {Kind: KindLambertian, Albedo: core.NewVec3(0.1, 0.2, 0.5)},
			"silver": {Kind: KindMetal, Albedo: core.NewVec3(0.8, 0.8, 0.8), Fuzz: 0.0},
			"gold":   {Kind: KindMetal, Albedo: core.NewVec3(0.8, 0.6, 0.2), Fuzz: 0.3},
			"glass":  {Kind: KindDielectric, RefractiveIndex: 1.5},
		},
		Spheres: []SphereSpec{
			{Center: core.NewVec3(0, -1000, -1), Radius: 1000, Material: "ground"},
			{Center: core.NewVec3(0, 0.5, -1), Radius: 0.5, Material: "red"},
			{Center: core.NewVec3(-1, 0.5, -1), Radius: 0.5, Material: "silver"},
			{Center: core.NewVec3(1, 0.5, -1), Radius: 0.5, Material: "gold"},
			{Center: core.NewVec3(0.5, 0.25, -0.5), Radius: 0.25, Material: "glass"},
			// Glass shell around a small blue sphere
			{Center: core.NewVec3(-0.5, 0.25, -0.5), Radius: 0.25, Material: "glass"},
			{Center: core.NewVec3(-0.5, 0.25, -0.5), Radius: 0.15, Material: "blue"},
		},
		Sampling: SamplingConfig{
			SamplesPerPixel:           200,
			MaxDepth:                  50,
			RussianRouletteMinBounces: 20, // Need a lot of bounces for complex glass
		},
	}
}

// SingleSphereDescription returns one diffuse sphere one unit in front of a camera at the origin
func SingleSphereDescription() Description {
	return Description{
		Camera: geometry.CameraConfig{
			Center:      core.NewVec3(0, 0, 0),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			Width:       400,
			AspectRatio: 16.0 / 9.0,
			VFov:        90.0,
		},
		Materials: map[string]MaterialSpec{
			"gray": {Kind: KindLambertian, Albedo: core.NewVec3(0.5, 0.5, 0.5)},
		},
		Spheres: []SphereSpec{
			{Center: core.NewVec3(0, 0, -1), Radius: 0.5, Material: "gray"},
		},
		Sampling: SamplingConfig{
			SamplesPerPixel: 100,
			MaxDepth:        50,
		},
	}
}

// EmptyDescription returns a scene with no shapes, only the sky
func EmptyDescription() Description {
	desc := SingleSphereDescription()
	desc.Materials = nil
	desc.Spheres = nil
	desc.Sampling.SamplesPerPixel = 1
	return desc
}
