package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// sphereGridSeed fixes the material choices of the grid so every run sees the same scene
const sphereGridSeed = 2024

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// SphereGridDescription returns a gridSize x gridSize field of small spheres on a ground sphere.
// Colors follow an OKLCH sweep; the material of each cell is drawn from a fixed-seed sampler.
func SphereGridDescription(gridSize int) Description {
	desc := Description{
		Camera: geometry.CameraConfig{
			Center:        core.NewVec3(4.5, 6, 18),    // Position camera farther back and slightly lower
			LookAt:        core.NewVec3(4.5, 0.8, 4.5), // Look at center of grid, slightly lower
			Up:            core.NewVec3(0, 1, 0),
			Width:         800,
			AspectRatio:   16.0 / 9.0,
			VFov:          40.0,
			Aperture:      0.02, // Small depth of field for some focus variation
			FocusDistance: 0.0,
		},
		Background: BackgroundSpec{Kind: BackgroundGradient, Top: core.NewVec3(0.5, 0.7, 1.0), Bottom: core.NewVec3(1, 1, 1)},
		Materials: map[string]MaterialSpec{
			"ground": {Kind: KindLambertian, Albedo: core.NewVec3(0.5, 0.5, 0.5)},
			"glass":  {Kind: KindDielectric, RefractiveIndex: 1.5},
		},
		Spheres: []SphereSpec{
			{Center: core.NewVec3(4.5, -1000, 4.5), Radius: 1000, Material: "ground"},
		},
		Sampling: SamplingConfig{
			SamplesPerPixel:           100,
			MaxDepth:                  40,
			RussianRouletteMinBounces: 12, // Moderate bounces for metallic reflections
		},
	}
	if gridSize < 2 {
		return desc
	}

	// Fit the grid into the same visual area regardless of its size
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	sampler := core.NewRandomSampler(sphereGridSeed)
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			name := fmt.Sprintf("cell_%d_%d", i, j)
			sampler.Reseed(sphereGridSeed, i, j, 0)
			switch choice := sampler.Get1D(); {
			case choice < 0.6:
				roughness := 0.05 + 0.1*float64((i+j)%3)/2.0
				desc.Materials[name] = MaterialSpec{Kind: KindMetal, Albedo: color, Fuzz: roughness}
			case choice < 0.9:
				desc.Materials[name] = MaterialSpec{Kind: KindLambertian, Albedo: color}
			default:
				name = "glass"
			}

			desc.Spheres = append(desc.Spheres, SphereSpec{Center: position, Radius: sphereRadius, Material: name})
		}
	}

	return desc
}
