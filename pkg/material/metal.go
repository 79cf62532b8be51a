package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material. Fuzz outside [0, 1] is kept as given and
// reported by Validate.
func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	unitIn, err := rayIn.Direction.UnitVector()
	if err != nil {
		return ScatterResult{}, false
	}
	reflected := core.Reflect(unitIn, hit.Normal)

	// A perfect mirror consumes no random numbers
	if m.Fuzz > 0 {
		reflected, err = reflected.Add(core.SampleOnUnitSphere(sampler.Get2D()).Multiply(m.Fuzz)).UnitVector()
		if err != nil {
			return ScatterResult{}, false
		}
	}

	// Fuzz can push the reflection below the surface; such rays are absorbed
	if reflected.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected),
		Attenuation: m.Albedo,
	}, true
}

// Validate checks the albedo and the fuzz range
func (m *Metal) Validate() error {
	if err := validateAlbedo("metal", m.Albedo); err != nil {
		return err
	}
	if math.IsNaN(m.Fuzz) || m.Fuzz < 0 || m.Fuzz > 1 {
		return fmt.Errorf("metal fuzz %g outside [0, 1]: %w", m.Fuzz, core.ErrSceneConstruction)
	}
	return nil
}

func (*Metal) material() {}
