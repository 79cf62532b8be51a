package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Dielectrics always attenuate by 1.0 (no color absorption for clear glass)
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	// Determine if we're entering or exiting the material
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	} else {
		refractionRatio = d.RefractiveIndex
	}

	unitDirection, err := rayIn.Direction.UnitVector()
	if err != nil {
		return ScatterResult{}, false
	}

	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)

	var direction core.Vec3
	if !core.CanRefract(cosTheta, refractionRatio) || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = core.Reflect(unitDirection, hit.Normal)
	} else {
		direction = core.Refract(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction.Normalize()),
		Attenuation: attenuation,
	}, true
}

// Validate checks that the refractive index is positive and finite
func (d *Dielectric) Validate() error {
	if !(d.RefractiveIndex > 0) || math.IsInf(d.RefractiveIndex, 0) {
		return fmt.Errorf("dielectric refractive index %g: %w", d.RefractiveIndex, core.ErrSceneConstruction)
	}
	return nil
}

func (*Dielectric) material() {}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation.
// An index-matched boundary has no interface and reflects nothing.
func Reflectance(cosine, refractionRatio float64) float64 {
	if refractionRatio == 1 {
		return 0
	}
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
