package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// maxLambertianAttempts bounds resampling when normal + offset cancels out
const maxLambertianAttempts = 8

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering.
// Adding a uniform point on the unit sphere to the normal gives a cosine-weighted
// direction, so the attenuation is the albedo itself. When every offset cancels the
// normal, the direction comes from the cosine-weighted hemisphere directly.
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction, ok := l.sampleDirection(hit.Normal, sampler)
	if !ok {
		direction = core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: l.Albedo,
	}, true
}

func (l *Lambertian) sampleDirection(normal core.Vec3, sampler core.Sampler) (core.Vec3, bool) {
	for attempt := 0; attempt < maxLambertianAttempts; attempt++ {
		candidate, err := normal.Add(core.SampleOnUnitSphere(sampler.Get2D())).UnitVector()
		if err == nil {
			return candidate, true
		}
	}
	return core.Vec3{}, false
}

// Validate checks the albedo
func (l *Lambertian) Validate() error {
	return validateAlbedo("lambertian", l.Albedo)
}

func (*Lambertian) material() {}
