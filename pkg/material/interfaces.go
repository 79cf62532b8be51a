package material

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Material decides how a ray interacts with a surface.
// The set of materials is closed: Lambertian, Metal, Dielectric and Absorber.
type Material interface {
	// Scatter returns the continuation ray and its attenuation, or false when the ray is absorbed
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// Validate reports invalid parameters wrapped in core.ErrSceneConstruction
	Validate() error

	material()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray, with a unit direction
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection, always opposing the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// validateAlbedo rejects colors that are non-finite or have negative channels
func validateAlbedo(kind string, albedo core.Vec3) error {
	if !albedo.IsFinite() || albedo.X < 0 || albedo.Y < 0 || albedo.Z < 0 {
		return fmt.Errorf("%s albedo %v: %w", kind, albedo, core.ErrSceneConstruction)
	}
	return nil
}
