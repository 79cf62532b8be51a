package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// grazingTolerance widens a shape by this fraction of its size when deciding whether a
// ray touches it. Rays passing within radius*(1+grazingTolerance) of a sphere center hit it.
const grazingTolerance = 1e-9

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2ht + c = 0
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return nil, false
	}
	h := oc.Dot(ray.Direction)

	// Offset from the center to the closest point on the ray line
	perp := oc.Subtract(ray.Direction.Multiply(h / a))
	distSquared := perp.LengthSquared()
	radiusSquared := s.Radius * s.Radius
	band := 1 + grazingTolerance
	if distSquared > radiusSquared*band*band {
		return nil, false
	}

	// Inside the grazing band the ray is treated as tangent
	discriminant := math.Max(0, a*(radiusSquared-distSquared))

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first; the farther one is used when the origin is inside
	root := (-h - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-h + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Calculate outward normal (from center to hit point)
	outwardNormal := hitRecord.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// Validate checks the center, radius and material
func (s *Sphere) Validate() error {
	if !s.Center.IsFinite() {
		return fmt.Errorf("sphere center %v: %w", s.Center, core.ErrSceneConstruction)
	}
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("sphere radius %g: %w", s.Radius, core.ErrSceneConstruction)
	}
	if s.Material == nil {
		return fmt.Errorf("sphere at %v has no material: %w", s.Center, core.ErrSceneConstruction)
	}
	if err := s.Material.Validate(); err != nil {
		return fmt.Errorf("sphere at %v: %w", s.Center, err)
	}
	return nil
}

func (*Sphere) shape() {}
