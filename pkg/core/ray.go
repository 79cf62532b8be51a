package core

import "math"

// RayEpsilon is the lower bound of the parametric interval used for every visibility query.
// It keeps rays leaving a surface from re-hitting that surface at t≈0 (shadow acne).
const RayEpsilon = 0.001

// Infinity is the default upper bound of the parametric interval
var Infinity = math.Inf(1)

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
