package core

import (
	"math"
)

// Vec3 represents a 3D vector, point or linear RGB color
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 represents a 2D vector, mostly used for pairs of sample values
type Vec2 struct {
	X, Y float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Divide returns the vector divided by a scalar
func (v Vec3) Divide(scalar float64) Vec3 {
	return v.Multiply(1.0 / scalar)
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged; use UnitVector when a degenerate input must be detected.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// UnitVector returns a unit vector in the same direction, or ErrDegenerateVector
// when the vector is too short to define a direction.
func (v Vec3) UnitVector() (Vec3, error) {
	if v.NearZero() || !v.IsFinite() {
		return Vec3{}, ErrDegenerateVector
	}
	return v.Multiply(1.0 / v.Length()), nil
}

// NearZero reports whether all components are close to zero, leaving no usable direction
func (v Vec3) NearZero() bool {
	const s = 1e-8
	return math.Abs(v.X) < s && math.Abs(v.Y) < s && math.Abs(v.Z) < s
}

// IsFinite reports whether no component is NaN or infinite
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Axis returns the component for axis 0=X, 1=Y, 2=Z
func (v Vec3) Axis(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Clamp returns a vector with components clamped to [min, max]
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: max(minVal, min(maxVal, v.X)),
		Y: max(minVal, min(maxVal, v.Y)),
		Z: max(minVal, min(maxVal, v.Z)),
	}
}

// GammaCorrect applies gamma correction to color values.
// Negative components are treated as black.
func (v Vec3) GammaCorrect(gamma float64) Vec3 {
	invGamma := 1.0 / gamma
	return Vec3{
		X: math.Pow(max(0, v.X), invGamma),
		Y: math.Pow(max(0, v.Y), invGamma),
		Z: math.Pow(max(0, v.Z), invGamma),
	}
}

// Luminance returns the perceptual luminance of an RGB color
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func (v Vec3) Luminance() float64 {
	return 0.299*v.X + 0.587*v.Y + 0.114*v.Z
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n Vec3) Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// CanRefract reports whether Snell's law has a solution for a ray with the given
// incidence cosine and ratio of refractive indices (eta_i / eta_t).
// When it returns false the ray undergoes total internal reflection.
func CanRefract(cosTheta, etaiOverEtat float64) bool {
	sin2ThetaT := etaiOverEtat * etaiOverEtat * max(0, 1.0-cosTheta*cosTheta)
	return sin2ThetaT <= 1.0
}

// Refract calculates the refraction of unit vector uv through a surface with unit normal n.
// Callers must check CanRefract first; the result is undefined under total internal reflection.
func Refract(uv, n Vec3, etaiOverEtat float64) Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}
