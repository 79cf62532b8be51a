package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns a box that contains nothing; its union with any box is that box
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: NewVec3(inf, inf, inf),
		Max: NewVec3(-inf, -inf, -inf),
	}
}

// Hit tests if a ray intersects with this AABB within [tMin, tMax] using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Axis(axis)
		max := aabb.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// Ray parallel to this slab: reject unless the origin lies within it
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{
			X: math.Min(aabb.Min.X, other.Min.X),
			Y: math.Min(aabb.Min.Y, other.Min.Y),
			Z: math.Min(aabb.Min.Z, other.Min.Z),
		},
		Max: Vec3{
			X: math.Max(aabb.Max.X, other.Max.X),
			Y: math.Max(aabb.Max.Y, other.Max.Y),
			Z: math.Max(aabb.Max.Z, other.Max.Z),
		},
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// Contains reports whether the other box lies entirely inside this one
func (aabb AABB) Contains(other AABB) bool {
	return aabb.Min.X <= other.Min.X && aabb.Min.Y <= other.Min.Y && aabb.Min.Z <= other.Min.Z &&
		aabb.Max.X >= other.Max.X && aabb.Max.Y >= other.Max.Y && aabb.Max.Z >= other.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
