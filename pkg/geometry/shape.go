package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Sphere is the only implementation.
type Shape interface {
	// Hit returns the intersection with the smallest t in the open interval (tMin, tMax)
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)

	// BoundingBox returns a box containing the whole shape
	BoundingBox() core.AABB

	// Validate reports invalid parameters wrapped in core.ErrSceneConstruction
	Validate() error

	shape()
}

// ShapeList is a plain slice of shapes tested one after another.
// It is the reference the BVH must agree with.
type ShapeList []Shape

// Hit returns the closest intersection among all shapes
func (l ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	hit, _, ok := l.HitShape(ray, tMin, tMax)
	return hit, ok
}

// HitShape returns the closest intersection and the index of the shape that produced it.
// When two shapes report the same t the lower index wins.
func (l ShapeList) HitShape(ray core.Ray, tMin, tMax float64) (*material.HitRecord, int, bool) {
	var closest *material.HitRecord
	closestIndex := -1
	closestSoFar := tMax

	for i, s := range l {
		if hit, ok := s.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestIndex = i
			closestSoFar = hit.T
		}
	}

	return closest, closestIndex, closest != nil
}

// BoundingBox returns the union of all shape boxes
func (l ShapeList) BoundingBox() core.AABB {
	box := core.EmptyAABB()
	for _, s := range l {
		box = box.Union(s.BoundingBox())
	}
	return box
}
