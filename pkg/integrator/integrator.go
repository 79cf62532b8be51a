package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// World is the read-only scene an integrator traces against
type World interface {
	// Hit returns the closest intersection in (tMin, tMax)
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)

	// Background returns the radiance arriving from a direction that hits nothing
	Background(direction core.Vec3) core.Vec3
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray
	RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3
}

// PathState is the state of a path as it moves through the integrator loop
type PathState int

const (
	Tracing       PathState = iota // Looking for the next intersection
	Hit                            // Intersected a surface
	Miss                           // Escaped to the background
	Scattered                      // Continued after a material scatter
	Absorbed                       // Material absorbed the ray
	DepthExceeded                  // Bounce budget used up
	Terminated                     // Ended early by a Terminator
)

// String returns the state name used in logs
func (s PathState) String() string {
	switch s {
	case Tracing:
		return "tracing"
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Scattered:
		return "scattered"
	case Absorbed:
		return "absorbed"
	case DepthExceeded:
		return "depth_exceeded"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// PathResult is the radiance estimate of one path together with how it ended
type PathResult struct {
	Radiance core.Vec3
	Bounces  int       // Number of scatter events
	State    PathState // Terminal state: Miss, Absorbed, DepthExceeded or Terminated
}
