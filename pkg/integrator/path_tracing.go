package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// DefaultMaxDepth bounds the number of bounces when no depth is configured
const DefaultMaxDepth = 50

// Config controls path length
type Config struct {
	MaxDepth   int        // Maximum number of bounces; 0 or less renders black
	Terminator Terminator // Optional early termination, nil for none
}

// PathTracer implements unidirectional path tracing as an explicit loop over bounces
type PathTracer struct {
	maxDepth   int
	terminator Terminator
}

// NewPathTracer creates a new path tracing integrator
func NewPathTracer(config Config) *PathTracer {
	terminator := config.Terminator
	if terminator == nil {
		terminator = NoTermination{}
	}
	return &PathTracer{
		maxDepth:   config.MaxDepth,
		terminator: terminator,
	}
}

// RayColor computes the color for a single ray
func (pt *PathTracer) RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3 {
	return pt.Trace(ray, world, sampler).Radiance
}

// Trace follows a path from ray until it escapes, is absorbed or is cut off.
// Radiance is the background seen at the end of the path scaled by the product of
// the attenuations along it.
func (pt *PathTracer) Trace(ray core.Ray, world World, sampler core.Sampler) PathResult {
	throughput := core.NewVec3(1, 1, 1)
	depth := pt.maxDepth
	bounces := 0
	state := Tracing
	var hit *material.HitRecord

	for {
		switch state {
		case Tracing:
			if depth <= 0 {
				return PathResult{Bounces: bounces, State: DepthExceeded}
			}
			var ok bool
			hit, ok = world.Hit(ray, core.RayEpsilon, core.Infinity)
			if !ok {
				background := world.Background(ray.Direction)
				return PathResult{Radiance: throughput.MultiplyVec(background), Bounces: bounces, State: Miss}
			}
			state = Hit

		case Hit:
			scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
			if !didScatter {
				return PathResult{Bounces: bounces, State: Absorbed}
			}
			throughput = throughput.MultiplyVec(scatter.Attenuation)
			ray = scatter.Scattered
			depth--
			bounces++
			state = Scattered

		case Scattered:
			survive, weight := pt.terminator.Survive(bounces, throughput, sampler)
			if !survive {
				return PathResult{Bounces: bounces, State: Terminated}
			}
			throughput = throughput.Multiply(weight)
			state = Tracing

		default:
			return PathResult{Bounces: bounces, State: state}
		}
	}
}
