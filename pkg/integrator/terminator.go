package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Terminator decides after each scatter whether a path keeps going.
// A surviving path has its throughput multiplied by weight.
type Terminator interface {
	Survive(bounces int, throughput core.Vec3, sampler core.Sampler) (survive bool, weight float64)
}

// NoTermination lets every path run until it is absorbed, escapes or runs out of depth
type NoTermination struct{}

// Survive always continues without reweighting
func (NoTermination) Survive(int, core.Vec3, core.Sampler) (bool, float64) {
	return true, 1.0
}

// RussianRoulette terminates dim paths with a probability based on their throughput
type RussianRoulette struct {
	MinBounces int // Bounces before roulette starts
}

const (
	minSurvivalProbability = 0.05
	maxSurvivalProbability = 0.95
)

// Survive keeps the path with probability p = clamp(luminance(throughput)) and weights
// survivors by 1/p so the estimate stays unbiased
func (rr RussianRoulette) Survive(bounces int, throughput core.Vec3, sampler core.Sampler) (bool, float64) {
	if bounces < rr.MinBounces {
		return true, 1.0
	}

	survivalProb := math.Min(maxSurvivalProbability, math.Max(minSurvivalProbability, throughput.Luminance()))
	if sampler.Get1D() >= survivalProb {
		return false, 0.0
	}
	return true, 1.0 / survivalProb
}
