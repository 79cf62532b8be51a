package core

import (
	"math"
	"math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a PCG generator that can be cheaply reseeded for every pixel sample
type RandomSampler struct {
	source *rand.PCG
	random *rand.Rand
}

// NewRandomSampler creates a sampler seeded with the given value
func NewRandomSampler(seed uint64) *RandomSampler {
	source := rand.NewPCG(seed, splitmix64(seed))
	return &RandomSampler{source: source, random: rand.New(source)}
}

// NewPixelSampler creates a sampler whose stream depends only on the render seed,
// the pixel coordinates and the sample index
func NewPixelSampler(seed uint64, x, y, sampleIndex int) *RandomSampler {
	s := NewRandomSampler(seed)
	s.Reseed(seed, x, y, sampleIndex)
	return s
}

// Reseed restarts the stream for a specific (pixel, sample) so results do not depend
// on which worker renders the pixel or in which order
func (r *RandomSampler) Reseed(seed uint64, x, y, sampleIndex int) {
	h := splitmix64(seed)
	h = splitmix64(h ^ uint64(uint32(x)))
	h = splitmix64(h ^ uint64(uint32(y))<<32)
	h2 := splitmix64(h ^ uint64(sampleIndex))
	r.source.Seed(h, h2)
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// splitmix64 is the finalizer from Steele et al.; it spreads nearby integers across the seed space
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1.0 - z)

	// Create local coordinate system around normal
	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)

	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(zCoord))
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec3(0, 0, 0)
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}
