package material

import "github.com/df07/go-pathtracer/pkg/core"

// Absorber is a black body that terminates every path reaching it
type Absorber struct{}

// NewAbsorber creates an absorbing material
func NewAbsorber() *Absorber {
	return &Absorber{}
}

// Scatter never scatters
func (*Absorber) Scatter(core.Ray, HitRecord, core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Validate always succeeds
func (*Absorber) Validate() error { return nil }

func (*Absorber) material() {}
