package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// constSampler returns the same value for every draw
type constSampler struct{ value float64 }

func (c constSampler) Get1D() float64 { return c.value }
func (c constSampler) Get2D() core.Vec2 {
	return core.NewVec2(c.value, c.value)
}
func (c constSampler) Get3D() core.Vec3 {
	return core.NewVec3(c.value, c.value, c.value)
}

// countingSampler records how many draws were made
type countingSampler struct{ draws int }

func (c *countingSampler) Get1D() float64   { c.draws++; return 0.5 }
func (c *countingSampler) Get2D() core.Vec2 { c.draws++; return core.NewVec2(0.5, 0.5) }
func (c *countingSampler) Get3D() core.Vec3 { c.draws++; return core.NewVec3(0.5, 0.5, 0.5) }

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 0, 1)

	tests := []struct {
		name           string
		direction      core.Vec3
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{"ray against outward normal", core.NewVec3(0, 0, -1), true, outward},
		{"ray along outward normal", core.NewVec3(0, 0.5, 1), false, outward.Negate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit HitRecord
			hit.SetFaceNormal(core.NewRay(core.Vec3{}, tt.direction), outward)
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected FrontFace=%t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal != tt.expectedNormal {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.Normal.Dot(tt.direction) >= 0 {
				t.Error("Stored normal must oppose the ray")
			}
		})
	}
}

func TestMaterial_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mat     Material
		wantErr bool
	}{
		{"lambertian", NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), false},
		{"lambertian negative albedo", NewLambertian(core.NewVec3(-0.1, 0.5, 0.5)), true},
		{"lambertian NaN albedo", NewLambertian(core.NewVec3(math.NaN(), 0, 0)), true},
		{"metal mirror", NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0), false},
		{"metal fully fuzzy", NewMetal(core.NewVec3(0.9, 0.9, 0.9), 1), false},
		{"metal fuzz above 1", NewMetal(core.NewVec3(0.9, 0.9, 0.9), 1.5), true},
		{"metal negative fuzz", NewMetal(core.NewVec3(0.9, 0.9, 0.9), -0.1), true},
		{"glass", NewDielectric(1.5), false},
		{"index matched", NewDielectric(1.0), false},
		{"zero ior", NewDielectric(0), true},
		{"negative ior", NewDielectric(-1.5), true},
		{"infinite ior", NewDielectric(math.Inf(1)), true},
		{"NaN ior", NewDielectric(math.NaN()), true},
		{"absorber", NewAbsorber(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mat.Validate()
			if tt.wantErr {
				if !errors.Is(err, core.ErrSceneConstruction) {
					t.Errorf("Expected ErrSceneConstruction, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNewMetal_DoesNotClamp(t *testing.T) {
	metal := NewMetal(core.NewVec3(1, 1, 1), 1.5)
	if metal.Fuzz != 1.5 {
		t.Errorf("Expected fuzz to be kept as 1.5, got %f", metal.Fuzz)
	}
}

func TestAbsorber_NeverScatters(t *testing.T) {
	sampler := core.NewRandomSampler(1)
	hit := HitRecord{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0), FrontFace: true}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	for i := 0; i < 10; i++ {
		if _, ok := NewAbsorber().Scatter(ray, hit, sampler); ok {
			t.Fatal("Absorber should never scatter")
		}
	}
}
