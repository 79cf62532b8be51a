package scene

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestSingleSphere_CenterRayHitsFrontFace(t *testing.T) {
	s, err := New("single")
	if err != nil {
		t.Fatalf("New(single) failed: %v", err)
	}

	ray := s.Camera.GetRay(0.5, 0.5, core.NewRandomSampler(1))
	hit, ok := s.Hit(ray, core.RayEpsilon, core.Infinity)
	if !ok {
		t.Fatal("Expected the center ray to hit the sphere")
	}
	if math.Abs(hit.T-0.5) > 1e-9 {
		t.Errorf("Expected t=0.5, got %f", hit.T)
	}
	if !hit.FrontFace {
		t.Error("Expected a front-face hit")
	}
	if _, ok := hit.Material.(*material.Lambertian); !ok {
		t.Errorf("Expected Lambertian material, got %T", hit.Material)
	}
}

func TestBuiltins(t *testing.T) {
	names := Names()
	for _, want := range []string{"default", "empty", "single", "spheregrid"} {
		if !slices.Contains(names, want) {
			t.Errorf("Missing built-in scene %q", want)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("Names should be sorted: %v", names)
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := New(name)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", name, err)
			}
			if s.BVH == nil || s.BVH.Len() != len(s.Shapes) {
				t.Error("Expected a BVH over every shape")
			}
			if s.SamplingConfig.SamplesPerPixel <= 0 || s.SamplingConfig.MaxDepth < 0 {
				t.Errorf("Unexpected sampling config %+v", s.SamplingConfig)
			}
		})
	}

	if _, err := New("nope"); !errors.Is(err, core.ErrSceneConstruction) {
		t.Errorf("Expected ErrSceneConstruction for unknown scene, got %v", err)
	}
}

func TestNew_CameraOverrides(t *testing.T) {
	s, err := New("default", geometry.CameraConfig{Width: 64, AspectRatio: 2})
	if err != nil {
		t.Fatal(err)
	}
	if s.Camera.Width() != 64 || s.Camera.Height() != 32 {
		t.Errorf("Expected 64x32, got %dx%d", s.Camera.Width(), s.Camera.Height())
	}
	if s.CameraConfig.VFov != 40 {
		t.Errorf("Overrides should keep the scene field of view, got %f", s.CameraConfig.VFov)
	}
}

func TestSphereGrid_BVHMatchesLinearScan(t *testing.T) {
	s, err := Build(SphereGridDescription(8))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Shapes) != 8*8+1 {
		t.Fatalf("Expected 65 shapes, got %d", len(s.Shapes))
	}

	camera := s.Camera
	linear := geometry.ShapeList(s.Shapes)
	for j := 0; j < camera.Height(); j += 7 {
		for i := 0; i < camera.Width(); i += 7 {
			ray := camera.GetPixelCenterRay(i, j)
			bvhHit, bvhIndex, bvhOK := s.BVH.HitShape(ray, core.RayEpsilon, core.Infinity)
			linHit, linIndex, linOK := linear.HitShape(ray, core.RayEpsilon, core.Infinity)
			if bvhOK != linOK || bvhIndex != linIndex || (bvhOK && bvhHit.T != linHit.T) {
				t.Fatalf("Pixel (%d,%d): BVH (%d, %t) vs linear (%d, %t)", i, j, bvhIndex, bvhOK, linIndex, linOK)
			}
		}
	}
}

func TestSphereGrid_Deterministic(t *testing.T) {
	a := SphereGridDescription(5)
	b := SphereGridDescription(5)
	if !slices.Equal(a.Spheres, b.Spheres) {
		t.Error("Sphere grid should not change between calls")
	}
	for name, spec := range a.Materials {
		if b.Materials[name] != spec {
			t.Errorf("Material %q differs between calls", name)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	valid := func() Description {
		desc := SingleSphereDescription()
		desc.Materials = map[string]MaterialSpec{
			"gray": {Kind: KindLambertian, Albedo: core.NewVec3(0.5, 0.5, 0.5)},
		}
		return desc
	}

	tests := []struct {
		name   string
		modify func(*Description)
	}{
		{"unknown material reference", func(d *Description) { d.Spheres[0].Material = "missing" }},
		{"unknown material kind", func(d *Description) { d.Materials["gray"] = MaterialSpec{Kind: "plastic"} }},
		{"metal fuzz above one", func(d *Description) {
			d.Materials["gray"] = MaterialSpec{Kind: KindMetal, Albedo: core.NewVec3(1, 1, 1), Fuzz: 1.5}
		}},
		{"zero index of refraction", func(d *Description) { d.Materials["gray"] = MaterialSpec{Kind: KindDielectric} }},
		{"negative radius", func(d *Description) { d.Spheres[0].Radius = -1 }},
		{"non-finite center", func(d *Description) { d.Spheres[0].Center = core.NewVec3(math.NaN(), 0, 0) }},
		{"camera at look-at", func(d *Description) { d.Camera.LookAt = d.Camera.Center }},
		{"zero width", func(d *Description) { d.Camera.Width = -5 }},
		{"unknown background", func(d *Description) { d.Background.Kind = "starfield" }},
		{"infinite background", func(d *Description) {
			d.Background = BackgroundSpec{Kind: BackgroundUniform, Color: core.NewVec3(math.Inf(1), 0, 0)}
		}},
	}

	if _, err := Build(valid()); err != nil {
		t.Fatalf("Valid description failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := valid()
			tt.modify(&desc)
			if _, err := Build(desc); !errors.Is(err, core.ErrSceneConstruction) {
				t.Errorf("Expected ErrSceneConstruction, got %v", err)
			}
		})
	}
}

func TestPreprocess_RejectsNilShape(t *testing.T) {
	s, err := New("empty")
	if err != nil {
		t.Fatal(err)
	}
	s.Shapes = append(s.Shapes, nil)
	if err := s.Preprocess(); !errors.Is(err, core.ErrSceneConstruction) {
		t.Errorf("Expected ErrSceneConstruction, got %v", err)
	}
}

func TestBackgrounds(t *testing.T) {
	g := NewGradient(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0))
	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1)},
		{"straight down", core.NewVec3(0, -2, 0), core.NewVec3(1, 0, 0)},
		{"horizon", core.NewVec3(1, 0, 0), core.NewVec3(0.5, 0, 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Color(tt.direction); got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	u := Uniform{Emission: core.NewVec3(0.2, 0.3, 0.4)}
	if u.Color(core.NewVec3(0, -1, 0)) != u.Emission {
		t.Error("Uniform background should not depend on direction")
	}

	s, err := New("empty")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), core.RayEpsilon, core.Infinity); ok {
		t.Error("Empty scene should never be hit")
	}
	if s.Background(core.NewVec3(0, 1, 0)) != DefaultBackground().Top {
		t.Error("Empty scene should show the default sky")
	}
}
