package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0.75, 2),
		LookAt:      core.NewVec3(0, 0.5, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
	}
}

func TestNewCamera_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CameraConfig)
	}{
		{"zero vfov", func(c *CameraConfig) { c.VFov = 0 }},
		{"vfov 180", func(c *CameraConfig) { c.VFov = 180 }},
		{"zero width", func(c *CameraConfig) { c.Width = 0 }},
		{"negative aspect", func(c *CameraConfig) { c.AspectRatio = -1 }},
		{"negative aperture", func(c *CameraConfig) { c.Aperture = -0.1 }},
		{"negative focus distance", func(c *CameraConfig) { c.FocusDistance = -1 }},
		{"center equals look-at", func(c *CameraConfig) { c.LookAt = c.Center }},
		{"up parallel to view", func(c *CameraConfig) { c.Up = c.LookAt.Subtract(c.Center) }},
		{"NaN center", func(c *CameraConfig) { c.Center = core.NewVec3(math.NaN(), 0, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testCameraConfig()
			tt.modify(&config)
			if _, err := NewCamera(config); !errors.Is(err, core.ErrSceneConstruction) {
				t.Errorf("Expected ErrSceneConstruction, got %v", err)
			}
		})
	}

	if _, err := NewCamera(testCameraConfig()); err != nil {
		t.Errorf("Valid config rejected: %v", err)
	}
}

func TestCamera_Height(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatal(err)
	}
	if camera.Height() != 225 {
		t.Errorf("Expected height 225, got %d", camera.Height())
	}
}

func TestCamera_CenterRayAlongForward(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatal(err)
	}

	ray := camera.GetRay(0.5, 0.5, core.NewRandomSampler(1))
	if ray.Origin != testCameraConfig().Center {
		t.Errorf("Pinhole ray should start at camera center, got %v", ray.Origin)
	}
	if ray.Direction.Subtract(camera.Forward()).Length() > 1e-9 {
		t.Errorf("Expected direction %v, got %v", camera.Forward(), ray.Direction)
	}
	if math.Abs(ray.Direction.Length()-1) > 1e-12 {
		t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
	}
}

func TestCamera_PixelRowsTopDown(t *testing.T) {
	camera, err := NewCamera(testCameraConfig())
	if err != nil {
		t.Fatal(err)
	}
	sampler := core.NewRandomSampler(3)

	top := camera.GetPixelRay(200, 0, sampler)
	bottom := camera.GetPixelRay(200, camera.Height()-1, sampler)
	if top.Direction.Y <= bottom.Direction.Y {
		t.Errorf("Row 0 should look higher than the last row: %v vs %v", top.Direction, bottom.Direction)
	}

	left := camera.GetPixelCenterRay(0, 100)
	right := camera.GetPixelCenterRay(camera.Width()-1, 100)
	if left.Direction.X >= right.Direction.X {
		t.Errorf("Column 0 should look further left: %v vs %v", left.Direction, right.Direction)
	}
}

func TestCamera_DepthOfFieldConvergesOnFocusPlane(t *testing.T) {
	config := testCameraConfig()
	config.Aperture = 0.5
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatal(err)
	}

	sampler := core.NewRandomSampler(11)
	focusDistance := config.Center.Subtract(config.LookAt).Length()
	forward := camera.Forward()
	distinctOrigins := false

	for i := 0; i < 100; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)
		if ray.Origin != config.Center {
			distinctOrigins = true
		}
		if ray.Origin.Subtract(config.Center).Length() > config.Aperture/2+1e-12 {
			t.Fatalf("Ray origin %v outside the lens", ray.Origin)
		}

		// Every lens sample passes through the focus point
		planeDistance := focusDistance - ray.Origin.Subtract(config.Center).Dot(forward)
		p := ray.At(planeDistance / ray.Direction.Dot(forward))
		if p.Subtract(config.LookAt).Length() > 1e-9 {
			t.Fatalf("Expected ray to pass through %v, got %v", config.LookAt, p)
		}
	}
	if !distinctOrigins {
		t.Error("Aperture should spread ray origins across the lens")
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := testCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{Width: 800, Aperture: 0.1})

	if merged.Width != 800 || merged.Aperture != 0.1 {
		t.Errorf("Overrides not applied: %+v", merged)
	}
	if merged.Center != base.Center || merged.VFov != base.VFov || merged.AspectRatio != base.AspectRatio {
		t.Errorf("Zero fields should keep base values: %+v", merged)
	}
}
