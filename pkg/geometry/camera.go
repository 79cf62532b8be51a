package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	Width         int       // Image width in pixels
	AspectRatio   float64   // Aspect ratio (width/height)
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 for a pinhole
	FocusDistance float64   // Distance to the focus plane, 0 to focus on LookAt
}

// Camera generates primary rays with optional depth of field
type Camera struct {
	config          CameraConfig
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Orthonormal basis; w points away from the view direction
	lensRadius      float64
	height          int
}

// NewCamera validates the configuration and precomputes the viewport on the focus plane
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	w, err := config.Center.Subtract(config.LookAt).UnitVector()
	if err != nil {
		return nil, fmt.Errorf("camera center equals look-at point: %w", core.ErrSceneConstruction)
	}
	u, err := config.Up.Cross(w).UnitVector()
	if err != nil {
		return nil, fmt.Errorf("camera up %v parallel to view direction: %w", config.Up, core.ErrSceneConstruction)
	}
	v := w.Cross(u)

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		config:          config,
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		height:          max(1, int(math.Round(float64(config.Width)/config.AspectRatio))),
	}, nil
}

// Validate checks the numeric ranges of the configuration
func (c CameraConfig) Validate() error {
	switch {
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("camera vfov %g outside (0, 180): %w", c.VFov, core.ErrSceneConstruction)
	case c.Width <= 0:
		return fmt.Errorf("camera width %d: %w", c.Width, core.ErrSceneConstruction)
	case !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0):
		return fmt.Errorf("camera aspect ratio %g: %w", c.AspectRatio, core.ErrSceneConstruction)
	case !(c.Aperture >= 0) || math.IsInf(c.Aperture, 0):
		return fmt.Errorf("camera aperture %g: %w", c.Aperture, core.ErrSceneConstruction)
	case !(c.FocusDistance >= 0) || math.IsInf(c.FocusDistance, 0):
		return fmt.Errorf("camera focus distance %g: %w", c.FocusDistance, core.ErrSceneConstruction)
	case !c.Center.IsFinite() || !c.LookAt.IsFinite() || !c.Up.IsFinite():
		return fmt.Errorf("camera vectors must be finite: %w", core.ErrSceneConstruction)
	}
	return nil
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1 and t = 0 is
// the bottom edge. The lens sample comes from sampler; the direction is unit length.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction.Normalize())
}

// GetPixelRay generates a jittered ray through pixel (i, j), with j counted from the top row
func (c *Camera) GetPixelRay(i, j int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	s := (float64(i) + jitter.X) / float64(c.config.Width)
	t := (float64(c.height-1-j) + jitter.Y) / float64(c.height)
	return c.GetRay(s, t, sampler)
}

// GetPixelCenterRay returns the pinhole ray through the center of pixel (i, j)
func (c *Camera) GetPixelCenterRay(i, j int) core.Ray {
	s := (float64(i) + 0.5) / float64(c.config.Width)
	t := (float64(c.height-1-j) + 0.5) / float64(c.height)
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)
	return core.NewRay(c.origin, direction.Normalize())
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the image height, width divided by aspect ratio rounded to the nearest pixel
func (c *Camera) Height() int {
	return c.height
}

// Forward returns the unit view direction
func (c *Camera) Forward() core.Vec3 {
	return c.w.Negate()
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}
