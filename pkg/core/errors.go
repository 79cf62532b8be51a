package core

import "errors"

// Error categories shared by all packages. Callers wrap them with fmt.Errorf("...: %w")
// and match with errors.Is.
var (
	// ErrSceneConstruction reports invalid geometry, material or camera parameters.
	// It is detected while the scene is built, before any rendering starts.
	ErrSceneConstruction = errors.New("scene construction")

	// ErrNumericAnomaly marks a sample whose radiance is NaN or infinite.
	// Renders recover from it locally by dropping the sample.
	ErrNumericAnomaly = errors.New("numeric anomaly")

	// ErrResourceExhaustion reports that a BVH or image buffer cannot be allocated
	ErrResourceExhaustion = errors.New("resource exhaustion")

	// ErrOutput reports a failure encoding or writing the finished image
	ErrOutput = errors.New("output")

	// ErrDegenerateVector is returned when a near-zero vector is normalized
	ErrDegenerateVector = errors.New("degenerate vector")
)
