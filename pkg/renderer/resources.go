package renderer

import (
	"fmt"
	"image/color"
	"unsafe"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/df07/go-pathtracer/pkg/core"
)

// maxPixels caps the image size independently of available memory
const maxPixels = 1 << 30

// bytesPerPixel covers the accumulator, the linear frame and the 8-bit output image
const bytesPerPixel = uint64(unsafe.Sizeof(PixelStats{})) +
	uint64(unsafe.Sizeof(core.Vec3{})) +
	uint64(unsafe.Sizeof(color.RGBA{}))

// availableMemory reports how many bytes can be allocated without swapping
var availableMemory = func() (uint64, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return v.Available, nil
}

// EstimateMemory returns the bytes a render of the given size allocates for its buffers
func EstimateMemory(width, height int) uint64 {
	return uint64(width) * uint64(height) * bytesPerPixel
}

// CheckResources verifies that the buffers of a width x height render fit in memory.
// When the available memory cannot be determined only the size limits are enforced.
func CheckResources(width, height int) error {
	if err := checkDimensions(width, height); err != nil {
		return err
	}

	available, err := availableMemory()
	if err != nil || available == 0 {
		return nil
	}
	if need := EstimateMemory(width, height); need > available {
		return fmt.Errorf("render %dx%d needs %d bytes, %d available: %w",
			width, height, need, available, core.ErrResourceExhaustion)
	}
	return nil
}
