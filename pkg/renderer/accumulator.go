package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-pathtracer/pkg/core"
)

// DefaultGamma is the display gamma applied when converting a frame to 8-bit color
const DefaultGamma = 2.2

// Accumulator holds the running statistics of every pixel of an image.
// Each pixel is written by exactly one tile, so concurrent tiles never share a pixel.
type Accumulator struct {
	width, height int
	pixels        []PixelStats
}

// NewAccumulator allocates statistics for a width x height image
func NewAccumulator(width, height int) (*Accumulator, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &Accumulator{
		width:  width,
		height: height,
		pixels: make([]PixelStats, width*height),
	}, nil
}

// Pixel returns the statistics of pixel (x, y), with y counted from the top row
func (a *Accumulator) Pixel(x, y int) *PixelStats {
	return &a.pixels[y*a.width+x]
}

// Width returns the image width
func (a *Accumulator) Width() int { return a.width }

// Height returns the image height
func (a *Accumulator) Height() int { return a.height }

// Frame snapshots the current mean radiance of every pixel
func (a *Accumulator) Frame() *Frame {
	frame := &Frame{
		Width:  a.width,
		Height: a.height,
		Pixels: make([]core.Vec3, len(a.pixels)),
	}
	for i := range a.pixels {
		frame.Pixels[i] = a.pixels[i].GetColor()
	}
	return frame
}

// Frame is a finished grid of linear radiance values, row-major from the top row
type Frame struct {
	Width, Height int
	Pixels        []core.Vec3
}

// At returns the linear radiance of pixel (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Image tone maps the frame with the given gamma and clamps it to 8-bit color.
// A gamma of 0 or less uses DefaultGamma.
func (f *Frame) Image(gamma float64) *image.RGBA {
	if gamma <= 0 {
		gamma = DefaultGamma
	}
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, vec3ToColor(f.At(x, y), gamma))
		}
	}
	return img
}

// vec3ToColor converts linear radiance into a display color
func vec3ToColor(colorVec core.Vec3, gamma float64) color.RGBA {
	colorVec = colorVec.GammaCorrect(gamma)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// checkDimensions rejects empty images and sizes whose pixel count overflows
func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image size %dx%d: %w", width, height, core.ErrResourceExhaustion)
	}
	if height > maxPixels/width {
		return fmt.Errorf("image size %dx%d exceeds %d pixels: %w", width, height, maxPixels, core.ErrResourceExhaustion)
	}
	return nil
}
