package output

import (
	"fmt"
	"image"
	"os"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ImageData holds decoded pixels as Vec3 colors. Values are the file's gamma-encoded
// channels scaled to [0, 1]; no inverse gamma is applied.
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// At returns the color of pixel (x, y)
func (d *ImageData) At(x, y int) core.Vec3 {
	return d.Pixels[y*d.Width+x]
}

// LoadImage decodes an image file written by WriteFile, auto-detecting the format, and
// returns its encoded channel values scaled to [0, 1].
// The encoders imported by this package register the matching decoders.
func LoadImage(filename string) (*ImageData, string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, format, nil
}
