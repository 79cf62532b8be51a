package output

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// quadrantSize matches the JPEG block size so each quadrant survives compression
const quadrantSize = 16

var quadrantColors = []color.RGBA{
	{R: 255, G: 255, B: 255, A: 255},
	{R: 255, G: 0, B: 0, A: 255},
	{R: 0, G: 255, B: 0, A: 255},
	{R: 0, G: 0, B: 255, A: 255},
}

// testImage has a white, red, green and blue quadrant in row-major order
func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2*quadrantSize, 2*quadrantSize))
	for y := 0; y < 2*quadrantSize; y++ {
		for x := 0; x < 2*quadrantSize; x++ {
			img.Set(x, y, quadrantColors[(y/quadrantSize)*2+x/quadrantSize])
		}
	}
	return img
}

func TestWriteFile_RoundTrip(t *testing.T) {
	tests := []struct {
		file      string
		format    string
		tolerance float64
	}{
		{"render.png", "png", 0},
		{"render.bmp", "bmp", 0},
		{"render.TIFF", "tiff", 0},
		{"render.jpg", "jpeg", 0.05},
	}

	expected := []core.Vec3{
		core.NewVec3(1, 1, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1),
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", tt.file)
			if err := WriteFile(path, testImage()); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			data, format, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}
			if format != tt.format {
				t.Errorf("Expected format %s, got %s", tt.format, format)
			}
			if data.Width != 2*quadrantSize || data.Height != 2*quadrantSize {
				t.Fatalf("Expected 32x32 image, got %dx%d", data.Width, data.Height)
			}
			for i, want := range expected {
				got := data.At((i%2)*quadrantSize+quadrantSize/2, (i/2)*quadrantSize+quadrantSize/2)
				if math.Abs(got.X-want.X) > tt.tolerance ||
					math.Abs(got.Y-want.Y) > tt.tolerance ||
					math.Abs(got.Z-want.Z) > tt.tolerance {
					t.Errorf("Pixel %d: expected %v, got %v", i, want, got)
				}
			}
		})
	}
}

func TestLoadImage_KeepsEncodedValues(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 128, G: 64, B: 0, A: 255})
	path := filepath.Join(t.TempDir(), "gray.png")
	if err := WriteFile(path, img); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, _, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	// 8-bit values scale to value/255 with no gamma removed
	expected := core.NewVec3(128.0/255.0, 64.0/255.0, 0)
	if got := data.At(0, 0); got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestWriteFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFile(filepath.Join(dir, "render.gif"), testImage()); !errors.Is(err, core.ErrOutput) {
		t.Errorf("Expected ErrOutput for unsupported extension, got %v", err)
	}

	// A regular file where a directory is needed
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	err := WriteFile(filepath.Join(blocker, "render.png"), testImage())
	if !errors.Is(err, core.ErrOutput) {
		t.Errorf("Expected ErrOutput, got %v", err)
	}
	if errors.Is(err, core.ErrOutput) && errors.Unwrap(err) == nil {
		t.Error("Expected the underlying cause to be kept")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"a.png", PNG},
		{"dir/b.JPG", JPEG},
		{"c.jpeg", JPEG},
		{"d.bmp", BMP},
		{"e.tif", TIFF},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil || got != tt.expected {
			t.Errorf("%s: expected %s, got %s (%v)", tt.path, tt.expected, got, err)
		}
	}
	if _, err := FormatFromPath("noext"); !errors.Is(err, core.ErrOutput) {
		t.Errorf("Expected ErrOutput without extension, got %v", err)
	}
}
