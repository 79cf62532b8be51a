// Package output encodes finished frames to image files.
package output

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Format is an image file format
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// JPEGQuality is used for every JPEG written
const JPEGQuality = 95

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("unsupported image extension %q: %w", filepath.Ext(path), core.ErrOutput)
	}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported format %q: %w", format, core.ErrOutput)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, errors.Join(core.ErrOutput, err))
	}
	return nil
}

// WriteFile encodes img into path, choosing the format from the extension.
// Missing parent directories are created.
func WriteFile(path string, img image.Image) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", errors.Join(core.ErrOutput, err))
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", errors.Join(core.ErrOutput, err))
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", errors.Join(core.ErrOutput, cerr))
		}
	}()

	return Encode(file, img, format)
}
