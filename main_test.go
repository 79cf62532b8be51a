package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScenesCommand(t *testing.T) {
	stdout, _, err := execute(t, "scenes")
	if err != nil {
		t.Fatalf("scenes failed: %v", err)
	}
	for _, name := range scene.Names() {
		if !strings.Contains(stdout, name) {
			t.Errorf("Expected %q in scene list:\n%s", name, stdout)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		scene  string
		file   string
		width  int
		height int
	}{
		{"single sphere png", "single", "single.png", 32, 18},
		{"empty bmp", "empty", "empty.bmp", 16, 16},
		{"default tiff", "default", "default.tiff", 24, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			stdout, stderr, err := execute(t,
				"--scene", tt.scene, "--output", path,
				"--width", strconv.Itoa(tt.width), "--height", strconv.Itoa(tt.height),
				"--samples", "2", "--max-depth", "4", "--passes", "2", "--log-level", "warn")
			if err != nil {
				t.Fatalf("render failed: %v\nstderr: %s", err, stderr)
			}
			if !strings.Contains(stdout, "Saved "+path) {
				t.Errorf("Expected summary to name the output, got:\n%s", stdout)
			}

			img, _, err := output.LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}
			if img.Width != tt.width || img.Height != tt.height {
				t.Errorf("Expected %dx%d image, got %dx%d", tt.width, tt.height, img.Width, img.Height)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "--scene", "nonexistent", "--output", filepath.Join(dir, "a.png"))
	if !errors.Is(err, core.ErrSceneConstruction) {
		t.Errorf("Expected ErrSceneConstruction for unknown scene, got %v", err)
	}

	_, _, err = execute(t, "--scene", "empty", "--samples=-1", "--output", filepath.Join(dir, "b.png"))
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for negative samples, got %v", err)
	}

	_, _, err = execute(t, "--scene", "empty", "--width", "8", "--samples", "1", "--output", filepath.Join(dir, "c.gif"))
	if !errors.Is(err, core.ErrOutput) {
		t.Errorf("Expected ErrOutput for unsupported format, got %v", err)
	}

	if _, _, err := execute(t, "extra-arg"); err == nil {
		t.Error("Expected an error for positional arguments")
	}
}

func TestSceneDefaults(t *testing.T) {
	desc, err := scene.Describe("default")
	if err != nil {
		t.Fatal(err)
	}
	defaults := sceneDefaults(desc)
	if defaults.Width != 400 || defaults.Height != 225 {
		t.Errorf("Expected 400x225, got %dx%d", defaults.Width, defaults.Height)
	}
	if defaults.Samples != desc.Sampling.SamplesPerPixel || defaults.MaxDepth != desc.Sampling.MaxDepth {
		t.Errorf("Unexpected sampling defaults %+v", defaults)
	}
}
