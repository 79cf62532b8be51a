package renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// Scene is the read-only world a Raytracer renders
type Scene interface {
	integrator.World
	GetCamera() *geometry.Camera
}

// Config contains rendering configuration
type Config struct {
	SamplesPerPixel           int    // Samples per pixel; 0 renders the background only
	MaxDepth                  int    // Maximum ray bounce depth
	RussianRouletteMinBounces int    // Bounces before Russian roulette starts, 0 disables it
	Seed                      uint64 // Seed of every per-sample random stream
	NumWorkers                int    // Number of parallel workers (0 = use CPU count)
	TileSize                  int    // Edge length of a tile in pixels
	Passes                    int    // Number of progressive passes
	Logger                    *slog.Logger
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		SamplesPerPixel: 100,
		MaxDepth:        integrator.DefaultMaxDepth,
		Seed:            42,
		TileSize:        DefaultTileSize,
		Passes:          1,
	}
}

// Raytracer renders a scene into an Accumulator, tile by tile and pass by pass.
// A Raytracer renders once; create a new one for another render.
type Raytracer struct {
	scene         Scene
	width, height int
	config        Config
	accumulator   *Accumulator
	tiles         []*Tile
	tileRenderer  *TileRenderer
	logger        *slog.Logger
}

// NewRaytracer validates the configuration and allocates the image buffers.
// Image dimensions come from the scene camera.
func NewRaytracer(scene Scene, config Config) (*Raytracer, error) {
	camera := scene.GetCamera()
	if camera == nil {
		return nil, fmt.Errorf("scene has no camera: %w", core.ErrSceneConstruction)
	}
	if config.SamplesPerPixel < 0 {
		return nil, fmt.Errorf("negative samples per pixel %d", config.SamplesPerPixel)
	}
	if config.MaxDepth < 0 {
		return nil, fmt.Errorf("negative max depth %d", config.MaxDepth)
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	config.Passes = max(1, min(config.Passes, config.SamplesPerPixel))

	width, height := camera.Width(), camera.Height()
	if err := CheckResources(width, height); err != nil {
		return nil, err
	}
	acc, err := NewAccumulator(width, height)
	if err != nil {
		return nil, err
	}

	var terminator integrator.Terminator = integrator.NoTermination{}
	if config.RussianRouletteMinBounces > 0 {
		terminator = integrator.RussianRoulette{MinBounces: config.RussianRouletteMinBounces}
	}
	pathTracer := integrator.NewPathTracer(integrator.Config{
		MaxDepth:   config.MaxDepth,
		Terminator: terminator,
	})

	logger := core.LoggerOrNop(config.Logger)
	return &Raytracer{
		scene:        scene,
		width:        width,
		height:       height,
		config:       config,
		accumulator:  acc,
		tiles:        NewTileGrid(width, height, config.TileSize),
		tileRenderer: NewTileRenderer(scene, pathTracer, config.Seed, logger),
		logger:       logger,
	}, nil
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// Render runs every pass and returns the final frame
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	passChan, errChan := rt.RenderProgressive(ctx)

	var last *PassResult
	for result := range passChan {
		result := result
		last = &result
	}
	if err := <-errChan; err != nil {
		return nil, RenderStats{}, err
	}
	if last == nil {
		return nil, RenderStats{}, errors.New("render produced no passes")
	}
	return last.Frame, last.Stats, nil
}
