package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "pathtracer",
		Short: "Render a built-in scene with a Monte Carlo path tracer",
		Long: "Render a built-in scene with a Monte Carlo path tracer.\n\n" +
			"Settings come from flags, PATHTRACER_* environment variables (.env is read),\n" +
			"an optional config file and the scene's own defaults, in that order.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.Flags(), stdout, stderr)
		},
	}
	config.RegisterFlags(root.Flags())
	root.AddCommand(newScenesCmd(stdout))
	return root
}

func newScenesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, info := range scene.List() {
				fmt.Fprintf(stdout, "  %-12s %s\n", info.Name, info.Description)
			}
			return nil
		},
	}
}

// runRender resolves the configuration, renders the selected scene and writes the image
func runRender(ctx context.Context, flags *pflag.FlagSet, stdout, stderr io.Writer) error {
	loader, err := config.NewLoader(flags, ".env")
	if err != nil {
		return err
	}

	desc, err := scene.Describe(loader.Scene())
	if err != nil {
		return err
	}
	cfg, err := loader.Resolve(sceneDefaults(desc))
	if err != nil {
		return err
	}

	level, _ := cfg.SlogLevel() // validated by Resolve
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logSystemInfo(logger)

	desc.Camera = geometry.MergeCameraConfig(desc.Camera, geometry.CameraConfig{
		Width:       cfg.Width,
		AspectRatio: cfg.AspectRatio(),
	})
	s, err := scene.Build(desc)
	if err != nil {
		return err
	}
	logger.Info("scene built", "scene", cfg.Scene, "shapes", s.GetPrimitiveCount(), "bvh_bounds", s.BVH.BoundingBox())

	rt, err := renderer.NewRaytracer(s, renderer.Config{
		SamplesPerPixel:           cfg.Samples,
		MaxDepth:                  cfg.MaxDepth,
		RussianRouletteMinBounces: cfg.RussianRouletteMinBounces,
		Seed:                      cfg.Seed,
		NumWorkers:                cfg.Workers,
		TileSize:                  cfg.TileSize,
		Passes:                    cfg.Passes,
		Logger:                    logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	start := time.Now()
	frame, stats, err := rt.Render(ctx)
	if err != nil {
		return err
	}
	if err := output.WriteFile(cfg.OutputPath, frame.Image(cfg.Gamma)); err != nil {
		return err
	}

	printSummary(stdout, cfg, stats, time.Since(start))
	return nil
}

// sceneDefaults converts a scene description into configuration fallbacks
func sceneDefaults(desc scene.Description) config.SceneDefaults {
	height := 0
	if desc.Camera.AspectRatio > 0 {
		height = max(1, int(math.Round(float64(desc.Camera.Width)/desc.Camera.AspectRatio)))
	}
	return config.SceneDefaults{
		Width:                     desc.Camera.Width,
		Height:                    height,
		Samples:                   desc.Sampling.SamplesPerPixel,
		MaxDepth:                  desc.Sampling.MaxDepth,
		RussianRouletteMinBounces: desc.Sampling.RussianRouletteMinBounces,
	}
}

func logSystemInfo(logger *slog.Logger) {
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		logical, _ := cpu.Counts(true)
		logger.Info("cpu", "model", infos[0].ModelName, "logical_cpus", logical)
	} else if err != nil {
		logger.Debug("cpu info unavailable", "err", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		logger.Info("memory", "total_mb", vm.Total>>20, "available_mb", vm.Available>>20)
	}
}

func printSummary(w io.Writer, cfg config.Config, stats renderer.RenderStats, elapsed time.Duration) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Rendered %s: %dx%d, %d samples (%.1f per pixel) in %v\n",
		cfg.Scene, cfg.Width, cfg.Height, stats.TotalSamples, stats.AverageSamples, elapsed.Round(time.Millisecond))
	if stats.NumericAnomalies > 0 {
		p.Fprintf(w, "Dropped %d non-finite samples\n", stats.NumericAnomalies)
	}
	p.Fprintf(w, "Saved %s\n", cfg.OutputPath)
}
