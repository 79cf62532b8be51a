package renderer

import (
	"image"
	"log/slog"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      Scene
	integrator integrator.Integrator
	seed       uint64
	logger     *slog.Logger
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scene Scene, integratorInst integrator.Integrator, seed uint64, logger *slog.Logger) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integratorInst,
		seed:       seed,
		logger:     core.LoggerOrNop(logger),
	}
}

// RenderTileBounds raises every pixel within bounds to targetSamples samples and returns
// the tile's statistics: sample and anomaly totals cover every pass so far, PassSamples only
// this one. The sampler is reseeded for each (pixel, sample), so the result does not depend
// on which worker renders the tile or on how samples were split across passes.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, acc *Accumulator, sampler *core.RandomSampler, targetSamples int) RenderStats {
	camera := tr.scene.GetCamera()
	stats := RenderStats{MaxSamples: targetSamples}
	newAnomalies := 0

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := acc.Pixel(i, j)
			before, anomaliesBefore := ps.SampleCount, ps.Anomalies

			if targetSamples <= 0 {
				// No samples: show what the camera sees of the background, skipping the integrator
				if ps.Attempts() == 0 {
					ps.AddSample(tr.scene.Background(camera.GetPixelCenterRay(i, j).Direction))
				}
			}
			for ps.Attempts() < targetSamples {
				sampler.Reseed(tr.seed, i, j, ps.Attempts())
				ray := camera.GetPixelRay(i, j, sampler)
				ps.AddSample(tr.integrator.RayColor(ray, tr.scene, sampler))
			}

			newAnomalies += ps.Anomalies - anomaliesBefore
			stats.merge(RenderStats{
				TotalPixels:      1,
				TotalSamples:     ps.SampleCount,
				PassSamples:      ps.SampleCount - before,
				MinSamples:       ps.SampleCount,
				MaxSamplesUsed:   ps.SampleCount,
				NumericAnomalies: ps.Anomalies,
			})
		}
	}

	if newAnomalies > 0 {
		tr.logger.Debug("dropped non-finite samples",
			"tile", bounds.String(), "count", newAnomalies, "err", core.ErrNumericAnomaly)
	}
	return stats
}
