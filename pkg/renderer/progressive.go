package renderer

import (
	"context"
	"fmt"
	"time"
)

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *Frame
	Stats      RenderStats
	IsLast     bool
}

// getSamplesForPass calculates the target total samples for a given pass.
// The first pass is a one-sample preview; the rest split the remaining samples evenly.
func (rt *Raytracer) getSamplesForPass(passNumber int) int {
	total := rt.config.SamplesPerPixel
	passes := rt.config.Passes

	if passes <= 1 || passNumber >= passes {
		return total
	}
	if passNumber == 1 {
		return 1
	}

	samplesPerPass := (total - 1) / (passes - 1)
	return 1 + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass on a running worker pool
func (rt *Raytracer) RenderPass(pool *WorkerPool, passNumber int) (PassResult, error) {
	startTime := time.Now()
	targetSamples := rt.getSamplesForPass(passNumber)

	rt.logger.Debug("pass started",
		"pass", passNumber, "target_samples", targetSamples, "workers", pool.GetNumWorkers(), "tiles", len(rt.tiles))

	for taskID, tile := range rt.tiles {
		pool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
		})
	}

	// Collect every result before returning so no worker still writes to the accumulator
	stats := RenderStats{MaxSamples: targetSamples}
	var firstErr error
	for i := 0; i < len(rt.tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return PassResult{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		rt.tiles[result.TaskID].PassesCompleted++
		stats.merge(result.Stats)
	}
	if firstErr != nil {
		return PassResult{}, firstErr
	}

	frame := rt.accumulator.Frame()
	stats.MeanLuminance, stats.LuminanceStdDev = LuminanceStats(frame)
	stats.Duration = time.Since(startTime)

	rt.logger.Info("pass completed",
		"pass", passNumber,
		"duration", stats.Duration,
		"samples_per_pixel", stats.AverageSamples,
		"new_samples", stats.PassSamples,
		"anomalies", stats.NumericAnomalies)

	return PassResult{
		PassNumber: passNumber,
		Frame:      frame,
		Stats:      stats,
		IsLast:     passNumber == rt.config.Passes,
	}, nil
}

// RenderProgressive renders all passes on a background goroutine and streams each
// finished pass. Cancelling ctx stops the render between tiles; the error channel then
// carries ctx.Err(). Both channels are closed when rendering ends.
func (rt *Raytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(errChan)
		defer close(passChan)

		pool := NewWorkerPool(rt.tileRenderer, rt.accumulator, rt.config.NumWorkers, len(rt.tiles))
		pool.Start(ctx)
		defer pool.Stop()

		rt.logger.Info("starting render",
			"width", rt.width, "height", rt.height,
			"samples", rt.config.SamplesPerPixel, "passes", rt.config.Passes,
			"workers", pool.GetNumWorkers())

		for pass := 1; pass <= rt.config.Passes; pass++ {
			if err := ctx.Err(); err != nil {
				rt.logger.Info("render cancelled", "before_pass", pass)
				errChan <- err
				return
			}

			result, err := rt.RenderPass(pool, pass)
			if err != nil {
				errChan <- err
				return
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}
