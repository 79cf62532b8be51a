package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of samples taken
	PassSamples      int           // Samples added during the pass
	AverageSamples   float64       // Average samples per pixel
	MaxSamples       int           // Target samples per pixel for the pass
	MinSamples       int           // Minimum samples taken per pixel
	MaxSamplesUsed   int           // Maximum samples actually used by any pixel
	NumericAnomalies int           // Samples dropped for NaN or infinite radiance
	MeanLuminance    float64       // Mean luminance of the linear frame
	LuminanceStdDev  float64       // Spread of luminance across pixels
	Duration         time.Duration // Wall time of the pass
}

// PixelStats tracks a running mean of the samples taken for a single pixel.
// The mean is updated incrementally so precision does not degrade with sample count.
type PixelStats struct {
	mean        core.Vec3 // Running mean color
	lumMean     float64   // Running mean of luminance
	lumM2       float64   // Sum of squared luminance deviations (Welford)
	SampleCount int       // Number of samples accepted
	Anomalies   int       // Number of non-finite samples rejected
}

// AddSample adds a new color sample to the pixel statistics. Non-finite samples are
// counted as anomalies and do not contribute; AddSample reports whether c was accepted.
func (ps *PixelStats) AddSample(c core.Vec3) bool {
	if !c.IsFinite() {
		ps.Anomalies++
		return false
	}

	ps.SampleCount++
	n := float64(ps.SampleCount)
	ps.mean = ps.mean.Add(c.Subtract(ps.mean).Multiply(1.0 / n))

	luminance := c.Luminance()
	delta := luminance - ps.lumMean
	ps.lumMean += delta / n
	ps.lumM2 += delta * (luminance - ps.lumMean)
	return true
}

// Attempts returns the number of samples drawn for this pixel, accepted or not
func (ps *PixelStats) Attempts() int {
	return ps.SampleCount + ps.Anomalies
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	return ps.mean
}

// LuminanceVariance returns the sample variance of the luminance of accepted samples
func (ps *PixelStats) LuminanceVariance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	return ps.lumM2 / float64(ps.SampleCount-1)
}

// merge folds the statistics of a disjoint region into s
func (s *RenderStats) merge(region RenderStats) {
	if region.TotalPixels == 0 {
		return
	}
	if s.TotalPixels == 0 || region.MinSamples < s.MinSamples {
		s.MinSamples = region.MinSamples
	}
	s.TotalPixels += region.TotalPixels
	s.TotalSamples += region.TotalSamples
	s.PassSamples += region.PassSamples
	s.NumericAnomalies += region.NumericAnomalies
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, region.MaxSamplesUsed)
	s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
}

// LuminanceStats returns the mean and standard deviation of per-pixel luminance
func LuminanceStats(frame *Frame) (mean, stdDev float64) {
	if len(frame.Pixels) == 0 {
		return 0, 0
	}
	luminance := make([]float64, len(frame.Pixels))
	for i, c := range frame.Pixels {
		luminance[i] = c.Luminance()
	}
	if len(luminance) == 1 {
		return luminance[0], 0
	}
	return stat.MeanStdDev(luminance, nil)
}
