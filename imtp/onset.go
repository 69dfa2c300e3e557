package imtp

import (
	"math"

	"github.com/cwbudde/algo-imtp/dsp/core"
	timestats "github.com/cwbudde/algo-imtp/stats/time"
)

const (
	// sustainSamples consecutive samples must exceed the threshold.
	sustainSamples = 5
	minBaseline    = 10
	// flatBaselineStd replaces a zero baseline deviation.
	flatBaselineStd = 0.1

	fallbackBaseline  = 100
	fallbackThreshold = 10.0
)

// OnsetDetection is the output of the onset detector.
type OnsetDetection struct {
	Index          int
	BaselineWindow int // samples actually used for the baseline
	BaselineMean   float64
	BaselineStd    float64
	Threshold      float64
	// Fallback is set when Index did not come from a threshold crossing.
	Fallback bool
	Warnings []Warning
}

// DetectOnset finds the first index at which force rises above
// mean + multiplier*std of the leading baselineWindow samples and stays
// above it for five consecutive samples.
//
// The window is clamped to [10, len(force)/4] and halved to len(force)/2
// if it would cover the whole series. When no crossing exists the onset is
// placed at the end of the window. A degenerate baseline yields the onset
// min(100, len(force)/4) with a threshold 10 N above that prefix's mean.
func DetectOnset(force []float64, baselineWindow int, multiplier float64) OnsetDetection {
	n := len(force)

	bw := max(minBaseline, min(baselineWindow, n/4))
	if bw >= n {
		bw = n / 2
	}
	if bw <= 0 {
		return degenerateOnset(force, "series of %d samples has no baseline", n)
	}

	mean, std := timestats.MeanStd(force[:bw])
	if !core.IsFinite(mean) || !core.IsFinite(std) {
		return degenerateOnset(force, "baseline statistics are not finite")
	}
	if std == 0 {
		std = flatBaselineStd
	}

	det := OnsetDetection{
		BaselineWindow: bw,
		BaselineMean:   mean,
		BaselineStd:    std,
		Threshold:      mean + multiplier*std,
	}

	for i := bw; i <= n-sustainSamples-1; i++ {
		if sustainedAbove(force[i:i+sustainSamples], det.Threshold) {
			det.Index = i
			return det
		}
	}

	det.Index = bw
	det.Fallback = true
	det.Warnings = []Warning{warnf(OnsetNotFound, "no sustained crossing of %.4g N; onset set to end of baseline", det.Threshold)}
	return det
}

func sustainedAbove(window []float64, threshold float64) bool {
	for _, v := range window {
		if !(v > threshold) {
			return false
		}
	}
	return true
}

func degenerateOnset(force []float64, format string, args ...any) OnsetDetection {
	idx := min(fallbackBaseline, len(force)/4)

	var mean float64
	if idx > 0 {
		mean = timestats.Mean(force[:idx])
	}

	return OnsetDetection{
		Index:          idx,
		BaselineWindow: idx,
		BaselineMean:   mean,
		BaselineStd:    math.NaN(),
		Threshold:      mean + fallbackThreshold,
		Fallback:       true,
		Warnings:       []Warning{warnf(OnsetFallback, format, args...)},
	}
}
