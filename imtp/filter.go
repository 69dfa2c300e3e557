package imtp

import (
	"errors"

	"github.com/cwbudde/algo-imtp/dsp/core"
	"github.com/cwbudde/algo-imtp/dsp/filter/design"
	"github.com/cwbudde/algo-imtp/dsp/filter/zerophase"
)

const (
	// MinFilterSamples is the shortest series the filter stage will touch.
	MinFilterSamples = 6

	// normalizedCutoffLimit caps the cutoff as a fraction of Nyquist.
	normalizedCutoffLimit = 0.99
)

// FilterResult is the output of the filter stage. Force always has the
// length of the input.
type FilterResult struct {
	Force    []float64
	Warnings []Warning
}

// Filter applies a zero-phase Butterworth lowpass of the given order to
// force. It never fails: when filtering is impossible or unstable the
// returned Force is a copy of the input and a warning says why. A cutoff
// at or below zero returns an unwarned copy. The input is not modified.
func Filter(force []float64, cutoffHz, sampleRate float64, order int) FilterResult {
	raw := core.Copy(force)

	if len(force) < MinFilterSamples {
		return FilterResult{
			Force:    raw,
			Warnings: []Warning{warnf(FilterSkipped, "%d samples, need at least %d", len(force), MinFilterSamples)},
		}
	}

	wn := design.NormalizedCutoff(cutoffHz, sampleRate, normalizedCutoffLimit)
	if wn <= 0 {
		return FilterResult{Force: raw}
	}

	if order < 1 || order > MaxFilterOrder {
		return FilterResult{
			Force:    raw,
			Warnings: []Warning{warnf(FilterDegraded, "filter order %d outside [1, %d]", order, MaxFilterOrder)},
		}
	}

	coeffs := design.ButterworthLP(wn*0.5*sampleRate, order, sampleRate)
	if len(coeffs) == 0 {
		return FilterResult{
			Force:    raw,
			Warnings: []Warning{warnf(FilterDegraded, "cannot design order %d lowpass at %.4g of Nyquist", order, wn)},
		}
	}

	out, err := zerophase.Filter(coeffs, force)
	switch {
	case errors.Is(err, zerophase.ErrTooShort):
		return FilterResult{
			Force: raw,
			Warnings: []Warning{warnf(FilterDegraded, "%d samples too short for %d samples of edge padding",
				len(force), zerophase.PadLen(zerophase.Order(coeffs)))},
		}
	case err != nil:
		return FilterResult{Force: raw, Warnings: []Warning{warnf(FilterDegraded, "%v", err)}}
	case !core.AllFinite(out):
		return FilterResult{Force: raw, Warnings: []Warning{warnf(FilterDegraded, "filter produced non-finite output")}}
	}

	return FilterResult{Force: out}
}
