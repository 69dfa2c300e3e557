package imtp

import (
	"fmt"

	"github.com/cwbudde/algo-imtp/dsp/core"
	"github.com/cwbudde/algo-imtp/dsp/spectrum"
	"github.com/cwbudde/algo-imtp/stats/frequency"
)

// DefaultPowerFraction is the share of spectral power SuggestCutoff keeps.
const DefaultPowerFraction = 0.99

// SpectralProfile summarises where the power of a force trace lies.
type SpectralProfile struct {
	RolloffHz  float64 // frequency below which the requested power fraction lies
	CentroidHz float64
	PeakHz     float64 // strongest bin, DC excluded
	CutoffHz   float64 // RolloffHz clamped to [MinCutoffHz, MaxCutoffHz]
}

// SuggestCutoff proposes a lowpass cutoff for force: the frequency below
// which fraction of the trace's spectral power lies, clamped to
// [MinCutoffHz, MaxCutoffHz]. A fraction outside (0, 1] selects
// DefaultPowerFraction.
func SuggestCutoff(force []float64, sampleRate, fraction float64) (float64, error) {
	p, err := ProfileSpectrum(force, sampleRate, fraction)
	if err != nil {
		return 0, err
	}
	return p.CutoffHz, nil
}

// ProfileSpectrum computes the spectral profile of force with the same
// validation and fraction handling as SuggestCutoff.
func ProfileSpectrum(force []float64, sampleRate, fraction float64) (SpectralProfile, error) {
	if len(force) < MinSamples {
		return SpectralProfile{}, fmt.Errorf("%w: %d samples, need at least %d", ErrInsufficientData, len(force), MinSamples)
	}
	if !core.AllFinite(force) {
		return SpectralProfile{}, fmt.Errorf("%w: force contains non-finite samples", ErrInsufficientData)
	}
	if !finite(fraction) || fraction <= 0 || fraction > 1 {
		fraction = DefaultPowerFraction
	}

	s, err := spectrum.PowerSpectrum(force, sampleRate)
	if err != nil {
		return SpectralProfile{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	rolloff := frequency.Rolloff(s.Power, sampleRate, fraction)
	return SpectralProfile{
		RolloffHz:  rolloff,
		CentroidHz: frequency.Centroid(s.Power, sampleRate),
		PeakHz:     frequency.PeakFrequency(s.Power, sampleRate),
		CutoffHz:   core.Clamp(rolloff, MinCutoffHz, MaxCutoffHz),
	}, nil
}
