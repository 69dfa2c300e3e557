package imtp

import (
	"fmt"
	"math"
)

// Defaults and documented ranges.
const (
	DefaultSampleRate          = 1000.0
	DefaultCutoffHz            = 50.0
	DefaultFilterOrder         = 4
	DefaultThresholdMultiplier = 5.0

	MinSampleRate          = 100.0
	MaxSampleRate          = 10000.0
	MinCutoffHz            = 10.0
	MaxCutoffHz            = 100.0
	MinThresholdMultiplier = 1.0
	MaxThresholdMultiplier = 10.0
	MaxFilterOrder         = 8

	// MinSamples is the smallest number of valid paired samples a trial
	// may have.
	MinSamples = 50
)

// Config holds every scalar an analysis depends on.
type Config struct {
	SampleRate float64      `yaml:"sample_rate"`
	Filter     FilterConfig `yaml:"filter"`
	Onset      OnsetConfig  `yaml:"onset"`
}

// FilterConfig configures the lowpass filter stage.
type FilterConfig struct {
	// CutoffHz is the -3 dB frequency of each pass. A value <= 0 disables
	// filtering.
	CutoffHz float64 `yaml:"cutoff_hz"`
	Order    int     `yaml:"order"`
}

// OnsetConfig configures onset detection.
type OnsetConfig struct {
	// BaselineWindow is the number of leading samples used to estimate the
	// resting level. Zero selects one second of data.
	BaselineWindow      int     `yaml:"baseline_window"`
	ThresholdMultiplier float64 `yaml:"threshold_multiplier"`
}

// DefaultConfig returns the settings for a 1 kHz force plate.
func DefaultConfig() Config {
	return Config{
		SampleRate: DefaultSampleRate,
		Filter: FilterConfig{
			CutoffHz: DefaultCutoffHz,
			Order:    DefaultFilterOrder,
		},
		Onset: OnsetConfig{
			ThresholdMultiplier: DefaultThresholdMultiplier,
		},
	}
}

// Validate checks c against the documented ranges. It is stricter than
// Analyze, which only needs a usable sample rate.
func (c Config) Validate() error {
	switch {
	case !finite(c.SampleRate) || c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate:
		return fmt.Errorf("%w: sample rate %v Hz outside [%v, %v]", ErrInvalidConfig, c.SampleRate, MinSampleRate, MaxSampleRate)
	case !finite(c.Filter.CutoffHz) || c.Filter.CutoffHz < MinCutoffHz || c.Filter.CutoffHz > MaxCutoffHz:
		return fmt.Errorf("%w: cutoff %v Hz outside [%v, %v]", ErrInvalidConfig, c.Filter.CutoffHz, MinCutoffHz, MaxCutoffHz)
	case c.Filter.CutoffHz/(0.5*c.SampleRate) >= 1:
		return fmt.Errorf("%w: cutoff %v Hz not below Nyquist %v Hz", ErrInvalidConfig, c.Filter.CutoffHz, 0.5*c.SampleRate)
	case c.Filter.Order < 1 || c.Filter.Order > MaxFilterOrder:
		return fmt.Errorf("%w: filter order %d outside [1, %d]", ErrInvalidConfig, c.Filter.Order, MaxFilterOrder)
	case c.Onset.BaselineWindow < 0:
		return fmt.Errorf("%w: negative baseline window %d", ErrInvalidConfig, c.Onset.BaselineWindow)
	case !finite(c.Onset.ThresholdMultiplier) ||
		c.Onset.ThresholdMultiplier < MinThresholdMultiplier || c.Onset.ThresholdMultiplier > MaxThresholdMultiplier:
		return fmt.Errorf("%w: threshold multiplier %v outside [%v, %v]", ErrInvalidConfig,
			c.Onset.ThresholdMultiplier, MinThresholdMultiplier, MaxThresholdMultiplier)
	}
	return nil
}

// BaselineSamples returns the requested baseline window in samples,
// resolving zero to one second of data.
func (c Config) BaselineSamples() int {
	if c.Onset.BaselineWindow > 0 {
		return c.Onset.BaselineWindow
	}
	return int(math.Round(c.SampleRate))
}

func (c Config) checkSampleRate() error {
	if !finite(c.SampleRate) || c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidConfig, c.SampleRate)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
