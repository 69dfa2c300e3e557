package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-imtp/dsp/core"
)

// Generator creates deterministic synthetic force traces from a shared
// configuration. Every call re-seeds its noise source, so identical calls on
// the same generator return identical data.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// SetSeed replaces the noise seed.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Seed returns the current noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// Time returns the sample instants i/SampleRate in seconds.
func (g *Generator) Time(samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("time samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = float64(i) / g.cfg.SampleRate
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// TrialShape describes a synthetic isometric pull.
type TrialShape struct {
	Samples     int     // total length
	Baseline    float64 // resting force in N
	Peak        float64 // plateau force in N
	OnsetSample int     // first sample of force production
	RiseTime    float64 // time constant of the exponential rise in seconds
	Noise       float64 // uniform noise amplitude in N
}

// Trial generates the time axis and force trace of a synthetic trial. Force
// rests at Baseline until OnsetSample, then rises towards Peak as
// Baseline + (Peak-Baseline)*(1-exp(-t/RiseTime)). Noise is added throughout.
func (g *Generator) Trial(shape TrialShape) (time, force []float64, err error) {
	if shape.OnsetSample < 0 || shape.OnsetSample > shape.Samples {
		return nil, nil, fmt.Errorf("trial onset %d outside [0, %d]", shape.OnsetSample, shape.Samples)
	}
	if shape.RiseTime <= 0 {
		return nil, nil, fmt.Errorf("trial rise time must be > 0: %f", shape.RiseTime)
	}

	time, err = g.Time(shape.Samples)
	if err != nil {
		return nil, nil, err
	}
	force, err = g.WhiteNoise(shape.Noise, shape.Samples)
	if err != nil {
		return nil, nil, err
	}

	span := shape.Peak - shape.Baseline
	for i := range force {
		level := shape.Baseline
		if i >= shape.OnsetSample {
			t := float64(i-shape.OnsetSample) / g.cfg.SampleRate
			level += span * (1 - math.Exp(-t/shape.RiseTime))
		}
		force[i] += level
	}

	return time, force, nil
}
