package imtp

import (
	"testing"

	"github.com/cwbudde/algo-imtp/dsp/core"
	"github.com/cwbudde/algo-imtp/dsp/signal"
	"github.com/cwbudde/algo-imtp/internal/testutil"
)

// pullTrial returns a 3 s trial at 1 kHz resting at 800 N with an
// exponential rise to 3000 N starting at sample 1000.
func pullTrial(t testing.TB, seed int64) (times, force []float64) {
	t.Helper()
	g := signal.NewGeneratorWithOptions([]core.ProcessorOption{core.WithSampleRate(1000)}, signal.WithSeed(seed))
	times, force, err := g.Trial(signal.TrialShape{
		Samples:     3000,
		Baseline:    800,
		Peak:        3000,
		OnsetSample: 1000,
		RiseTime:    0.05,
		Noise:       2,
	})
	if err != nil {
		t.Fatalf("Trial() error = %v", err)
	}
	return times, force
}

// rampTrial is noise-free: 100 N for 1000 samples, then +10 N per sample
// for 200 samples, then 2100 N until sample 1500.
func rampTrial() (times, force []float64) {
	return testutil.TimeAxis(1000, 1500), testutil.Ramp(100, 2100, 1000, 200, 1500)
}

// unfiltered returns the default config with filtering disabled.
func unfiltered() Config {
	cfg := DefaultConfig()
	cfg.Filter.CutoffHz = 0
	return cfg
}
