package imtp

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cwbudde/algo-imtp/internal/metrics"
	timestats "github.com/cwbudde/algo-imtp/stats/time"
)

// Analyzer runs trial analyses with a fixed configuration. It holds no
// per-trial state and is safe for concurrent use.
type Analyzer struct {
	cfg Config
	log *slog.Logger
	rec *metrics.Recorder
	now func() time.Time
}

// NewAnalyzer returns an Analyzer for cfg.
func NewAnalyzer(cfg Config, opts ...Option) *Analyzer {
	a := defaultAnalyzer(cfg)
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// Analyze runs a single analysis with cfg. See [Analyzer.Analyze].
func Analyze(times, force []float64, cfg Config, manual ManualOnset) (*Result, error) {
	return NewAnalyzer(cfg).Analyze(times, force, manual)
}

// Analyze validates the trial, filters the force, detects and resolves the
// onset and extracts metrics. It either returns a complete Result or an
// error wrapping one of the package sentinels; it does not panic on any
// numeric input. Neither input slice is modified.
func (a *Analyzer) Analyze(times, force []float64, manual ManualOnset) (*Result, error) {
	start := a.now()

	res, err := a.analyze(times, force, manual)
	elapsed := a.now().Sub(start)

	if err != nil {
		a.log.Error("trial analysis failed", "samples", len(force), "error", err)
		a.rec.ObserveTrial(elapsed, metrics.OutcomeError)
		return nil, err
	}

	for _, w := range res.Warnings {
		a.log.Warn("trial analysis degraded", "kind", w.Kind.String(), "detail", w.Message)
		a.rec.ObserveWarning(w.Kind.String())
	}
	if res.ManualAdjustment {
		a.rec.ObserveManualOnset()
	}
	a.rec.ObserveTrial(elapsed, metrics.OutcomeSuccess)
	a.log.Debug("trial analyzed",
		"samples", len(res.FilteredForce),
		"onset", res.Onset.EffectiveIndex,
		"manual", res.ManualAdjustment,
		"peak_force", res.PeakForce)

	return res, nil
}

func (a *Analyzer) analyze(times, force []float64, manual ManualOnset) (*Result, error) {
	cfg := a.cfg
	if err := cfg.checkSampleRate(); err != nil {
		return nil, err
	}
	if manual.Set && !finite(manual.Time) {
		return nil, fmt.Errorf("%w: %v s", ErrInvalidManualOnset, manual.Time)
	}
	if len(times) != len(force) {
		return nil, fmt.Errorf("%w: %d time samples, %d force samples", ErrLengthMismatch, len(times), len(force))
	}
	if len(force) < MinSamples {
		return nil, fmt.Errorf("%w: %d samples, need at least %d", ErrInsufficientData, len(force), MinSamples)
	}

	var warnings []Warning

	ts, raw, dropped := dropNaNRows(times, force)
	if dropped > 0 {
		warnings = append(warnings, warnf(SamplesDropped, "removed %d rows containing NaN", dropped))
	}
	if len(raw) < MinSamples {
		return nil, fmt.Errorf("%w: %d valid samples after removing NaN rows, need at least %d",
			ErrInsufficientData, len(raw), MinSamples)
	}

	filtered := Filter(raw, cfg.Filter.CutoffHz, cfg.SampleRate, cfg.Filter.Order)
	warnings = append(warnings, filtered.Warnings...)

	det := DetectOnset(filtered.Force, cfg.BaselineSamples(), cfg.Onset.ThresholdMultiplier)
	warnings = append(warnings, det.Warnings...)
	autoTime := float64(det.Index) / cfg.SampleRate

	eff := ResolveOnset(det.Index, autoTime, manual, cfg.SampleRate, len(filtered.Force))

	m, err := ExtractMetrics(filtered.Force, eff.Index, det.BaselineMean, cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("extract metrics: %w", err)
	}
	warnings = append(warnings, m.Warnings...)

	return &Result{
		Onset: OnsetRecord{
			AutoIndex:      det.Index,
			AutoTime:       autoTime,
			BaselineWindow: det.BaselineWindow,
			BaselineMean:   det.BaselineMean,
			BaselineStd:    det.BaselineStd,
			Threshold:      det.Threshold,
			AutoFallback:   det.Fallback,
			EffectiveIndex: eff.Index,
			EffectiveTime:  eff.Time,
			IsManual:       eff.IsManual,
		},
		PeakForce:        m.PeakForce,
		PeakIndex:        m.PeakIndex,
		PeakTime:         m.PeakTime,
		OnsetForce:       m.OnsetForce,
		NetPeakForce:     m.NetPeakForce,
		TimeToPeak:       m.TimeToPeak,
		RFD:              m.RFD,
		FilteredForce:    filtered.Force,
		Time:             ts,
		ManualAdjustment: eff.IsManual,
		Warnings:         warnings,
		Config:           cfg,
	}, nil
}

// dropNaNRows returns copies of times and force without the rows in which
// either value is NaN, and the number of rows removed.
func dropNaNRows(times, force []float64) (ts, fs []float64, dropped int) {
	if !timestats.HasNaN(times) && !timestats.HasNaN(force) {
		ts = make([]float64, len(times))
		fs = make([]float64, len(force))
		copy(ts, times)
		copy(fs, force)
		return ts, fs, 0
	}

	ts = make([]float64, 0, len(times))
	fs = make([]float64, 0, len(force))
	for i := range times {
		if math.IsNaN(times[i]) || math.IsNaN(force[i]) {
			dropped++
			continue
		}
		ts = append(ts, times[i])
		fs = append(fs, force[i])
	}
	return ts, fs, dropped
}
