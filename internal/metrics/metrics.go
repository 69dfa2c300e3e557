// Package metrics exposes Prometheus collectors for trial analysis.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels trials that produced a result.
	OutcomeSuccess = "success"
	// OutcomeError labels trials that failed validation or analysis.
	OutcomeError = "error"
)

// Recorder owns the analysis collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	trialsTotal   *prometheus.CounterVec
	duration      prometheus.Histogram
	warningsTotal *prometheus.CounterVec
	manualOnsets  prometheus.Counter
}

// NewRecorder creates the collectors without registering them.
func NewRecorder() *Recorder {
	return &Recorder{
		trialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "imtp",
				Name:      "trials_analyzed_total",
				Help:      "Total number of trial analyses, partitioned by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "imtp",
				Name:      "analysis_seconds",
				Help:      "Single-trial analysis latency in seconds.",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
		),
		warningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "imtp",
				Name:      "warnings_total",
				Help:      "Non-fatal analysis degradations, partitioned by kind.",
			},
			[]string{"kind"},
		),
		manualOnsets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "imtp",
				Name:      "manual_onsets_total",
				Help:      "Analyses that used a manually adjusted onset.",
			},
		),
	}
}

// Register attaches the collectors to reg. Collectors that are already
// registered are skipped.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		r.trialsTotal,
		r.duration,
		r.warningsTotal,
		r.manualOnsets,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveTrial records an analysis duration and outcome label.
func (r *Recorder) ObserveTrial(duration time.Duration, outcome string) {
	if r == nil {
		return
	}
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	r.trialsTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	r.duration.Observe(duration.Seconds())
}

// ObserveWarning counts one non-fatal degradation of the given kind.
func (r *Recorder) ObserveWarning(kind string) {
	if r == nil {
		return
	}
	r.warningsTotal.WithLabelValues(kind).Inc()
}

// ObserveManualOnset counts one analysis that used a manual onset.
func (r *Recorder) ObserveManualOnset() {
	if r == nil {
		return
	}
	r.manualOnsets.Inc()
}
