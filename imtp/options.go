package imtp

import (
	"log/slog"
	"time"

	"github.com/cwbudde/algo-imtp/internal/logging"
	"github.com/cwbudde/algo-imtp/internal/metrics"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for warnings and failures. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithRecorder records analysis metrics on r.
func WithRecorder(r *metrics.Recorder) Option {
	return func(a *Analyzer) { a.rec = r }
}

// WithClock replaces the time source used to measure analysis latency.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

func defaultAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{
		cfg: cfg,
		log: logging.Discard(),
		now: time.Now,
	}
}
