package imtp

import (
	"errors"
	"fmt"
)

// Fatal analysis errors. Analyze wraps one of these with a reason.
var (
	ErrInsufficientData   = errors.New("imtp: insufficient data")
	ErrLengthMismatch     = errors.New("imtp: time and force lengths differ")
	ErrInvalidConfig      = errors.New("imtp: invalid configuration")
	ErrInvalidManualOnset = errors.New("imtp: invalid manual onset")
)

// WarningKind classifies a non-fatal degradation.
type WarningKind int

const (
	// FilterSkipped: too few samples to filter; the raw force was used.
	FilterSkipped WarningKind = iota + 1
	// FilterDegraded: the filter could not be designed, could not pad the
	// series or produced non-finite output; the raw force was used.
	FilterDegraded
	// OnsetNotFound: no sustained threshold crossing; the onset was placed
	// at the end of the baseline window.
	OnsetNotFound
	// OnsetFallback: the baseline was degenerate; a best-effort onset was
	// used.
	OnsetFallback
	// RFDWindowUnavailable: an RFD window had no value.
	RFDWindowUnavailable
	// SamplesDropped: rows with NaN time or force were removed.
	SamplesDropped
)

var warningKindNames = map[WarningKind]string{
	FilterSkipped:        "filter_skipped",
	FilterDegraded:       "filter_degraded",
	OnsetNotFound:        "onset_not_found",
	OnsetFallback:        "onset_fallback",
	RFDWindowUnavailable: "rfd_window_unavailable",
	SamplesDropped:       "samples_dropped",
}

// String returns the snake_case name used in logs and metric labels.
func (k WarningKind) String() string {
	if name, ok := warningKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("warning_kind(%d)", int(k))
}

// Warning is a non-fatal condition attached to a stage result.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}

func warnf(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func hasWarning(ws []Warning, kind WarningKind) bool {
	for _, w := range ws {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
