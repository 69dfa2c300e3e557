package imtp

import (
	"fmt"
	"math"

	timestats "github.com/cwbudde/algo-imtp/stats/time"
)

// rfdWindowsMS are the RFD windows measured from onset, in milliseconds.
var rfdWindowsMS = [...]int{50, 100, 150, 200, 250}

// RFDWindows returns the RFD window lengths in milliseconds, in report order.
func RFDWindows() []int {
	out := make([]int, len(rfdWindowsMS))
	copy(out, rfdWindowsMS[:])
	return out
}

// RFDValue is the mean rate of force development over [onset, onset+window].
// OK is false when the window could not be evaluated.
type RFDValue struct {
	WindowMS int
	Value    float64 // N/s
	OK       bool
}

// Label returns the conventional column name, e.g. "RFD 0-50ms".
func (v RFDValue) Label() string {
	return fmt.Sprintf("RFD 0-%dms", v.WindowMS)
}

// MetricSet is the output of the metric extractor.
type MetricSet struct {
	PeakForce    float64
	PeakIndex    int
	PeakTime     float64
	OnsetForce   float64
	NetPeakForce float64
	TimeToPeak   float64
	RFD          []RFDValue
	Warnings     []Warning
}

// ExtractMetrics derives peak and RFD metrics from a filtered force trace and
// the onset in effect.
//
// The peak is the first maximum at or after onsetIndex, or the global
// maximum when the onset is at the last sample. A window W yields no RFD
// value when onsetIndex + round(W*sampleRate/1000) >= len(force) or when the
// slope is not finite.
func ExtractMetrics(force []float64, onsetIndex int, baselineMean, sampleRate float64) (MetricSet, error) {
	n := len(force)
	if n == 0 {
		return MetricSet{}, fmt.Errorf("%w: empty force series", ErrInsufficientData)
	}
	if !finite(sampleRate) || sampleRate <= 0 {
		return MetricSet{}, fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidConfig, sampleRate)
	}
	if onsetIndex < 0 || onsetIndex >= n {
		return MetricSet{}, fmt.Errorf("imtp: onset index %d outside [0, %d)", onsetIndex, n)
	}

	var peakIndex int
	if onsetIndex >= n-1 {
		peakIndex = timestats.ArgMax(force)
	} else {
		peakIndex = onsetIndex + timestats.ArgMax(force[onsetIndex:])
	}

	m := MetricSet{
		PeakForce:    force[peakIndex],
		PeakIndex:    peakIndex,
		PeakTime:     float64(peakIndex) / sampleRate,
		OnsetForce:   force[onsetIndex],
		NetPeakForce: force[peakIndex] - baselineMean,
		TimeToPeak:   float64(peakIndex-onsetIndex) / sampleRate,
		RFD:          make([]RFDValue, 0, len(rfdWindowsMS)),
	}

	for _, w := range rfdWindowsMS {
		v := RFDValue{WindowMS: w}
		points := math.Round(float64(w) * sampleRate / 1000)
		end := float64(onsetIndex) + points

		if end >= float64(n) {
			m.Warnings = append(m.Warnings, warnf(RFDWindowUnavailable,
				"%s needs sample %.0f, series ends at %d", v.Label(), end, n-1))
			m.RFD = append(m.RFD, v)
			continue
		}

		rfd := (force[int(end)] - m.OnsetForce) / (float64(w) / 1000)
		if !finite(rfd) {
			m.Warnings = append(m.Warnings, warnf(RFDWindowUnavailable, "%s is not finite", v.Label()))
			m.RFD = append(m.RFD, v)
			continue
		}

		v.Value, v.OK = rfd, true
		m.RFD = append(m.RFD, v)
	}

	return m, nil
}
