package imtp

import "math"

// ManualOnset is an optional human-chosen onset time. The zero value means
// no override.
type ManualOnset struct {
	Time float64 // seconds
	Set  bool
}

// ManualAt returns an override at t seconds.
func ManualAt(t float64) ManualOnset {
	return ManualOnset{Time: t, Set: true}
}

// Resolution is the onset in effect for metric extraction.
type Resolution struct {
	Index    int
	Time     float64
	IsManual bool
}

// ResolveOnset picks the automatic onset unless manual is set, in which case
// the index is round(manual.Time*sampleRate). The index is clamped to
// [0, length-1] either way; Time is left as given.
func ResolveOnset(autoIndex int, autoTime float64, manual ManualOnset, sampleRate float64, length int) Resolution {
	last := max(length-1, 0)

	if !manual.Set {
		return Resolution{
			Index: min(max(autoIndex, 0), last),
			Time:  autoTime,
		}
	}

	return Resolution{
		Index:    roundIndex(manual.Time*sampleRate, last),
		Time:     manual.Time,
		IsManual: true,
	}
}

// roundIndex rounds x to the nearest sample and clamps it to [0, last]
// without converting out-of-range floats.
func roundIndex(x float64, last int) int {
	x = math.Round(x)
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= float64(last):
		return last
	default:
		return int(x)
	}
}
