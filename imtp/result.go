package imtp

// OnsetRecord holds both the automatic detection and the onset in effect.
type OnsetRecord struct {
	AutoIndex      int
	AutoTime       float64
	BaselineWindow int
	BaselineMean   float64
	BaselineStd    float64
	Threshold      float64
	// AutoFallback is set when AutoIndex did not come from a threshold
	// crossing.
	AutoFallback   bool
	EffectiveIndex int
	EffectiveTime  float64
	IsManual       bool
}

// Result is the complete analysis of one trial. A Result is never modified
// after Analyze returns it; re-analysis produces a new value. Callers must
// treat the slices as read-only.
type Result struct {
	Onset OnsetRecord

	PeakForce    float64 // N
	PeakIndex    int
	PeakTime     float64 // s, PeakIndex / SampleRate
	OnsetForce   float64 // N
	NetPeakForce float64 // N, PeakForce - baseline mean
	TimeToPeak   float64 // s
	RFD          []RFDValue

	// FilteredForce and Time are aligned copies of the cleaned input.
	FilteredForce []float64
	Time          []float64

	ManualAdjustment bool
	Warnings         []Warning
	Config           Config
}

// LowConfidence reports whether the automatic onset was a fallback rather
// than a detected crossing.
func (r *Result) LowConfidence() bool {
	return r.Onset.AutoFallback
}

// HasWarning reports whether any warning of the given kind was raised.
func (r *Result) HasWarning(kind WarningKind) bool {
	return hasWarning(r.Warnings, kind)
}

// OnsetShiftMS returns the effective onset minus the automatic onset in
// milliseconds. It is zero unless a manual onset is in effect.
func (r *Result) OnsetShiftMS() float64 {
	if !r.Onset.IsManual {
		return 0
	}
	return (r.Onset.EffectiveTime - r.Onset.AutoTime) * 1000
}

// RFDAt returns the RFD value for the given window, if that window exists.
func (r *Result) RFDAt(windowMS int) (RFDValue, bool) {
	for _, v := range r.RFD {
		if v.WindowMS == windowMS {
			return v, true
		}
	}
	return RFDValue{}, false
}
