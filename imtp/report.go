package imtp

// PeakRFD returns the largest available RFD value. ok is false when no
// window could be evaluated; there is no substitute value.
func (r *Result) PeakRFD() (peak float64, ok bool) {
	for _, v := range r.RFD {
		if !v.OK {
			continue
		}
		if !ok || v.Value > peak {
			peak, ok = v.Value, true
		}
	}
	return peak, ok
}

// RelativeRFD is one RFD window expressed as a percentage of peak RFD.
type RelativeRFD struct {
	WindowMS int
	Percent  float64
	OK       bool
}

// RelativeRFD returns value/peak*100 for each available window. When the
// peak RFD is not positive every available window reports 0.
func (r *Result) RelativeRFD() []RelativeRFD {
	peak, _ := r.PeakRFD()

	out := make([]RelativeRFD, len(r.RFD))
	for i, v := range r.RFD {
		out[i] = RelativeRFD{WindowMS: v.WindowMS, OK: v.OK}
		if v.OK && peak > 0 {
			out[i].Percent = v.Value / peak * 100
		}
	}
	return out
}

// SummaryRow is one named metric for presentation layers.
type SummaryRow struct {
	Name  string
	Value float64
	Unit  string
	OK    bool
}

// Summary returns the metrics in a fixed presentation order. Rows whose
// value is unavailable have OK false.
func (r *Result) Summary() []SummaryRow {
	rows := []SummaryRow{
		{Name: "Peak Force", Value: r.PeakForce, Unit: "N", OK: true},
		{Name: "Net Peak Force", Value: r.NetPeakForce, Unit: "N", OK: true},
		{Name: "Onset Force", Value: r.OnsetForce, Unit: "N", OK: true},
		{Name: "Baseline Mean", Value: r.Onset.BaselineMean, Unit: "N", OK: true},
		{Name: "Threshold", Value: r.Onset.Threshold, Unit: "N", OK: true},
		{Name: "Onset Time", Value: r.Onset.EffectiveTime, Unit: "s", OK: true},
		{Name: "Auto Onset Time", Value: r.Onset.AutoTime, Unit: "s", OK: true},
		{Name: "Peak Time", Value: r.PeakTime, Unit: "s", OK: true},
		{Name: "Time to Peak", Value: r.TimeToPeak, Unit: "s", OK: true},
	}

	peak, ok := r.PeakRFD()
	rows = append(rows, SummaryRow{Name: "Peak RFD", Value: peak, Unit: "N/s", OK: ok})
	for _, v := range r.RFD {
		rows = append(rows, SummaryRow{Name: v.Label(), Value: v.Value, Unit: "N/s", OK: v.OK})
	}
	return rows
}
