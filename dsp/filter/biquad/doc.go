// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections can be
// cascaded via [Chain] for higher-order filters such as the Butterworth
// lowpass used to smooth force-plate recordings.
//
// Sections and chains can be primed with their steady-state response to a
// constant input ([Section.SteadyState], [Chain.PrimeSteadyState]); the
// zero-phase filter in dsp/filter/zerophase relies on this to start each pass
// without a transient.
//
// Coefficient design lives in dsp/filter/design.
package biquad
