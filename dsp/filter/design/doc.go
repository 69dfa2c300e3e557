// Package design provides digital IIR filter coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad for runtime processing: an RBJ-style [Lowpass] section
// and the [ButterworthLP] cascade used to smooth force-plate recordings.
// Designers never fail loudly; parameters they cannot realise yield the zero
// [biquad.Coefficients] value (or a nil cascade), which callers detect with
// [biquad.Coefficients.IsZero].
package design
