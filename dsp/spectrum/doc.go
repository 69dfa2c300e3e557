// Package spectrum computes one-sided power spectra of real sampled traces.
//
// The FFT itself is provided by algo-fft; this package handles windowing,
// zero-padding and bin bookkeeping so callers can reason in hertz.
package spectrum
