// Package frequency provides summary statistics over one-sided power spectra.
//
// Every function takes the power (|X[k]|^2) bins from DC to Nyquist, so a
// slice of length n corresponds to an FFT of size 2*(n-1).
package frequency

// binFreq returns the frequency in Hz of a given bin index.
// fftSize = 2 * (binCount - 1).
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Rolloff returns the frequency below which the given fraction (0..1) of the
// total spectral power lies. It returns 0 for fewer than two bins or a
// spectrum without power.
func Rolloff(power []float64, sampleRate float64, fraction float64) float64 {
	n := len(power)
	if n < 2 {
		return 0
	}

	total := 0.0
	for _, p := range power {
		total += p
	}
	if total <= 0 {
		return 0
	}

	threshold := fraction * total
	cum := 0.0
	for i, p := range power {
		cum += p
		if cum >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}

	return binFreq(n-1, sampleRate, n)
}

// Centroid returns the power-weighted mean frequency in Hz.
//
//	centroid = sum(f_i * P_i) / sum(P_i)
func Centroid(power []float64, sampleRate float64) float64 {
	n := len(power)
	if n < 2 {
		return 0
	}

	var sum, weighted float64
	for i, p := range power {
		sum += p
		weighted += binFreq(i, sampleRate, n) * p
	}
	if sum == 0 {
		return 0
	}

	return weighted / sum
}

// PeakFrequency returns the frequency of the strongest bin, DC excluded.
func PeakFrequency(power []float64, sampleRate float64) float64 {
	n := len(power)
	if n < 2 {
		return 0
	}

	best := 1
	for i := 2; i < n; i++ {
		if power[i] > power[best] {
			best = i
		}
	}

	return binFreq(best, sampleRate, n)
}
