package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise in [-amplitude, amplitude] with a
// fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// TimeAxis returns length sample times i/sampleRate in seconds.
func TimeAxis(sampleRate float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = float64(i) / sampleRate
	}
	return out
}

// NoisyStep returns a force trace resting at base with uniform noise of the
// given amplitude that jumps to high (also noisy) at sample stepAt.
func NoisyStep(seed int64, base, noise float64, stepAt int, high float64, length int) []float64 {
	out := DeterministicNoise(seed, noise, length)
	for i := range out {
		if i < stepAt {
			out[i] += base
		} else {
			out[i] += high
		}
	}
	return out
}

// Ramp returns a trace resting at base that rises linearly from sample
// start to peak over riseSamples, then holds.
func Ramp(base, peak float64, start, riseSamples, length int) []float64 {
	out := DC(base, length)
	for i := start; i < length; i++ {
		k := i - start
		if k >= riseSamples {
			out[i] = peak
			continue
		}
		out[i] = base + (peak-base)*float64(k)/float64(riseSamples)
	}
	return out
}
