package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// ErrEmptyInput is returned when a spectrum is requested for an empty trace.
var ErrEmptyInput = errors.New("spectrum: empty input")

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Spectrum is a one-sided power spectrum. Bin k lies at k*BinHz.
type Spectrum struct {
	Power      []float64 // |X[k]|^2 for k = 0..FFTSize/2
	BinHz      float64
	FFTSize    int
	SampleRate float64
}

// Frequency returns the centre frequency of bin k in Hz.
func (s Spectrum) Frequency(k int) float64 {
	return float64(k) * s.BinHz
}

// Power returns |X[k]|^2 for each complex spectrum bin.
// Scratch buffers are pooled internally, so in steady state this allocates
// only the output slice.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// NextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Hann returns a symmetric Hann window of the given length.
func Hann(length int) []float64 {
	w := make([]float64, length)
	if length == 1 {
		w[0] = 1
		return w
	}
	den := float64(length - 1)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/den)
	}
	return w
}

// PowerSpectrum returns the Hann-windowed one-sided power spectrum of x.
// The mean is removed before windowing so a resting offset does not swamp
// the low bins. The trace is zero-padded to the next power of two.
func PowerSpectrum(x []float64, sampleRate float64) (Spectrum, error) {
	if len(x) == 0 {
		return Spectrum{}, ErrEmptyInput
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Spectrum{}, fmt.Errorf("spectrum: invalid sample rate %v", sampleRate)
	}

	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	frame := make([]float64, len(x))
	for i, v := range x {
		frame[i] = v - mean
	}
	vecmath.MulBlockInPlace(frame, Hann(len(x)))

	fftSize := NextPowerOfTwo(len(x))
	if fftSize < 2 {
		fftSize = 2
	}

	in := make([]complex128, fftSize)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: forward fft: %w", err)
	}

	return Spectrum{
		Power:      Power(out[:fftSize/2+1]),
		BinHz:      sampleRate / float64(fftSize),
		FFTSize:    fftSize,
		SampleRate: sampleRate,
	}, nil
}
