package zerophase

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-imtp/dsp/filter/biquad"
)

var (
	// ErrNoSections is returned when the cascade has no sections.
	ErrNoSections = errors.New("zerophase: filter has no sections")
	// ErrTooShort is returned when the input cannot be padded by PadLen samples.
	ErrTooShort = errors.New("zerophase: input too short for edge padding")
	// ErrUnstable is returned when a section has a pole on or outside the
	// unit circle.
	ErrUnstable = errors.New("zerophase: filter is unstable")
)

// PadLen returns the number of extension samples added at each edge for a
// filter of the given order: three times the length of its transfer
// function polynomials.
func PadLen(order int) int {
	return 3 * (order + 1)
}

// Order returns the order of the cascade. Sections with B2 and A2 both zero
// are first order.
func Order(coeffs []biquad.Coefficients) int {
	order := 0
	for _, c := range coeffs {
		if c.B2 == 0 && c.A2 == 0 {
			order++
		} else {
			order += 2
		}
	}

	return order
}

// Filter runs the cascade described by coeffs over x forward and then
// backward and returns a new slice of len(x) samples. x is not modified.
//
// The input must be longer than PadLen(Order(coeffs)); shorter inputs return
// ErrTooShort so callers can decide how to fall back.
func Filter(coeffs []biquad.Coefficients, x []float64) ([]float64, error) {
	if len(coeffs) == 0 {
		return nil, ErrNoSections
	}

	pad := PadLen(Order(coeffs))
	if len(x) <= pad {
		return nil, fmt.Errorf("%w: %d samples, need more than %d", ErrTooShort, len(x), pad)
	}

	chain := biquad.NewChain(coeffs)
	if !chain.Stable() {
		return nil, ErrUnstable
	}

	ext := oddExtend(x, pad)

	chain.PrimeSteadyState(ext[0])
	chain.ProcessBlock(ext)
	reverse(ext)

	chain.PrimeSteadyState(ext[0])
	chain.ProcessBlock(ext)
	reverse(ext)

	out := make([]float64, len(x))
	copy(out, ext[pad:pad+len(x)])

	return out, nil
}

// oddExtend returns x with pad samples of point-symmetric extension on
// both ends: 2*x[0]-x[pad..1] before and 2*x[n-1]-x[n-2..n-1-pad] after.
func oddExtend(x []float64, pad int) []float64 {
	n := len(x)
	ext := make([]float64, n+2*pad)

	first, last := x[0], x[n-1]
	for i := range pad {
		ext[i] = 2*first - x[pad-i]
		ext[pad+n+i] = 2*last - x[n-2-i]
	}
	copy(ext[pad:], x)

	return ext
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
