package testutil

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair differs by more than eps. The failure names the worst
// sample and how many samples were out of tolerance.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d samples, want %d", len(got), len(want))
	}

	worst, bad := -1, 0
	worstDiff := 0.0
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff <= eps {
			continue
		}
		bad++
		if worst < 0 || diff > worstDiff || math.IsNaN(diff) {
			worst, worstDiff = i, diff
		}
	}
	if bad > 0 {
		t.Fatalf("%d of %d samples outside eps %v; worst at %d: got %v, want %v",
			bad, len(got), eps, worst, got[worst], want[worst])
	}
}

// RequireNearlyEqual fails t if |got-want| exceeds eps.
func RequireNearlyEqual(t testing.TB, name string, got, want, eps float64) {
	t.Helper()
	if diff := math.Abs(got - want); diff > eps || math.IsNaN(diff) {
		t.Fatalf("%s: got %v, want %v (diff %v > eps %v)", name, got, want, diff, eps)
	}
}

// RequireFinite fails t if a sample is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d of %d is %v", i, len(data), v)
		}
	}
}

// MaxAbsDiff returns the largest absolute sample difference (the L-inf
// distance) between a and b.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return floats.Distance(a, b, math.Inf(1)), nil
}
