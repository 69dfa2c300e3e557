package imtp

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-imtp/internal/testutil"
)

func TestDetectOnsetStep(t *testing.T) {
	// 10 ± 0.5 N at rest, a step to 500 N at sample 1000.
	for seed := int64(1); seed <= 5; seed++ {
		force := testutil.NoisyStep(seed, 10, 0.5, 1000, 500, 2000)
		det := DetectOnset(force, 1000, 5)
		if det.Index < 1000 || det.Index > 1010 {
			t.Fatalf("seed %d: onset = %d, want within [1000, 1010]", seed, det.Index)
		}
		if det.Fallback || len(det.Warnings) != 0 {
			t.Fatalf("seed %d: unexpected fallback %v", seed, det.Warnings)
		}
		// Window is clamped to n/4.
		if det.BaselineWindow != 500 {
			t.Fatalf("seed %d: baseline window = %d, want 500", seed, det.BaselineWindow)
		}
		testutil.RequireNearlyEqual(t, "threshold", det.Threshold, det.BaselineMean+5*det.BaselineStd, 1e-12)
	}
}

func TestDetectOnsetMonotonicInMultiplier(t *testing.T) {
	_, force := pullTrial(t, 11)
	filtered := Filter(force, 50, 1000, 4).Force

	prev := -1
	for m := 1.0; m <= 10; m += 0.5 {
		det := DetectOnset(filtered, 1000, m)
		if det.Fallback {
			t.Fatalf("multiplier %v: unexpected fallback", m)
		}
		if det.Index < prev {
			t.Fatalf("multiplier %v: onset %d before onset %d of a lower multiplier", m, det.Index, prev)
		}
		prev = det.Index
	}
}

func TestDetectOnsetFlatBaseline(t *testing.T) {
	// Zero baseline deviation is replaced by 0.1 N: threshold 10.5 N.
	tests := []struct {
		name     string
		high     float64
		want     int
		fallback bool
	}{
		{"clears substituted band", 10.6, 600, false},
		{"inside substituted band", 10.4, 250, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			force := testutil.DC(10, 1000)
			for i := 600; i < len(force); i++ {
				force[i] = tt.high
			}
			det := DetectOnset(force, 1000, 5)
			testutil.RequireNearlyEqual(t, "std", det.BaselineStd, 0.1, 0)
			testutil.RequireNearlyEqual(t, "threshold", det.Threshold, 10.5, 1e-12)
			if det.Index != tt.want || det.Fallback != tt.fallback {
				t.Fatalf("onset = %d fallback=%v, want %d fallback=%v", det.Index, det.Fallback, tt.want, tt.fallback)
			}
			if tt.fallback && !hasWarning(det.Warnings, OnsetNotFound) {
				t.Fatalf("warnings = %v, want onset_not_found", det.Warnings)
			}
		})
	}
}

func TestDetectOnsetIgnoresShortSpikes(t *testing.T) {
	force := testutil.NoisyStep(3, 10, 0.5, 1500, 500, 2400)
	for i := 1200; i < 1204; i++ {
		force[i] = 400
	}
	det := DetectOnset(force, 600, 5)
	if det.Index != 1500 {
		t.Fatalf("onset = %d, want 1500 (4-sample spike must be ignored)", det.Index)
	}
}

func TestDetectOnsetBaselineWindowClamp(t *testing.T) {
	tests := []struct {
		n, req, want int
	}{
		{100, 1000, 25},
		{100, 3, 10},
		{100, -1, 10},
		{20, 1000, 10},
		{10, 1000, 5},
		{8, 1000, 4},
		{2000, 300, 300},
	}
	for _, tt := range tests {
		det := DetectOnset(testutil.DC(1, tt.n), tt.req, 5)
		if det.BaselineWindow != tt.want {
			t.Errorf("n=%d req=%d: window = %d, want %d", tt.n, tt.req, det.BaselineWindow, tt.want)
		}
	}
}

func TestDetectOnsetScanLeavesLookahead(t *testing.T) {
	const n = 100
	// Window 25; the last start index that fits five samples is n-6.
	for _, tc := range []struct {
		start int
		found bool
	}{
		{n - 6, true},
		{n - 5, false},
	} {
		force := testutil.DC(0, n)
		for i := tc.start; i < n; i++ {
			force[i] = 100
		}
		det := DetectOnset(force, 1000, 5)
		if tc.found && det.Index != tc.start {
			t.Errorf("start %d: onset = %d, want %d", tc.start, det.Index, tc.start)
		}
		if !tc.found && (!det.Fallback || det.Index != 25) {
			t.Errorf("start %d: onset = %d fallback=%v, want baseline-end fallback", tc.start, det.Index, det.Fallback)
		}
	}
}

func TestDetectOnsetDegenerate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		det := DetectOnset(nil, 1000, 5)
		if det.Index != 0 || !det.Fallback || !hasWarning(det.Warnings, OnsetFallback) {
			t.Fatalf("got %+v", det)
		}
	})

	t.Run("non-finite baseline", func(t *testing.T) {
		force := testutil.DC(20, 800)
		force[3] = math.Inf(1)
		det := DetectOnset(force, 1000, 5)
		if det.Index != 100 || !det.Fallback || !hasWarning(det.Warnings, OnsetFallback) {
			t.Fatalf("got index %d fallback=%v warnings=%v", det.Index, det.Fallback, det.Warnings)
		}
		if finite(det.BaselineMean) {
			t.Fatalf("baseline mean = %v, want non-finite prefix mean", det.BaselineMean)
		}
	})

	t.Run("NaN after baseline", func(t *testing.T) {
		force := testutil.DC(20, 200)
		force[190] = math.NaN()
		det := DetectOnset(force, 1000, 5)
		// Window 50 is clean, so only the crossing search fails.
		if hasWarning(det.Warnings, OnsetFallback) || !hasWarning(det.Warnings, OnsetNotFound) {
			t.Fatalf("warnings = %v, want onset_not_found only", det.Warnings)
		}
	})
}
