package imtp

import (
	"math"
	"testing"
)

func TestResolveOnset(t *testing.T) {
	tests := []struct {
		name      string
		autoIndex int
		manual    ManualOnset
		length    int
		want      Resolution
	}{
		{"automatic", 1200, ManualOnset{}, 3000, Resolution{Index: 1200, Time: 1.2}},
		{"manual", 1200, ManualAt(1.05), 3000, Resolution{Index: 1050, Time: 1.05, IsManual: true}},
		{"manual rounds up", 1200, ManualAt(1.0016), 3000, Resolution{Index: 1002, Time: 1.0016, IsManual: true}},
		{"manual rounds down", 1200, ManualAt(1.0004), 3000, Resolution{Index: 1000, Time: 1.0004, IsManual: true}},
		{"manual past end clamps", 1200, ManualAt(10), 3000, Resolution{Index: 2999, Time: 10, IsManual: true}},
		{"manual before start clamps", 1200, ManualAt(-0.5), 3000, Resolution{Index: 0, Time: -0.5, IsManual: true}},
		{"huge manual clamps", 1200, ManualAt(1e300), 3000, Resolution{Index: 2999, Time: 1e300, IsManual: true}},
		{"auto past end clamps", 5000, ManualOnset{}, 3000, Resolution{Index: 2999, Time: 1.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveOnset(tt.autoIndex, 1.2, tt.manual, 1000, tt.length)
			if got != tt.want {
				t.Fatalf("ResolveOnset() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveOnsetManualEqualsAuto(t *testing.T) {
	const rate = 1000.0
	for _, idx := range []int{0, 1, 17, 999, 1234, 2999} {
		autoTime := float64(idx) / rate
		got := ResolveOnset(idx, autoTime, ManualAt(autoTime), rate, 3000)
		if !got.IsManual {
			t.Fatalf("index %d: IsManual = false", idx)
		}
		if d := got.Index - idx; d < -1 || d > 1 {
			t.Fatalf("index %d: effective %d differs by more than one sample", idx, got.Index)
		}
	}
}

func TestResolveOnsetNaNManual(t *testing.T) {
	got := ResolveOnset(10, 0.01, ManualAt(math.NaN()), 1000, 100)
	if got.Index != 0 || !got.IsManual {
		t.Fatalf("ResolveOnset(NaN) = %+v", got)
	}
}
