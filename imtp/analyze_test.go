package imtp

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cwbudde/algo-imtp/internal/logging"
	"github.com/cwbudde/algo-imtp/internal/metrics"
	"github.com/cwbudde/algo-imtp/internal/testutil"
)

func TestAnalyzeStepUnfiltered(t *testing.T) {
	times := testutil.TimeAxis(1000, 2000)
	force := testutil.NoisyStep(21, 10, 0.5, 1000, 500, 2000)

	res, err := Analyze(times, force, unfiltered(), ManualOnset{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Onset.EffectiveIndex < 1000 || res.Onset.EffectiveIndex > 1010 {
		t.Fatalf("onset = %d, want within [1000, 1010]", res.Onset.EffectiveIndex)
	}
	if res.ManualAdjustment || res.Onset.IsManual || res.LowConfidence() {
		t.Fatalf("unexpected flags: %+v", res.Onset)
	}
}

func TestAnalyzePullTrial(t *testing.T) {
	times, force := pullTrial(t, 7)
	res, err := Analyze(times, force, DefaultConfig(), ManualOnset{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// Zero-phase smoothing lets the detected onset lead the true one
	// slightly, never lag it by much.
	if res.Onset.AutoIndex < 950 || res.Onset.AutoIndex > 1010 {
		t.Fatalf("auto onset = %d, want within [950, 1010]", res.Onset.AutoIndex)
	}
	testutil.RequireNearlyEqual(t, "auto time", res.Onset.AutoTime, float64(res.Onset.AutoIndex)/1000, 0)
	testutil.RequireNearlyEqual(t, "baseline mean", res.Onset.BaselineMean, 800, 1)
	if res.PeakForce < 2990 || res.PeakForce > 3010 {
		t.Fatalf("peak = %v, want about 3000", res.PeakForce)
	}
	testutil.RequireNearlyEqual(t, "net peak", res.NetPeakForce, res.PeakForce-res.Onset.BaselineMean, 1e-9)
	testutil.RequireNearlyEqual(t, "peak time", res.PeakTime, float64(res.PeakIndex)/1000, 0)
	testutil.RequireNearlyEqual(t, "time to peak", res.TimeToPeak,
		float64(res.PeakIndex-res.Onset.EffectiveIndex)/1000, 1e-12)

	for _, v := range res.RFD {
		if !v.OK || v.Value <= 0 {
			t.Fatalf("%s = %+v, want positive", v.Label(), v)
		}
	}
	if len(res.FilteredForce) != 3000 || len(res.Time) != 3000 {
		t.Fatalf("series lengths %d/%d, want 3000", len(res.FilteredForce), len(res.Time))
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", res.Warnings)
	}
	if res.Config != DefaultConfig() {
		t.Fatalf("config = %+v", res.Config)
	}
}

func TestAnalyzeDoesNotModifyInputs(t *testing.T) {
	times, force := pullTrial(t, 2)
	force[1500] = math.NaN()
	origT := append([]float64(nil), times...)
	origF := append([]float64(nil), force...)

	res, err := Analyze(times, force, DefaultConfig(), ManualAt(1.1))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, times, origT, 0)
	for i := range force {
		if force[i] != origF[i] && !(math.IsNaN(force[i]) && math.IsNaN(origF[i])) {
			t.Fatalf("force[%d] modified", i)
		}
	}

	res.Time[0] = -1
	if times[0] == -1 {
		t.Fatal("result shares the caller's time slice")
	}
}

func TestAnalyzeDropsNaNRows(t *testing.T) {
	times, force := pullTrial(t, 3)
	times[10] = math.NaN()
	force[20] = math.NaN()
	force[2500] = math.NaN()

	res, err := Analyze(times, force, DefaultConfig(), ManualOnset{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(res.Time) != 2997 || len(res.FilteredForce) != 2997 {
		t.Fatalf("lengths = %d/%d, want 2997", len(res.Time), len(res.FilteredForce))
	}
	if !res.HasWarning(SamplesDropped) {
		t.Fatalf("warnings = %v, want samples_dropped", res.Warnings)
	}
	// Remaining rows stay aligned.
	testutil.RequireNearlyEqual(t, "time[10]", res.Time[10], 0.011, 1e-15)
	testutil.RequireNearlyEqual(t, "time[19]", res.Time[19], 0.021, 1e-15)
	testutil.RequireFinite(t, res.FilteredForce)
}

func TestAnalyzeErrors(t *testing.T) {
	times, force := pullTrial(t, 4)
	mostlyNaN := append([]float64(nil), force[:60]...)
	for i := 0; i < 20; i++ {
		mostlyNaN[i] = math.NaN()
	}

	tests := []struct {
		name   string
		times  []float64
		force  []float64
		cfg    Config
		manual ManualOnset
		target error
	}{
		{"too short", times[:49], force[:49], DefaultConfig(), ManualOnset{}, ErrInsufficientData},
		{"empty", nil, nil, DefaultConfig(), ManualOnset{}, ErrInsufficientData},
		{"too short after NaN removal", times[:60], mostlyNaN, DefaultConfig(), ManualOnset{}, ErrInsufficientData},
		{"length mismatch", times[:100], force[:99], DefaultConfig(), ManualOnset{}, ErrLengthMismatch},
		{"zero sample rate", times, force, Config{}, ManualOnset{}, ErrInvalidConfig},
		{"NaN manual onset", times, force, DefaultConfig(), ManualAt(math.NaN()), ErrInvalidManualOnset},
		{"infinite manual onset", times, force, DefaultConfig(), ManualAt(math.Inf(1)), ErrInvalidManualOnset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(tt.times, tt.force, tt.cfg, tt.manual)
			if res != nil {
				t.Fatal("failure must not return a partial result")
			}
			if !errors.Is(err, tt.target) {
				t.Fatalf("err = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestAnalyzeExactly50Samples(t *testing.T) {
	times := testutil.TimeAxis(1000, 50)
	force := testutil.DC(700, 50)
	res, err := Analyze(times, force, unfiltered(), ManualOnset{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !res.LowConfidence() || !res.HasWarning(OnsetNotFound) {
		t.Fatalf("flat trial should use the onset fallback: %v", res.Warnings)
	}
	if res.Onset.EffectiveIndex != 12 {
		t.Fatalf("onset = %d, want end of 12-sample baseline", res.Onset.EffectiveIndex)
	}
}

func TestAnalyzeManualPastEnd(t *testing.T) {
	times, force := rampTrial()
	res, err := Analyze(times, force, unfiltered(), ManualAt(99))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if res.Onset.EffectiveIndex != 1499 || !res.ManualAdjustment {
		t.Fatalf("onset = %d manual=%v, want 1499 manual", res.Onset.EffectiveIndex, res.ManualAdjustment)
	}
	testutil.RequireNearlyEqual(t, "effective time", res.Onset.EffectiveTime, 99, 0)
	if res.PeakIndex != 1200 || res.PeakForce != 2100 {
		t.Fatalf("peak = %v@%d, want global max 2100@1200", res.PeakForce, res.PeakIndex)
	}
	if _, ok := res.PeakRFD(); ok {
		t.Fatal("no RFD window fits after the last sample")
	}
	if !res.HasWarning(RFDWindowUnavailable) {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestAnalyzeManualEqualsAuto(t *testing.T) {
	times, force := pullTrial(t, 5)
	auto, err := Analyze(times, force, DefaultConfig(), ManualOnset{})
	if err != nil {
		t.Fatal(err)
	}
	manual, err := Analyze(times, force, DefaultConfig(), ManualAt(auto.Onset.AutoTime))
	if err != nil {
		t.Fatal(err)
	}
	if !manual.ManualAdjustment {
		t.Fatal("manual flag must reflect intent, not value equality")
	}
	if d := manual.Onset.EffectiveIndex - auto.Onset.EffectiveIndex; d < -1 || d > 1 {
		t.Fatalf("effective index %d vs auto %d", manual.Onset.EffectiveIndex, auto.Onset.EffectiveIndex)
	}
	if manual.Onset.AutoIndex != auto.Onset.AutoIndex {
		t.Fatal("manual onset must not change the automatic detection")
	}
}

func TestAnalyzeRampExact(t *testing.T) {
	times, force := rampTrial()
	res, err := Analyze(times, force, unfiltered(), ManualOnset{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Onset.AutoIndex != 1001 || res.Onset.EffectiveIndex != 1001 {
		t.Fatalf("onset = %d/%d, want 1001", res.Onset.AutoIndex, res.Onset.EffectiveIndex)
	}
	testutil.RequireNearlyEqual(t, "threshold", res.Onset.Threshold, 100.5, 1e-12)
	peak, ok := res.PeakRFD()
	if !ok {
		t.Fatal("peak RFD missing")
	}
	testutil.RequireNearlyEqual(t, "peak RFD", peak, 10000, 1e-6)
}

func TestAnalyzerLogsAndRecords(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder()
	if err := rec.Register(reg); err != nil {
		t.Fatal(err)
	}

	clock := time.Unix(0, 0)
	calls := 0
	a := NewAnalyzer(unfiltered(),
		WithLogger(logging.New("debug", false, &buf)),
		WithRecorder(rec),
		WithClock(func() time.Time {
			calls++
			clock = clock.Add(time.Millisecond)
			return clock
		}),
	)

	// Onset falls back to 50, so the 150, 200 and 250 ms windows run past
	// the 200th sample.
	flatT, flatF := testutil.TimeAxis(1000, 200), testutil.DC(700, 200)
	if _, err := a.Analyze(flatT, flatF, ManualOnset{}); err != nil {
		t.Fatal(err)
	}
	times, force := pullTrial(t, 6)
	if _, err := a.Analyze(times, force, ManualAt(1.0)); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Analyze(times[:10], force[:10], ManualOnset{}); err == nil {
		t.Fatal("expected failure")
	}

	if calls != 6 {
		t.Fatalf("clock called %d times, want 2 per analysis", calls)
	}

	out := buf.String()
	for _, want := range []string{"kind=onset_not_found", "trial analysis failed", "trial analyzed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}

	expected := `
# HELP imtp_manual_onsets_total Analyses that used a manually adjusted onset.
# TYPE imtp_manual_onsets_total counter
imtp_manual_onsets_total 1
# HELP imtp_trials_analyzed_total Total number of trial analyses, partitioned by outcome.
# TYPE imtp_trials_analyzed_total counter
imtp_trials_analyzed_total{outcome="error"} 1
imtp_trials_analyzed_total{outcome="success"} 2
# HELP imtp_warnings_total Non-fatal analysis degradations, partitioned by kind.
# TYPE imtp_warnings_total counter
imtp_warnings_total{kind="onset_not_found"} 1
imtp_warnings_total{kind="rfd_window_unavailable"} 3
`
	if err := promtest.GatherAndCompare(reg, strings.NewReader(expected),
		"imtp_manual_onsets_total", "imtp_trials_analyzed_total", "imtp_warnings_total"); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	times, force := pullTrial(t, 8)
	a, err := Analyze(times, force, DefaultConfig(), ManualOnset{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Analyze(times, force, DefaultConfig(), ManualOnset{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("repeated analysis differs")
	}
}
