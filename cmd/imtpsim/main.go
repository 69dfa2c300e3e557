// Command imtpsim generates synthetic isometric mid-thigh pull trials, runs
// them through the analysis pipeline and prints the resulting metrics.
//
// Usage:
//
//	imtpsim [flags]
//
// Examples:
//
//	imtpsim
//	imtpsim -trials 5 -peak 2800 -noise 4
//	imtpsim -manual 0.98 -metrics
//	imtpsim -config imtp.yaml -suggest-cutoff
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/cwbudde/algo-imtp/dsp/core"
	dspsignal "github.com/cwbudde/algo-imtp/dsp/signal"
	"github.com/cwbudde/algo-imtp/imtp"
	"github.com/cwbudde/algo-imtp/internal/config"
	"github.com/cwbudde/algo-imtp/internal/logging"
	"github.com/cwbudde/algo-imtp/internal/metrics"
)

type options struct {
	configPath    string
	trials        int
	seed          int64
	duration      float64
	baseline      float64
	peak          float64
	noise         float64
	onset         float64
	riseTime      float64
	manual        string
	suggestCutoff bool
	metrics       bool
	logLevel      string
	logJSON       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("imtpsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML config file (default $IMTP_CONFIG)")
	fs.IntVar(&o.trials, "trials", 3, "number of synthetic trials")
	fs.Int64Var(&o.seed, "seed", 1, "noise seed of the first trial")
	fs.Float64Var(&o.duration, "duration", 3, "trial length in seconds")
	fs.Float64Var(&o.baseline, "baseline", 800, "resting force in N")
	fs.Float64Var(&o.peak, "peak", 3000, "plateau force of the first trial in N")
	fs.Float64Var(&o.noise, "noise", 2, "uniform noise amplitude in N")
	fs.Float64Var(&o.onset, "onset", 1, "true onset time in seconds")
	fs.Float64Var(&o.riseTime, "rise", 0.05, "rise time constant in seconds")
	fs.StringVar(&o.manual, "manual", "", "manual onset in seconds applied to the first trial")
	fs.BoolVar(&o.suggestCutoff, "suggest-cutoff", false, "derive the filter cutoff from the first trial's spectrum")
	fs.BoolVar(&o.metrics, "metrics", false, "print collected Prometheus metrics")
	fs.StringVar(&o.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	fs.BoolVar(&o.logJSON, "log-json", false, "emit JSON logs")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: imtpsim [flags]\n\n")
		fmt.Fprintf(stderr, "Analyzes synthetic IMTP trials and prints onset, peak and RFD metrics.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.trials < 1 {
		return o, fmt.Errorf("-trials must be >= 1, got %d", o.trials)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logJSON {
		cfg.Logging.JSON = true
	}
	if o.metrics {
		cfg.Metrics.Enabled = true
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.JSON, stderr)

	trials, err := synthesize(cfg.Analysis.SampleRate, o)
	if err != nil {
		return err
	}

	if o.suggestCutoff {
		p, err := imtp.ProfileSpectrum(trials[0].Force, cfg.Analysis.SampleRate, imtp.DefaultPowerFraction)
		if err != nil {
			return fmt.Errorf("suggest cutoff: %w", err)
		}
		logger.Info("cutoff suggested",
			"cutoff_hz", p.CutoffHz,
			"previous_hz", cfg.Analysis.Filter.CutoffHz,
			"rolloff_hz", p.RolloffHz,
			"centroid_hz", p.CentroidHz,
			"peak_hz", p.PeakHz)
		cfg.Analysis.Filter.CutoffHz = p.CutoffHz
	}

	var (
		rec *metrics.Recorder
		reg *prometheus.Registry
	)
	if cfg.Metrics.Enabled {
		rec = metrics.NewRecorder()
		reg = prometheus.NewRegistry()
		if err := rec.Register(reg); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}

	analyzer := imtp.NewAnalyzer(cfg.Analysis, imtp.WithLogger(logger), imtp.WithRecorder(rec))
	session := imtp.NewSession()
	logger.Info("session started", "session", session.ID().String(), "trials", len(trials))

	br, err := session.AnalyzeAll(ctx, analyzer, trials, func(done, total int, key imtp.TrialKey) {
		logger.Debug("progress", "done", done, "total", total, "trial", key.String())
	})
	if err != nil {
		return err
	}
	for _, out := range br.Outcomes {
		if out.Err != nil {
			logger.Error("trial failed", "trial", out.Key.String(), "error", out.Err)
		}
	}

	if o.manual != "" {
		seconds, err := strconv.ParseFloat(o.manual, 64)
		if err != nil {
			return fmt.Errorf("-manual: %w", err)
		}
		res, err := session.Apply(analyzer, trials[0], seconds)
		if err != nil {
			return err
		}
		logger.Info("manual onset applied",
			"trial", trials[0].Key.String(),
			"onset_s", res.Onset.EffectiveTime,
			"shift_ms", res.OnsetShiftMS())
	}

	if err := printReport(stdout, session, trials); err != nil {
		return err
	}
	if reg != nil {
		return printMetrics(stdout, reg)
	}
	return nil
}

func synthesize(sampleRate float64, o options) ([]imtp.Trial, error) {
	samples := int(o.duration * sampleRate)
	onset := int(o.onset * sampleRate)
	trials := make([]imtp.Trial, o.trials)

	gen := dspsignal.NewGenerator(core.WithSampleRate(sampleRate))
	for i := range trials {
		gen.SetSeed(o.seed + int64(i))
		ts, force, err := gen.Trial(dspsignal.TrialShape{
			Samples:     samples,
			Baseline:    o.baseline,
			Peak:        o.peak * (1 - 0.03*float64(i)),
			OnsetSample: onset,
			RiseTime:    o.riseTime,
			Noise:       o.noise,
		})
		if err != nil {
			return nil, fmt.Errorf("synthesize trial %d: %w", i, err)
		}
		trials[i] = imtp.Trial{
			Key:   imtp.TrialKey{Index: i, Name: "pull" + strconv.Itoa(i+1)},
			Time:  ts,
			Force: force,
		}
	}
	return trials, nil
}

func printReport(w io.Writer, session *imtp.Session, trials []imtp.Trial) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"trial", "onset s", "manual", "peak N", "net N", "ttp s"}
	for _, ms := range imtp.RFDWindows() {
		header = append(header, fmt.Sprintf("rfd%d", ms))
	}
	header = append(header, "peak rfd", "warnings")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, trial := range trials {
		res, ok := session.Result(trial.Key)
		if !ok {
			fmt.Fprintf(tw, "%s\tfailed\t\n", trial.Key)
			continue
		}

		row := []string{
			trial.Key.String(),
			fmt.Sprintf("%.3f", res.Onset.EffectiveTime),
			strconv.FormatBool(res.Onset.IsManual),
			fmt.Sprintf("%.1f", res.PeakForce),
			fmt.Sprintf("%.1f", res.NetPeakForce),
			fmt.Sprintf("%.3f", res.TimeToPeak),
		}
		for _, v := range res.RFD {
			row = append(row, formatOptional(v.Value, v.OK))
		}
		peak, ok := res.PeakRFD()
		row = append(row, formatOptional(peak, ok), warningList(res.Warnings))
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}

	return tw.Flush()
}

func formatOptional(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.0f", v)
}

func warningList(ws []imtp.Warning) string {
	if len(ws) == 0 {
		return "-"
	}
	kinds := make([]string, len(ws))
	for i, w := range ws {
		kinds[i] = w.Kind.String()
	}
	return strings.Join(kinds, ",")
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	fmt.Fprintln(w)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName() + labelString(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				fmt.Fprintf(w, "%s %g\n", name, m.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s_count %d\n", name, h.GetSampleCount())
			}
		}
	}
	return nil
}

func labelString(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.GetName() + "=" + strconv.Quote(p.GetValue())
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
