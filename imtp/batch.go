package imtp

import (
	"context"
	"fmt"
)

// Trial is one recording to analyze.
type Trial struct {
	Key   TrialKey
	Time  []float64
	Force []float64
}

// TrialOutcome is the per-trial entry of a batch. Exactly one of Result and
// Err is set.
type TrialOutcome struct {
	Key    TrialKey
	Result *Result
	Err    error
}

// BatchResult collects the outcomes of a batch in input order.
type BatchResult struct {
	Outcomes  []TrialOutcome
	Succeeded int
	Failed    int
}

// ProgressFunc is called after each trial of a batch.
type ProgressFunc func(done, total int, key TrialKey)

// AnalyzeTrial analyzes trial with the manual onset src holds for it. A nil
// src means no manual onsets.
func (a *Analyzer) AnalyzeTrial(trial Trial, src AdjustmentSource) (*Result, error) {
	var manual ManualOnset
	if src != nil {
		manual = src.ManualOnset(trial.Key)
	}

	res, err := a.Analyze(trial.Time, trial.Force, manual)
	if err != nil {
		return nil, fmt.Errorf("trial %s: %w", trial.Key, err)
	}
	return res, nil
}

// AnalyzeBatch analyzes trials one after another. A failing trial is
// recorded and the batch continues. ctx is checked between trials only;
// on cancellation the outcomes so far are returned with ctx.Err().
func (a *Analyzer) AnalyzeBatch(ctx context.Context, trials []Trial, src AdjustmentSource, progress ProgressFunc) (BatchResult, error) {
	br := BatchResult{Outcomes: make([]TrialOutcome, 0, len(trials))}

	for i, trial := range trials {
		if err := ctx.Err(); err != nil {
			return br, err
		}

		res, err := a.AnalyzeTrial(trial, src)
		br.Outcomes = append(br.Outcomes, TrialOutcome{Key: trial.Key, Result: res, Err: err})
		if err != nil {
			br.Failed++
		} else {
			br.Succeeded++
		}

		if progress != nil {
			progress(i+1, len(trials), trial.Key)
		}
	}

	return br, nil
}

// AnalyzeAll runs a batch with the session's manual onsets and caches every
// successful result in the session.
func (s *Session) AnalyzeAll(ctx context.Context, a *Analyzer, trials []Trial, progress ProgressFunc) (BatchResult, error) {
	br, err := a.AnalyzeBatch(ctx, trials, s, progress)
	for _, o := range br.Outcomes {
		if o.Err == nil {
			s.StoreResult(o.Key, o.Result)
		}
	}
	return br, err
}
