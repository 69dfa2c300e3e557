package imtp

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// TrialKey identifies a trial within a session by position and display
// name.
type TrialKey struct {
	Index int
	Name  string
}

// String returns "<index>_<name>".
func (k TrialKey) String() string {
	return strconv.Itoa(k.Index) + "_" + k.Name
}

// AdjustmentSource is the read-only view of manual onsets the analyzer
// consults.
type AdjustmentSource interface {
	ManualOnset(key TrialKey) ManualOnset
}

// Session is the caller-owned state of one analysis session: manual onset
// adjustments, cached results and the selected trial. It is safe for
// concurrent use.
type Session struct {
	id uuid.UUID

	mu          sync.RWMutex
	adjustments map[TrialKey]float64
	results     map[TrialKey]*Result
	selected    TrialKey
	hasSelected bool
}

// NewSession returns an empty session with a fresh random ID.
func NewSession() *Session {
	return &Session{
		id:          uuid.New(),
		adjustments: make(map[TrialKey]float64),
		results:     make(map[TrialKey]*Result),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// SetManualOnset records a manual onset for key. It takes effect on the
// next analysis of that trial.
func (s *Session) SetManualOnset(key TrialKey, seconds float64) error {
	if !finite(seconds) {
		return fmt.Errorf("%w: %v s for trial %s", ErrInvalidManualOnset, seconds, key)
	}
	s.mu.Lock()
	s.adjustments[key] = seconds
	s.mu.Unlock()
	return nil
}

// ResetManualOnset removes the manual onset for key and reports whether one
// existed.
func (s *Session) ResetManualOnset(key TrialKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.adjustments[key]
	delete(s.adjustments, key)
	return ok
}

// ManualOnset returns the manual onset for key, if any.
func (s *Session) ManualOnset(key TrialKey) ManualOnset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.adjustments[key]; ok {
		return ManualAt(t)
	}
	return ManualOnset{}
}

// Adjustments returns a copy of all manual onsets.
func (s *Session) Adjustments() map[TrialKey]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[TrialKey]float64, len(s.adjustments))
	for k, v := range s.adjustments {
		out[k] = v
	}
	return out
}

// StoreResult caches res for key, replacing any previous result.
func (s *Session) StoreResult(key TrialKey, res *Result) {
	s.mu.Lock()
	s.results[key] = res
	s.mu.Unlock()
}

// Result returns the cached result for key.
func (s *Session) Result(key TrialKey) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[key]
	return res, ok
}

// Results returns a copy of the result cache.
func (s *Session) Results() map[TrialKey]*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[TrialKey]*Result, len(s.results))
	for k, v := range s.results {
		out[k] = v
	}
	return out
}

// SelectTrial marks key as the trial being inspected.
func (s *Session) SelectTrial(key TrialKey) {
	s.mu.Lock()
	s.selected, s.hasSelected = key, true
	s.mu.Unlock()
}

// Selected returns the selected trial, if any.
func (s *Session) Selected() (TrialKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.hasSelected
}

// Apply re-analyzes trial with a manual onset at seconds. On success the
// adjustment is recorded and the new result replaces the cached one; on
// failure the session is unchanged.
func (s *Session) Apply(a *Analyzer, trial Trial, seconds float64) (*Result, error) {
	if !finite(seconds) {
		return nil, fmt.Errorf("%w: %v s for trial %s", ErrInvalidManualOnset, seconds, trial.Key)
	}
	res, err := a.Analyze(trial.Time, trial.Force, ManualAt(seconds))
	if err != nil {
		return nil, fmt.Errorf("trial %s: %w", trial.Key, err)
	}

	s.mu.Lock()
	s.adjustments[trial.Key] = seconds
	s.results[trial.Key] = res
	s.mu.Unlock()
	return res, nil
}

// Reset removes any manual onset for trial and re-analyzes it with the
// automatic onset. The adjustment is removed even if analysis fails.
func (s *Session) Reset(a *Analyzer, trial Trial) (*Result, error) {
	s.ResetManualOnset(trial.Key)

	res, err := a.Analyze(trial.Time, trial.Force, ManualOnset{})
	if err != nil {
		return nil, fmt.Errorf("trial %s: %w", trial.Key, err)
	}
	s.StoreResult(trial.Key, res)
	return res, nil
}
