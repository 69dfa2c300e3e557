// Package imtp analyzes force-time recordings of the isometric mid-thigh
// pull.
//
// A trial is a pair of equal-length series, time in seconds and force in
// newtons. Analysis runs five stages in order:
//
//   - Filter: zero-phase Butterworth lowpass of the raw force.
//   - DetectOnset: first sustained crossing of a baseline-derived threshold.
//   - ResolveOnset: merges the automatic onset with an optional manual one.
//   - ExtractMetrics: peak force, timing and the rate of force development
//     over fixed windows from onset.
//   - Analyzer.Analyze: validates input, sequences the stages and packages
//     an immutable [Result].
//
// Numerical degradations inside a stage never fail an analysis; they are
// reported as [Warning] values on the result. Structural problems such as
// too few samples are returned as errors wrapping one of the package
// sentinels.
//
// Manual onset overrides live in a caller-owned [Session]; the analyzer only
// reads them through [AdjustmentSource].
package imtp
