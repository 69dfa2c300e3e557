// Package zerophase applies IIR filters forward and backward so the output
// has no phase shift.
//
// Force-time analysis depends on where a rise begins; a causal lowpass would
// delay every edge by the filter's group delay. Running the same cascade over
// the reversed output cancels the phase response and squares the magnitude
// response. Edges are handled by odd-symmetric extension and steady-state
// initial conditions so a flat or slowly varying signal passes through
// without start-up transients.
package zerophase
