// Package engine implements the calendar satisfaction solver core.
//
// The engine takes n meeting variables, a shared set of candidate time
// points, and a set of relational constraints, and produces either a
// complete assignment of one time point per meeting or a no-solution
// result.
//
// ARCHITECTURE:
//
// Three stages run inside a single Solve call:
//
//  1. Node consistency: one pass over unary constraints, removing
//     unsupported values from the constrained variable's domain.
//  2. Arc consistency (AC-3): a fixed-point pass over the directed arc
//     set derived from the constraints. A worklist with set semantics
//     holds pending arcs; revising an arc removes tail values that have
//     no supporting head value, and any removal re-enqueues every arc
//     pointing into the shrunk variable.
//  3. Backtracking search: depth-first assignment over the pruned
//     domains with a consistency check against every constraint at each
//     step, undoing assignments on failure.
//
// Domains are mutable and exclusively owned by one Solve invocation:
// each variable gets an independent copy of the candidate set at
// initialization (aliasing one set across variables would let pruning
// one variable corrupt another), propagation mutates them in place, and
// search reads them without mutating.
//
// DETERMINISM:
//
// The solve path is single-threaded and deterministic: constraint sets
// iterate in insertion order, domains iterate in ascending time order,
// and variables are selected first-unassigned-by-index. The same problem
// always produces the same assignment and the same statistics.
// SolveParallel trades the reproducible assignment (but not the
// existence answer) for wall-clock speed and is never the default.
//
// An empty domain after propagation, or an exhausted search, is a normal
// no-solution outcome, not an error. Solve returns errors for nothing a
// well-formed problem can trigger.
package engine
