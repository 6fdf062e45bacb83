// Package problem loads calendar satisfaction problems from YAML
// documents and turns them into solver inputs.
//
// A problem document declares the number of meetings, the candidate date
// range (a start plus a day count, or an explicit list), and the
// constraints:
//
//	name: team-week
//	meetings: 3
//	dates:
//	  start: 2023-01-01
//	  days: 5
//	constraints:
//	  - { left: 0, op: "==", right: 2023-01-03 }  # unary: right is a date
//	  - { left: 0, op: "<",  right: 1 }           # binary: right is an index
//
// Documents are validated against an embedded CUE schema before any
// constraint is constructed, so schema violations surface with positions
// and codes instead of half-built solver inputs. Loaded problems also
// get a content-addressed hash (canonical JSON, SHA-256) that the run
// log uses as the problem identity.
package problem
