package harness

import (
	"fmt"
	"time"

	"github.com/roach88/calsat/internal/engine"
	"github.com/roach88/calsat/internal/problem"
)

// Outcome is what one scenario run produced. Field order is the golden
// file layout; keep it stable.
type Outcome struct {
	Scenario string   `json:"scenario"`
	Solvable bool     `json:"solvable"`
	Domains  []int    `json:"domains"`
	Solution []string `json:"solution,omitempty"`
}

// Run executes the full pipeline for a scenario: load the problem,
// propagate on a fresh set of domains to observe the pruned sizes, then
// solve from scratch. Returns the outcome; errors are loading problems,
// not unexpected results (see Verify).
func Run(scenario *Scenario) (*Outcome, error) {
	p, err := problem.Load(scenario.ProblemPath())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	domains := engine.NewDomains(p.Meetings, p.Candidates)
	engine.NodeConsistency(domains, p.Constraints)
	engine.ArcConsistency(domains, p.Constraints)

	outcome := &Outcome{
		Scenario: scenario.Name,
		Domains:  make([]int, len(domains)),
	}
	for i, d := range domains {
		outcome.Domains[i] = d.Len()
	}

	result := engine.Solve(p.Meetings, p.Candidates, p.Constraints)
	outcome.Solvable = result.Solved()
	for _, t := range result.Solution {
		outcome.Solution = append(outcome.Solution, t.Format(time.RFC3339))
	}
	return outcome, nil
}

// Verify compares an outcome against the scenario's expectations and
// returns one message per mismatch. An empty slice means the scenario
// passed.
func Verify(scenario *Scenario, outcome *Outcome) []string {
	var failures []string

	if outcome.Solvable != scenario.Expect.Solvable {
		failures = append(failures, fmt.Sprintf("solvable = %v, expected %v", outcome.Solvable, scenario.Expect.Solvable))
	}

	if scenario.Expect.Domains != nil {
		if len(outcome.Domains) != len(scenario.Expect.Domains) {
			failures = append(failures, fmt.Sprintf("got %d domains, expected %d", len(outcome.Domains), len(scenario.Expect.Domains)))
		} else {
			for i, want := range scenario.Expect.Domains {
				if outcome.Domains[i] != want {
					failures = append(failures, fmt.Sprintf("domain %d has %d value(s), expected %d", i, outcome.Domains[i], want))
				}
			}
		}
	}

	if scenario.Expect.Solution != nil {
		if len(outcome.Solution) != len(scenario.Expect.Solution) {
			failures = append(failures, fmt.Sprintf("solution has %d value(s), expected %d", len(outcome.Solution), len(scenario.Expect.Solution)))
		} else {
			for i, want := range scenario.Expect.Solution {
				if outcome.Solution[i] != want {
					failures = append(failures, fmt.Sprintf("solution[%d] = %s, expected %s", i, outcome.Solution[i], want))
				}
			}
		}
	}

	return failures
}
