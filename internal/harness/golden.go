package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario, verifies its expectations, and
// compares the rendered outcome against a golden file under
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	outcome, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}
	for _, failure := range Verify(scenario, outcome) {
		t.Errorf("scenario %s: %s", scenario.Name, failure)
	}

	rendered, err := renderOutcome(outcome)
	if err != nil {
		t.Fatalf("scenario %s: render outcome: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, rendered)
}

// renderOutcome produces the stable byte form compared against golden
// files: indented JSON with a trailing newline.
func renderOutcome(outcome *Outcome) ([]byte, error) {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
