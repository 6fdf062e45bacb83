// Package harness runs conformance scenarios for the solver pipeline.
// A scenario names a problem document and the expected outcome -
// solvability, per-meeting domain sizes after propagation, and
// optionally the exact assignment - and the runner executes the full
// load/propagate/solve pipeline against it. Golden files pin the
// rendered outcome byte-for-byte.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Problem is the path to the problem document, relative to the
	// scenario file location.
	Problem string `yaml:"problem"`

	// Expect holds the expected outcome.
	Expect ExpectClause `yaml:"expect"`

	// baseDir is the directory of the scenario file, for resolving
	// Problem. Set by LoadScenario.
	baseDir string
}

// ExpectClause specifies the expected pipeline outcome.
type ExpectClause struct {
	// Solvable is whether the exact solver must find an assignment.
	Solvable bool `yaml:"solvable"`

	// Domains, when non-nil, is the expected per-meeting domain size
	// after node and arc consistency.
	Domains []int `yaml:"domains,omitempty"`

	// Solution, when non-nil, is the exact expected assignment in
	// RFC 3339 form. Only meaningful for scenarios whose pruned domains
	// force a unique deterministic answer.
	Solution []string `yaml:"solution,omitempty"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}
	if s.Problem == "" {
		return nil, fmt.Errorf("scenario %s names no problem document", path)
	}
	s.baseDir = filepath.Dir(path)
	return &s, nil
}

// ProblemPath returns the problem document path resolved against the
// scenario file's directory.
func (s *Scenario) ProblemPath() string {
	if filepath.IsAbs(s.Problem) || s.baseDir == "" {
		return s.Problem
	}
	return filepath.Join(s.baseDir, s.Problem)
}
