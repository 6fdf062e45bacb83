package problem

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/calsat/internal/csp"
)

// Problem is a fully loaded, validated solver input.
type Problem struct {
	// Name identifies the problem in output and the run log.
	Name string

	// Meetings is the number of variables to schedule.
	Meetings int

	// Candidates is the shared candidate time-point set. The engine
	// copies it per variable; the loader only guarantees it is
	// normalized, deduplicated, and sorted.
	Candidates []time.Time

	// Constraints is the deduplicated constraint set.
	Constraints *csp.ConstraintSet
}

// Document is the YAML shape of a problem file.
type Document struct {
	Name        string          `yaml:"name"`
	Meetings    int             `yaml:"meetings"`
	Dates       DateSpec        `yaml:"dates"`
	Constraints []ConstraintDoc `yaml:"constraints"`
}

// DateSpec declares the candidate dates either as a contiguous daily
// range (Start + Days) or as an explicit List. Exactly one form must be
// used; the schema enforces it.
type DateSpec struct {
	Start string   `yaml:"start,omitempty"`
	Days  int      `yaml:"days,omitempty"`
	List  []string `yaml:"list,omitempty"`
}

// ConstraintDoc is one constraint entry. Right is kept as a raw YAML
// node because it is either a variable index (binary constraint) or a
// date (unary constraint); resolve() disambiguates.
type ConstraintDoc struct {
	Left  int       `yaml:"left"`
	Op    string    `yaml:"op"`
	Right yaml.Node `yaml:"right"`
}

// dateLayouts are the accepted date spellings, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// parseDate parses a date string into a normalized time point.
// Date-only values land at midnight UTC.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return csp.Normalize(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
}

// Dates expands the date spec into the candidate set: normalized,
// deduplicated, ascending.
func (d DateSpec) Dates() ([]time.Time, error) {
	if len(d.List) > 0 {
		seen := make(map[time.Time]struct{}, len(d.List))
		out := make([]time.Time, 0, len(d.List))
		for _, s := range d.List {
			t, err := parseDate(s)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
		sortTimes(out)
		return out, nil
	}

	start, err := parseDate(d.Start)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, d.Days)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out, nil
}

// resolve converts a constraint document into a csp.Constraint,
// classifying the right-hand side as a variable index or a date literal.
func (cd ConstraintDoc) resolve() (csp.Constraint, error) {
	op, err := csp.ParseOperator(cd.Op)
	if err != nil {
		return csp.Constraint{}, err
	}

	var rightVar int
	if err := cd.Right.Decode(&rightVar); err == nil {
		return csp.NewBinary(cd.Left, op, rightVar)
	}

	var rightDate time.Time
	if err := cd.Right.Decode(&rightDate); err == nil {
		return csp.NewUnary(cd.Left, op, rightDate)
	}

	var rightStr string
	if err := cd.Right.Decode(&rightStr); err == nil {
		t, err := parseDate(rightStr)
		if err != nil {
			return csp.Constraint{}, &csp.ConstraintError{
				Code:    csp.ErrCodeInvalidOperand,
				Message: err.Error(),
			}
		}
		return csp.NewUnary(cd.Left, op, t)
	}

	return csp.Constraint{}, &csp.ConstraintError{
		Code:    csp.ErrCodeInvalidOperand,
		Message: fmt.Sprintf("right operand of constraint %d %s ... must be a variable index or a date", cd.Left, cd.Op),
	}
}

// Build converts a decoded document into a Problem, constructing every
// constraint and rejecting references to meetings beyond the declared
// count.
func (doc Document) Build() (*Problem, error) {
	candidates, err := doc.Dates.Dates()
	if err != nil {
		return nil, fmt.Errorf("dates: %w", err)
	}

	constraints := csp.NewConstraintSet()
	for i, cd := range doc.Constraints {
		c, err := cd.resolve()
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		constraints.Add(c)
	}

	if max := constraints.MaxVariable(); max >= doc.Meetings {
		return nil, fmt.Errorf("constraint references meeting %d but only %d meetings are declared", max, doc.Meetings)
	}

	return &Problem{
		Name:        doc.Name,
		Meetings:    doc.Meetings,
		Candidates:  candidates,
		Constraints: constraints,
	}, nil
}

func sortTimes(ts []time.Time) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}
