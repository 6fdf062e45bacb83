package problem

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Error codes reported by the loader.
const (
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeParse    = "PARSE_ERROR"
	ErrCodeSchema   = "SCHEMA_ERROR"
	ErrCodeBuild    = "BUILD_ERROR"
)

// LoadError represents an error that occurred while loading a problem
// document.
type LoadError struct {
	Code    string
	Message string
	Path    string // file path when known
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads, validates, and builds the problem at path. Fail-fast: the
// first error stops the load. Use Validate for collect-all diagnostics.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), Path: path}
	}

	if errs := validateSchema(path, data); len(errs) > 0 {
		return nil, errs[0]
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), Path: path}
	}

	p, err := doc.Build()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBuild, Message: err.Error(), Path: path}
	}
	return p, nil
}

// Validate checks the document at path against the schema and, when the
// schema passes, attempts the build. Collects all schema errors instead
// of stopping at the first; returns nil when the document is valid.
func Validate(path string) []error {
	data, err := os.ReadFile(path)
	if err != nil {
		return []error{&LoadError{Code: ErrCodeNotFound, Message: err.Error(), Path: path}}
	}

	if errs := validateSchema(path, data); len(errs) > 0 {
		out := make([]error, len(errs))
		for i, e := range errs {
			out[i] = e
		}
		return out
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []error{&LoadError{Code: ErrCodeParse, Message: err.Error(), Path: path}}
	}
	if _, err := doc.Build(); err != nil {
		return []error{&LoadError{Code: ErrCodeBuild, Message: err.Error(), Path: path}}
	}
	return nil
}

// validateSchema unifies the YAML document with the embedded CUE schema
// and expands the unification error into one LoadError per leaf cause.
func validateSchema(path string, data []byte) []*LoadError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		// The schema is embedded; failing to compile it is a bug, not input.
		return []*LoadError{{Code: ErrCodeSchema, Message: fmt.Sprintf("internal schema error: %v", schema.Err())}}
	}
	problemDef := schema.LookupPath(cue.ParsePath("#Problem"))

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return []*LoadError{{Code: ErrCodeParse, Message: err.Error(), Path: path}}
	}
	value := ctx.BuildFile(file)
	if value.Err() != nil {
		return []*LoadError{{Code: ErrCodeParse, Message: value.Err().Error(), Path: path}}
	}

	unified := problemDef.Unify(value)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		var out []*LoadError
		for _, e := range cueerrors.Errors(err) {
			out = append(out, &LoadError{Code: ErrCodeSchema, Message: e.Error(), Path: path})
		}
		return out
	}
	return nil
}
