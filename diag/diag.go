// Package diag holds the stable diagnostic shape shared by every later
// pipeline stage (parser, binder, evaluator): a code (a string identifier
// such as "undeclared-identifier", not a number), a severity,
// a primary source range, argument values, and attached notes (spec
// section 6.3). Rendering into human text is a separate, external concern.
package diag

import (
	"sort"

	"github.com/viant/svlang/source"
)

// Severity classifies how serious a Diagnostic is.
type Severity uint8

const (
	Note Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Note is a secondary location attached to a Diagnostic, e.g. "previous
// definition here".
type Note struct {
	Message string
	Range   source.SourceRange
}

// Diagnostic is one reportable condition raised anywhere in the pipeline.
type Diagnostic struct {
	Code     string
	Severity Severity
	Range    source.SourceRange
	Args     []interface{}
	Notes    []Note
}

// Bag accumulates diagnostics across a single compilation or session call.
// Insertion order is preserved; Sorted returns a location-ordered copy for
// callers that want stable, reproducible output (spec section 5's ordering
// guarantee).
type Bag struct {
	items []Diagnostic
}

// Add appends a new diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Errorf is a convenience for the common error-severity case.
func (b *Bag) Errorf(code string, rng source.SourceRange, args ...interface{}) {
	b.Add(Diagnostic{Code: code, Severity: Error, Range: rng, Args: args})
}

// Warnf is a convenience for the common warning-severity case.
func (b *Bag) Warnf(code string, rng source.SourceRange, args ...interface{}) {
	b.Add(Diagnostic{Code: code, Severity: Warning, Range: rng, Args: args})
}

// All returns every diagnostic in insertion order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// HasErrors reports whether any accumulated diagnostic is Error or Fatal.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= Error {
			return true
		}
	}
	return false
}

// Sorted returns a copy of the bag's diagnostics ordered by source location
// within a single buffer, falling back to insertion order for locations
// that a manager's is_before_in_compilation_unit can't compare (different
// provenance chains).
func (b *Bag) Sorted(before func(a, z source.SourceLocation) bool) []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i].Range.Start, out[j].Range.Start)
	})
	return out
}
