// Package binder turns the lossless CST into the typed bound tree
// (spec section 3.6, 4.5 body): expressions and statements carrying a
// kind, a resolved type, and explicit implicit-conversion nodes, with
// context-determined operands widened to the expression's effective
// width and self-determined operands (shift counts, replication
// counts, conditional branches) bound in isolation.
package binder

import (
	"github.com/viant/svlang/compilation"
	"github.com/viant/svlang/diag"
	"github.com/viant/svlang/symbols"
)

// Flags is the bind-context flag set of spec section 4.5: "flag set
// (inside-constant, inside-assertion, no-hierarchical, disable-lookup,
// etc.)".
type Flags uint8

const (
	InsideConstant Flags = 1 << iota
	InsideAssertion
	NoHierarchical
	DisableLookup
)

func (f Flags) Has(o Flags) bool { return f&o != 0 }

// UnboundedLookup marks a BindContext whose lookups are not
// index-bounded (full scope-chain visibility, the default outside a
// sequential statement list).
const UnboundedLookup = -1

// BindContext carries the current scope, lookup location, and flag set
// threaded through every Bind call (spec section 4.5). It is a plain
// value, copied and adjusted (WithScope, WithFlags, ...) rather than
// mutated in place, so a nested bind can temporarily narrow flags or
// descend into a child scope without disturbing the caller's context.
type BindContext struct {
	Scope       *symbols.Scope
	LookupIndex int
	Flags       Flags
	Comp        *compilation.Compilation
	Diags       *diag.Bag
}

// NewContext returns a BindContext over scope with unbounded lookup and
// no flags set.
func NewContext(comp *compilation.Compilation, scope *symbols.Scope, diags *diag.Bag) BindContext {
	return BindContext{Scope: scope, LookupIndex: UnboundedLookup, Comp: comp, Diags: diags}
}

// WithScope returns a copy of c nested into scope.
func (c BindContext) WithScope(scope *symbols.Scope) BindContext {
	c.Scope = scope
	return c
}

// WithLookupIndex returns a copy of c bounding local-scope lookups to
// declarations strictly before index (spec section 4.5's index-bounded
// visibility for sequential local declarations).
func (c BindContext) WithLookupIndex(index int) BindContext {
	c.LookupIndex = index
	return c
}

// WithFlags returns a copy of c with extra flags set (e.g. entering a
// constant-expression or assertion context).
func (c BindContext) WithFlags(extra Flags) BindContext {
	c.Flags |= extra
	return c
}

// Lookup resolves name per c's current scope/flags: DisableLookup
// always fails; an index-bounded context consults only LookupBefore
// within c.Scope; otherwise the full unqualified/hierarchical/
// package-scoped/$unit resolution rules apply.
func (c BindContext) Lookup(name string) (*symbols.Symbol, bool) {
	if c.Flags.Has(DisableLookup) {
		return nil, false
	}
	if c.LookupIndex != UnboundedLookup {
		return c.Scope.LookupBefore(name, c.LookupIndex)
	}
	if c.Comp != nil {
		return c.Comp.Resolve(c.Scope, name)
	}
	return c.Scope.Lookup(name)
}
