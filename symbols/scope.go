package symbols

import "github.com/viant/svlang/source"

// ScopeKind names the kind of lexical container a Scope represents,
// mirroring the parent-kind restriction vocabulary of spec section 4.4
// (compilation-unit, module, interface, program, package, clocking,
// checker, generate-block, class, function/task block).
type ScopeKind uint8

const (
	UnknownScope ScopeKind = iota
	CompilationUnitScope
	ModuleScope
	InterfaceScope
	ProgramScope
	PackageScope
	ClassScope
	SubroutineScope
	GenerateScope
	BlockScope
)

// Scope is one lexical container of Symbols. Declaration order is
// preserved via each Symbol's Index and NextSibling rather than an
// auxiliary ordered slice; members is a name index pointing at the
// most recent declaration of that name, which is what unqualified
// lookup consults.
//
// Deferred population (generate constructs, package imports, spec
// section 4.5) is modeled as a queue of thunks that each append
// Symbols to the scope; the queue runs at most once, the first time
// the scope is iterated or looked up into.
type Scope struct {
	Kind   ScopeKind
	Name   string
	Parent *Scope

	members map[string]*Symbol
	first   *Symbol
	last    *Symbol
	next    int

	deferred []func(*Scope)
	unfolded bool
}

// NewScope returns an empty scope nested under parent (nil for a root
// compilation-unit scope).
func NewScope(kind ScopeKind, name string, parent *Scope) *Scope {
	return &Scope{Kind: kind, Name: name, Parent: parent, members: map[string]*Symbol{}}
}

// Declare eagerly materializes a new Symbol with the next monotonic
// index, linking it after the scope's current last member and
// replacing any prior same-name entry in the name index (later
// declarations shadow earlier ones for lookup, but both remain
// reachable via the NextSibling chain).
func (s *Scope) Declare(kind Kind, name string, loc source.SourceLocation) *Symbol {
	sym := &Symbol{Kind: kind, Name: name, Location: loc, Owner: s, Index: s.next}
	s.next++
	if s.first == nil {
		s.first = sym
	} else {
		s.last.NextSibling = sym
	}
	s.last = sym
	s.members[name] = sym
	return sym
}

// DeferMembers registers a thunk that populates additional Symbols
// into s the first time s is looked up into or iterated (spec section
// 4.5's deferred generate-construct/package-import members).
func (s *Scope) DeferMembers(populate func(*Scope)) {
	s.deferred = append(s.deferred, populate)
}

func (s *Scope) ensureUnfolded() {
	if s.unfolded {
		return
	}
	s.unfolded = true
	pending := s.deferred
	s.deferred = nil
	for _, populate := range pending {
		populate(s)
	}
}

// LocalLookup returns the most recent Symbol named name declared
// directly in s, forcing deferred population first.
func (s *Scope) LocalLookup(name string) (*Symbol, bool) {
	s.ensureUnfolded()
	sym, ok := s.members[name]
	return sym, ok
}

// Lookup resolves an unqualified name by walking up the scope chain
// from s (spec section 4.5: "unqualified resolves up the scope
// chain").
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.LocalLookup(name); ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupBefore resolves name the same way Lookup does, but within s's
// own members only returns a symbol whose Index is strictly less than
// beforeIndex (index-bounded visibility for sequential local
// declarations, spec section 4.5's "lookup location" flag on
// BindContext). The walk up to parent scopes is unbounded, since
// outer declarations are visible regardless of declaration order
// relative to the inner scope.
func (s *Scope) LookupBefore(name string, beforeIndex int) (*Symbol, bool) {
	s.ensureUnfolded()
	for sym := s.first; sym != nil; sym = sym.NextSibling {
		if sym.Name == name && sym.Index < beforeIndex {
			// keep scanning: a later same-name declaration before the
			// bound should still win, matching shadowing semantics.
			if next, ok := s.laterMatch(sym, name, beforeIndex); ok {
				sym = next
			}
			return sym, true
		}
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil, false
}

func (s *Scope) laterMatch(from *Symbol, name string, beforeIndex int) (*Symbol, bool) {
	best := from
	for sym := from.NextSibling; sym != nil; sym = sym.NextSibling {
		if sym.Name == name && sym.Index < beforeIndex {
			best = sym
		}
	}
	if best != from {
		return best, true
	}
	return from, false
}

// Root walks up to the enclosing compilation-unit scope ($unit::,
// spec section 4.5).
func (s *Scope) Root() *Scope {
	scope := s
	for scope.Parent != nil {
		scope = scope.Parent
	}
	return scope
}

// Members forces deferred population and returns every Symbol in
// declaration order.
func (s *Scope) Members() []*Symbol {
	s.ensureUnfolded()
	var out []*Symbol
	for sym := s.first; sym != nil; sym = sym.NextSibling {
		out = append(out, sym)
	}
	return out
}
