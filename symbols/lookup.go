package symbols

import "strings"

// Packages is a name-keyed registry of package scopes, consulted by
// package-scoped lookup (pkg::name, spec section 4.5). Compilation
// owns one instance and hands it to every Resolve call.
type Packages map[string]*Scope

// Resolve implements the name-resolution rules of spec section 4.5:
// unqualified resolves up the scope chain from at; hierarchical
// (a.b.c) walks nested instance scopes by name; package-scoped
// (pkg::name) goes directly to the named package's scope;
// "$unit::name" reaches the enclosing compilation unit.
func Resolve(at *Scope, name string, pkgs Packages) (*Symbol, bool) {
	if rest, ok := strings.CutPrefix(name, "$unit::"); ok {
		return at.Root().Lookup(rest)
	}
	if pkg, rest, ok := splitScoped(name); ok {
		scope, found := pkgs[pkg]
		if !found {
			return nil, false
		}
		return scope.LocalLookup(rest)
	}
	if strings.Contains(name, ".") {
		return resolveHierarchical(at, name)
	}
	return at.Lookup(name)
}

func splitScoped(name string) (pkg, rest string, ok bool) {
	idx := strings.Index(name, "::")
	if idx < 0 {
		return "", "", false
	}
	return name[:idx], name[idx+2:], true
}

// resolveHierarchical walks a dot path by repeatedly looking up each
// segment as a named nested scope (an instance or generate-block
// symbol's own scope), starting from at.
func resolveHierarchical(at *Scope, path string) (*Symbol, bool) {
	segments := strings.Split(path, ".")
	scope := at
	var sym *Symbol
	for i, seg := range segments {
		found, ok := scope.Lookup(seg)
		if !ok {
			return nil, false
		}
		sym = found
		if i == len(segments)-1 {
			break
		}
		nested, ok := sym.nested()
		if !ok {
			return nil, false
		}
		scope = nested
	}
	return sym, true
}

// nested returns the symbol's own scope, for symbols that introduce
// one (module/interface/program/package/class/generate-block
// instances); other kinds never have a nested scope to descend into.
func (s *Symbol) nested() (*Scope, bool) {
	if s.ownScope == nil {
		return nil, false
	}
	return s.ownScope, true
}

// SetScope attaches the scope that s itself introduces (for
// instantiable kinds), enabling hierarchical lookup through s.
func (s *Symbol) SetScope(scope *Scope) { s.ownScope = scope }
