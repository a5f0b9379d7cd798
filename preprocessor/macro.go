package preprocessor

import "github.com/viant/svlang/token"

// MacroDef is one entry in the macro table: a mapping from macro name to
// its parameter list, replacement token list, and definition location
// (spec section 4.3).
type MacroDef struct {
	Name        string
	Params      []string // empty for an object-like macro
	Defaults    map[string]string
	Body        []token.Token
	Location    token.Token // the macro name token of the `define directive, for diagnostics
	IsPredefined bool
}

// MacroTable maps macro name to its current definition.
type MacroTable struct {
	macros map[string]*MacroDef
}

// NewMacroTable creates an empty table.
func NewMacroTable() *MacroTable {
	return &MacroTable{macros: make(map[string]*MacroDef)}
}

// Lookup returns the macro named name, if defined.
func (t *MacroTable) Lookup(name string) (*MacroDef, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// Define installs def, returning (replaced, sameBody): replaced reports
// whether a prior definition existed, and sameBody reports whether its
// body was textually identical (redefinition with identical body is
// silent; a different body should produce a warning — left to the caller,
// which has the diagnostic bag).
func (t *MacroTable) Define(def *MacroDef) (replaced bool, sameBody bool) {
	prior, existed := t.macros[def.Name]
	if existed {
		sameBody = macroBodyEqual(prior, def)
	}
	t.macros[def.Name] = def
	return existed, sameBody
}

// Undef removes name from the table, reporting whether it existed.
func (t *MacroTable) Undef(name string) bool {
	_, ok := t.macros[name]
	delete(t.macros, name)
	return ok
}

// UndefAll removes every non-predefined macro, per `` `undefineall``.
func (t *MacroTable) UndefAll() {
	for name, def := range t.macros {
		if !def.IsPredefined {
			delete(t.macros, name)
		}
	}
}

func macroBodyEqual(a, b *MacroDef) bool {
	if len(a.Params) != len(b.Params) || len(a.Body) != len(b.Body) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Body {
		if a.Body[i].Kind != b.Body[i].Kind || a.Body[i].Raw != b.Body[i].Raw {
			return false
		}
	}
	return true
}
