package eval

import "errors"

var errNonIntegralCaseSelector = errors.New("eval: case selector is non-integral")

// FunctionDef is a user-defined constant function: its body runs against
// a fresh call frame seeded with the argument bindings, and the implicit
// return-name variable (spec section 4.6) carries the result if no
// explicit return statement ran.
type FunctionDef struct {
	Name   string
	Params []string
	Body   Stmt
}

// FunctionTable resolves function calls by name for CallExpr; the binder
// is the eventual owner of a real table keyed by resolved Symbol, this
// one is a simple name-keyed stand-in usable standalone.
type FunctionTable struct {
	fns map[string]*FunctionDef
}

// NewFunctionTable returns an empty table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{fns: map[string]*FunctionDef{}}
}

// Define installs fn, keyed by its own name.
func (t *FunctionTable) Define(fn *FunctionDef) {
	t.fns[fn.Name] = fn
}

// Lookup resolves a function by name.
func (t *FunctionTable) Lookup(name string) (*FunctionDef, bool) {
	fn, ok := t.fns[name]
	return fn, ok
}

// ConstantEvaluator ties an Env and a FunctionTable together for
// evaluating top-level constant expressions and statements (spec section
// 4.6's entry point). It takes already-bound Expr/Stmt trees; nothing in
// this module wraps it with the parser/binder pipeline.
type ConstantEvaluator struct {
	Env *Env
	Fns *FunctionTable
}

// NewConstantEvaluator builds an evaluator with a fresh environment.
func NewConstantEvaluator(maxDepth int) *ConstantEvaluator {
	return &ConstantEvaluator{Env: NewEnv(maxDepth), Fns: NewFunctionTable()}
}

// Eval folds a constant expression to its value.
func (c *ConstantEvaluator) Eval(e Expr) (ConstantValue, error) {
	return e.Eval(c.Env, c.Fns)
}

// Exec runs a statement (e.g. a local variable declaration) against the
// evaluator's top-level frame.
func (c *ConstantEvaluator) Exec(s Stmt) (Signal, error) {
	return s.Exec(c.Env, c.Fns)
}

// DefineFunction installs a function definition for later CallExpr use.
func (c *ConstantEvaluator) DefineFunction(fn *FunctionDef) {
	c.Fns.Define(fn)
}
