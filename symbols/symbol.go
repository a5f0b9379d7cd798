// Package symbols implements the two-phase lazy symbol/scope model of
// spec section 4.5: eager scope population within a design element,
// followed by per-symbol lazy elaboration of type, initializer, body,
// parameters and base class, each computed on first request and
// memoized.
package symbols

import (
	"github.com/viant/svlang/eval"
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/types"
)

// Kind tags what a Symbol denotes.
type Kind uint8

const (
	Unknown Kind = iota
	RootSym
	ModuleSym
	InterfaceSym
	ProgramSym
	PackageSym
	ClassSym
	FunctionSym
	TaskSym
	VariableSym
	ParameterSym
	PortSym
	NetSym
	TypedefSym
	EnumMemberSym
	GenerateBlockSym
	ModportSym
)

// Qualifier is one class-member qualifier prefix (spec section 4.4's
// class-body qualifier set: local/protected/static/virtual/pure/
// extern/const/rand/randc).
type Qualifier uint16

const (
	QualLocal Qualifier = 1 << iota
	QualProtected
	QualStatic
	QualVirtual
	QualPure
	QualExtern
	QualConst
	QualRand
	QualRandc
)

func (q Qualifier) Has(f Qualifier) bool { return q&f != 0 }

// Symbol is one named entity materialized into a Scope. Type,
// Initializer, Body, Parameters and BaseClass are lazily computed and
// memoized on first request (spec section 4.5); Index and NextSibling
// let a scope preserve monotonic declaration order without an
// auxiliary slice per spec's own "next-sibling" wording.
type Symbol struct {
	Kind     Kind
	Name     string
	Location source.SourceLocation
	Owner    *Scope
	Index    int

	NextSibling *Symbol

	Qualifiers Qualifier

	ownScope *Scope

	typ         cyclicLazy[*types.Type]
	initializer cyclicLazy[eval.ConstantValue]
	body        cyclicLazy[eval.Stmt]
	parameters  cyclicLazy[[]*Symbol]
	baseClass   cyclicLazy[*types.Type]
}

// SetTypeResolver installs the (deferred) computation for Type.
func (s *Symbol) SetTypeResolver(f func() *types.Type) { s.typ.set(f) }

// SetInitializerResolver installs the (deferred) computation for
// Initializer.
func (s *Symbol) SetInitializerResolver(f func() eval.ConstantValue) { s.initializer.set(f) }

// SetBodyResolver installs the (deferred) computation for Body.
func (s *Symbol) SetBodyResolver(f func() eval.Stmt) { s.body.set(f) }

// SetParametersResolver installs the (deferred) computation for
// Parameters.
func (s *Symbol) SetParametersResolver(f func() []*Symbol) { s.parameters.set(f) }

// SetBaseClassResolver installs the (deferred) computation for
// BaseClass.
func (s *Symbol) SetBaseClassResolver(f func() *types.Type) { s.baseClass.set(f) }

// Type forces and memoizes the symbol's type. cyclic is true when the
// type resolver re-entered this same symbol's type computation; the
// caller (binder) should substitute an error type and emit a
// "recursive definition" diagnostic rather than trust the zero value.
func (s *Symbol) Type() (t *types.Type, cyclic bool) { return s.typ.get() }

// TypeReady reports whether Type has already been computed, without
// forcing computation.
func (s *Symbol) TypeReady() bool { return s.typ.ready() }

func (s *Symbol) Initializer() (eval.ConstantValue, bool) { return s.initializer.get() }

func (s *Symbol) Body() (eval.Stmt, bool) { return s.body.get() }

func (s *Symbol) Parameters() ([]*Symbol, bool) { return s.parameters.get() }

func (s *Symbol) BaseClass() (*types.Type, bool) { return s.baseClass.get() }
