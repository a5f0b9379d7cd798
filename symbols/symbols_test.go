package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/svlang/eval"
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/symbols"
	"github.com/viant/svlang/types"
)

func TestDeclareAssignsMonotonicIndexAndSiblingChain(t *testing.T) {
	scope := symbols.NewScope(symbols.ModuleScope, "m", nil)
	a := scope.Declare(symbols.VariableSym, "a", source.NoLocation)
	b := scope.Declare(symbols.VariableSym, "b", source.NoLocation)
	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)
	assert.Same(t, b, a.NextSibling)
}

func TestLookupWalksScopeChain(t *testing.T) {
	root := symbols.NewScope(symbols.CompilationUnitScope, "$unit", nil)
	root.Declare(symbols.PackageSym, "outer", source.NoLocation)
	child := symbols.NewScope(symbols.ModuleScope, "m", root)

	sym, ok := child.Lookup("outer")
	assert.True(t, ok)
	assert.Equal(t, "outer", sym.Name)

	_, ok = child.Lookup("missing")
	assert.False(t, ok)
}

func TestShadowingPicksMostRecentDeclaration(t *testing.T) {
	scope := symbols.NewScope(symbols.BlockScope, "blk", nil)
	scope.Declare(symbols.VariableSym, "x", source.NoLocation)
	second := scope.Declare(symbols.VariableSym, "x", source.NoLocation)

	sym, ok := scope.LocalLookup("x")
	assert.True(t, ok)
	assert.Same(t, second, sym)
}

func TestDeferredMembersMaterializeOnFirstLookup(t *testing.T) {
	scope := symbols.NewScope(symbols.GenerateScope, "gen", nil)
	ran := false
	scope.DeferMembers(func(s *symbols.Scope) {
		ran = true
		s.Declare(symbols.VariableSym, "late", source.NoLocation)
	})
	assert.False(t, ran)

	_, ok := scope.LocalLookup("late")
	assert.True(t, ok)
	assert.True(t, ran)
}

func TestMembersPreservesDeclarationOrder(t *testing.T) {
	scope := symbols.NewScope(symbols.ModuleScope, "m", nil)
	scope.Declare(symbols.VariableSym, "a", source.NoLocation)
	scope.Declare(symbols.VariableSym, "b", source.NoLocation)
	scope.Declare(symbols.VariableSym, "c", source.NoLocation)

	var names []string
	for _, s := range scope.Members() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestLookupBeforeRespectsIndexBound(t *testing.T) {
	scope := symbols.NewScope(symbols.BlockScope, "blk", nil)
	first := scope.Declare(symbols.VariableSym, "x", source.NoLocation)
	scope.Declare(symbols.VariableSym, "y", source.NoLocation)

	sym, ok := scope.LookupBefore("x", first.Index+1)
	assert.True(t, ok)
	assert.Same(t, first, sym)

	_, ok = scope.LookupBefore("y", first.Index)
	assert.False(t, ok)
}

func TestPackageScopedResolve(t *testing.T) {
	unit := symbols.NewScope(symbols.CompilationUnitScope, "$unit", nil)
	pkgScope := symbols.NewScope(symbols.PackageScope, "pkg", nil)
	pkgScope.Declare(symbols.ParameterSym, "WIDTH", source.NoLocation)
	pkgs := symbols.Packages{"pkg": pkgScope}

	module := symbols.NewScope(symbols.ModuleScope, "m", unit)
	sym, ok := symbols.Resolve(module, "pkg::WIDTH", pkgs)
	assert.True(t, ok)
	assert.Equal(t, "WIDTH", sym.Name)
}

func TestUnitScopedResolve(t *testing.T) {
	unit := symbols.NewScope(symbols.CompilationUnitScope, "$unit", nil)
	unit.Declare(symbols.ParameterSym, "TOP", source.NoLocation)
	module := symbols.NewScope(symbols.ModuleScope, "m", unit)

	sym, ok := symbols.Resolve(module, "$unit::TOP", nil)
	assert.True(t, ok)
	assert.Equal(t, "TOP", sym.Name)
}

func TestHierarchicalResolve(t *testing.T) {
	top := symbols.NewScope(symbols.ModuleScope, "top", nil)
	sub := symbols.NewScope(symbols.ModuleScope, "sub", top)
	sub.Declare(symbols.VariableSym, "counter", source.NoLocation)

	inst := top.Declare(symbols.ModuleSym, "u_sub", source.NoLocation)
	inst.SetScope(sub)

	sym, ok := symbols.Resolve(top, "u_sub.counter", nil)
	assert.True(t, ok)
	assert.Equal(t, "counter", sym.Name)
}

func TestLazyTypeResolverMemoizes(t *testing.T) {
	sym := &symbols.Symbol{}
	calls := 0
	want := types.NewIntegral(types.IntType, 32, true, true)
	sym.SetTypeResolver(func() *types.Type {
		calls++
		return want
	})
	got, cyclic := sym.Type()
	assert.False(t, cyclic)
	assert.Same(t, want, got)
	_, _ = sym.Type()
	assert.Equal(t, 1, calls)
}

func TestCyclicTypeResolutionReported(t *testing.T) {
	sym := &symbols.Symbol{}
	reentrant := false
	sym.SetTypeResolver(func() *types.Type {
		_, cyclic := sym.Type()
		reentrant = cyclic
		return types.NewScalar(types.ErrorType)
	})
	_, cyclic := sym.Type()
	assert.False(t, cyclic)
	assert.True(t, reentrant)
}

func TestInitializerLazyResolution(t *testing.T) {
	sym := &symbols.Symbol{}
	sym.SetInitializerResolver(func() eval.ConstantValue {
		return eval.IntValue(eval.FromUint64(8, false, 3))
	})
	v, cyclic := sym.Initializer()
	assert.False(t, cyclic)
	assert.Equal(t, "8'h03", v.Int.String())
}
