package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/svlang/types"
)

func TestIntegralMatchingIgnoresNothing(t *testing.T) {
	a := types.NewIntegral(types.LogicType, 8, false, true)
	b := types.NewIntegral(types.LogicType, 8, false, true)
	assert.True(t, types.IsMatching(a, b))
	assert.True(t, types.IsMatching(a, a))
}

func TestRegAndLogicAreEquivalentNotMatching(t *testing.T) {
	reg := types.NewIntegral(types.RegType, 8, false, true)
	logic := types.NewIntegral(types.LogicType, 8, false, true)
	assert.False(t, types.IsMatching(reg, logic))
	assert.True(t, types.IsEquivalent(reg, logic))
}

func TestIntegralFloatingAssignmentCompatible(t *testing.T) {
	i := types.NewIntegral(types.IntType, 32, true, true)
	r := types.NewFloating(types.RealType)
	assert.False(t, types.IsEquivalent(i, r))
	assert.True(t, types.IsAssignmentCompatible(i, r))
	assert.True(t, types.IsAssignmentCompatible(r, i))
}

func TestRealAndRealTimeMatch(t *testing.T) {
	r := types.NewFloating(types.RealType)
	rt := types.NewFloating(types.RealTimeType)
	assert.True(t, types.IsMatching(r, rt))
}

func TestPackedStructFieldMatching(t *testing.T) {
	bit8 := types.NewIntegral(types.BitType, 8, false, false)
	s1 := types.NewPackedStruct([]types.Field{{Name: "a", Type: bit8}, {Name: "b", Type: bit8}})
	s2 := types.NewPackedStruct([]types.Field{{Name: "a", Type: bit8}, {Name: "b", Type: bit8}})
	s3 := types.NewPackedStruct([]types.Field{{Name: "a", Type: bit8}, {Name: "c", Type: bit8}})
	assert.True(t, types.IsMatching(s1, s2))
	assert.False(t, types.IsMatching(s1, s3))
	assert.Equal(t, 16, s1.Width())
}

func TestQueueEquivalenceIgnoresBound(t *testing.T) {
	bit1 := types.NewIntegral(types.BitType, 1, false, false)
	q1 := types.NewQueue(bit1, 4, true)
	q2 := types.NewQueue(bit1, 0, false)
	assert.False(t, types.IsMatching(q1, q2))
	assert.True(t, types.IsEquivalent(q1, q2))
}

func TestClassUpcastAssignmentCompatible(t *testing.T) {
	base := types.NewClass("Base", nil, nil, nil, false, false, false)
	derived := types.NewClass("Derived", base, nil, nil, false, false, false)
	assert.True(t, types.IsAssignmentCompatible(derived, base))
	assert.False(t, types.IsAssignmentCompatible(base, derived))
}

func TestInterfaceImplementationAssignmentCompatible(t *testing.T) {
	iface := types.NewClass("Iface", nil, nil, nil, false, false, true)
	impl := types.NewClass("Impl", nil, []*types.Type{iface}, nil, false, false, false)
	assert.True(t, types.IsAssignmentCompatible(impl, iface))
}

func TestNullAssignableToHandleTypes(t *testing.T) {
	null := types.NewScalar(types.NullType)
	chandle := types.NewScalar(types.CHandleType)
	class := types.NewClass("C", nil, nil, nil, false, false, false)
	assert.True(t, types.IsAssignmentCompatible(null, chandle))
	assert.True(t, types.IsAssignmentCompatible(null, class))
}

func TestEnumIntegralCastCompatible(t *testing.T) {
	base := types.NewIntegral(types.IntType, 32, true, false)
	e := types.NewEnum(base, []types.EnumMember{{Name: "A", Decimal: 0}})
	assert.False(t, types.IsAssignmentCompatible(e, base))
	assert.True(t, types.IsCastCompatible(e, base))
}

func TestStringIntegralCastCompatible(t *testing.T) {
	str := types.NewScalar(types.StringType)
	i := types.NewIntegral(types.ByteType, 8, false, false)
	assert.True(t, types.IsCastCompatible(str, i))
	assert.True(t, types.IsCastCompatible(i, str))
}

func TestTypeAliasResolvesLazilyAndMemoizes(t *testing.T) {
	calls := 0
	target := types.NewIntegral(types.IntType, 32, true, true)
	alias := types.NewTypeAlias(func() *types.Type {
		calls++
		return target
	})
	assert.Equal(t, 0, calls)
	assert.Same(t, target, alias.Resolve())
	assert.Same(t, target, alias.Resolve())
	assert.Equal(t, 1, calls)
}

func TestAliasRelationsPreserved(t *testing.T) {
	target := types.NewIntegral(types.IntType, 32, true, true)
	alias := types.NewTypeAlias(func() *types.Type { return target })
	other := types.NewIntegral(types.IntType, 32, true, true)
	assert.True(t, types.IsMatching(alias, other))
}

func TestPackedArrayWidth(t *testing.T) {
	bit := types.NewIntegral(types.BitType, 1, false, false)
	arr := types.NewPackedArray(bit, 7, 0)
	assert.Equal(t, 8, arr.Width())
}
