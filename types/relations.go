package types

// IsMatching reports structural identity (spec section 3.4/4.5,
// "the equivalence relation in the language standard section 6.22.1").
// Reflexive, symmetric and transitive, and preserved by type aliasing:
// both sides are resolved through any TypeAlias indirection first.
func IsMatching(a, b *Type) bool {
	a, b = a.Resolve(), b.Resolve()
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Integral:
		return a.IntegralKind == b.IntegralKind && a.BitWidth == b.BitWidth &&
			a.IsSigned == b.IsSigned && a.IsFourState == b.IsFourState
	case PackedArray, FixedSizeUnpackedArray:
		return a.RangeLeft == b.RangeLeft && a.RangeRight == b.RangeRight && IsMatching(a.Element, b.Element)
	case DynamicArray:
		return IsMatching(a.Element, b.Element)
	case Queue:
		return a.HasMaxBound == b.HasMaxBound && a.MaxBound == b.MaxBound && IsMatching(a.Element, b.Element)
	case AssociativeArray:
		if !IsMatching(a.Element, b.Element) {
			return false
		}
		if (a.IndexType == nil) != (b.IndexType == nil) {
			return false
		}
		return a.IndexType == nil || IsMatching(a.IndexType, b.IndexType)
	case PackedStructType, PackedUnionType, UnpackedStructType, UnpackedUnionType:
		return fieldsMatch(a.Fields, b.Fields)
	case EnumType:
		return a == b // enum types are never structurally matching across distinct declarations
	case Floating:
		return a.FloatKind == b.FloatKind || (isRealFamily(a.FloatKind) && isRealFamily(b.FloatKind))
	case ScalarSingleton:
		return a.ScalarKind == b.ScalarKind
	case ClassType, VirtualInterfaceType:
		return a == b
	default:
		return false
	}
}

func isRealFamily(k FloatKind) bool { return k == RealType || k == RealTimeType }

func fieldsMatch(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !IsMatching(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

// IsEquivalent reports: matching, OR both integral with the same
// signedness/four-stateness/width (ignoring name), OR fixed unpacked
// arrays with equivalent elements and the same range width, OR
// dynamic/associative/queue with an equivalent element and (for
// associative) an equivalent index type (spec section 3.4/4.5).
// Reflexive and symmetric.
func IsEquivalent(a, b *Type) bool {
	a, b = a.Resolve(), b.Resolve()
	if IsMatching(a, b) {
		return true
	}
	if a.Kind == Integral && b.Kind == Integral {
		return a.IsSigned == b.IsSigned && a.IsFourState == b.IsFourState && a.BitWidth == b.BitWidth
	}
	if a.Kind == FixedSizeUnpackedArray && b.Kind == FixedSizeUnpackedArray {
		return dimLen(a.RangeLeft, a.RangeRight) == dimLen(b.RangeLeft, b.RangeRight) && IsEquivalent(a.Element, b.Element)
	}
	if (a.Kind == DynamicArray && b.Kind == DynamicArray) || (a.Kind == Queue && b.Kind == Queue) {
		return IsEquivalent(a.Element, b.Element)
	}
	if a.Kind == AssociativeArray && b.Kind == AssociativeArray {
		if !IsEquivalent(a.Element, b.Element) {
			return false
		}
		if (a.IndexType == nil) != (b.IndexType == nil) {
			return false
		}
		return a.IndexType == nil || IsEquivalent(a.IndexType, b.IndexType)
	}
	return false
}

// IsAssignmentCompatible reports: equivalent, OR integral<->integral or
// integral<->floating, OR unpacked-array element equivalence with
// size-rule slack (dynamic arrays and queues accept any equivalent
// element regardless of declared bound), OR a class up-cast (b is a
// base of a, or an ancestor thereof), OR an interface-class
// implementation (a implements interface b), OR null assigned to
// chandle/event/class/virtual-interface (spec section 3.4/4.5).
// Reflexive.
func IsAssignmentCompatible(a, b *Type) bool {
	a, b = a.Resolve(), b.Resolve()
	if IsEquivalent(a, b) {
		return true
	}
	if isNumeric(a) && isNumeric(b) {
		return true
	}
	if (a.Kind == FixedSizeUnpackedArray || a.Kind == DynamicArray || a.Kind == Queue) &&
		(b.Kind == FixedSizeUnpackedArray || b.Kind == DynamicArray || b.Kind == Queue) {
		return IsEquivalent(a.Element, b.Element)
	}
	if a.Kind == ClassType && b.Kind == ClassType {
		if classDerivesFrom(a, b) {
			return true
		}
		for _, iface := range a.Interfaces {
			if iface == b || classDerivesFrom(iface, b) {
				return true
			}
		}
	}
	if a.Kind == ScalarSingleton && a.ScalarKind == NullType {
		switch b.Kind {
		case ClassType, VirtualInterfaceType:
			return true
		case ScalarSingleton:
			return b.ScalarKind == CHandleType || b.ScalarKind == EventType
		}
	}
	return false
}

func isNumeric(t *Type) bool {
	return t.Kind == Integral || t.Kind == Floating
}

func classDerivesFrom(derived, base *Type) bool {
	for c := derived.BaseClass; c != nil; c = c.BaseClass {
		if c == base {
			return true
		}
	}
	return false
}

// IsCastCompatible reports: assignment-compatible, OR enum<->integral/
// floating, OR string<->integral (spec section 3.4/4.5).
func IsCastCompatible(a, b *Type) bool {
	a, b = a.Resolve(), b.Resolve()
	if IsAssignmentCompatible(a, b) {
		return true
	}
	if (a.Kind == EnumType && isNumeric(b)) || (isNumeric(a) && b.Kind == EnumType) {
		return true
	}
	if (isStringType(a) && b.Kind == Integral) || (a.Kind == Integral && isStringType(b)) {
		return true
	}
	return false
}

func isStringType(t *Type) bool {
	return t.Kind == ScalarSingleton && t.ScalarKind == StringType
}
