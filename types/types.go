// Package types implements the closed type-variant sum of spec section
// 3.4 and its four relations (matching, equivalent, assignment-
// compatible, cast-compatible). Dynamic dispatch over type kinds is
// replaced by a tag (Kind) plus a switch, per this project's design
// notes on modeling the type hierarchy without virtual methods.
package types

// Kind tags which branch of Type is populated.
type Kind uint8

const (
	Unknown Kind = iota
	Integral
	PackedArray
	FixedSizeUnpackedArray
	DynamicArray
	Queue
	AssociativeArray
	PackedStructType
	PackedUnionType
	UnpackedStructType
	UnpackedUnionType
	EnumType
	Floating
	ScalarSingleton
	ClassType
	VirtualInterfaceType
	TypeAliasType
)

// IntegralKind distinguishes the named integral base types; they all
// share the same (width, signed, fourState) shape and differ only in
// name/canonical-display purposes (spec section 3.4, design note 1 on
// reg-vs-logic name-only distinction).
type IntegralKind uint8

const (
	BitType IntegralKind = iota
	LogicType
	RegType
	ByteType
	ShortIntType
	IntType
	LongIntType
	IntegerType
	TimeType
)

// FloatKind distinguishes the floating variants; RealTimeType is a pure
// synonym of RealType (spec section 3.4).
type FloatKind uint8

const (
	ShortRealType FloatKind = iota
	RealType
	RealTimeType
)

// ScalarKind enumerates the scalar singleton types.
type ScalarKind uint8

const (
	VoidType ScalarKind = iota
	NullType
	CHandleType
	StringType
	EventType
	UnboundedType
	TypeRefType
	UntypedType
	SequenceType
	PropertyType
	ErrorType
)

// Field is one ordered member of a struct/union type or enum.
type Field struct {
	Name string
	Type *Type
}

// EnumMember is one (name, constant_value) entry of an Enum type; the
// constant value is kept as a plain int64 ordinal rather than an
// eval.SVInt (spec section 3.4's Enum variant).
type EnumMember struct {
	Name    string
	Decimal int64 // constant ordinal, sufficient for the evaluator-free identity use here
}

// Type is the closed sum described by spec section 3.4. Exactly the
// fields relevant to Kind are meaningful; this mirrors the "tagged sum
// plus switch on Kind" design note rather than per-kind Go types plus an
// interface, so that Compilation can intern and pointer-compare freely.
type Type struct {
	Kind Kind

	// Integral
	IntegralKind IntegralKind
	BitWidth     int
	IsSigned     bool
	IsFourState  bool

	// PackedArray / FixedSizeUnpackedArray / DynamicArray / Queue /
	// AssociativeArray
	Element   *Type
	RangeLeft int
	RangeRight int
	MaxBound   int // Queue: 0 means unbounded
	HasMaxBound bool
	IndexType  *Type // AssociativeArray; nil means wildcard ([*])

	// Packed/Unpacked Struct/Union
	Fields  []Field
	Tagged  bool // union only

	// Enum
	BaseType *Type
	Members  []EnumMember

	// Floating
	FloatKind FloatKind

	// Scalar singleton
	ScalarKind ScalarKind

	// Class
	Name         string
	BaseClass    *Type
	Interfaces   []*Type
	Members2     []Field
	IsVirtual    bool
	IsAbstract   bool
	IsInterface  bool

	// VirtualInterface
	InterfaceName string
	Modport       string

	// TypeAlias: resolved lazily, memoized once forced (spec section 9's
	// cyclic-reference design note: lazy accessors broken by an
	// in-progress set, here modeled with a simple resolver func plus
	// cache rather than a full cycle-breaking registry, since a type
	// alias chain cannot itself be cyclic without a diagnostic already
	// having fired upstream in the binder).
	aliasResolved bool
	aliasTarget   *Type
	aliasResolver func() *Type
}

// NewIntegral returns an integral type descriptor.
func NewIntegral(kind IntegralKind, width int, signed, fourState bool) *Type {
	return &Type{Kind: Integral, IntegralKind: kind, BitWidth: width, IsSigned: signed, IsFourState: fourState}
}

// NewPackedArray wraps element in an inclusive [left:right] packed
// dimension.
func NewPackedArray(element *Type, left, right int) *Type {
	return &Type{Kind: PackedArray, Element: element, RangeLeft: left, RangeRight: right}
}

// NewFixedUnpackedArray wraps element in a [left:right] unpacked
// dimension.
func NewFixedUnpackedArray(element *Type, left, right int) *Type {
	return &Type{Kind: FixedSizeUnpackedArray, Element: element, RangeLeft: left, RangeRight: right}
}

func NewDynamicArray(element *Type) *Type {
	return &Type{Kind: DynamicArray, Element: element}
}

// NewQueue wraps element, optionally bounded ($[maxBound]).
func NewQueue(element *Type, maxBound int, bounded bool) *Type {
	return &Type{Kind: Queue, Element: element, MaxBound: maxBound, HasMaxBound: bounded}
}

// NewAssociativeArray wraps element with an index type, or nil for a
// wildcard ([*]) index.
func NewAssociativeArray(element, indexType *Type) *Type {
	return &Type{Kind: AssociativeArray, Element: element, IndexType: indexType}
}

func NewPackedStruct(fields []Field) *Type  { return &Type{Kind: PackedStructType, Fields: fields} }
func NewPackedUnion(fields []Field, tagged bool) *Type {
	return &Type{Kind: PackedUnionType, Fields: fields, Tagged: tagged}
}
func NewUnpackedStruct(fields []Field) *Type { return &Type{Kind: UnpackedStructType, Fields: fields} }
func NewUnpackedUnion(fields []Field, tagged bool) *Type {
	return &Type{Kind: UnpackedUnionType, Fields: fields, Tagged: tagged}
}

func NewEnum(base *Type, members []EnumMember) *Type {
	return &Type{Kind: EnumType, BaseType: base, Members: members}
}

func NewFloating(kind FloatKind) *Type { return &Type{Kind: Floating, FloatKind: kind} }

func NewScalar(kind ScalarKind) *Type { return &Type{Kind: ScalarSingleton, ScalarKind: kind} }

func NewClass(name string, base *Type, interfaces []*Type, members []Field, virtual, abstract, iface bool) *Type {
	return &Type{Kind: ClassType, Name: name, BaseClass: base, Interfaces: interfaces, Members2: members, IsVirtual: virtual, IsAbstract: abstract, IsInterface: iface}
}

func NewVirtualInterface(interfaceName, modport string) *Type {
	return &Type{Kind: VirtualInterfaceType, InterfaceName: interfaceName, Modport: modport}
}

// NewTypeAlias returns a lazy alias; resolve is invoked at most once, on
// first Resolve() call, and memoized (spec section 3.4's "lazy pointer to
// target type").
func NewTypeAlias(resolve func() *Type) *Type {
	return &Type{Kind: TypeAliasType, aliasResolver: resolve}
}

// Resolve returns the alias's target, forcing and memoizing it on first
// call. Calling Resolve on a non-alias type returns the type itself.
func (t *Type) Resolve() *Type {
	if t.Kind != TypeAliasType {
		return t
	}
	if !t.aliasResolved {
		t.aliasTarget = t.aliasResolver()
		t.aliasResolved = true
	}
	return t.aliasTarget.Resolve()
}

// Width reports the packed bit width of an integral or packed-array
// type; 0 for anything else.
func (t *Type) Width() int {
	r := t.Resolve()
	switch r.Kind {
	case Integral:
		return r.BitWidth
	case PackedArray:
		w := r.Element.Width()
		return w * dimLen(r.RangeLeft, r.RangeRight)
	case PackedStructType, PackedUnionType:
		total := 0
		for _, f := range r.Fields {
			total += f.Type.Width()
		}
		return total
	default:
		return 0
	}
}

func dimLen(left, right int) int {
	if left >= right {
		return left - right + 1
	}
	return right - left + 1
}
