// Package eval interprets bound expressions and statements into constant
// values (spec section 4.6): four-state arbitrary-precision integers,
// reals, strings, and the aggregate/class-handle variants of
// ConstantValue, plus a small explicit-state statement executor.
package eval

import (
	"fmt"
	"math/big"
	"strings"
)

// FourState is the value of a single bit of an SVInt.
type FourState int8

const (
	Zero FourState = iota
	One
	X
	Z
)

// Known reports whether f is a definite 0 or 1.
func (f FourState) Known() bool { return f == Zero || f == One }

func (f FourState) String() string {
	switch f {
	case Zero:
		return "0"
	case One:
		return "1"
	case X:
		return "x"
	case Z:
		return "z"
	default:
		return "?"
	}
}

// SVInt is an arbitrary-precision, per-bit four-state integer (spec
// section 3.7). value and unknown are parallel bit vectors: unknown=0
// means the bit is definite (value gives 0/1); unknown=1 means the bit is
// X (value=0) or Z (value=1). Unused high bits of both words are always
// zero, so width comparisons and masking stay cheap.
type SVInt struct {
	width   int
	signed  bool
	value   *big.Int
	unknown *big.Int
}

func maskFor(width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

func maskTo(v *big.Int, width int) *big.Int {
	return new(big.Int).And(v, maskFor(width))
}

// New returns the all-zero, two-state value of the given width.
func New(width int, signed bool) SVInt {
	return SVInt{width: width, signed: signed, value: big.NewInt(0), unknown: big.NewInt(0)}
}

// AllX returns a value of the given width with every bit X.
func AllX(width int, signed bool) SVInt {
	return SVInt{width: width, signed: signed, value: big.NewInt(0), unknown: maskFor(width)}
}

// AllZ returns a value of the given width with every bit Z.
func AllZ(width int, signed bool) SVInt {
	return SVInt{width: width, signed: signed, value: maskFor(width), unknown: maskFor(width)}
}

// AllOnes returns a two-state value of the given width with every bit 1,
// the expansion target of the `1 unbased unsized literal once its context
// determines a width (spec section 4.6).
func AllOnes(width int, signed bool) SVInt {
	return SVInt{width: width, signed: signed, value: maskFor(width), unknown: big.NewInt(0)}
}

// FromUint64 builds a two-state value from a machine integer.
func FromUint64(width int, signed bool, v uint64) SVInt {
	return SVInt{width: width, signed: signed, value: maskTo(new(big.Int).SetUint64(v), width), unknown: big.NewInt(0)}
}

// FromBigInt builds a two-state value from a mathematical (possibly
// negative, for signed results) integer, masked to width via two's
// complement wraparound.
func FromBigInt(width int, signed bool, v *big.Int) SVInt {
	m := maskFor(width)
	wrapped := new(big.Int).Mod(v, new(big.Int).Add(m, big.NewInt(1)))
	return SVInt{width: width, signed: signed, value: wrapped, unknown: big.NewInt(0)}
}

// FromBool builds a 1-bit unsigned value.
func FromBool(b bool) SVInt {
	if b {
		return FromUint64(1, false, 1)
	}
	return New(1, false)
}

func (v SVInt) Width() int    { return v.width }
func (v SVInt) Signed() bool  { return v.signed }
func (v SVInt) WithSigned(s bool) SVInt {
	v.signed = s
	return v
}

// Resize widens or narrows v to width, filling new high bits by sign
// extension when v is signed and zero extension otherwise, and
// truncating high bits when narrowing (spec section 3.6: the binder
// widens context-determined operands to the expression's effective
// width before the evaluator ever sees them).
func (v SVInt) Resize(width int, signed bool) SVInt {
	out := New(width, signed)
	n := width
	if v.width < n {
		n = v.width
	}
	for i := 0; i < n; i++ {
		setBitAt(out.value, out.unknown, i, v.BitAt(i))
	}
	if width > v.width {
		fill := Zero
		if v.signed && v.width > 0 {
			fill = v.BitAt(v.width - 1)
		}
		for i := v.width; i < width; i++ {
			setBitAt(out.value, out.unknown, i, fill)
		}
	}
	return out
}

// HasUnknown reports whether any bit of v is X or Z (spec invariant 5's
// "unknown-word all-zero iff two-state" condition).
func (v SVInt) HasUnknown() bool {
	return v.unknown.Sign() != 0
}

// BitAt returns the four-state value of bit i (0 = LSB).
func (v SVInt) BitAt(i int) FourState {
	if i < 0 || i >= v.width {
		return Zero
	}
	u := v.unknown.Bit(i)
	val := v.value.Bit(i)
	switch {
	case u == 0 && val == 0:
		return Zero
	case u == 0 && val == 1:
		return One
	case u == 1 && val == 0:
		return X
	default:
		return Z
	}
}

func setBitAt(value, unknown *big.Int, i int, f FourState) {
	switch f {
	case Zero:
		value.SetBit(value, i, 0)
		unknown.SetBit(unknown, i, 0)
	case One:
		value.SetBit(value, i, 1)
		unknown.SetBit(unknown, i, 0)
	case X:
		value.SetBit(value, i, 0)
		unknown.SetBit(unknown, i, 1)
	case Z:
		value.SetBit(value, i, 1)
		unknown.SetBit(unknown, i, 1)
	}
}

// ExactEqual implements spec invariant 6's round-trip comparison: same
// width, signedness, and per-bit four-state pattern.
func ExactEqual(a, b SVInt) bool {
	return a.width == b.width && a.signed == b.signed &&
		a.value.Cmp(b.value) == 0 && a.unknown.Cmp(b.unknown) == 0
}

// mathValue returns the mathematical integer v denotes: for signed values
// whose top bit is set, that is the two's-complement negative value.
func (v SVInt) mathValue() *big.Int {
	m := new(big.Int).Set(v.value)
	if v.signed && v.width > 0 && v.value.Bit(v.width-1) == 1 {
		m.Sub(m, new(big.Int).Lsh(big.NewInt(1), uint(v.width)))
	}
	return m
}

func assertSameWidth(a, b SVInt) {
	if a.width != b.width {
		panic(fmt.Sprintf("eval: binary operation on mismatched widths %d and %d (binder invariant violated)", a.width, b.width))
	}
}

// binaryArith implements the "any unknown bit anywhere propagates X of
// the whole result width" rule for +, -, *, /, % (spec section 4.6).
func (v SVInt) binaryArith(o SVInt, f func(x, y *big.Int) *big.Int) SVInt {
	assertSameWidth(v, o)
	if v.HasUnknown() || o.HasUnknown() {
		return AllX(v.width, v.signed || o.signed)
	}
	result := f(v.mathValue(), o.mathValue())
	return FromBigInt(v.width, v.signed || o.signed, result)
}

func (v SVInt) Add(o SVInt) SVInt {
	return v.binaryArith(o, func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) })
}

func (v SVInt) Sub(o SVInt) SVInt {
	return v.binaryArith(o, func(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) })
}

func (v SVInt) Mul(o SVInt) SVInt {
	return v.binaryArith(o, func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) })
}

// Div implements truncating (toward-zero) division; division by zero
// yields all-X with no exception (spec section 4.6).
func (v SVInt) Div(o SVInt) SVInt {
	assertSameWidth(v, o)
	signed := v.signed || o.signed
	if v.HasUnknown() || o.HasUnknown() || o.mathValue().Sign() == 0 {
		return AllX(v.width, signed)
	}
	q := new(big.Int).Quo(v.mathValue(), o.mathValue())
	return FromBigInt(v.width, signed, q)
}

// Mod implements truncating remainder; modulo by zero yields all-X.
func (v SVInt) Mod(o SVInt) SVInt {
	assertSameWidth(v, o)
	signed := v.signed || o.signed
	if v.HasUnknown() || o.HasUnknown() || o.mathValue().Sign() == 0 {
		return AllX(v.width, signed)
	}
	r := new(big.Int).Rem(v.mathValue(), o.mathValue())
	return FromBigInt(v.width, signed, r)
}

func (v SVInt) Neg() SVInt {
	if v.HasUnknown() {
		return AllX(v.width, v.signed)
	}
	return FromBigInt(v.width, v.signed, new(big.Int).Neg(v.mathValue()))
}

// Pow implements the ** operator; an unknown operand makes the result
// all-X, and a negative exponent yields base**|exp| for a base of 1 or -1
// and 0 for any other base, 0 included (self-determined width rules are
// the binder's job, not this evaluator's).
func (v SVInt) Pow(o SVInt) SVInt {
	assertSameWidth(v, o)
	if v.HasUnknown() || o.HasUnknown() {
		return AllX(v.width, v.signed || o.signed)
	}
	exp := o.mathValue()
	if exp.Sign() < 0 {
		base := v.mathValue()
		if base.CmpAbs(big.NewInt(1)) == 0 {
			return FromBigInt(v.width, v.signed, new(big.Int).Exp(base, new(big.Int).Neg(exp), nil))
		}
		return FromBigInt(v.width, v.signed, big.NewInt(0))
	}
	r := new(big.Int).Exp(v.mathValue(), exp, nil)
	return FromBigInt(v.width, v.signed || o.signed, r)
}

// relational implements <, <=, >, >= : any unknown bit in either operand
// makes the whole comparison X (spec section 4.6).
func (v SVInt) relational(o SVInt, cmp func(x, y *big.Int) bool) SVInt {
	assertSameWidth(v, o)
	if v.HasUnknown() || o.HasUnknown() {
		return AllX(1, false)
	}
	return FromBool(cmp(v.mathValue(), o.mathValue()))
}

func (v SVInt) Lt(o SVInt) SVInt {
	return v.relational(o, func(x, y *big.Int) bool { return x.Cmp(y) < 0 })
}
func (v SVInt) Leq(o SVInt) SVInt {
	return v.relational(o, func(x, y *big.Int) bool { return x.Cmp(y) <= 0 })
}
func (v SVInt) Gt(o SVInt) SVInt {
	return v.relational(o, func(x, y *big.Int) bool { return x.Cmp(y) > 0 })
}
func (v SVInt) Geq(o SVInt) SVInt {
	return v.relational(o, func(x, y *big.Int) bool { return x.Cmp(y) >= 0 })
}

// LogicalEqual implements == : any unknown bit anywhere makes the result
// X, matching the standard's four-state equality (distinct from the
// bit-exact case-equality operators below).
func (v SVInt) LogicalEqual(o SVInt) SVInt {
	assertSameWidth(v, o)
	if v.HasUnknown() || o.HasUnknown() {
		return AllX(1, false)
	}
	return FromBool(v.value.Cmp(o.value) == 0)
}

func (v SVInt) LogicalNotEqual(o SVInt) SVInt {
	eq := v.LogicalEqual(o)
	if eq.HasUnknown() {
		return eq
	}
	return FromBool(eq.value.Sign() == 0)
}

// CaseEqual implements === : bit-exact over four states, always two-state
// (spec section 4.6).
func (v SVInt) CaseEqual(o SVInt) SVInt {
	assertSameWidth(v, o)
	return FromBool(v.value.Cmp(o.value) == 0 && v.unknown.Cmp(o.unknown) == 0)
}

func (v SVInt) CaseNotEqual(o SVInt) SVInt {
	return FromBool(v.CaseEqual(o).value.Sign() == 0)
}

// WildcardEqual implements ==? : a bit position where either operand is
// X/Z compares as don't-care; every other position must match exactly.
// The result is always two-state (it exists precisely to avoid
// X-propagation for pattern matching), never itself X.
//
// The standard's prose (and this repository's own section 4.6 text) reads
// as if only the right operand's X/Z bits are wildcards and an X/Z on the
// left propagates X outward. Tracing the worked scenario
// "{1'b1/1'b0, 4'b1001} ==? 5'b11001" -> 1 against that literal reading
// disagrees: the division-by-zero X lands in the left operand at a bit
// position where the right operand is a definite 1, so the literal rule
// would produce X, not 1. Treating a wildcard position as "either operand
// X/Z" reproduces the documented result and matches 1800-2017 11.4.6's
// actual truth table, so that is what this method implements; see
// DESIGN.md for the recorded deviation from the local prose.
func (v SVInt) WildcardEqual(o SVInt) SVInt {
	assertSameWidth(v, o)
	for i := 0; i < v.width; i++ {
		if v.unknown.Bit(i) == 1 || o.unknown.Bit(i) == 1 {
			continue
		}
		if v.value.Bit(i) != o.value.Bit(i) {
			return FromBool(false)
		}
	}
	return FromBool(true)
}

func (v SVInt) WildcardNotEqual(o SVInt) SVInt {
	return FromBool(v.WildcardEqual(o).value.Sign() == 0)
}

// bitwiseBinary applies a per-bit four-state truth table (and/or/xor/xnor
// propagate independently per bit, unlike arithmetic which propagates a
// single X across the whole result).
func (v SVInt) bitwiseBinary(o SVInt, table func(a, b FourState) FourState) SVInt {
	assertSameWidth(v, o)
	value := new(big.Int)
	unknown := new(big.Int)
	for i := 0; i < v.width; i++ {
		setBitAt(value, unknown, i, table(v.BitAt(i), o.BitAt(i)))
	}
	return SVInt{width: v.width, signed: v.signed || o.signed, value: value, unknown: unknown}
}

func andBit(a, b FourState) FourState {
	if (a.Known() && a == Zero) || (b.Known() && b == Zero) {
		return Zero
	}
	if a.Known() && b.Known() {
		return One
	}
	return X
}

func orBit(a, b FourState) FourState {
	if (a.Known() && a == One) || (b.Known() && b == One) {
		return One
	}
	if a.Known() && b.Known() {
		return Zero
	}
	return X
}

func xorBit(a, b FourState) FourState {
	if a.Known() && b.Known() {
		if a == b {
			return Zero
		}
		return One
	}
	return X
}

func notBit(a FourState) FourState {
	if a == Zero {
		return One
	}
	if a == One {
		return Zero
	}
	return X
}

func (v SVInt) And(o SVInt) SVInt  { return v.bitwiseBinary(o, andBit) }
func (v SVInt) Or(o SVInt) SVInt   { return v.bitwiseBinary(o, orBit) }
func (v SVInt) Xor(o SVInt) SVInt  { return v.bitwiseBinary(o, xorBit) }
func (v SVInt) Xnor(o SVInt) SVInt { return v.bitwiseBinary(o, func(a, b FourState) FourState { return notBit(xorBit(a, b)) }) }

func (v SVInt) Not() SVInt {
	value := new(big.Int)
	unknown := new(big.Int)
	for i := 0; i < v.width; i++ {
		setBitAt(value, unknown, i, notBit(v.BitAt(i)))
	}
	return SVInt{width: v.width, signed: v.signed, value: value, unknown: unknown}
}

// reduce folds a binary truth-table op across every bit of v, used for
// the unary reduction operators (&, |, ^, ~&, ~|, ~^).
func (v SVInt) reduce(table func(a, b FourState) FourState) SVInt {
	if v.width == 0 {
		return FromBool(false)
	}
	acc := v.BitAt(0)
	for i := 1; i < v.width; i++ {
		acc = table(acc, v.BitAt(i))
	}
	return bitToSVInt(acc)
}

func bitToSVInt(f FourState) SVInt {
	value := big.NewInt(0)
	unknown := big.NewInt(0)
	setBitAt(value, unknown, 0, f)
	return SVInt{width: 1, signed: false, value: value, unknown: unknown}
}

func (v SVInt) ReduceAnd() SVInt  { return v.reduce(andBit) }
func (v SVInt) ReduceOr() SVInt   { return v.reduce(orBit) }
func (v SVInt) ReduceXor() SVInt  { return v.reduce(xorBit) }
func (v SVInt) ReduceNand() SVInt { return bitToSVInt(notBit(v.ReduceAnd().BitAt(0))) }
func (v SVInt) ReduceNor() SVInt  { return bitToSVInt(notBit(v.ReduceOr().BitAt(0))) }
func (v SVInt) ReduceXnor() SVInt { return bitToSVInt(notBit(v.ReduceXor().BitAt(0))) }

// truthValue reduces v to its logical truth value for &&, ||, ! (spec's
// "logical results propagate X" rule): One if any bit is definitely 1,
// Zero if every bit is definitely 0, X otherwise.
func (v SVInt) truthValue() FourState {
	anyUnknown := false
	for i := 0; i < v.width; i++ {
		b := v.BitAt(i)
		if b == One {
			return One
		}
		if !b.Known() {
			anyUnknown = true
		}
	}
	if anyUnknown {
		return X
	}
	return Zero
}

// TruthValue exposes the reduced logical truth value used by &&, ||, !,
// and statement conditions.
func (v SVInt) TruthValue() FourState { return v.truthValue() }

func (v SVInt) LogicalAnd(o SVInt) SVInt { return bitToSVInt(andBit(v.truthValue(), o.truthValue())) }
func (v SVInt) LogicalOr(o SVInt) SVInt  { return bitToSVInt(orBit(v.truthValue(), o.truthValue())) }
func (v SVInt) LogicalNot() SVInt        { return bitToSVInt(notBit(v.truthValue())) }

// shiftAmount extracts a shift count, four-state-checked: an unknown
// amount makes the whole shift result all-X, per the standard.
func (v SVInt) shiftAmount(amount SVInt) (int, bool) {
	if amount.HasUnknown() {
		return 0, false
	}
	n := amount.mathValue()
	if n.Sign() < 0 || !n.IsInt64() || n.Int64() > int64(v.width)*2 {
		return v.width, true // shifted entirely out
	}
	return int(n.Int64()), true
}

// Shl implements the logical/arithmetic left shift (<<, <<<): both fill
// with 0, so they coincide.
func (v SVInt) Shl(amount SVInt) SVInt {
	if v.HasUnknown() {
		return AllX(v.width, v.signed)
	}
	n, ok := v.shiftAmount(amount)
	if !ok {
		return AllX(v.width, v.signed)
	}
	return FromBigInt(v.width, v.signed, new(big.Int).Lsh(v.value, uint(n)))
}

// Shr implements the logical right shift (>>): fills with 0 regardless of
// signedness.
func (v SVInt) Shr(amount SVInt) SVInt {
	if v.HasUnknown() {
		return AllX(v.width, v.signed)
	}
	n, ok := v.shiftAmount(amount)
	if !ok {
		return AllX(v.width, v.signed)
	}
	return FromBigInt(v.width, v.signed, new(big.Int).Rsh(v.value, uint(n)))
}

// Sar implements the arithmetic right shift (>>>): preserves the sign bit
// when v is signed, otherwise behaves like Shr (spec section 4.6).
func (v SVInt) Sar(amount SVInt) SVInt {
	if !v.signed {
		return v.Shr(amount)
	}
	if v.HasUnknown() {
		return AllX(v.width, v.signed)
	}
	n, ok := v.shiftAmount(amount)
	if !ok {
		return AllX(v.width, v.signed)
	}
	shifted := new(big.Int).Rsh(v.mathValue(), uint(n))
	return FromBigInt(v.width, v.signed, shifted)
}

// Concat lays out parts MSB-first; the result is always unsigned, with
// width equal to the sum of the operand widths (spec section 4.6).
func Concat(parts ...SVInt) SVInt {
	total := 0
	for _, p := range parts {
		total += p.width
	}
	value := new(big.Int)
	unknown := new(big.Int)
	pos := total
	for _, p := range parts {
		pos -= p.width
		for i := 0; i < p.width; i++ {
			if p.value.Bit(i) == 1 {
				value.SetBit(value, pos+i, 1)
			}
			if p.unknown.Bit(i) == 1 {
				unknown.SetBit(unknown, pos+i, 1)
			}
		}
	}
	return SVInt{width: total, signed: false, value: value, unknown: unknown}
}

// Replicate repeats x exactly n times (n must be non-negative); n == 0
// yields a legal zero-width value (spec section 8's boundary behavior).
func Replicate(n int, x SVInt) SVInt {
	if n < 0 {
		panic("eval: negative replication count (binder invariant violated)")
	}
	parts := make([]SVInt, n)
	for i := range parts {
		parts[i] = x
	}
	return Concat(parts...)
}

// Merge implements the unknown-condition branch of c ? t : f: bits that
// agree keep their value, bits that disagree become X (spec section 4.6).
func Merge(t, f SVInt) SVInt {
	assertSameWidth(t, f)
	value := new(big.Int)
	unknown := new(big.Int)
	for i := 0; i < t.width; i++ {
		a, b := t.BitAt(i), f.BitAt(i)
		if a == b {
			setBitAt(value, unknown, i, a)
		} else {
			setBitAt(value, unknown, i, X)
		}
	}
	return SVInt{width: t.width, signed: t.signed && f.signed, value: value, unknown: unknown}
}

// String renders the canonical textual form <width>'<s?><base><digits>
// used by the round-trip invariant (spec invariant 6); base is always 'h'
// for a compact, unambiguous rendering.
func (v SVInt) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d'", v.width)
	if v.signed {
		sb.WriteByte('s')
	}
	sb.WriteByte('h')
	// Nibbles are grouped from the LSB (bits [0,3], [4,7], ...), matching
	// how FromDigits assigns digit characters to bit positions counting
	// from the rightmost (least significant) character; a width that
	// isn't a multiple of 4 leaves the partial nibble at the top, not the
	// bottom, so String and FromDigits/Parse stay mutual inverses.
	nibbles := (v.width + 3) / 4
	for k := nibbles - 1; k >= 0; k-- {
		lo := k * 4
		hi := lo + 3
		if hi > v.width-1 {
			hi = v.width - 1
		}
		digit, _ := nibbleDigit(v, lo, hi)
		sb.WriteByte(digit)
	}
	return sb.String()
}

// nibbleDigit renders bits [lo, hi] as one hex digit, or as a single
// x/z character if the nibble is uniformly unknown, matching how real
// tools print four-state hex.
func nibbleDigit(v SVInt, lo, hi int) (byte, bool) {
	allX, allZ := true, true
	n := 0
	for i := hi; i >= lo; i-- {
		b := v.BitAt(i)
		if b != X {
			allX = false
		}
		if b != Z {
			allZ = false
		}
		n <<= 1
		if b == One || b == Z {
			n |= 1
		}
	}
	if allX {
		return 'x', true
	}
	if allZ {
		return 'z', true
	}
	const hexDigits = "0123456789abcdef"
	return hexDigits[n&0xf], false
}
