package eval

import (
	"fmt"

	"github.com/viant/svlang/token"
)

// Expr is a constant-foldable bound expression node. The binder builds
// real Expr trees from the CST; these concrete node types are also what
// the evaluator's own tests build directly, without going through the
// binder.
type Expr interface {
	Eval(env *Env, fns *FunctionTable) (ConstantValue, error)
}

// Literal is an already-computed constant.
type Literal struct {
	Value ConstantValue
}

func (l Literal) Eval(*Env, *FunctionTable) (ConstantValue, error) { return l.Value, nil }

// Identifier looks up a local variable by name (module/package-scope
// resolution happens in the binder before this node is constructed).
type Identifier struct {
	Name string
}

func (id Identifier) Eval(env *Env, _ *FunctionTable) (ConstantValue, error) {
	v, ok := env.Lookup(id.Name)
	if !ok {
		return ConstantValue{}, fmt.Errorf("eval: undeclared identifier %q", id.Name)
	}
	return v, nil
}

// BinaryExpr applies a token.Kind operator to two already context-widened
// operands; widening itself is the binder's job (spec section 4.6: "the
// evaluator never re-widens").
type BinaryExpr struct {
	Op          token.Kind
	Left, Right Expr
}

func (b BinaryExpr) Eval(env *Env, fns *FunctionTable) (ConstantValue, error) {
	lv, err := b.Left.Eval(env, fns)
	if err != nil {
		return ConstantValue{}, err
	}
	rv, err := b.Right.Eval(env, fns)
	if err != nil {
		return ConstantValue{}, err
	}
	if lv.Kind != KindInt || rv.Kind != KindInt {
		return ConstantValue{}, fmt.Errorf("eval: binary operator %s applied to non-integral operand", b.Op)
	}
	l, r := lv.Int, rv.Int
	switch b.Op {
	case token.Plus:
		return IntValue(l.Add(r)), nil
	case token.Minus:
		return IntValue(l.Sub(r)), nil
	case token.Star:
		return IntValue(l.Mul(r)), nil
	case token.Slash:
		return IntValue(l.Div(r)), nil
	case token.Percent:
		return IntValue(l.Mod(r)), nil
	case token.StarStar:
		return IntValue(l.Pow(r)), nil
	case token.Amp:
		return IntValue(l.And(r)), nil
	case token.Pipe:
		return IntValue(l.Or(r)), nil
	case token.Caret:
		return IntValue(l.Xor(r)), nil
	case token.CaretTilde, token.TildeCaret:
		return IntValue(l.Xnor(r)), nil
	case token.AmpAmp:
		return IntValue(l.LogicalAnd(r)), nil
	case token.PipePipe:
		return IntValue(l.LogicalOr(r)), nil
	case token.EqualsEquals:
		return IntValue(l.LogicalEqual(r)), nil
	case token.BangEquals:
		return IntValue(l.LogicalNotEqual(r)), nil
	case token.EqualsEqualsEquals:
		return IntValue(l.CaseEqual(r)), nil
	case token.BangEqualsEquals:
		return IntValue(l.CaseNotEqual(r)), nil
	case token.EqualsEqualsQuestion:
		return IntValue(l.WildcardEqual(r)), nil
	case token.BangEqualsQuestion:
		return IntValue(l.WildcardNotEqual(r)), nil
	case token.LessThan:
		return IntValue(l.Lt(r)), nil
	case token.LessThanEquals:
		return IntValue(l.Leq(r)), nil
	case token.GreaterThan:
		return IntValue(l.Gt(r)), nil
	case token.GreaterThanEquals:
		return IntValue(l.Geq(r)), nil
	case token.LessThanLessThan:
		return IntValue(l.Shl(r)), nil
	case token.LessThanLessThanLessThan:
		return IntValue(l.Shl(r)), nil
	case token.GreaterThanGreaterThan:
		return IntValue(l.Shr(r)), nil
	case token.GreaterThanGreaterThanGreaterThan:
		return IntValue(l.Sar(r)), nil
	default:
		return ConstantValue{}, fmt.Errorf("eval: unsupported binary operator %s", b.Op)
	}
}

// UnaryExpr applies a unary/reduction operator to its operand.
type UnaryExpr struct {
	Op      token.Kind
	Operand Expr
}

func (u UnaryExpr) Eval(env *Env, fns *FunctionTable) (ConstantValue, error) {
	v, err := u.Operand.Eval(env, fns)
	if err != nil {
		return ConstantValue{}, err
	}
	if v.Kind != KindInt {
		return ConstantValue{}, fmt.Errorf("eval: unary operator %s applied to non-integral operand", u.Op)
	}
	x := v.Int
	switch u.Op {
	case token.Minus:
		return IntValue(x.Neg()), nil
	case token.Plus:
		return IntValue(x), nil
	case token.Tilde:
		return IntValue(x.Not()), nil
	case token.Bang:
		return IntValue(x.LogicalNot()), nil
	case token.Amp:
		return IntValue(x.ReduceAnd()), nil
	case token.Pipe:
		return IntValue(x.ReduceOr()), nil
	case token.Caret:
		return IntValue(x.ReduceXor()), nil
	default:
		return ConstantValue{}, fmt.Errorf("eval: unsupported unary operator %s", u.Op)
	}
}

// ConcatExpr implements {a, b, c} (spec section 4.6: MSB-first layout).
type ConcatExpr struct {
	Parts []Expr
}

func (c ConcatExpr) Eval(env *Env, fns *FunctionTable) (ConstantValue, error) {
	parts := make([]SVInt, len(c.Parts))
	for i, p := range c.Parts {
		v, err := p.Eval(env, fns)
		if err != nil {
			return ConstantValue{}, err
		}
		if v.Kind != KindInt {
			return ConstantValue{}, fmt.Errorf("eval: concatenation operand is non-integral")
		}
		parts[i] = v.Int
	}
	return IntValue(Concat(parts...)), nil
}

// ReplicationExpr implements {n {x}}; Count must fold to a non-negative
// constant (spec section 4.6).
type ReplicationExpr struct {
	Count Expr
	Value Expr
}

func (r ReplicationExpr) Eval(env *Env, fns *FunctionTable) (ConstantValue, error) {
	cv, err := r.Count.Eval(env, fns)
	if err != nil {
		return ConstantValue{}, err
	}
	if cv.Kind != KindInt || cv.Int.HasUnknown() {
		return ConstantValue{}, fmt.Errorf("eval: replication count must be a known constant")
	}
	n := int(cv.Int.mathValue().Int64())
	if n < 0 {
		return ConstantValue{}, fmt.Errorf("eval: replication count %d is negative", n)
	}
	vv, err := r.Value.Eval(env, fns)
	if err != nil {
		return ConstantValue{}, err
	}
	if vv.Kind != KindInt {
		return ConstantValue{}, fmt.Errorf("eval: replication operand is non-integral")
	}
	return IntValue(Replicate(n, vv.Int)), nil
}

// ConditionalExpr implements c ? t : f, including the unknown-condition
// bitwise merge (spec section 4.6).
type ConditionalExpr struct {
	Cond, Then, Else Expr
}

func (c ConditionalExpr) Eval(env *Env, fns *FunctionTable) (ConstantValue, error) {
	cv, err := c.Cond.Eval(env, fns)
	if err != nil {
		return ConstantValue{}, err
	}
	if cv.Kind != KindInt {
		return ConstantValue{}, fmt.Errorf("eval: condition is non-integral")
	}
	truth := cv.Int.truthValue()
	tv, err := c.Then.Eval(env, fns)
	if err != nil {
		return ConstantValue{}, err
	}
	fv, err := c.Else.Eval(env, fns)
	if err != nil {
		return ConstantValue{}, err
	}
	switch truth {
	case One:
		return tv, nil
	case Zero:
		return fv, nil
	default:
		if tv.Kind != KindInt || fv.Kind != KindInt {
			return ConstantValue{}, fmt.Errorf("eval: unknown-condition merge requires integral branches")
		}
		return IntValue(Merge(tv.Int, fv.Int)), nil
	}
}

// CallExpr invokes a user-defined function by name (spec section 4.6's
// call-by-copy argument binding, ref args are modeled by the binder
// passing an lvalue-backed Expr rather than by this node).
type CallExpr struct {
	Name string
	Args []Expr
}

func (c CallExpr) Eval(env *Env, fns *FunctionTable) (ConstantValue, error) {
	fn, ok := fns.Lookup(c.Name)
	if !ok {
		return ConstantValue{}, fmt.Errorf("eval: undefined function %q", c.Name)
	}
	if len(c.Args) != len(fn.Params) {
		return ConstantValue{}, fmt.Errorf("eval: %q expects %d arguments, got %d", c.Name, len(fn.Params), len(c.Args))
	}
	args := make(map[string]ConstantValue, len(fn.Params))
	for i, p := range fn.Params {
		v, err := c.Args[i].Eval(env, fns)
		if err != nil {
			return ConstantValue{}, err
		}
		args[p] = v
	}
	if err := env.Push(args); err != nil {
		return ConstantValue{}, err
	}
	env.Declare(fn.Name, ConstantValue{}) // implicit return-name variable, spec 4.6
	sig, err := fn.Body.Exec(env, fns)
	if err != nil {
		env.Pop()
		return ConstantValue{}, err
	}
	if sig != SignalReturn {
		// No explicit return statement ran; the implicit return-name
		// variable (if assigned during the body) carries the result.
		if ret, ok := env.Lookup(fn.Name); ok {
			env.SetReturn(ret)
		}
	}
	return env.Pop(), nil
}
