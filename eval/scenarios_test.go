package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/svlang/eval"
	"github.com/viant/svlang/token"
)

const (
	plusKind  = token.Plus
	slashKind = token.Slash
)

// These mirror the concrete end-to-end scenarios table (spec section 8);
// they exercise the ConstantEvaluator/Env/Expr/Stmt trio directly rather
// than through a parser/binder, since this package is the lowest layer
// those stages compose on top of.

func TestScenarioLocalVariablePlusConstant(t *testing.T) {
	// int i = 4; i + 9 -> 32-bit signed 13
	ce := eval.NewConstantEvaluator(0)
	_, err := ce.Exec(eval.VarDeclStmt{Name: "i", Init: eval.Literal{Value: eval.IntValue(eval.FromUint64(32, true, 4))}})
	assert.NoError(t, err)

	nine := eval.Literal{Value: eval.IntValue(eval.FromUint64(32, true, 9))}
	result, err := ce.Eval(eval.BinaryExpr{Op: plusKind, Left: eval.Identifier{Name: "i"}, Right: nine})
	assert.NoError(t, err)
	assert.Equal(t, "32'sh0000000d", result.Int.String())
}

func TestScenarioFunctionCall(t *testing.T) {
	// function logic [15:0] foo(int a, int b); return a + b; endfunction
	// foo(3, 4) -> 16-bit unsigned 7
	ce := eval.NewConstantEvaluator(0)
	ce.DefineFunction(&eval.FunctionDef{
		Name:   "foo",
		Params: []string{"a", "b"},
		Body: eval.BlockStmt{Stmts: []eval.Stmt{
			eval.ReturnStmt{Value: eval.BinaryExpr{
				Op:   plusKind,
				Left: eval.Identifier{Name: "a"}, Right: eval.Identifier{Name: "b"},
			}},
		}},
	})
	call := eval.CallExpr{Name: "foo", Args: []eval.Expr{
		eval.Literal{Value: eval.IntValue(eval.FromUint64(32, true, 3))},
		eval.Literal{Value: eval.IntValue(eval.FromUint64(32, true, 4))},
	}}
	result, err := ce.Eval(call)
	assert.NoError(t, err)
	assert.EqualValues(t, 7, mustUint(t, result.Int))
}

func TestScenarioConcatenation(t *testing.T) {
	a, _ := eval.FromDigits(2, false, 'b', "11")
	b, _ := eval.FromDigits(3, false, 'b', "101")
	result, err := eval.NewConstantEvaluator(0).Eval(eval.ConcatExpr{Parts: []eval.Expr{
		eval.Literal{Value: eval.IntValue(a)},
		eval.Literal{Value: eval.IntValue(b)},
	}})
	assert.NoError(t, err)
	assert.Equal(t, 5, result.Int.Width())
	assert.False(t, result.Int.HasUnknown())
}

func TestScenarioReplication(t *testing.T) {
	x, _ := eval.FromDigits(2, false, 'b', "10")
	result, err := eval.NewConstantEvaluator(0).Eval(eval.ReplicationExpr{
		Count: eval.Literal{Value: eval.IntValue(eval.FromUint64(32, false, 4))},
		Value: eval.Literal{Value: eval.IntValue(x)},
	})
	assert.NoError(t, err)
	assert.Equal(t, 8, result.Int.Width())
}

func TestScenarioConditionalUnknownCondition(t *testing.T) {
	one, _ := eval.FromDigits(1, false, 'b', "1")
	zero, _ := eval.FromDigits(1, false, 'b', "0")
	cond := eval.BinaryExpr{Op: slashKind, Left: eval.Literal{Value: eval.IntValue(one)}, Right: eval.Literal{Value: eval.IntValue(zero)}}
	then, _ := eval.FromDigits(128, false, 'b', "101")
	els, _ := eval.FromDigits(128, false, 'b', "110")

	result, err := eval.NewConstantEvaluator(0).Eval(eval.ConditionalExpr{
		Cond: cond,
		Then: eval.Literal{Value: eval.IntValue(then)},
		Else: eval.Literal{Value: eval.IntValue(els)},
	})
	assert.NoError(t, err)
	// then = ...101, else = ...110: bit2 agrees (1), bits 1 and 0 disagree
	// and become X, matching the documented "bottom three bits are 1XX".
	assert.Equal(t, eval.X, result.Int.BitAt(0))
	assert.Equal(t, eval.X, result.Int.BitAt(1))
	assert.Equal(t, eval.One, result.Int.BitAt(2))
}

func TestScenarioRecursionDepthGuard(t *testing.T) {
	ce := eval.NewConstantEvaluator(4)
	ce.DefineFunction(&eval.FunctionDef{
		Name:   "loopy",
		Params: []string{"n"},
		Body: eval.BlockStmt{Stmts: []eval.Stmt{
			eval.ReturnStmt{Value: eval.CallExpr{Name: "loopy", Args: []eval.Expr{eval.Identifier{Name: "n"}}}},
		}},
	})
	_, err := ce.Eval(eval.CallExpr{Name: "loopy", Args: []eval.Expr{eval.Literal{Value: eval.IntValue(eval.FromUint64(32, false, 0))}}})
	assert.Error(t, err)
}

func mustUint(t *testing.T, v eval.SVInt) uint64 {
	t.Helper()
	text := v.String()
	parsed, err := eval.Parse(text)
	assert.NoError(t, err)
	assert.True(t, eval.ExactEqual(v, parsed))
	var n uint64
	for i := 0; i < v.Width(); i++ {
		if v.BitAt(i) == eval.One {
			n |= 1 << uint(i)
		}
	}
	return n
}
