package binder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/svlang/binder"
	"github.com/viant/svlang/compilation"
	"github.com/viant/svlang/diag"
	"github.com/viant/svlang/eval"
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/symbols"
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/token"
	"github.com/viant/svlang/types"
)

func intLiteral(arena *syntax.Arena, width int, signed bool, base byte, digits string) *syntax.Node {
	val := token.Value{Kind: token.IntValue, Width: width, IsSigned: signed, Base: base, Digits: digits}
	tok := token.Token{Kind: token.IntegerLiteral, Raw: digits, Value: val}
	return arena.New(syntax.LiteralExpression, syntax.TokenChild(tok))
}

func unsizedLiteral(arena *syntax.Arena, digits string) *syntax.Node {
	val := token.Value{Kind: token.IntValue, Width: 0, Base: 0, Digits: digits}
	tok := token.Token{Kind: token.UnbasedUnsizedLiteral, Raw: "'" + digits, Value: val}
	return arena.New(syntax.LiteralExpression, syntax.TokenChild(tok))
}

func identifier(arena *syntax.Arena, name string) *syntax.Node {
	tok := token.Token{Kind: token.Identifier, Raw: name}
	return arena.New(syntax.IdentifierName, syntax.TokenChild(tok))
}

func opToken(k token.Kind, raw string) token.Token {
	return token.Token{Kind: k, Raw: raw}
}

func newComp() *compilation.Compilation {
	return compilation.New(compilation.DefaultOptions(), source.NewManager())
}

func TestBindSizedLiteralProducesLogicType(t *testing.T) {
	arena := syntax.NewArena()
	lit := intLiteral(arena, 8, false, 'h', "ff")

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	expr, typ := b.BindExpr(ctx, lit)
	assert.Equal(t, 8, typ.Width())
	assert.Equal(t, types.LogicType, typ.IntegralKind)

	v, err := expr.Eval(eval.NewEnv(0), eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.Equal(t, "8'hff", v.Int.String())
}

func TestBindUnsizedLiteralDefaultsTo32Bits(t *testing.T) {
	arena := syntax.NewArena()
	lit := unsizedLiteral(arena, "1")

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	_, typ := b.BindExpr(ctx, lit)
	assert.Equal(t, 32, typ.Width())
}

func TestBindIdentifierResolvesDeclaredSymbol(t *testing.T) {
	arena := syntax.NewArena()
	ref := identifier(arena, "foo")

	comp := newComp()
	root := comp.GetRoot()
	sym := root.Declare(symbols.VariableSym, "foo", source.NoLocation)
	sym.SetTypeResolver(func() *types.Type { return types.NewIntegral(types.LogicType, 4, false, true) })

	ctx := binder.NewContext(comp, root, &diag.Bag{})
	b := binder.New()

	expr, typ := b.BindExpr(ctx, ref)
	assert.Equal(t, 4, typ.Width())
	assert.IsType(t, eval.Identifier{}, expr)
}

func TestBindIdentifierReportsUndeclared(t *testing.T) {
	arena := syntax.NewArena()
	ref := identifier(arena, "missing")

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	_, typ := b.BindExpr(ctx, ref)
	assert.Equal(t, comp.ErrorType(), typ)
	assert.Len(t, ctx.Diags.All(), 1)
	assert.Equal(t, "undeclared-identifier", ctx.Diags.All()[0].Code)
}

func TestBindBinaryWidensNarrowerOperand(t *testing.T) {
	arena := syntax.NewArena()
	left := intLiteral(arena, 4, false, 'b', "0101")
	right := intLiteral(arena, 8, false, 'h', "03")
	plus := arena.New(syntax.BinaryExpression,
		syntax.NodeChild(left),
		syntax.TokenChild(opToken(token.Plus, "+")),
		syntax.NodeChild(right),
	)

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	expr, typ := b.BindExpr(ctx, plus)
	assert.Equal(t, 8, typ.Width())

	v, err := expr.Eval(eval.NewEnv(0), eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.Equal(t, "8'h08", v.Int.String())
}

func TestBindShiftAmountIsSelfDetermined(t *testing.T) {
	arena := syntax.NewArena()
	left := intLiteral(arena, 8, false, 'h', "01")
	right := intLiteral(arena, 32, false, 'd', "1")
	shift := arena.New(syntax.BinaryExpression,
		syntax.NodeChild(left),
		syntax.TokenChild(opToken(token.LessThanLessThan, "<<")),
		syntax.NodeChild(right),
	)

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	_, typ := b.BindExpr(ctx, shift)
	assert.Equal(t, 8, typ.Width())
}

func TestBindUnsizedLiteralExpandsToSiblingWidth(t *testing.T) {
	arena := syntax.NewArena()
	left := unsizedLiteral(arena, "1")
	right := intLiteral(arena, 65, false, 'b', "0")
	plus := arena.New(syntax.BinaryExpression,
		syntax.NodeChild(left),
		syntax.TokenChild(opToken(token.Plus, "+")),
		syntax.NodeChild(right),
	)

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	expr, typ := b.BindExpr(ctx, plus)
	assert.Equal(t, 65, typ.Width())

	v, err := expr.Eval(eval.NewEnv(0), eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.Equal(t, "65'h1ffffffffffffffff", v.Int.String())
}

func TestBindComparisonProducesSingleBitResult(t *testing.T) {
	arena := syntax.NewArena()
	left := intLiteral(arena, 8, false, 'h', "01")
	right := intLiteral(arena, 8, false, 'h', "02")
	lt := arena.New(syntax.BinaryExpression,
		syntax.NodeChild(left),
		syntax.TokenChild(opToken(token.LessThan, "<")),
		syntax.NodeChild(right),
	)

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	expr, typ := b.BindExpr(ctx, lt)
	assert.Equal(t, 1, typ.Width())
	assert.False(t, typ.IsSigned)

	v, err := expr.Eval(eval.NewEnv(0), eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.Equal(t, eval.One, v.Int.BitAt(0))
}

func TestBindConditionalWidensBranchesToCommonWidth(t *testing.T) {
	arena := syntax.NewArena()
	cond := intLiteral(arena, 1, false, 'b', "1")
	then := intLiteral(arena, 4, false, 'h', "a")
	els := intLiteral(arena, 8, false, 'h', "03")
	ternary := arena.New(syntax.ConditionalExpression,
		syntax.NodeChild(cond),
		syntax.NodeChild(then),
		syntax.NodeChild(els),
	)

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	expr, typ := b.BindExpr(ctx, ternary)
	assert.Equal(t, 8, typ.Width())

	v, err := expr.Eval(eval.NewEnv(0), eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.Equal(t, "8'h0a", v.Int.String())
}

func TestBindConcatenationSumsOperandWidths(t *testing.T) {
	arena := syntax.NewArena()
	a := intLiteral(arena, 2, false, 'b', "11")
	c := intLiteral(arena, 3, false, 'b', "101")
	concat := arena.New(syntax.ConcatenationExpression, syntax.NodeChild(a), syntax.NodeChild(c))

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	expr, typ := b.BindExpr(ctx, concat)
	assert.Equal(t, 5, typ.Width())

	v, err := expr.Eval(eval.NewEnv(0), eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.False(t, v.Int.HasUnknown())
}

func TestBindReplicationUsesValueWidthAsResultType(t *testing.T) {
	arena := syntax.NewArena()
	count := intLiteral(arena, 32, false, 'd', "4")
	value := intLiteral(arena, 2, false, 'b', "10")
	repl := arena.New(syntax.ReplicationExpression, syntax.NodeChild(count), syntax.NodeChild(value))

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	expr, typ := b.BindExpr(ctx, repl)
	assert.Equal(t, 2, typ.Width())

	v, err := expr.Eval(eval.NewEnv(0), eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.Equal(t, "8'haa", v.Int.String())
}

func TestBindCallResolvesFunctionReturnType(t *testing.T) {
	arena := syntax.NewArena()
	name := identifier(arena, "double")
	arg := intLiteral(arena, 8, false, 'h', "02")
	call := arena.New(syntax.CallExpression, syntax.NodeChild(name), syntax.NodeChild(arg))

	comp := newComp()
	root := comp.GetRoot()
	sym := root.Declare(symbols.FunctionSym, "double", source.NoLocation)
	sym.SetTypeResolver(func() *types.Type { return types.NewIntegral(types.LogicType, 8, false, true) })

	ctx := binder.NewContext(comp, root, &diag.Bag{})
	b := binder.New()

	expr, typ := b.BindExpr(ctx, call)
	assert.Equal(t, 8, typ.Width())
	assert.IsType(t, eval.CallExpr{}, expr)
}

func TestBindCallReportsUndefinedFunction(t *testing.T) {
	arena := syntax.NewArena()
	name := identifier(arena, "nope")
	call := arena.New(syntax.CallExpression, syntax.NodeChild(name))

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	_, typ := b.BindExpr(ctx, call)
	assert.Equal(t, comp.ErrorType(), typ)
	assert.Equal(t, "undefined-function", ctx.Diags.All()[0].Code)
}

func TestDisableLookupFlagBlocksResolution(t *testing.T) {
	arena := syntax.NewArena()
	ref := identifier(arena, "foo")

	comp := newComp()
	root := comp.GetRoot()
	sym := root.Declare(symbols.VariableSym, "foo", source.NoLocation)
	sym.SetTypeResolver(func() *types.Type { return types.NewIntegral(types.LogicType, 4, false, true) })

	ctx := binder.NewContext(comp, root, &diag.Bag{}).WithFlags(binder.DisableLookup)
	b := binder.New()

	_, typ := b.BindExpr(ctx, ref)
	assert.Equal(t, comp.ErrorType(), typ)
}

func returnStmt(arena *syntax.Arena, value *syntax.Node) *syntax.Node {
	if value == nil {
		return arena.New(syntax.ReturnStatement)
	}
	return arena.New(syntax.ReturnStatement, syntax.NodeChild(value))
}

func exprStmt(arena *syntax.Arena, inner *syntax.Node) *syntax.Node {
	return arena.New(syntax.ExpressionStatement, syntax.NodeChild(inner))
}

func TestBindBlockRunsStatementsInOrderAndReturns(t *testing.T) {
	arena := syntax.NewArena()
	ret := returnStmt(arena, intLiteral(arena, 8, false, 'h', "07"))
	block := arena.New(syntax.BlockStatement, syntax.NodeChild(ret))

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	stmt := b.BindStmt(ctx, block)
	env := eval.NewEnv(8)
	sig, err := stmt.Exec(env, eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.Equal(t, eval.SignalReturn, sig)
}

func TestBindExpressionStatementRecognizesAssignment(t *testing.T) {
	arena := syntax.NewArena()
	name := identifier(arena, "x")
	value := intLiteral(arena, 8, false, 'h', "09")
	assign := arena.New(syntax.BinaryExpression,
		syntax.NodeChild(name),
		syntax.TokenChild(opToken(token.Equals, "=")),
		syntax.NodeChild(value),
	)
	stmtNode := exprStmt(arena, assign)

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	stmt := b.BindStmt(ctx, stmtNode)
	assert.IsType(t, eval.AssignStmt{}, stmt)

	env := eval.NewEnv(8)
	_, err := stmt.Exec(env, eval.NewFunctionTable())
	assert.NoError(t, err)
	v, ok := env.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "8'h09", v.Int.String())
}

func TestBindIfStatementChoosesBranch(t *testing.T) {
	arena := syntax.NewArena()
	cond := intLiteral(arena, 1, false, 'b', "1")
	then := returnStmt(arena, intLiteral(arena, 8, false, 'h', "01"))
	els := returnStmt(arena, intLiteral(arena, 8, false, 'h', "02"))
	ifNode := arena.New(syntax.IfStatement, syntax.NodeChild(cond), syntax.NodeChild(then), syntax.NodeChild(els))

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	stmt := b.BindStmt(ctx, ifNode)
	env := eval.NewEnv(8)
	sig, err := stmt.Exec(env, eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.Equal(t, eval.SignalReturn, sig)
}

func TestBindCaseStatementMatchesDefaultArm(t *testing.T) {
	arena := syntax.NewArena()
	selector := intLiteral(arena, 2, false, 'b', "11")
	armValue := intLiteral(arena, 2, false, 'b', "00")
	armBody := returnStmt(arena, intLiteral(arena, 8, false, 'h', "aa"))
	arm := arena.New(syntax.CaseItem, syntax.NodeChild(armValue), syntax.NodeChild(armBody))

	defaultBody := returnStmt(arena, intLiteral(arena, 8, false, 'h', "ff"))
	defaultArm := arena.New(syntax.CaseItem, syntax.NodeChild(defaultBody))

	caseNode := arena.New(syntax.CaseStatement, syntax.NodeChild(selector), syntax.NodeChild(arm), syntax.NodeChild(defaultArm))

	comp := newComp()
	ctx := binder.NewContext(comp, comp.GetRoot(), &diag.Bag{})
	b := binder.New()

	stmt := b.BindStmt(ctx, caseNode)
	env := eval.NewEnv(8)
	sig, err := stmt.Exec(env, eval.NewFunctionTable())
	assert.NoError(t, err)
	assert.Equal(t, eval.SignalReturn, sig)
	assert.Equal(t, "8'hff", env.Pop().Int.String())
}
