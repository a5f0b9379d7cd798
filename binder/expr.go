package binder

import (
	"strings"

	"github.com/viant/svlang/eval"
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/token"
	"github.com/viant/svlang/types"
)

// Binder binds CST nodes from one Compilation into eval.Expr/eval.Stmt
// trees, interning every integral type it produces through the owning
// Compilation (spec section 3.4's "interned once per Compilation").
type Binder struct{}

// New returns a Binder; it carries no state of its own; every call
// takes the Compilation to intern against explicitly through
// BindContext, mirroring the teacher's own stateless per-node-kind
// dispatch functions (one free function per AST shape) rather than a
// heavyweight visitor object.
func New() *Binder {
	return &Binder{}
}

// noContext signals "bind this operand with no inherited width" to
// BindExpr, used for every position except an unbased-unsized literal
// standing next to a sized sibling.
const noContext = -1

// BindExpr binds node into a constant-foldable Expr and its resolved
// type, consulting ctx for name resolution and diagnostics.
func (b *Binder) BindExpr(ctx BindContext, node *syntax.Node) (eval.Expr, *types.Type) {
	return b.bindExpr(ctx, node, noContext, false)
}

func (b *Binder) bindExpr(ctx BindContext, node *syntax.Node, contextWidth int, contextSigned bool) (eval.Expr, *types.Type) {
	if node == nil {
		return eval.Literal{Value: eval.ErrorValue("nil expression node")}, ctx.errorType()
	}
	switch node.Kind {
	case syntax.LiteralExpression:
		return b.bindLiteral(ctx, node, contextWidth, contextSigned)
	case syntax.IdentifierName:
		return b.bindIdentifier(ctx, node)
	case syntax.ScopedName:
		return b.bindScopedName(ctx, node)
	case syntax.UnaryExpression:
		return b.bindUnary(ctx, node)
	case syntax.BinaryExpression:
		return b.bindBinary(ctx, node)
	case syntax.ConditionalExpression:
		return b.bindConditional(ctx, node)
	case syntax.ConcatenationExpression:
		return b.bindConcatenation(ctx, node)
	case syntax.ReplicationExpression:
		return b.bindReplication(ctx, node)
	case syntax.CallExpression:
		return b.bindCall(ctx, node)
	default:
		ctx.errorf(node, "unsupported-expression")
		return eval.Literal{Value: eval.ErrorValue("unsupported expression")}, ctx.errorType()
	}
}

func (c BindContext) errorType() *types.Type {
	if c.Comp != nil {
		return c.Comp.ErrorType()
	}
	return types.NewScalar(types.ErrorType)
}

func (c BindContext) errorf(node *syntax.Node, code string, args ...interface{}) {
	if c.Diags == nil {
		return
	}
	c.Diags.Errorf(code, node.Range(), args...)
}

func (c BindContext) internIntegral(kind types.IntegralKind, width int, signed, fourState bool) *types.Type {
	if c.Comp != nil {
		return c.Comp.InternIntegral(kind, width, signed, fourState)
	}
	return types.NewIntegral(kind, width, signed, fourState)
}

func (b *Binder) bindLiteral(ctx BindContext, node *syntax.Node, contextWidth int, contextSigned bool) (eval.Expr, *types.Type) {
	tok := node.FirstToken()
	val := tok.Value
	if val.Kind != token.IntValue {
		ctx.errorf(node, "unsupported-literal")
		return eval.Literal{Value: eval.ErrorValue("unsupported literal")}, ctx.errorType()
	}

	unsized := val.Width == 0 && val.Base == 0
	if unsized {
		width := 32
		signed := val.IsSigned
		if contextWidth != noContext {
			width = contextWidth
			signed = contextSigned
		}
		sv := unsizedLiteralValue(val.Digits, width, signed)
		t := ctx.internIntegral(types.IntegerType, width, signed, sv.HasUnknown())
		return eval.Literal{Value: eval.IntValue(sv)}, t
	}

	width := val.Width
	if width == 0 {
		width = 32
	}
	sv, err := eval.FromDigits(width, val.IsSigned, val.Base, val.Digits)
	if err != nil {
		ctx.errorf(node, "invalid-literal", err)
		return eval.Literal{Value: eval.ErrorValue(err.Error())}, ctx.errorType()
	}
	t := ctx.internIntegral(types.LogicType, width, val.IsSigned, sv.HasUnknown())
	return eval.Literal{Value: eval.IntValue(sv)}, t
}

func unsizedLiteralValue(digits string, width int, signed bool) eval.SVInt {
	switch strings.ToLower(digits) {
	case "1":
		return eval.AllOnes(width, signed)
	case "x":
		return eval.AllX(width, signed)
	case "z":
		return eval.AllZ(width, signed)
	default:
		return eval.New(width, signed)
	}
}

func (b *Binder) bindIdentifier(ctx BindContext, node *syntax.Node) (eval.Expr, *types.Type) {
	name := node.FirstToken().Raw
	sym, ok := ctx.Lookup(name)
	if !ok {
		ctx.errorf(node, "undeclared-identifier", name)
		return eval.Literal{Value: eval.ErrorValue("undeclared identifier")}, ctx.errorType()
	}
	t, cyclic := sym.Type()
	if cyclic {
		ctx.errorf(node, "recursive-definition", name)
		return eval.Literal{Value: eval.ErrorValue("recursive definition")}, ctx.errorType()
	}
	if t == nil {
		t = ctx.errorType()
	}
	return eval.Identifier{Name: name}, t
}

// bindScopedName handles a qualified name (pkg::name, $unit::name, or a
// hierarchical a.b.c path) the same way an unqualified identifier binds,
// since symbols.Resolve already implements all four lookup forms; only
// the textual reassembly differs (trivia-free concatenation of the
// name's tokens).
func (b *Binder) bindScopedName(ctx BindContext, node *syntax.Node) (eval.Expr, *types.Type) {
	var sb strings.Builder
	node.Walk(func(n *syntax.Node) {
		for _, c := range n.Children {
			if c.IsToken {
				sb.WriteString(c.Tok.Raw)
			}
		}
	})
	name := sb.String()
	sym, ok := ctx.Lookup(name)
	if !ok {
		ctx.errorf(node, "undeclared-name", name)
		return eval.Literal{Value: eval.ErrorValue("undeclared name")}, ctx.errorType()
	}
	t, cyclic := sym.Type()
	if cyclic {
		ctx.errorf(node, "recursive-definition", name)
		return eval.Literal{Value: eval.ErrorValue("recursive definition")}, ctx.errorType()
	}
	return eval.Identifier{Name: name}, t
}

func (b *Binder) bindUnary(ctx BindContext, node *syntax.Node) (eval.Expr, *types.Type) {
	op, ok := firstOperatorToken(node)
	operand := firstOperandNode(node)
	if !ok || operand == nil {
		ctx.errorf(node, "malformed-unary-expression")
		return eval.Literal{Value: eval.ErrorValue("malformed unary expression")}, ctx.errorType()
	}
	operandExpr, operandType := b.bindExpr(ctx, operand, noContext, false)
	resultType := operandType
	switch op {
	case token.Bang, token.Amp, token.Pipe, token.Caret:
		// Logical negation and reduction operators always produce a
		// single two-state bit, independent of the operand's width.
		resultType = ctx.internIntegral(types.BitType, 1, false, false)
	}
	return eval.UnaryExpr{Op: op, Operand: operandExpr}, resultType
}

func (b *Binder) bindBinary(ctx BindContext, node *syntax.Node) (eval.Expr, *types.Type) {
	op, ok := firstOperatorToken(node)
	operands := node.ChildNodes()
	if !ok || len(operands) != 2 {
		ctx.errorf(node, "malformed-binary-expression")
		return eval.Literal{Value: eval.ErrorValue("malformed binary expression")}, ctx.errorType()
	}
	leftNode, rightNode := operands[0], operands[1]

	if isShift(op) {
		// Shift amounts are self-determined (spec section 3.6): the
		// result width tracks the left operand alone.
		leftExpr, leftType := b.bindExpr(ctx, leftNode, noContext, false)
		rightExpr, _ := b.bindExpr(ctx, rightNode, noContext, false)
		return eval.BinaryExpr{Op: op, Left: leftExpr, Right: rightExpr}, leftType
	}

	leftExpr, leftType, rightExpr, rightType := b.bindOperandPair(ctx, leftNode, rightNode)
	commonWidth, commonSigned, commonFour := combineShape(leftType, rightType)
	leftExpr = b.convertIfNeeded(leftExpr, leftType, commonWidth, commonSigned)
	rightExpr = b.convertIfNeeded(rightExpr, rightType, commonWidth, commonSigned)

	if isComparisonOrLogical(op) {
		resultType := ctx.internIntegral(types.BitType, 1, false, false)
		return eval.BinaryExpr{Op: op, Left: leftExpr, Right: rightExpr}, resultType
	}

	resultKind := types.LogicType
	resultType := ctx.internIntegral(resultKind, commonWidth, commonSigned, commonFour)
	return eval.BinaryExpr{Op: op, Left: leftExpr, Right: rightExpr}, resultType
}

// bindOperandPair binds leftNode/rightNode, propagating one side's
// concrete width into the other when exactly one side is an unbased-
// unsized literal (spec section 8 scenario: `'1 + 65'b0` expands the
// unsized `1 to the sibling's width).
func (b *Binder) bindOperandPair(ctx BindContext, leftNode, rightNode *syntax.Node) (eval.Expr, *types.Type, eval.Expr, *types.Type) {
	leftUnsized := isUnsizedLiteralNode(leftNode)
	rightUnsized := isUnsizedLiteralNode(rightNode)
	switch {
	case leftUnsized && !rightUnsized:
		rExpr, rType := b.bindExpr(ctx, rightNode, noContext, false)
		lExpr, lType := b.bindExpr(ctx, leftNode, rType.Width(), rType.IsSigned)
		return lExpr, lType, rExpr, rType
	case rightUnsized && !leftUnsized:
		lExpr, lType := b.bindExpr(ctx, leftNode, noContext, false)
		rExpr, rType := b.bindExpr(ctx, rightNode, lType.Width(), lType.IsSigned)
		return lExpr, lType, rExpr, rType
	default:
		lExpr, lType := b.bindExpr(ctx, leftNode, noContext, false)
		rExpr, rType := b.bindExpr(ctx, rightNode, noContext, false)
		return lExpr, lType, rExpr, rType
	}
}

func (b *Binder) convertIfNeeded(e eval.Expr, t *types.Type, width int, signed bool) eval.Expr {
	if t.Width() == width && t.IsSigned == signed {
		return e
	}
	return ConversionExpr{Inner: e, Width: width, Signed: signed}
}

func combineShape(a, b *types.Type) (width int, signed, fourState bool) {
	width = a.Width()
	if b.Width() > width {
		width = b.Width()
	}
	signed = a.IsSigned && b.IsSigned
	fourState = a.IsFourState || b.IsFourState
	return
}

func (b *Binder) bindConditional(ctx BindContext, node *syntax.Node) (eval.Expr, *types.Type) {
	operands := node.ChildNodes()
	if len(operands) != 3 {
		ctx.errorf(node, "malformed-conditional-expression")
		return eval.Literal{Value: eval.ErrorValue("malformed conditional expression")}, ctx.errorType()
	}
	condExpr, _ := b.bindExpr(ctx, operands[0], noContext, false)
	thenExpr, thenType := b.bindExpr(ctx, operands[1], noContext, false)
	elseExpr, elseType := b.bindExpr(ctx, operands[2], noContext, false)

	width, signed, fourState := combineShape(thenType, elseType)
	thenExpr = b.convertIfNeeded(thenExpr, thenType, width, signed)
	elseExpr = b.convertIfNeeded(elseExpr, elseType, width, signed)
	resultType := ctx.internIntegral(types.LogicType, width, signed, fourState)
	return eval.ConditionalExpr{Cond: condExpr, Then: thenExpr, Else: elseExpr}, resultType
}

func (b *Binder) bindConcatenation(ctx BindContext, node *syntax.Node) (eval.Expr, *types.Type) {
	operands := node.ChildNodes()
	parts := make([]eval.Expr, len(operands))
	total := 0
	fourState := false
	for i, n := range operands {
		expr, t := b.bindExpr(ctx, n, noContext, false)
		parts[i] = expr
		total += t.Width()
		fourState = fourState || t.IsFourState
	}
	resultType := ctx.internIntegral(types.LogicType, total, false, fourState)
	return eval.ConcatExpr{Parts: parts}, resultType
}

func (b *Binder) bindReplication(ctx BindContext, node *syntax.Node) (eval.Expr, *types.Type) {
	operands := node.ChildNodes()
	if len(operands) != 2 {
		ctx.errorf(node, "malformed-replication-expression")
		return eval.Literal{Value: eval.ErrorValue("malformed replication expression")}, ctx.errorType()
	}
	countExpr, _ := b.bindExpr(ctx, operands[0], noContext, false)
	valueExpr, valueType := b.bindExpr(ctx, operands[1], noContext, false)
	// The replication count isn't known until constant evaluation runs,
	// so the result width here is only the single-copy width; the
	// evaluator itself computes the true replicated width at Eval time.
	return eval.ReplicationExpr{Count: countExpr, Value: valueExpr}, valueType
}

func (b *Binder) bindCall(ctx BindContext, node *syntax.Node) (eval.Expr, *types.Type) {
	operands := node.ChildNodes()
	if len(operands) == 0 {
		ctx.errorf(node, "malformed-call-expression")
		return eval.Literal{Value: eval.ErrorValue("malformed call expression")}, ctx.errorType()
	}
	name := operands[0].FirstToken().Raw
	sym, ok := ctx.Lookup(name)
	if !ok {
		ctx.errorf(node, "undefined-function", name)
		return eval.Literal{Value: eval.ErrorValue("undefined function")}, ctx.errorType()
	}
	args := make([]eval.Expr, 0, len(operands)-1)
	for _, argNode := range operands[1:] {
		argExpr, _ := b.bindExpr(ctx, argNode, noContext, false)
		args = append(args, argExpr)
	}
	t, cyclic := sym.Type()
	if cyclic {
		ctx.errorf(node, "recursive-definition", name)
		t = ctx.errorType()
	}
	return eval.CallExpr{Name: name, Args: args}, t
}

func firstOperatorToken(node *syntax.Node) (token.Kind, bool) {
	for _, c := range node.Children {
		if c.IsToken && isOperatorKind(c.Tok.Kind) {
			return c.Tok.Kind, true
		}
	}
	return token.Unknown, false
}

func firstOperandNode(node *syntax.Node) *syntax.Node {
	nodes := node.ChildNodes()
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func isUnsizedLiteralNode(node *syntax.Node) bool {
	if node == nil || node.Kind != syntax.LiteralExpression {
		return false
	}
	val := node.FirstToken().Value
	return val.Kind == token.IntValue && val.Width == 0 && val.Base == 0
}

func isShift(op token.Kind) bool {
	switch op {
	case token.LessThanLessThan, token.LessThanLessThanLessThan,
		token.GreaterThanGreaterThan, token.GreaterThanGreaterThanGreaterThan:
		return true
	}
	return false
}

func isComparisonOrLogical(op token.Kind) bool {
	switch op {
	case token.AmpAmp, token.PipePipe,
		token.EqualsEquals, token.BangEquals,
		token.EqualsEqualsEquals, token.BangEqualsEquals,
		token.EqualsEqualsQuestion, token.BangEqualsQuestion,
		token.LessThan, token.LessThanEquals,
		token.GreaterThan, token.GreaterThanEquals:
		return true
	}
	return false
}

func isOperatorKind(k token.Kind) bool {
	switch k {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent, token.StarStar,
		token.Amp, token.Pipe, token.Caret, token.CaretTilde, token.TildeCaret, token.Tilde,
		token.AmpAmp, token.PipePipe, token.Bang,
		token.EqualsEquals, token.BangEquals, token.EqualsEqualsEquals, token.BangEqualsEquals,
		token.EqualsEqualsQuestion, token.BangEqualsQuestion,
		token.LessThan, token.LessThanEquals, token.GreaterThan, token.GreaterThanEquals,
		token.LessThanLessThan, token.LessThanLessThanLessThan,
		token.GreaterThanGreaterThan, token.GreaterThanGreaterThanGreaterThan:
		return true
	}
	return false
}
