package binder

import (
	"github.com/viant/svlang/eval"
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/token"
)

// BindStmt binds one CST statement node into an eval.Stmt. ctx.Scope's
// Index-bounded lookup is advanced as local declarations are bound, so a
// statement can never see a variable declared later in the same block
// (spec section 4.5's index-bounded local visibility).
func (b *Binder) BindStmt(ctx BindContext, node *syntax.Node) eval.Stmt {
	if node == nil {
		return eval.BlockStmt{}
	}
	switch node.Kind {
	case syntax.BlockStatement:
		return b.bindBlock(ctx, node)
	case syntax.ExpressionStatement:
		return b.bindExpressionStatement(ctx, node)
	case syntax.VariableDeclStatement:
		return b.bindVarDecl(ctx, node)
	case syntax.ReturnStatement:
		return b.bindReturn(ctx, node)
	case syntax.BreakStatement:
		return eval.BreakStmt{}
	case syntax.ContinueStatement:
		return eval.ContinueStmt{}
	case syntax.IfStatement:
		return b.bindIf(ctx, node)
	case syntax.WhileStatement:
		return b.bindWhile(ctx, node)
	case syntax.DoWhileStatement:
		return b.bindDoWhile(ctx, node)
	case syntax.ForStatement:
		return b.bindFor(ctx, node)
	case syntax.CaseStatement:
		return b.bindCase(ctx, node)
	default:
		ctx.errorf(node, "unsupported-statement")
		return eval.ExprStmt{Expr: eval.Literal{Value: eval.ErrorValue("unsupported statement")}}
	}
}

// bindBlock runs each statement with a strictly increasing lookup index,
// so later statements see earlier locals but not vice versa.
func (b *Binder) bindBlock(ctx BindContext, node *syntax.Node) eval.Stmt {
	children := node.ChildNodes()
	stmts := make([]eval.Stmt, 0, len(children))
	for i, c := range children {
		stmts = append(stmts, b.BindStmt(ctx.WithLookupIndex(i), c))
	}
	return eval.BlockStmt{Stmts: stmts}
}

// bindExpressionStatement recognizes a top-level assignment (`name = expr;`)
// and binds it to the explicit AssignStmt node; anything else (including
// calls made purely for side effects) binds to a plain ExprStmt.
func (b *Binder) bindExpressionStatement(ctx BindContext, node *syntax.Node) eval.Stmt {
	inner := firstOperandNode(node)
	if inner == nil {
		return eval.ExprStmt{}
	}
	if inner.Kind == syntax.BinaryExpression {
		if op, ok := firstOperatorToken(inner); ok && op == token.Equals {
			operands := inner.ChildNodes()
			if len(operands) == 2 && operands[0].Kind == syntax.IdentifierName {
				name := operands[0].FirstToken().Raw
				valueExpr, _ := b.bindExpr(ctx, operands[1], noContext, false)
				return eval.AssignStmt{Name: name, Value: valueExpr}
			}
		}
	}
	expr, _ := b.bindExpr(ctx, inner, noContext, false)
	return eval.ExprStmt{Expr: expr}
}

func (b *Binder) bindVarDecl(ctx BindContext, node *syntax.Node) eval.Stmt {
	children := node.ChildNodes()
	if len(children) == 0 {
		ctx.errorf(node, "malformed-variable-declaration")
		return eval.ExprStmt{}
	}
	nameNode := children[0]
	name := nameNode.FirstToken().Raw
	var init eval.Expr
	if len(children) > 1 {
		init, _ = b.bindExpr(ctx, children[1], noContext, false)
	} else {
		init = eval.Literal{Value: eval.IntValue(eval.New(32, false))}
	}
	return eval.VarDeclStmt{Name: name, Init: init}
}

func (b *Binder) bindReturn(ctx BindContext, node *syntax.Node) eval.Stmt {
	operand := firstOperandNode(node)
	if operand == nil {
		return eval.ReturnStmt{}
	}
	expr, _ := b.bindExpr(ctx, operand, noContext, false)
	return eval.ReturnStmt{Value: expr}
}

func (b *Binder) bindIf(ctx BindContext, node *syntax.Node) eval.Stmt {
	children := node.ChildNodes()
	if len(children) < 2 {
		ctx.errorf(node, "malformed-if-statement")
		return eval.ExprStmt{}
	}
	cond, _ := b.bindExpr(ctx, children[0], noContext, false)
	then := b.BindStmt(ctx, children[1])
	var els eval.Stmt
	if len(children) > 2 {
		els = b.BindStmt(ctx, children[2])
	}
	return eval.IfStmt{Cond: cond, Then: then, Else: els}
}

func (b *Binder) bindWhile(ctx BindContext, node *syntax.Node) eval.Stmt {
	children := node.ChildNodes()
	if len(children) < 2 {
		ctx.errorf(node, "malformed-while-statement")
		return eval.ExprStmt{}
	}
	cond, _ := b.bindExpr(ctx, children[0], noContext, false)
	body := b.BindStmt(ctx, children[1])
	return eval.WhileStmt{Cond: cond, Body: body}
}

func (b *Binder) bindDoWhile(ctx BindContext, node *syntax.Node) eval.Stmt {
	children := node.ChildNodes()
	if len(children) < 2 {
		ctx.errorf(node, "malformed-do-while-statement")
		return eval.ExprStmt{}
	}
	body := b.BindStmt(ctx, children[0])
	cond, _ := b.bindExpr(ctx, children[1], noContext, false)
	return eval.DoWhileStmt{Body: body, Cond: cond}
}

func (b *Binder) bindFor(ctx BindContext, node *syntax.Node) eval.Stmt {
	children := node.ChildNodes()
	if len(children) < 4 {
		ctx.errorf(node, "malformed-for-statement")
		return eval.ExprStmt{}
	}
	init := b.BindStmt(ctx, children[0])
	cond, _ := b.bindExpr(ctx, children[1], noContext, false)
	post := b.BindStmt(ctx, children[2])
	body := b.BindStmt(ctx, children[3])
	return eval.ForStmt{Init: init, Cond: cond, Post: post, Body: body}
}

func (b *Binder) bindCase(ctx BindContext, node *syntax.Node) eval.Stmt {
	children := node.ChildNodes()
	if len(children) == 0 {
		ctx.errorf(node, "malformed-case-statement")
		return eval.ExprStmt{}
	}
	selector, _ := b.bindExpr(ctx, children[0], noContext, false)
	arms := make([]eval.CaseArm, 0, len(children)-1)
	for _, item := range children[1:] {
		arms = append(arms, b.bindCaseItem(ctx, item))
	}
	return eval.CaseStmt{Selector: selector, Arms: arms}
}

// bindCaseItem binds one `value, value: stmt` arm; a CaseItem with no
// value children (only its body) is the `default:` arm.
func (b *Binder) bindCaseItem(ctx BindContext, node *syntax.Node) eval.CaseArm {
	children := node.ChildNodes()
	if len(children) == 0 {
		return eval.CaseArm{}
	}
	body := b.BindStmt(ctx, children[len(children)-1])
	valueNodes := children[:len(children)-1]
	if len(valueNodes) == 0 {
		return eval.CaseArm{Body: body}
	}
	values := make([]eval.Expr, len(valueNodes))
	for i, vn := range valueNodes {
		values[i], _ = b.bindExpr(ctx, vn, noContext, false)
	}
	return eval.CaseArm{Values: values, Body: body}
}
