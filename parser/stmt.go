package parser

import (
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/token"
)

// statementSync is the recovery set a malformed statement resynchronizes
// to: either its own terminating semicolon or a block's closing `end`,
// whichever comes first (spec section 4.4's synchronization points).
var statementSync = []token.Kind{token.Semicolon, token.EndKeyword, token.EndOfFile}

// dataTypeKeywords starts a variable declaration statement; anything
// else beginning a statement is parsed as an expression or a control
// construct.
var dataTypeKeywords = map[token.Kind]bool{
	token.BitKeyword: true, token.LogicKeyword: true, token.RegKeyword: true,
	token.ByteKeyword: true, token.ShortintKeyword: true, token.IntKeyword: true,
	token.LongintKeyword: true, token.IntegerKeyword: true, token.TimeKeyword: true,
	token.ShortrealKeyword: true, token.RealKeyword: true, token.RealtimeKeyword: true,
	token.StringKeyword: true, token.VoidKeyword: true,
}

// ParseStatement parses one statement, recovering to the next
// synchronization point on malformed input rather than aborting the
// whole parse (spec section 4.4 / section 7).
func (p *Parser) ParseStatement() *syntax.Node {
	switch p.current().Kind {
	case token.BeginKeyword:
		return p.parseBlock()
	case token.IfKeyword:
		return p.parseIf()
	case token.WhileKeyword:
		return p.parseWhile()
	case token.DoKeyword:
		return p.parseDoWhile()
	case token.ForKeyword:
		return p.parseFor()
	case token.CaseKeyword:
		return p.parseCase()
	case token.ReturnKeyword:
		return p.parseReturn()
	case token.BreakKeyword:
		kw := p.advance()
		semi := p.expect(token.Semicolon)
		return p.node(syntax.BreakStatement, tok(kw), tok(semi))
	case token.ContinueKeyword:
		kw := p.advance()
		semi := p.expect(token.Semicolon)
		return p.node(syntax.ContinueStatement, tok(kw), tok(semi))
	default:
		if dataTypeKeywords[p.current().Kind] {
			return p.parseVarDecl()
		}
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlock() *syntax.Node {
	begin := p.advance()
	children := []syntax.Child{tok(begin)}
	for !p.at(token.EndKeyword, token.EndOfFile) {
		before := p.mark()
		stmt := p.ParseStatement()
		children = append(children, sub(stmt))
		if p.mark() == before {
			// ParseStatement made no progress (e.g. an unrecognized
			// token at block scope): force one token forward so the
			// loop can't spin forever.
			p.advance()
		}
	}
	end := p.expect(token.EndKeyword)
	children = append(children, tok(end))
	return p.node(syntax.BlockStatement, children...)
}

func (p *Parser) parseIf() *syntax.Node {
	kw := p.advance()
	open := p.expect(token.OpenParen)
	cond := p.ParseExpression()
	close := p.expect(token.CloseParen)
	then := p.ParseStatement()
	children := []syntax.Child{tok(kw), tok(open), sub(cond), tok(close), sub(then)}
	if p.at(token.ElseKeyword) {
		elseKw := p.advance()
		els := p.ParseStatement()
		children = append(children, tok(elseKw), sub(els))
	}
	return p.node(syntax.IfStatement, children...)
}

func (p *Parser) parseWhile() *syntax.Node {
	kw := p.advance()
	open := p.expect(token.OpenParen)
	cond := p.ParseExpression()
	close := p.expect(token.CloseParen)
	body := p.ParseStatement()
	return p.node(syntax.WhileStatement, tok(kw), tok(open), sub(cond), tok(close), sub(body))
}

func (p *Parser) parseDoWhile() *syntax.Node {
	doKw := p.advance()
	body := p.ParseStatement()
	whileKw := p.expect(token.WhileKeyword)
	open := p.expect(token.OpenParen)
	cond := p.ParseExpression()
	close := p.expect(token.CloseParen)
	semi := p.expect(token.Semicolon)
	return p.node(syntax.DoWhileStatement,
		tok(doKw), sub(body), tok(whileKw), tok(open), sub(cond), tok(close), tok(semi))
}

func (p *Parser) parseFor() *syntax.Node {
	kw := p.advance()
	open := p.expect(token.OpenParen)
	init := p.parseForClause()
	initSemi := p.expect(token.Semicolon)
	cond := p.ParseExpression()
	semi := p.expect(token.Semicolon)
	post := p.parseForClause()
	close := p.expect(token.CloseParen)
	body := p.ParseStatement()
	return p.node(syntax.ForStatement,
		tok(kw), tok(open), sub(init), tok(initSemi), sub(cond), tok(semi), sub(post), tok(close), sub(body))
}

// parseForClause parses the init/step slot of a for-header: a variable
// declaration, an assignment, or nothing. It never consumes a `;`:
// parseFor consumes the one that ends the init clause, and the step
// clause is followed directly by `)`.
func (p *Parser) parseForClause() *syntax.Node {
	if dataTypeKeywords[p.current().Kind] {
		return p.parseVarDeclNoSemicolon()
	}
	if p.at(token.Semicolon) || p.at(token.CloseParen) {
		return p.node(syntax.ExpressionStatement)
	}
	return p.parseExpressionStatementNoSemicolon()
}

func (p *Parser) parseCase() *syntax.Node {
	kw := p.advance()
	open := p.expect(token.OpenParen)
	selector := p.ParseExpression()
	close := p.expect(token.CloseParen)
	children := []syntax.Child{tok(kw), tok(open), sub(selector), tok(close)}
	for !p.at(token.EndcaseKeyword, token.EndOfFile) {
		before := p.mark()
		children = append(children, sub(p.parseCaseItem()))
		if p.mark() == before {
			p.advance()
		}
	}
	endcase := p.expect(token.EndcaseKeyword)
	children = append(children, tok(endcase))
	return p.node(syntax.CaseStatement, children...)
}

func (p *Parser) parseCaseItem() *syntax.Node {
	var children []syntax.Child
	if p.at(token.DefaultKeyword) {
		children = append(children, tok(p.advance()))
	} else {
		for {
			v := p.ParseExpression()
			children = append(children, sub(v))
			if p.at(token.Comma) {
				children = append(children, tok(p.advance()))
				continue
			}
			break
		}
	}
	colon := p.expect(token.Colon)
	children = append(children, tok(colon))
	body := p.ParseStatement()
	children = append(children, sub(body))
	return p.node(syntax.CaseItem, children...)
}

func (p *Parser) parseReturn() *syntax.Node {
	kw := p.advance()
	children := []syntax.Child{tok(kw)}
	if !p.at(token.Semicolon) {
		children = append(children, sub(p.ParseExpression()))
	}
	semi := p.expect(token.Semicolon)
	children = append(children, tok(semi))
	return p.node(syntax.ReturnStatement, children...)
}

func (p *Parser) parseVarDecl() *syntax.Node {
	n := p.parseVarDeclNoSemicolon()
	semi := p.consumeStatementTerminator()
	n.Children = append(n.Children, tok(semi))
	return n
}

// parseVarDeclNoSemicolon parses `type name [= init]` without consuming
// a trailing `;`, so a for-loop header can reuse it for its init clause.
func (p *Parser) parseVarDeclNoSemicolon() *syntax.Node {
	typeTok := p.advance()
	nameTok := p.expect(token.Identifier)
	children := []syntax.Child{tok(typeTok), sub(p.node(syntax.IdentifierName, tok(nameTok)))}
	if p.at(token.Equals) {
		eq := p.advance()
		init := p.ParseExpression()
		children = append(children, tok(eq), sub(init))
	}
	return p.node(syntax.VariableDeclStatement, children...)
}

func (p *Parser) parseExpressionStatement() *syntax.Node {
	n := p.parseExpressionStatementNoSemicolon()
	semi := p.consumeStatementTerminator()
	n.Children = append(n.Children, tok(semi))
	return n
}

// consumeStatementTerminator expects a `;` and, if one isn't there,
// synchronizes to the next statement boundary so a single malformed
// statement can't cascade diagnostics through the rest of the block.
func (p *Parser) consumeStatementTerminator() token.Token {
	if p.at(token.Semicolon) {
		return p.expect(token.Semicolon)
	}
	missing := p.expect(token.Semicolon)
	p.synchronize(true, statementSync...)
	return missing
}

// parseExpressionStatementNoSemicolon parses `name = expr` or a bare
// expression (a call made for its side effect), without the trailing
// `;`; bindExpressionStatement recognizes the assignment shape from the
// BinaryExpression/Equals pattern this produces.
func (p *Parser) parseExpressionStatementNoSemicolon() *syntax.Node {
	expr := p.ParseExpression()
	if p.at(token.Equals) && expr.Kind == syntax.IdentifierName {
		eq := p.advance()
		value := p.ParseExpression()
		assign := p.node(syntax.BinaryExpression, sub(expr), tok(eq), sub(value))
		return p.node(syntax.ExpressionStatement, sub(assign))
	}
	return p.node(syntax.ExpressionStatement, sub(expr))
}
