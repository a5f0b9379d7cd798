package parser

import (
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/token"
)

// precedence assigns each binary operator its SystemVerilog precedence
// level (spec section 4.4); higher binds tighter. Operators absent from
// the table are not binary infix operators.
var precedence = map[token.Kind]int{
	token.PipePipe: 1,
	token.AmpAmp:   2,

	token.Pipe: 3,

	token.Caret:      4,
	token.CaretTilde: 4,
	token.TildeCaret: 4,

	token.Amp: 5,

	token.EqualsEquals:          6,
	token.BangEquals:            6,
	token.EqualsEqualsEquals:    6,
	token.BangEqualsEquals:      6,
	token.EqualsEqualsQuestion:  6,
	token.BangEqualsQuestion:    6,

	token.LessThan:         7,
	token.LessThanEquals:   7,
	token.GreaterThan:      7,
	token.GreaterThanEquals: 7,

	token.LessThanLessThan:                  8,
	token.LessThanLessThanLessThan:           8,
	token.GreaterThanGreaterThan:             8,
	token.GreaterThanGreaterThanGreaterThan:  8,

	token.Plus:  9,
	token.Minus: 9,

	token.Star:     10,
	token.Slash:    10,
	token.Percent:  10,

	token.StarStar: 11,
}

var unaryOperators = map[token.Kind]bool{
	token.Plus: true, token.Minus: true, token.Bang: true, token.Tilde: true,
	token.Amp: true, token.Pipe: true, token.Caret: true,
	token.CaretTilde: true, token.TildeCaret: true,
}

// ParseExpression parses one expression starting at the conditional
// level, the lowest level above assignment (spec section 4.4's
// expression grammar).
func (p *Parser) ParseExpression() *syntax.Node {
	return p.parseConditional()
}

func (p *Parser) parseConditional() *syntax.Node {
	cond := p.parseBinary(1)
	if !p.at(token.Question) {
		return cond
	}
	q := p.advance()
	thenExpr := p.parseConditional()
	colon := p.expect(token.Colon)
	elseExpr := p.parseConditional()
	return p.node(syntax.ConditionalExpression, sub(cond), tok(q), sub(thenExpr), tok(colon), sub(elseExpr))
}

// parseBinary implements precedence climbing: it parses a unary operand,
// then repeatedly folds in any binary operator whose precedence is at
// least minPrec.
func (p *Parser) parseBinary(minPrec int) *syntax.Node {
	left := p.parseUnary()
	for {
		level, ok := precedence[p.current().Kind]
		if !ok || level < minPrec {
			return left
		}
		op := p.advance()
		right := p.parseBinary(level + 1)
		left = p.node(syntax.BinaryExpression, sub(left), tok(op), sub(right))
	}
}

func (p *Parser) parseUnary() *syntax.Node {
	if unaryOperators[p.current().Kind] {
		op := p.advance()
		operand := p.parseUnary()
		return p.node(syntax.UnaryExpression, tok(op), sub(operand))
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *syntax.Node {
	primary := p.parsePrimary()
	for p.at(token.OpenParen) {
		primary = p.parseCall(primary)
	}
	return primary
}

func (p *Parser) parseCall(callee *syntax.Node) *syntax.Node {
	open := p.advance()
	children := []syntax.Child{sub(callee), tok(open)}
	if !p.at(token.CloseParen) {
		for {
			arg := p.ParseExpression()
			children = append(children, sub(arg))
			if p.at(token.Comma) {
				children = append(children, tok(p.advance()))
				continue
			}
			break
		}
	}
	close := p.expect(token.CloseParen)
	children = append(children, tok(close))
	return p.node(syntax.CallExpression, children...)
}

func (p *Parser) parsePrimary() *syntax.Node {
	switch p.current().Kind {
	case token.IntegerLiteral, token.UnbasedUnsizedLiteral, token.RealLiteral,
		token.TimeLiteral, token.StringLiteral:
		return p.node(syntax.LiteralExpression, tok(p.advance()))
	case token.Identifier, token.EscapedIdentifier, token.SystemIdentifier:
		return p.parseName()
	case token.OpenParen:
		open := p.advance()
		inner := p.ParseExpression()
		close := p.expect(token.CloseParen)
		return p.wrapParens(open, inner, close)
	case token.OpenBrace:
		return p.parseBraceExpression()
	default:
		p.errorf("expected-expression", p.current().Kind)
		bad := p.advance()
		return p.node(syntax.ErrorNode, tok(bad))
	}
}

// wrapParens folds a pair of grouping parens into inner so Text() stays
// lossless. For composite kinds the tokens are spliced onto inner's own
// child list, harmless since nothing downstream keys off Node.FirstToken
// for those kinds. Literal/Identifier/ScopedName nodes DO key off
// FirstToken for their actual value, so a redundant `(x)` around a bare
// atom is left unwrapped; the parens are dropped from the tree rather
// than risk corrupting that lookup.
func (p *Parser) wrapParens(open token.Token, inner *syntax.Node, close token.Token) *syntax.Node {
	switch inner.Kind {
	case syntax.LiteralExpression, syntax.IdentifierName, syntax.ScopedName:
		return inner
	default:
		children := make([]syntax.Child, 0, len(inner.Children)+2)
		children = append(children, tok(open))
		children = append(children, inner.Children...)
		children = append(children, tok(close))
		return p.node(inner.Kind, children...)
	}
}

// parseName parses a simple identifier or, when followed by `::` or `.`,
// a scoped/hierarchical name; the binder reassembles the full spelling
// itself by walking every token child (spec section 3.3's four name
// forms).
func (p *Parser) parseName() *syntax.Node {
	first := p.advance()
	if !p.at(token.ColonColon) && !p.at(token.Dot) {
		return p.node(syntax.IdentifierName, tok(first))
	}
	children := []syntax.Child{tok(first)}
	for p.at(token.ColonColon) || p.at(token.Dot) {
		sep := p.advance()
		name := p.expect(token.Identifier)
		children = append(children, tok(sep), tok(name))
	}
	return p.node(syntax.ScopedName, children...)
}

// parseBraceExpression disambiguates `{a, b, c}` concatenation from
// `{count{value}}` replication by a single token of lookahead after the
// opening brace and the first sub-expression: a replication's first
// element is itself immediately followed by another `{`.
func (p *Parser) parseBraceExpression() *syntax.Node {
	open := p.advance()
	first := p.ParseExpression()
	if p.at(token.OpenBrace) {
		inner := p.parseConcatenationBody()
		close := p.expect(token.CloseBrace)
		return p.node(syntax.ReplicationExpression, tok(open), sub(first), sub(inner), tok(close))
	}
	children := []syntax.Child{tok(open), sub(first)}
	for p.at(token.Comma) {
		children = append(children, tok(p.advance()))
		children = append(children, sub(p.ParseExpression()))
	}
	close := p.expect(token.CloseBrace)
	children = append(children, tok(close))
	return p.node(syntax.ConcatenationExpression, children...)
}

// parseConcatenationBody parses the `{a, b, c}` that follows a
// replication count, without re-consuming the count itself.
func (p *Parser) parseConcatenationBody() *syntax.Node {
	open := p.expect(token.OpenBrace)
	children := []syntax.Child{tok(open)}
	if !p.at(token.CloseBrace) {
		for {
			elem := p.ParseExpression()
			children = append(children, sub(elem))
			if p.at(token.Comma) {
				children = append(children, tok(p.advance()))
				continue
			}
			break
		}
	}
	close := p.expect(token.CloseBrace)
	children = append(children, tok(close))
	return p.node(syntax.ConcatenationExpression, children...)
}
