// Package parser turns a preprocessed token stream into the lossless
// concrete syntax tree (spec section 4.4): hand-written recursive
// descent, one parseX per production, synchronizing to a recovery point
// (end of statement, closing bracket) on the first unexpected token
// rather than unwinding the whole parse.
package parser

import (
	"github.com/viant/svlang/diag"
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/token"
)

// tokenSource is satisfied by *lexer.Lexer and *preprocessor.Preprocessor
// alike, so the parser never needs to know which one feeds it.
type tokenSource interface {
	Next() token.Token
}

// Parser drives one token stream into CST nodes owned by a single Arena.
// Tokens already read are retained in buf so a bounded-lookahead
// disambiguation can mark a position and restore to it without
// re-lexing (spec section 4.4's "scan-and-restore" member disambiguation
// mechanism).
type Parser struct {
	src   tokenSource
	arena *syntax.Arena
	diags *diag.Bag

	buf []token.Token
	pos int

	// suppressUntilSync mutes further diagnostics until a
	// synchronization point is reached, so one malformed construct
	// produces exactly one diagnostic rather than a cascade.
	suppressUntilSync bool
}

// New returns a Parser reading from src and allocating nodes in arena.
func New(src tokenSource, arena *syntax.Arena, diags *diag.Bag) *Parser {
	return &Parser{src: src, arena: arena, diags: diags}
}

// Arena returns the arena nodes were allocated into.
func (p *Parser) Arena() *syntax.Arena { return p.arena }

func (p *Parser) fill(n int) {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.src.Next())
	}
}

// peek returns the token n positions ahead of the cursor without
// consuming it; peek(0) is the current token.
func (p *Parser) peek(n int) token.Token {
	p.fill(p.pos + n)
	return p.buf[p.pos+n]
}

func (p *Parser) current() token.Token { return p.peek(0) }

// advance consumes and returns the current token.
func (p *Parser) advance() token.Token {
	t := p.current()
	if t.Kind != token.EndOfFile {
		p.pos++
	}
	return t
}

// mark returns a position that reset can later restore to, the basis of
// the parser's scan-and-restore disambiguation.
func (p *Parser) mark() int { return p.pos }

func (p *Parser) reset(m int) { p.pos = m }

func (p *Parser) at(kinds ...token.Kind) bool {
	cur := p.current().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches k; otherwise it
// reports one diagnostic (unless already suppressed) and synthesizes a
// Missing token at the current location so later passes still see a
// well-formed tree (spec section 7: "the parser synthesizes missing
// tokens").
func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		p.suppressUntilSync = false
		return p.advance()
	}
	p.errorf("expected-token", k, p.current().Kind)
	return token.Token{Kind: k, Location: p.current().Location, Missing: true}
}

func (p *Parser) errorf(code string, args ...interface{}) {
	if p.suppressUntilSync || p.diags == nil {
		return
	}
	p.diags.Errorf(code, p.current().Range(), args...)
	p.suppressUntilSync = true
}

// synchronize discards tokens until one of the given kinds (typically
// Semicolon or a closing bracket) is the current token, or EOF is
// reached; it also consumes that token if consumeDelimiter is set.
func (p *Parser) synchronize(consumeDelimiter bool, kinds ...token.Kind) {
	for !p.at(token.EndOfFile) && !p.at(kinds...) {
		p.advance()
	}
	if consumeDelimiter && p.at(kinds...) && !p.at(token.EndOfFile) {
		p.advance()
	}
	p.suppressUntilSync = false
}

func (p *Parser) node(kind syntax.Kind, children ...syntax.Child) *syntax.Node {
	return p.arena.New(kind, children...)
}

func tok(t token.Token) syntax.Child { return syntax.TokenChild(t) }
func sub(n *syntax.Node) syntax.Child { return syntax.NodeChild(n) }
