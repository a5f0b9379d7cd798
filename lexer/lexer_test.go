package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/svlang/lexer"
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/token"
)

func scanAll(t *testing.T, text string) []token.Token {
	t.Helper()
	mgr := source.NewManager()
	buf := mgr.AssignText("t.sv", []byte(text), source.NoLocation)
	lx := lexer.New(mgr, buf.ID(), token.V1800_2017)
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EndOfFile {
			break
		}
	}
	return toks
}

func TestLexIdentifiersAndKeywords(t *testing.T) {
	toks := scanAll(t, "module foo;")
	assert.Equal(t, token.ModuleKeyword, toks[0].Kind)
	assert.Equal(t, token.Identifier, toks[1].Kind)
	assert.Equal(t, "foo", toks[1].Raw)
	assert.Equal(t, token.Semicolon, toks[2].Kind)
}

func TestLexSizedLiteral(t *testing.T) {
	toks := scanAll(t, "16'hFF")
	assert.Equal(t, token.IntegerLiteral, toks[0].Kind)
	assert.Equal(t, 16, toks[0].Value.Width)
	assert.Equal(t, byte('h'), toks[0].Value.Base)
	assert.Equal(t, "FF", toks[0].Value.Digits)
}

func TestLexFourStateLiteral(t *testing.T) {
	toks := scanAll(t, "4'bx1z0")
	assert.Equal(t, "x1z0", toks[0].Value.Digits)
}

func TestLexUnbasedUnsized(t *testing.T) {
	toks := scanAll(t, "'1")
	assert.Equal(t, token.UnbasedUnsizedLiteral, toks[0].Kind)
	assert.Equal(t, "1", toks[0].Value.Digits)
}

func TestLexRealLiteral(t *testing.T) {
	toks := scanAll(t, "1.5")
	assert.Equal(t, token.RealLiteral, toks[0].Kind)
	assert.InDelta(t, 1.5, toks[0].Value.Real, 1e-9)
}

func TestLexTimeLiteral(t *testing.T) {
	toks := scanAll(t, "10ns")
	assert.Equal(t, token.TimeLiteral, toks[0].Kind)
	assert.Equal(t, "ns", toks[0].Value.Str)
}

func TestLexEscapedIdentifier(t *testing.T) {
	toks := scanAll(t, "\\foo$bar baz")
	assert.Equal(t, token.EscapedIdentifier, toks[0].Kind)
	assert.Equal(t, "foo$bar", toks[0].Value.Str)
}

func TestLexSystemIdentifier(t *testing.T) {
	toks := scanAll(t, "$display")
	assert.Equal(t, token.SystemIdentifier, toks[0].Kind)
}

func TestLexStringLiteral(t *testing.T) {
	toks := scanAll(t, `"hello\nworld"`)
	assert.Equal(t, token.StringLiteral, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Value.Str)
}

func TestLosslessReconstruction(t *testing.T) {
	src := "module  foo ; // trailing\nendmodule\n"
	toks := scanAll(t, src)
	var rebuilt string
	for _, tok := range toks {
		rebuilt += tok.Text()
	}
	assert.Equal(t, src, rebuilt)
}

func TestWildcardEqualityOperator(t *testing.T) {
	toks := scanAll(t, "a ==? b")
	assert.Equal(t, token.EqualsEqualsQuestion, toks[1].Kind)
}

func TestArithmeticRightShiftOperator(t *testing.T) {
	toks := scanAll(t, "a >>> 1")
	assert.Equal(t, token.GreaterThanGreaterThanGreaterThan, toks[1].Kind)
}
