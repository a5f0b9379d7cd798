package parser

import (
	"testing"

	"github.com/viant/svlang/diag"
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/token"
)

// fakeSource feeds a fixed token slice, appending a synthetic EndOfFile
// once exhausted so Parser.fill never runs off the end.
type fakeSource struct {
	toks []token.Token
	pos  int
}

func (f *fakeSource) Next() token.Token {
	if f.pos >= len(f.toks) {
		return token.Token{Kind: token.EndOfFile}
	}
	t := f.toks[f.pos]
	f.pos++
	return t
}

func ident(name string) token.Token {
	return token.Token{Kind: token.Identifier, Raw: name}
}

func intLit(digits string, width int, base byte) token.Token {
	return token.Token{Kind: token.IntegerLiteral, Raw: digits, Value: token.Value{
		Kind: token.IntValue, Width: width, Base: base, Digits: digits,
	}}
}

func unsizedLit(digits string) token.Token {
	return token.Token{Kind: token.UnbasedUnsizedLiteral, Raw: "'" + digits, Value: token.Value{
		Kind: token.IntValue, Width: 0, Base: 0, Digits: digits,
	}}
}

func op(k token.Kind, raw string) token.Token {
	return token.Token{Kind: k, Raw: raw}
}

func punct(k token.Kind, raw string) token.Token {
	return token.Token{Kind: k, Raw: raw}
}

func newParser(toks ...token.Token) (*Parser, *diag.Bag) {
	bag := &diag.Bag{}
	p := New(&fakeSource{toks: toks}, syntax.NewArena(), bag)
	return p, bag
}

func TestParseExpressionAppliesPrecedenceOverAddition(t *testing.T) {
	// a + b * c  must bind as  a + (b * c)
	p, diags := newParser(
		ident("a"), op(token.Plus, "+"), ident("b"), op(token.Star, "*"), ident("c"),
	)
	n := p.ParseExpression()
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if n.Kind != syntax.BinaryExpression {
		t.Fatalf("expected top-level BinaryExpression, got %v", n.Kind)
	}
	operands := n.ChildNodes()
	if len(operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(operands))
	}
	if operands[0].Kind != syntax.IdentifierName {
		t.Fatalf("expected left operand to be identifier a, got %v", operands[0].Kind)
	}
	rhs := operands[1]
	if rhs.Kind != syntax.BinaryExpression {
		t.Fatalf("expected right operand to be the nested b*c, got %v", rhs.Kind)
	}
}

func TestParseExpressionLeftAssociatesSamePrecedence(t *testing.T) {
	// a - b - c must bind as (a - b) - c
	p, _ := newParser(
		ident("a"), op(token.Minus, "-"), ident("b"), op(token.Minus, "-"), ident("c"),
	)
	n := p.ParseExpression()
	operands := n.ChildNodes()
	left := operands[0]
	if left.Kind != syntax.BinaryExpression {
		t.Fatalf("expected left-associated nesting on the left, got %v", left.Kind)
	}
}

func TestParseExpressionHandlesConditional(t *testing.T) {
	p, _ := newParser(
		ident("sel"), punct(token.Question, "?"), ident("a"), punct(token.Colon, ":"), ident("b"),
	)
	n := p.ParseExpression()
	if n.Kind != syntax.ConditionalExpression {
		t.Fatalf("expected ConditionalExpression, got %v", n.Kind)
	}
	if len(n.ChildNodes()) != 3 {
		t.Fatalf("expected 3 children (cond, then, else), got %d", len(n.ChildNodes()))
	}
}

func TestParseExpressionParsesUnaryReduction(t *testing.T) {
	p, _ := newParser(op(token.Amp, "&"), ident("bus"))
	n := p.ParseExpression()
	if n.Kind != syntax.UnaryExpression {
		t.Fatalf("expected UnaryExpression, got %v", n.Kind)
	}
}

func TestParseExpressionParsesConcatenation(t *testing.T) {
	p, _ := newParser(
		punct(token.OpenBrace, "{"), ident("a"), punct(token.Comma, ","), ident("b"), punct(token.CloseBrace, "}"),
	)
	n := p.ParseExpression()
	if n.Kind != syntax.ConcatenationExpression {
		t.Fatalf("expected ConcatenationExpression, got %v", n.Kind)
	}
	if len(n.ChildNodes()) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(n.ChildNodes()))
	}
}

func TestParseExpressionParsesReplication(t *testing.T) {
	p, _ := newParser(
		punct(token.OpenBrace, "{"), intLit("4", 32, 'd'),
		punct(token.OpenBrace, "{"), ident("a"), punct(token.CloseBrace, "}"),
		punct(token.CloseBrace, "}"),
	)
	n := p.ParseExpression()
	if n.Kind != syntax.ReplicationExpression {
		t.Fatalf("expected ReplicationExpression, got %v", n.Kind)
	}
	children := n.ChildNodes()
	if len(children) != 2 {
		t.Fatalf("expected count and value children, got %d", len(children))
	}
}

func TestParseExpressionParsesCall(t *testing.T) {
	p, diags := newParser(
		ident("double"), punct(token.OpenParen, "("), ident("x"), punct(token.CloseParen, ")"),
	)
	n := p.ParseExpression()
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if n.Kind != syntax.CallExpression {
		t.Fatalf("expected CallExpression, got %v", n.Kind)
	}
	operands := n.ChildNodes()
	if len(operands) != 2 {
		t.Fatalf("expected callee + 1 arg, got %d", len(operands))
	}
	if operands[0].Kind != syntax.IdentifierName || operands[0].FirstToken().Raw != "double" {
		t.Fatalf("expected callee name 'double', got %+v", operands[0])
	}
}

func TestParseExpressionDropsRedundantParensAroundIdentifier(t *testing.T) {
	p, _ := newParser(punct(token.OpenParen, "("), ident("x"), punct(token.CloseParen, ")"))
	n := p.ParseExpression()
	if n.Kind != syntax.IdentifierName {
		t.Fatalf("expected bare IdentifierName, got %v", n.Kind)
	}
}

func TestParseExpressionKeepsParenTokensOnCompositeExpressions(t *testing.T) {
	p, _ := newParser(
		punct(token.OpenParen, "("), ident("a"), op(token.Plus, "+"), ident("b"), punct(token.CloseParen, ")"),
	)
	n := p.ParseExpression()
	if n.Kind != syntax.BinaryExpression {
		t.Fatalf("expected BinaryExpression to survive the wrapping parens, got %v", n.Kind)
	}
	text := n.Text()
	if text == "" {
		t.Fatalf("expected non-empty reconstructed text")
	}
}

func TestParseStatementParsesIfElse(t *testing.T) {
	p, diags := newParser(
		token.Token{Kind: token.IfKeyword, Raw: "if"},
		punct(token.OpenParen, "("), ident("cond"), punct(token.CloseParen, ")"),
		token.Token{Kind: token.BeginKeyword, Raw: "begin"},
		token.Token{Kind: token.EndKeyword, Raw: "end"},
		token.Token{Kind: token.ElseKeyword, Raw: "else"},
		token.Token{Kind: token.BeginKeyword, Raw: "begin"},
		token.Token{Kind: token.EndKeyword, Raw: "end"},
	)
	n := p.ParseStatement()
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if n.Kind != syntax.IfStatement {
		t.Fatalf("expected IfStatement, got %v", n.Kind)
	}
	if len(n.ChildNodes()) != 3 {
		t.Fatalf("expected cond/then/else, got %d", len(n.ChildNodes()))
	}
}

func TestParseStatementParsesWhileLoop(t *testing.T) {
	p, _ := newParser(
		token.Token{Kind: token.WhileKeyword, Raw: "while"},
		punct(token.OpenParen, "("), ident("cond"), punct(token.CloseParen, ")"),
		ident("x"), punct(token.Semicolon, ";"),
	)
	n := p.ParseStatement()
	if n.Kind != syntax.WhileStatement {
		t.Fatalf("expected WhileStatement, got %v", n.Kind)
	}
	children := n.ChildNodes()
	if len(children) != 2 {
		t.Fatalf("expected cond+body, got %d", len(children))
	}
}

func TestParseStatementParsesAssignment(t *testing.T) {
	p, _ := newParser(ident("x"), punct(token.Equals, "="), intLit("5", 32, 'd'), punct(token.Semicolon, ";"))
	n := p.ParseStatement()
	if n.Kind != syntax.ExpressionStatement {
		t.Fatalf("expected ExpressionStatement, got %v", n.Kind)
	}
	inner := n.ChildNodes()
	if len(inner) != 1 || inner[0].Kind != syntax.BinaryExpression {
		t.Fatalf("expected wrapped assignment BinaryExpression, got %+v", inner)
	}
}

func TestParseStatementParsesVariableDeclarationWithInit(t *testing.T) {
	p, _ := newParser(
		token.Token{Kind: token.IntKeyword, Raw: "int"}, ident("count"),
		punct(token.Equals, "="), intLit("0", 32, 'd'), punct(token.Semicolon, ";"),
	)
	n := p.ParseStatement()
	if n.Kind != syntax.VariableDeclStatement {
		t.Fatalf("expected VariableDeclStatement, got %v", n.Kind)
	}
	children := n.ChildNodes()
	if len(children) != 2 {
		t.Fatalf("expected name+init, got %d", len(children))
	}
	if children[0].FirstToken().Raw != "count" {
		t.Fatalf("expected declared name count, got %q", children[0].FirstToken().Raw)
	}
}

func TestParseStatementParsesCaseWithDefaultArm(t *testing.T) {
	p, _ := newParser(
		token.Token{Kind: token.CaseKeyword, Raw: "case"},
		punct(token.OpenParen, "("), ident("sel"), punct(token.CloseParen, ")"),
		token.Token{Kind: token.DefaultKeyword, Raw: "default"}, punct(token.Colon, ":"),
		ident("x"), punct(token.Semicolon, ";"),
		token.Token{Kind: token.EndcaseKeyword, Raw: "endcase"},
	)
	n := p.ParseStatement()
	if n.Kind != syntax.CaseStatement {
		t.Fatalf("expected CaseStatement, got %v", n.Kind)
	}
	arms := n.ChildNodes()
	if len(arms) != 2 { // selector + one arm
		t.Fatalf("expected selector+1 arm, got %d", len(arms))
	}
	arm := arms[1]
	if len(arm.ChildNodes()) != 1 {
		t.Fatalf("expected default arm to carry only its body, got %d children", len(arm.ChildNodes()))
	}
}

func TestParseStatementRecoversFromMissingSemicolon(t *testing.T) {
	p, diags := newParser(
		ident("x"), punct(token.Equals, "="), intLit("1", 32, 'd'),
		// no semicolon here
		ident("y"), punct(token.Equals, "="), intLit("2", 32, 'd'), punct(token.Semicolon, ";"),
	)
	first := p.ParseStatement()
	if !diags.HasErrors() {
		t.Fatalf("expected a missing-semicolon diagnostic")
	}
	if first.Kind != syntax.ExpressionStatement {
		t.Fatalf("expected first statement to still be well-formed, got %v", first.Kind)
	}
}

func TestParseCompilationUnitParsesMinimalModule(t *testing.T) {
	p, diags := newParser(
		token.Token{Kind: token.ModuleKeyword, Raw: "module"},
		ident("counter"), punct(token.Semicolon, ";"),
		token.Token{Kind: token.EndmoduleKeyword, Raw: "endmodule"},
	)
	unit := p.ParseCompilationUnit()
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if unit.Kind != syntax.CompilationUnit {
		t.Fatalf("expected CompilationUnit, got %v", unit.Kind)
	}
	units := unit.ChildNodes()
	if len(units) != 1 || units[0].Kind != syntax.ModuleDeclaration {
		t.Fatalf("expected a single ModuleDeclaration, got %+v", units)
	}
}

func TestParseCompilationUnitParsesFunctionDeclaration(t *testing.T) {
	p, _ := newParser(
		token.Token{Kind: token.FunctionKeyword, Raw: "function"},
		token.Token{Kind: token.IntKeyword, Raw: "int"},
		ident("double"),
		punct(token.OpenParen, "("), token.Token{Kind: token.IntKeyword, Raw: "int"}, ident("x"), punct(token.CloseParen, ")"),
		punct(token.Semicolon, ";"),
		token.Token{Kind: token.ReturnKeyword, Raw: "return"}, ident("x"), punct(token.Semicolon, ";"),
		token.Token{Kind: token.EndfunctionKeyword, Raw: "endfunction"},
	)
	unit := p.ParseCompilationUnit()
	units := unit.ChildNodes()
	if len(units) != 1 || units[0].Kind != syntax.FunctionDeclaration {
		t.Fatalf("expected a single FunctionDeclaration, got %+v", units)
	}
}
