package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/token"
)

func tok(mgr *source.Manager, buf source.BufferID, offset int, raw string, leading ...token.Trivia) token.Token {
	return token.Token{Kind: token.Identifier, Location: source.NewLocation(buf, offset), Raw: raw, Leading: leading}
}

func TestNodeTextReconstructsSource(t *testing.T) {
	mgr := source.NewManager()
	buf := mgr.AssignText("t.sv", []byte("  foo bar"), source.NoLocation)

	arena := syntax.NewArena()
	ws := token.Trivia{Kind: token.Whitespace, Text: "  "}
	fooTok := tok(mgr, buf.ID(), 2, "foo", ws)
	barTok := tok(mgr, buf.ID(), 6, "bar", token.Trivia{Kind: token.Whitespace, Text: " "})

	left := arena.New(syntax.IdentifierName, syntax.TokenChild(fooTok))
	right := arena.New(syntax.IdentifierName, syntax.TokenChild(barTok))
	root := arena.New(syntax.CompilationUnit, syntax.NodeChild(left), syntax.NodeChild(right))

	assert.Equal(t, "  foo bar", root.Text())
}

func TestNodeFirstLastToken(t *testing.T) {
	mgr := source.NewManager()
	buf := mgr.AssignText("t.sv", []byte("a b c"), source.NoLocation)
	arena := syntax.NewArena()

	a := tok(mgr, buf.ID(), 0, "a")
	b := tok(mgr, buf.ID(), 2, "b")
	c := tok(mgr, buf.ID(), 4, "c")

	inner := arena.New(syntax.IdentifierName, syntax.TokenChild(b))
	root := arena.New(syntax.CompilationUnit, syntax.TokenChild(a), syntax.NodeChild(inner), syntax.TokenChild(c))

	assert.Equal(t, "a", root.FirstToken().Raw)
	assert.Equal(t, "c", root.LastToken().Raw)
}

func TestWalkVisitsEveryNode(t *testing.T) {
	mgr := source.NewManager()
	buf := mgr.AssignText("t.sv", []byte("a b"), source.NoLocation)
	arena := syntax.NewArena()

	leaf := arena.New(syntax.IdentifierName, syntax.TokenChild(tok(mgr, buf.ID(), 0, "a")))
	root := arena.New(syntax.CompilationUnit, syntax.NodeChild(leaf))

	var kinds []syntax.Kind
	root.Walk(func(n *syntax.Node) { kinds = append(kinds, n.Kind) })
	assert.Equal(t, []syntax.Kind{syntax.CompilationUnit, syntax.IdentifierName}, kinds)
}

func TestChildNodesSkipsTokens(t *testing.T) {
	mgr := source.NewManager()
	buf := mgr.AssignText("t.sv", []byte("a"), source.NoLocation)
	arena := syntax.NewArena()

	leaf := arena.New(syntax.IdentifierName, syntax.TokenChild(tok(mgr, buf.ID(), 0, "a")))
	root := arena.New(syntax.CompilationUnit, syntax.TokenChild(tok(mgr, buf.ID(), 0, "a")), syntax.NodeChild(leaf))

	assert.Equal(t, []*syntax.Node{leaf}, root.ChildNodes())
}

func TestArenaCountTracksAllocations(t *testing.T) {
	arena := syntax.NewArena()
	arena.New(syntax.IdentifierName)
	arena.New(syntax.BinaryExpression)
	assert.Equal(t, 2, arena.Count())
}
