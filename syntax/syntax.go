// Package syntax holds the lossless concrete syntax tree produced by the
// parser (spec section 3.3): kind-tagged nodes with ordered children that
// are either tokens or other nodes, arena-allocated and never individually
// freed, with no parent links — traversals carry whatever context they
// need instead.
package syntax

import (
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/token"
)

// Kind tags what a Node represents.
type Kind uint16

const (
	Unknown Kind = iota
	CompilationUnit
	ModuleDeclaration
	InterfaceDeclaration
	ProgramDeclaration
	PackageDeclaration
	ClassDeclaration
	FunctionDeclaration
	TaskDeclaration
	PortList
	PortDeclaration
	DataDeclaration
	ParameterDeclaration
	GenerateBlock
	GenerateForStatement
	GenerateIfStatement
	ModuleInstantiation
	ModportDeclaration
	BlockStatement
	IfStatement
	ForStatement
	WhileStatement
	DoWhileStatement
	CaseStatement
	CaseItem
	ReturnStatement
	BreakStatement
	ContinueStatement
	ExpressionStatement
	VariableDeclStatement
	BinaryExpression
	UnaryExpression
	ConditionalExpression
	ConcatenationExpression
	ReplicationExpression
	CallExpression
	IdentifierName
	ScopedName
	LiteralExpression
	TypeReference
	PackedDimension
	UnpackedDimension
	EnumTypeDeclaration
	StructUnionTypeDeclaration
	TypedefDeclaration
	AssertionStatement
	ImportDeclaration
	ExportDeclaration
	ErrorNode // a synchronization-point placeholder for unparsable input
)

// Child is one element of a Node's ordered children: exactly one of Tok
// or Node is meaningful, tagged by IsToken.
type Child struct {
	IsToken bool
	Tok     token.Token
	Node    *Node
}

// Node is one arena-allocated CST node. No parent pointer is stored (spec
// section 3.3); callers walking the tree carry whatever ancestor context
// they need.
type Node struct {
	Kind     Kind
	Children []Child
}

// Arena owns every Node allocated for one compilation unit; nodes are
// never freed individually; the whole arena is dropped when its owning
// Compilation is torn down (spec section 9's bump-arena design note).
type Arena struct {
	nodes []*Node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates and returns a new Node with the given kind and children,
// owned by the arena.
func (a *Arena) New(kind Kind, children ...Child) *Node {
	n := &Node{Kind: kind, Children: children}
	a.nodes = append(a.nodes, n)
	return n
}

// NodeChild wraps a child node.
func NodeChild(n *Node) Child {
	return Child{Node: n}
}

// TokenChild wraps a child token.
func TokenChild(t token.Token) Child {
	return Child{IsToken: true, Tok: t}
}

// Count returns the number of nodes ever allocated by a (for diagnostics
// and tests; arenas never shrink).
func (a *Arena) Count() int {
	return len(a.nodes)
}

// FirstToken returns the first token reachable by descending into n's
// leftmost children, or the zero Token if n is empty.
func (n *Node) FirstToken() token.Token {
	for _, c := range n.Children {
		if c.IsToken {
			return c.Tok
		}
		if t, ok := firstTokenOf(c.Node); ok {
			return t
		}
	}
	return token.Token{}
}

func firstTokenOf(n *Node) (token.Token, bool) {
	for _, c := range n.Children {
		if c.IsToken {
			return c.Tok, true
		}
		if t, ok := firstTokenOf(c.Node); ok {
			return t, true
		}
	}
	return token.Token{}, false
}

// LastToken returns the last token reachable by descending into n's
// rightmost children.
func (n *Node) LastToken() token.Token {
	for i := len(n.Children) - 1; i >= 0; i-- {
		c := n.Children[i]
		if c.IsToken {
			return c.Tok
		}
		if t, ok := lastTokenOf(c.Node); ok {
			return t
		}
	}
	return token.Token{}
}

func lastTokenOf(n *Node) (token.Token, bool) {
	for i := len(n.Children) - 1; i >= 0; i-- {
		c := n.Children[i]
		if c.IsToken {
			return c.Tok, true
		}
		if t, ok := lastTokenOf(c.Node); ok {
			return t, true
		}
	}
	return token.Token{}, false
}

// Range derives n's source range from its first and last descendant
// tokens (spec section 3.3: "Source ranges are derived from first/last
// descendant tokens").
func (n *Node) Range() source.SourceRange {
	first := n.FirstToken()
	last := n.LastToken()
	return source.SourceRange{Start: first.Location, End: last.FullRange().End}
}

// Text concatenates every token's full (trivia-inclusive) raw text under
// n, in document order; per invariant 1, doing this for a whole
// CompilationUnit node must reproduce the original buffer exactly.
func (n *Node) Text() string {
	var sb []byte
	n.walkTokens(func(t token.Token) {
		for _, tr := range t.Leading {
			sb = append(sb, tr.Text...)
		}
		sb = append(sb, t.Raw...)
	})
	return string(sb)
}

func (n *Node) walkTokens(visit func(token.Token)) {
	for _, c := range n.Children {
		if c.IsToken {
			visit(c.Tok)
			continue
		}
		c.Node.walkTokens(visit)
	}
}

// Walk visits n and every descendant node (not tokens) in document
// order, depth-first.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		if !c.IsToken {
			c.Node.Walk(visit)
		}
	}
}

// ChildNodes returns n's immediate node children, skipping tokens.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsToken {
			out = append(out, c.Node)
		}
	}
	return out
}
