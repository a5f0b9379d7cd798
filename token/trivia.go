package token

import "github.com/viant/svlang/source"

// TriviaKind identifies the kind of non-semantic text attached to a token.
type TriviaKind uint8

const (
	Whitespace TriviaKind = iota
	LineComment
	BlockComment
	Directive      // points at directive syntax (owned by the preprocessor/syntax layer)
	SkippedSyntax  // a CST node the parser could not place, kept for lossless round-trip
	SkippedTokens  // raw tokens skipped during error recovery
	DisabledText   // text from a false `ifdef branch
)

// Trivia is owned by the token that immediately follows it; there is no
// such thing as trailing trivia (spec section 3.2).
type Trivia struct {
	Kind  TriviaKind
	Range source.SourceRange
	Text  string

	// Directive holds an opaque reference to the directive syntax node when
	// Kind == Directive; declared as interface{} here to avoid an import
	// cycle with the syntax package, which embeds Trivia on every token.
	Directive interface{}
}
