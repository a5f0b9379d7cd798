package token

import "github.com/viant/svlang/source"

// Token is immutable after creation; every input byte is accounted for as
// either part of a token's raw text or part of trivia, so whole-program
// pretty-printing from a sequence of tokens is byte-exact (spec section
// 3.2, invariant 1 in section 8).
type Token struct {
	Kind     Kind
	Location source.SourceLocation
	Raw      string
	Value    Value
	Leading  []Trivia

	// Missing marks a token the parser fabricated during error recovery
	// (spec section 4.4) rather than one that came from the lexer; it
	// carries a zero-length Raw and the location of the point it was
	// inserted at.
	Missing bool
}

// Range returns the source range spanning exactly this token's raw text
// (trivia is excluded; callers that want the full span including leading
// trivia should use FullRange).
func (t Token) Range() source.SourceRange {
	end := t.Location.WithOffset(t.Location.Offset() + len(t.Raw))
	return source.SourceRange{Start: t.Location, End: end}
}

// FullRange returns the span from the start of the first leading trivium
// (or the token itself, if none) through the end of the token.
func (t Token) FullRange() source.SourceRange {
	r := t.Range()
	if len(t.Leading) > 0 {
		r.Start = t.Leading[0].Range.Start
	}
	return r
}

// Text reconstructs the verbatim input this token represents, including
// every leading trivium.
func (t Token) Text() string {
	out := make([]byte, 0, len(t.Raw))
	for _, trivia := range t.Leading {
		out = append(out, trivia.Text...)
	}
	out = append(out, t.Raw...)
	return string(out)
}
