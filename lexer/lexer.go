// Package lexer turns UTF-8 source bytes from a source.Manager buffer into
// a lazy, lossless token stream: every input byte is accounted for, either
// as part of a token's raw text or as part of a trivium attached to the
// following token (spec section 4.2).
package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/viant/svlang/source"
	"github.com/viant/svlang/token"
)

// Diagnostic is the minimal shape the lexer needs to report a lexical
// error; it is intentionally decoupled from the diag package (which
// depends on source, not the other way around) to avoid an import cycle.
// They are only visible through Diagnostics(): the preprocessor does not
// collect them from the lexers it drives, and nothing converts them into
// diag.Diagnostic values.
type Diagnostic struct {
	Code     string
	Location source.SourceLocation
	Message  string
}

// Lexer reads one buffer's bytes and emits tokens on demand via Next.
type Lexer struct {
	mgr     *source.Manager
	buf     source.BufferID
	text    []byte
	pos     int
	end     int // exclusive; lets a Lexer be bounded to a sub-range of the buffer
	version token.LanguageVersion

	diagnostics []Diagnostic
}

// New creates a Lexer over the given buffer, starting at byte offset 0.
func New(mgr *source.Manager, buf source.BufferID, version token.LanguageVersion) *Lexer {
	return NewRange(mgr, buf, version, 0, -1)
}

// NewRange creates a Lexer bounded to [start, end) within buf's text; end
// of -1 means "to the end of the buffer". This is used to re-lex a macro
// body, a directive line, or a pasted-token result in place, so emitted
// tokens carry accurate offsets into the buffer they actually came from.
func NewRange(mgr *source.Manager, buf source.BufferID, version token.LanguageVersion, start, end int) *Lexer {
	loc := source.NewLocation(buf, 0)
	text := mgr.GetSourceText(loc)
	if end < 0 || end > len(text) {
		end = len(text)
	}
	return &Lexer{
		mgr:     mgr,
		buf:     buf,
		text:    text,
		pos:     start,
		end:     end,
		version: version,
	}
}

// Diagnostics returns lexical diagnostics accumulated so far.
func (l *Lexer) Diagnostics() []Diagnostic {
	return l.diagnostics
}

func (l *Lexer) errorf(loc source.SourceLocation, code, format string, args ...interface{}) {
	l.diagnostics = append(l.diagnostics, Diagnostic{Code: code, Location: loc, Message: fmt.Sprintf(format, args...)})
}

func (l *Lexer) loc(offset int) source.SourceLocation {
	return source.NewLocation(l.buf, offset)
}

func (l *Lexer) eof() bool { return l.pos >= l.end }

func (l *Lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.text[l.pos]
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= l.end {
		return 0
	}
	return l.text[l.pos+n]
}

func (l *Lexer) advance() byte {
	b := l.text[l.pos]
	l.pos++
	return b
}

// Next scans and returns the next token, with any leading trivia attached.
func (l *Lexer) Next() token.Token {
	leading := l.scanTrivia()
	start := l.pos
	startLoc := l.loc(start)

	if l.eof() {
		return token.Token{Kind: token.EndOfFile, Location: startLoc, Leading: leading}
	}

	c := l.peek()
	switch {
	case isIdentStart(c):
		return l.scanIdentifierOrKeyword(leading)
	case c == '\\':
		return l.scanEscapedIdentifier(leading)
	case c == '$':
		return l.scanSystemIdentifier(leading)
	case c == '`' && isIdentStart(l.peekAt(1)):
		return l.scanMacroUsage(leading)
	case c == '"':
		return l.scanString(leading)
	case c == '\'':
		return l.scanBasedLiteral(leading)
	case isDigit(c):
		return l.scanNumberStartingWithDigit(leading)
	default:
		return l.scanOperator(leading)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

// decodeRune reads one UTF-8 rune at the cursor; scanOperator uses it to
// consume an unrecognized, possibly multi-byte character as one Unknown
// token. It never errors — an invalid byte is returned on its own so
// lexing always makes progress and input is never lost.
func (l *Lexer) decodeRune() (rune, int) {
	if l.eof() {
		return 0, 0
	}
	r, size := utf8.DecodeRune(l.text[l.pos:])
	if r == utf8.RuneError && size <= 1 {
		return rune(l.text[l.pos]), 1
	}
	return r, size
}
