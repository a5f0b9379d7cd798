package lexer

import (
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/token"
)

// lineDirectiveNames holds the backtick-word spellings that are always
// scoped to a single logical line (honoring backslash-continuation): the
// preprocessor directives proper. A backtick-identifier NOT in this set is
// a macro usage (e.g. `WIDTH) and is lexed as an ordinary MacroUsage token
// instead, since it can appear mid-expression rather than owning a line.
var lineDirectiveNames = map[string]bool{
	"define": true, "undef": true, "undefineall": true,
	"ifdef": true, "ifndef": true, "elsif": true, "else": true, "endif": true,
	"include": true, "timescale": true, "default_nettype": true,
	"unconnected_drive": true, "nounconnected_drive": true,
	"celldefine": true, "endcelldefine": true, "resetall": true,
	"pragma": true, "line": true, "begin_keywords": true, "end_keywords": true,
	"default_decay_time": true, "default_trireg_strength": true,
	"delay_mode_distributed": true, "delay_mode_path": true,
	"delay_mode_unit": true, "delay_mode_zero": true,
	"protect": true, "endprotect": true,
}

// peekIsLineDirective reports whether the backtick-identifier starting at
// the current position spells a recognized directive keyword, without
// consuming any input.
func (l *Lexer) peekIsLineDirective() bool {
	i := l.pos + 1
	for i < l.end && isIdentContinue(l.text[i]) {
		i++
	}
	return lineDirectiveNames[string(l.text[l.pos+1:i])]
}

// scanTrivia consumes whitespace, comments, and backtick-directive lines,
// returning them as an ordered slice of Trivia owned by the token that
// follows. Directive text itself is only blob-captured here; the
// preprocessor is responsible for re-lexing and interpreting it (this
// keeps the lexer a pure byte->token layer with no preprocessor-state
// dependency, per the dependency order in spec section 2).
func (l *Lexer) scanTrivia() []token.Trivia {
	var trivia []token.Trivia
	for {
		switch {
		case l.eof():
			return trivia
		case isWhitespace(l.peek()) || (l.peek() == '\\' && l.peekAt(1) == '\n'):
			trivia = append(trivia, l.scanWhitespace())
		case l.peek() == '/' && l.peekAt(1) == '/':
			trivia = append(trivia, l.scanLineComment())
		case l.peek() == '/' && l.peekAt(1) == '*':
			trivia = append(trivia, l.scanBlockComment())
		case l.peek() == '`' && isIdentStart(l.peekAt(1)) && l.peekIsLineDirective():
			trivia = append(trivia, l.scanDirectiveLine())
		default:
			return trivia
		}
	}
}

// scanWhitespace also absorbs backslash-newline line continuations, which
// only have lexical meaning inside `` `define`` bodies but are harmless to
// treat as whitespace everywhere else.
func (l *Lexer) scanWhitespace() token.Trivia {
	start := l.pos
	for !l.eof() {
		if l.peek() == '\\' && l.peekAt(1) == '\n' {
			l.pos += 2
			continue
		}
		if !isWhitespace(l.peek()) {
			break
		}
		l.pos++
	}
	return l.makeTrivia(token.Whitespace, start)
}

func (l *Lexer) scanLineComment() token.Trivia {
	start := l.pos
	for !l.eof() && l.peek() != '\n' {
		l.pos++
	}
	return l.makeTrivia(token.LineComment, start)
}

func (l *Lexer) scanBlockComment() token.Trivia {
	start := l.pos
	l.pos += 2 // consume "/*"
	for !l.eof() {
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.pos += 2
			return l.makeTrivia(token.BlockComment, start)
		}
		l.pos++
	}
	l.errorf(l.loc(start), "lex-unterminated-comment", "unterminated block comment")
	return l.makeTrivia(token.BlockComment, start)
}

// scanDirectiveLine captures one logical directive line, honoring a
// trailing backslash as a line continuation (as `define bodies commonly
// use).
func (l *Lexer) scanDirectiveLine() token.Trivia {
	start := l.pos
	for !l.eof() {
		if l.peek() == '\\' && l.peekAt(1) == '\n' {
			l.pos += 2
			continue
		}
		if l.peek() == '\n' {
			break
		}
		l.pos++
	}
	return l.makeTrivia(token.Directive, start)
}

func (l *Lexer) makeTrivia(kind token.TriviaKind, start int) token.Trivia {
	return token.Trivia{
		Kind:  kind,
		Range: source.SourceRange{Start: l.loc(start), End: l.loc(l.pos)},
		Text:  string(l.text[start:l.pos]),
	}
}
