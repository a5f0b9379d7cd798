package lexer

import (
	"strconv"
	"strings"

	"github.com/viant/svlang/source"
	"github.com/viant/svlang/token"
)

// scanNumberStartingWithDigit handles every literal shape that begins with
// a decimal digit: plain decimal integers, sized literals
// (`<size>'<base><digits>`), real literals (with optional exponent and
// fractional part), and time literals (`10ns`, `1.5ps`).
func (l *Lexer) scanNumberStartingWithDigit(leading []token.Trivia) token.Token {
	start := l.pos
	startLoc := l.loc(start)

	digits := l.scanDecimalDigits()

	// Sized literal: <size>'<base><digits>
	if l.peek() == '\'' {
		return l.scanSizedLiteral(leading, start, startLoc, digits)
	}

	// Real / time literal: fractional part and/or exponent and/or a time unit.
	isReal := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isReal = true
		l.pos++ // consume '.'
		l.scanDecimalDigits()
	}
	if (l.peek() == 'e' || l.peek() == 'E') && (isDigit(l.peekAt(1)) || ((l.peekAt(1) == '+' || l.peekAt(1) == '-') && isDigit(l.peekAt(2)))) {
		isReal = true
		l.pos++
		if l.peek() == '+' || l.peek() == '-' {
			l.pos++
		}
		l.scanDecimalDigits()
	}

	if unit, ok := matchTimeUnit(l.text[l.pos:]); ok {
		l.pos += len(unit)
		raw := string(l.text[start:l.pos])
		real, _ := strconv.ParseFloat(strings.ReplaceAll(raw[:len(raw)-len(unit)], "_", ""), 64)
		return token.Token{
			Kind:     token.TimeLiteral,
			Location: startLoc,
			Raw:      raw,
			Value:    token.Value{Kind: token.RealValue, Real: real, Str: unit},
			Leading:  leading,
		}
	}

	raw := string(l.text[start:l.pos])
	if isReal {
		clean := strings.ReplaceAll(raw, "_", "")
		real, err := strconv.ParseFloat(clean, 64)
		outOfRange := false
		if err != nil {
			// ParseFloat reports ErrRange for overflow/underflow but still
			// returns +/-Inf or 0; spec 4.2 requires we keep that value and
			// flag it rather than fail the token.
			outOfRange = true
		}
		return token.Token{
			Kind:     token.RealLiteral,
			Location: startLoc,
			Raw:      raw,
			Value:    token.Value{Kind: token.RealValue, Real: real, OutOfRange: outOfRange},
			Leading:  leading,
		}
	}

	return token.Token{
		Kind:     token.IntegerLiteral,
		Location: startLoc,
		Raw:      raw,
		Value:    token.Value{Kind: token.IntValue, Base: 'd', Digits: strings.ReplaceAll(digits, "_", "")},
		Leading:  leading,
	}
}

func (l *Lexer) scanDecimalDigits() string {
	start := l.pos
	for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
		l.pos++
	}
	return string(l.text[start:l.pos])
}

var timeUnits = []string{"fs", "ps", "ns", "us", "ms", "s"}

func matchTimeUnit(text []byte) (string, bool) {
	for _, unit := range timeUnits {
		if len(text) >= len(unit) && string(text[:len(unit)]) == unit {
			return unit, true
		}
	}
	return "", false
}

// scanSizedLiteral handles `<size>'<base><digits>` once the size digits and
// the apostrophe have been recognized (the apostrophe itself is consumed
// here).
func (l *Lexer) scanSizedLiteral(leading []token.Trivia, start int, startLoc source.SourceLocation, sizeDigits string) token.Token {
	l.pos++ // consume '\''
	return l.finishBasedLiteral(leading, start, startLoc, sizeDigits)
}

// scanBasedLiteral handles a literal that begins with the apostrophe
// itself: base-only literals (`'<base><digits>`) and unbased-unsized
// literals (`'0`, `'1`, `'x`, `'z`).
func (l *Lexer) scanBasedLiteral(leading []token.Trivia) token.Token {
	start := l.pos
	startLoc := l.loc(start)
	l.pos++ // consume '\''

	// Unbased unsized: '0 '1 'x 'z (and their upper-case forms), not
	// followed by a base letter.
	if c := l.peek(); (c == '0' || c == '1' || c == 'x' || c == 'X' || c == 'z' || c == 'Z') && !isBaseLetter(l.peekAt(1)) {
		l.pos++
		raw := string(l.text[start:l.pos])
		return token.Token{
			Kind:     token.UnbasedUnsizedLiteral,
			Location: startLoc,
			Raw:      raw,
			Value:    token.Value{Kind: token.IntValue, Width: 0, Digits: string(c)},
			Leading:  leading,
		}
	}

	return l.finishBasedLiteral(leading, start, startLoc, "")
}

func isBaseLetter(c byte) bool {
	switch c {
	case 'b', 'B', 'o', 'O', 'd', 'D', 'h', 'H':
		return true
	default:
		return false
	}
}

// finishBasedLiteral consumes an optional signedness marker, a base
// letter, and the digit run, for both the sized and base-only shapes. The
// caller has already consumed through the apostrophe.
func (l *Lexer) finishBasedLiteral(leading []token.Trivia, start int, startLoc source.SourceLocation, sizeDigits string) token.Token {
	signed := false
	if l.peek() == 's' || l.peek() == 'S' {
		signed = true
		l.pos++
	}

	base := byte(0)
	if isBaseLetter(l.peek()) {
		base = normalizeBase(l.advance())
	} else {
		l.errorf(startLoc, "lex-bad-base", "expected base letter after '")
	}

	digitsStart := l.pos
	for !l.eof() && isLiteralDigitChar(l.peek(), base) {
		l.pos++
	}
	digits := string(l.text[digitsStart:l.pos])

	width := 0
	if sizeDigits != "" {
		clean := strings.ReplaceAll(sizeDigits, "_", "")
		if n, err := strconv.Atoi(clean); err == nil {
			width = n
		}
	}

	raw := string(l.text[start:l.pos])
	return token.Token{
		Kind:     token.IntegerLiteral,
		Location: startLoc,
		Raw:      raw,
		Value: token.Value{
			Kind:     token.IntValue,
			Width:    width,
			IsSigned: signed,
			Base:     base,
			Digits:   strings.ReplaceAll(digits, "_", ""),
		},
		Leading: leading,
	}
}

func normalizeBase(c byte) byte {
	switch c {
	case 'B', 'b':
		return 'b'
	case 'O', 'o':
		return 'o'
	case 'D', 'd':
		return 'd'
	case 'H', 'h':
		return 'h'
	}
	return c
}

// isLiteralDigitChar reports whether c is a valid digit for base. Decimal
// literals accept only 0-9, _, and a whole-value x/z filler (spec 4.2);
// the other bases accept four-state digits x/z/X/Z/? plus _.
func isLiteralDigitChar(c byte, base byte) bool {
	if c == '_' {
		return true
	}
	switch base {
	case 'd':
		return isDigit(c) || c == 'x' || c == 'X' || c == 'z' || c == 'Z' || c == '?'
	case 'b':
		return c == '0' || c == '1' || isFourState(c)
	case 'o':
		return (c >= '0' && c <= '7') || isFourState(c)
	case 'h':
		return isHexDigit(c) || isFourState(c)
	default:
		return isDigit(c)
	}
}

func isFourState(c byte) bool {
	switch c {
	case 'x', 'X', 'z', 'Z', '?':
		return true
	default:
		return false
	}
}
