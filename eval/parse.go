package eval

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads the canonical textual form produced by SVInt.String
// (<width>'<s?>h<hex digits>, with a whole-nibble x/z standing in for an
// unknown nibble) back into an SVInt, for the round-trip invariant (spec
// invariant 6). It only needs to invert String's own output, not accept
// arbitrary literal syntax (FromDigits / the lexer cover that).
func Parse(text string) (SVInt, error) {
	apos := strings.IndexByte(text, '\'')
	if apos < 0 {
		return SVInt{}, fmt.Errorf("eval: %q is not a canonical SVInt literal", text)
	}
	width, err := strconv.Atoi(text[:apos])
	if err != nil {
		return SVInt{}, fmt.Errorf("eval: bad width in %q: %w", text, err)
	}
	rest := text[apos+1:]
	signed := false
	if len(rest) > 0 && rest[0] == 's' {
		signed = true
		rest = rest[1:]
	}
	if len(rest) == 0 || rest[0] != 'h' {
		return SVInt{}, fmt.Errorf("eval: %q is missing the h base marker", text)
	}
	return FromDigits(width, signed, 'h', rest[1:])
}
