package eval

import (
	"fmt"
	"math/big"
	"strings"
)

// FromDigits parses the raw digit text of an integer literal (spec
// section 4.2/4.6): sized (<width> given) or base-only (width resolved by
// the caller, 32 by default). Four-state digits x/z/X/Z/? are accepted in
// binary/octal/hex; decimal only accepts 0-9, underscores, and a whole-
// value x/z filler (the lexer already rejects anything else, so this
// parser trusts its input).
func FromDigits(width int, signed bool, base byte, digits string) (SVInt, error) {
	if width <= 0 {
		width = 32
	}
	clean := strings.ReplaceAll(digits, "_", "")
	if clean == "" {
		return SVInt{}, fmt.Errorf("eval: empty literal digits")
	}

	if base == 'd' || base == 0 && looksDecimal(clean) {
		if whole, ok := wholeFiller(clean); ok {
			return whole(width, signed), nil
		}
		return fromDecimalDigits(width, signed, clean)
	}

	if whole, ok := wholeFiller(clean); ok {
		return whole(width, signed), nil
	}

	bitsPerDigit, err := bitsPerDigitFor(base)
	if err != nil {
		return SVInt{}, err
	}
	return fromRadixDigits(width, signed, clean, bitsPerDigit)
}

func looksDecimal(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && c != 'x' && c != 'X' && c != 'z' && c != 'Z' && c != '?' {
			return false
		}
	}
	return true
}

// wholeFiller recognizes a literal that is entirely x/z/? (a "whole-value
// filler", spec section 4.2), which replicates that one state across the
// full width regardless of base.
func wholeFiller(clean string) (func(width int, signed bool) SVInt, bool) {
	if len(clean) == 0 {
		return nil, false
	}
	for _, c := range clean {
		if c != rune(clean[0]) {
			return nil, false
		}
	}
	switch clean[0] {
	case 'x', 'X':
		return AllX, true
	case 'z', 'Z', '?':
		return AllZ, true
	default:
		return nil, false
	}
}

func bitsPerDigitFor(base byte) (int, error) {
	switch base {
	case 'b':
		return 1, nil
	case 'o':
		return 3, nil
	case 'h':
		return 4, nil
	default:
		return 0, fmt.Errorf("eval: unrecognized integer literal base %q", base)
	}
}

func digitState(c byte, bitsPerDigit int) (uint64, uint64, bool) {
	switch {
	case c == 'x' || c == 'X':
		return 0, (1 << uint(bitsPerDigit)) - 1, true
	case c == 'z' || c == 'Z' || c == '?':
		full := uint64((1 << uint(bitsPerDigit)) - 1)
		return full, full, true
	case c >= '0' && c <= '9':
		n := uint64(c - '0')
		return n, 0, n < (1 << uint(bitsPerDigit))
	case c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10, 0, bitsPerDigit == 4
	case c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10, 0, bitsPerDigit == 4
	default:
		return 0, 0, false
	}
}

func fromRadixDigits(width int, signed bool, clean string, bitsPerDigit int) (SVInt, error) {
	value := big.NewInt(0)
	unknown := big.NewInt(0)
	pos := 0
	for i := len(clean) - 1; i >= 0; i-- {
		val, unk, ok := digitState(clean[i], bitsPerDigit)
		if !ok {
			return SVInt{}, fmt.Errorf("eval: invalid digit %q for base", clean[i])
		}
		for b := 0; b < bitsPerDigit && pos+b < width; b++ {
			if val&(1<<uint(b)) != 0 {
				value.SetBit(value, pos+b, 1)
			}
			if unk&(1<<uint(b)) != 0 {
				unknown.SetBit(unknown, pos+b, 1)
			}
		}
		pos += bitsPerDigit
	}
	return SVInt{width: width, signed: signed, value: value, unknown: unknown}, nil
}

func fromDecimalDigits(width int, signed bool, clean string) (SVInt, error) {
	n, ok := new(big.Int).SetString(clean, 10)
	if !ok {
		return SVInt{}, fmt.Errorf("eval: invalid decimal literal %q", clean)
	}
	return FromBigInt(width, signed, n), nil
}
