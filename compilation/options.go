package compilation

// LanguageVersion selects the keyword/grammar set a Compilation parses
// against (spec section 6.2).
type LanguageVersion uint8

const (
	LanguageVersion2005 LanguageVersion = iota
	LanguageVersion2009
	LanguageVersion2012
	LanguageVersion2017
	LanguageVersion2023
)

// Timescale is an (unit, precision) pair, each a power-of-ten exponent
// relative to one second (e.g. unit=-9, precision=-12 is 1ns/1ps).
type Timescale struct {
	UnitExponent      int
	PrecisionExponent int
}

// NetType names a default net kind for implicit net declarations.
type NetType uint8

const (
	NetTypeWire NetType = iota
	NetTypeTri
	NetTypeNone // `default_nettype none
)

// Macro is a (name, body) pair prepended to every compilation unit
// (spec section 6.2's predefined_macros option).
type Macro struct {
	Name string
	Body string
}

// Options configures a Compilation, mirroring the recognized-options
// table of spec section 6.2.
type Options struct {
	LanguageVersion LanguageVersion

	MaxIncludeDepth   int
	MaxMacroDepth     int
	MaxConstExprDepth int

	DefaultTimescale Timescale
	DefaultNetType   NetType

	IncludeDirsUser   []string
	IncludeDirsSystem []string

	PredefinedMacros []Macro

	AllowHierarchicalInConst bool
}

// DefaultOptions returns the documented defaults: 1024 include depth, 32
// macro depth, 128 constant-evaluator recursion depth, wire nettype, no
// timescale, no predefined macros.
func DefaultOptions() Options {
	return Options{
		LanguageVersion:   LanguageVersion2017,
		MaxIncludeDepth:   1024,
		MaxMacroDepth:     32,
		MaxConstExprDepth: 128,
		DefaultNetType:    NetTypeWire,
	}
}
