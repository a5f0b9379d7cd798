package token

// ValueKind tags which field of Value is meaningful.
type ValueKind uint8

const (
	NoValue ValueKind = iota
	IntValue
	RealValue
	StringValue
	IdentValue
)

// Value is the optional parsed payload of a literal or identifier token.
// SystemVerilog integer literals are four-state, arbitrary width, so the
// parsed integer value is not stored here as a machine int — it is kept as
// raw digit text plus metadata, and turned into an eval.SVInt lazily by the
// binder (mirrors spec section 3.7's "arbitrary precision" requirement,
// which a fixed-width Go integer cannot represent for literals over 64
// bits).
type Value struct {
	Kind ValueKind

	// Integer literal fields (IntValue).
	Width      int  // 0 means "unsized" (`0, `1, `x, `z, or a base-only literal)
	IsSigned   bool
	Base       byte // 'b', 'o', 'd', 'h', or 0 for unbased-unsized
	Digits     string // raw digit text in Base, four-state characters allowed
	OutOfRange bool

	Real   float64 // RealValue
	Str    string  // StringValue (already unescaped) / IdentValue (already unescaped)
}
