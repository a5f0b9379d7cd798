// Package token defines the lexical token and trivia kinds shared by the
// lexer, preprocessor, and parser.
package token

// Kind identifies the lexical category of a token.
type Kind uint16

const (
	Unknown Kind = iota
	EndOfFile

	// Identifiers and literals.
	Identifier
	EscapedIdentifier
	SystemIdentifier
	MacroUsage // a backtick-identifier spelling that is not a line directive keyword, e.g. `WIDTH
	IntegerLiteral   // sized or base-only four-state integer literal
	UnbasedUnsizedLiteral
	RealLiteral
	TimeLiteral
	StringLiteral

	// Punctuation.
	OpenParen
	CloseParen
	OpenBrace
	CloseBrace
	OpenBracket
	CloseBracket
	Semicolon
	Colon
	ColonColon
	Comma
	Dot
	At
	Hash
	Question
	Apostrophe
	ApostropheOpenBrace // '{ pattern-assignment open
	Backtick             // a lone ` that matched neither a line directive nor a macro usage
	BacktickBacktick     // `` token-paste operator, inside a macro body
	BacktickQuote        // `" stringification delimiter, inside a macro body

	// Operators.
	Plus
	Minus
	Star
	StarStar
	Slash
	Percent
	Amp
	AmpAmp
	AmpAmpAmp
	Pipe
	PipePipe
	Caret
	CaretTilde
	TildeCaret
	Tilde
	Bang
	Equals
	EqualsEquals
	BangEquals
	EqualsEqualsEquals
	BangEqualsEquals
	EqualsEqualsQuestion
	BangEqualsQuestion
	LessThan
	LessThanEquals
	LessThanLessThan
	LessThanLessThanLessThan
	GreaterThan
	GreaterThanEquals
	GreaterThanGreaterThan
	GreaterThanGreaterThanGreaterThan
	PlusColon
	MinusColon
	MinusGreaterThan
	MinusGreaterThanGreaterThan
	PlusPlus
	MinusMinus
	PlusEquals
	MinusEquals
	StarEquals
	SlashEquals
	PercentEquals
	AmpEquals
	PipeEquals
	CaretEquals
	LessThanLessThanEquals
	GreaterThanGreaterThanEquals
	LessThanLessThanLessThanEquals
	GreaterThanGreaterThanGreaterThanEquals

	// Keywords begin here; KeywordBase is a marker, not a real token.
	KeywordBase
	ModuleKeyword
	EndmoduleKeyword
	InterfaceKeyword
	EndinterfaceKeyword
	ProgramKeyword
	EndprogramKeyword
	PackageKeyword
	EndpackageKeyword
	ClassKeyword
	EndclassKeyword
	FunctionKeyword
	EndfunctionKeyword
	TaskKeyword
	EndtaskKeyword
	BeginKeyword
	EndKeyword
	GenerateKeyword
	EndgenerateKeyword
	ParameterKeyword
	LocalparamKeyword
	InputKeyword
	OutputKeyword
	InoutKeyword
	BitKeyword
	LogicKeyword
	RegKeyword
	ByteKeyword
	ShortintKeyword
	IntKeyword
	LongintKeyword
	IntegerKeyword
	TimeKeyword
	ShortrealKeyword
	RealKeyword
	RealtimeKeyword
	VoidKeyword
	StringKeyword
	ReturnKeyword
	IfKeyword
	ElseKeyword
	ForKeyword
	WhileKeyword
	DoKeyword
	CaseKeyword
	EndcaseKeyword
	DefaultKeyword
	SignedKeyword
	UnsignedKeyword
	LocalKeyword
	ProtectedKeyword
	StaticKeyword
	VirtualKeyword
	PureKeyword
	ExternKeyword
	ConstKeyword
	RandKeyword
	RandcKeyword
	ExtendsKeyword
	ImplementsKeyword
	ImportKeyword
	ExportKeyword
	PackedKeyword
	StructKeyword
	UnionKeyword
	TaggedKeyword
	EnumKeyword
	TypedefKeyword
	AssertKeyword
	AssumeKeyword
	CoverKeyword
	ModportKeyword
	GenvarKeyword
	BreakKeyword
	ContinueKeyword
	KeywordMax
)

// String names a Kind for debugging/diagnostics; it is intentionally
// terse (full argument rendering lives in the diag package).
func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "Kind(?)"
}

var names = map[Kind]string{
	Unknown:               "unknown",
	EndOfFile:             "eof",
	Identifier:            "identifier",
	EscapedIdentifier:     "escaped identifier",
	SystemIdentifier:      "system identifier",
	MacroUsage:            "macro usage",
	IntegerLiteral:        "integer literal",
	UnbasedUnsizedLiteral: "unbased unsized literal",
	RealLiteral:           "real literal",
	TimeLiteral:           "time literal",
	StringLiteral:         "string literal",
	Semicolon:             "';'",
	OpenParen:             "'('",
	CloseParen:            "')'",
	OpenBrace:             "'{'",
	CloseBrace:            "'}'",
	OpenBracket:           "'['",
	CloseBracket:          "']'",
}

// IsKeyword reports whether k falls in the keyword range.
func (k Kind) IsKeyword() bool {
	return k > KeywordBase && k < KeywordMax
}
