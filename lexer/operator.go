package lexer

import "github.com/viant/svlang/token"

// operatorEntry is one candidate spelling in matchOperator's longest-match
// table.
type operatorEntry struct {
	text string
	kind token.Kind
}

// operators is ordered longest-spelling-first so matchOperator's linear
// scan naturally performs maximal munch without a trie.
var operators = []operatorEntry{
	{"``", token.BacktickBacktick},
	{"`\"", token.BacktickQuote},
	{"`", token.Backtick},
	{"<<<=", token.LessThanLessThanLessThanEquals},
	{">>>=", token.GreaterThanGreaterThanGreaterThanEquals},
	{"<<<", token.LessThanLessThanLessThan},
	{">>>", token.GreaterThanGreaterThanGreaterThan},
	{"<<=", token.LessThanLessThanEquals},
	{">>=", token.GreaterThanGreaterThanEquals},
	{"===", token.EqualsEqualsEquals},
	{"!==", token.BangEqualsEquals},
	{"==?", token.EqualsEqualsQuestion},
	{"!=?", token.BangEqualsQuestion},
	{"&&&", token.AmpAmpAmp},
	{"->>", token.MinusGreaterThanGreaterThan},
	{"<<", token.LessThanLessThan},
	{">>", token.GreaterThanGreaterThan},
	{"<=", token.LessThanEquals},
	{">=", token.GreaterThanEquals},
	{"==", token.EqualsEquals},
	{"!=", token.BangEquals},
	{"&&", token.AmpAmp},
	{"||", token.PipePipe},
	{"**", token.StarStar},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusEquals},
	{"-=", token.MinusEquals},
	{"*=", token.StarEquals},
	{"/=", token.SlashEquals},
	{"%=", token.PercentEquals},
	{"&=", token.AmpEquals},
	{"|=", token.PipeEquals},
	{"^=", token.CaretEquals},
	{"^~", token.CaretTilde},
	{"~^", token.TildeCaret},
	{"+:", token.PlusColon},
	{"-:", token.MinusColon},
	{"->", token.MinusGreaterThan},
	{"::", token.ColonColon},
	{"'{", token.ApostropheOpenBrace},
	{"(", token.OpenParen},
	{")", token.CloseParen},
	{"{", token.OpenBrace},
	{"}", token.CloseBrace},
	{"[", token.OpenBracket},
	{"]", token.CloseBracket},
	{";", token.Semicolon},
	{":", token.Colon},
	{",", token.Comma},
	{".", token.Dot},
	{"@", token.At},
	{"#", token.Hash},
	{"?", token.Question},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"&", token.Amp},
	{"|", token.Pipe},
	{"^", token.Caret},
	{"~", token.Tilde},
	{"!", token.Bang},
	{"=", token.Equals},
	{"<", token.LessThan},
	{">", token.GreaterThan},
}

// matchOperator returns the Kind and byte width of the longest operator
// spelling that is a prefix of text, or (Unknown, 0) if none matches.
func matchOperator(text []byte) (token.Kind, int) {
	for _, op := range operators {
		n := len(op.text)
		if len(text) >= n && string(text[:n]) == op.text {
			return op.kind, n
		}
	}
	return token.Unknown, 0
}
