package preprocessor

import (
	"strings"

	"github.com/viant/svlang/lexer"
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/token"
)

// tokenSource is the minimal pull interface macro expansion needs: a
// function-like macro's argument list is read either from the live
// include-stack frame (a top-level invocation) or from an already
// substituted body (a nested invocation written literally inside another
// macro's body), so both frame and sliceSource satisfy it.
type tokenSource interface {
	next() token.Token
	pushBack(tok token.Token)
}

// sliceSource replays a fixed token slice, used to re-scan a macro's
// substituted body for further (nested) macro usages.
type sliceSource struct {
	toks []token.Token
	i    int
}

func (s *sliceSource) next() token.Token {
	if s.i >= len(s.toks) {
		return token.Token{Kind: token.EndOfFile}
	}
	t := s.toks[s.i]
	s.i++
	return t
}

func (s *sliceSource) pushBack(tok token.Token) {
	if s.i > 0 {
		s.i--
		s.toks[s.i] = tok
		return
	}
	s.toks = append([]token.Token{tok}, s.toks...)
}

// expandMacroUsage fully expands tok (a MacroUsage token read live off
// frm) and splices the result back onto frm so Next()'s main loop returns
// it token by token.
func (p *Preprocessor) expandMacroUsage(tok token.Token, frm *frame) {
	expanded := p.expandOne(tok, frm)
	for i := len(expanded) - 1; i >= 0; i-- {
		frm.pushBack(expanded[i])
	}
}

// expandOne resolves a single macro invocation, recursively expanding any
// nested macro usage inside the replacement list before returning, so the
// self-recursion guard (expandingStack) stays correctly scoped over the
// whole nested expansion rather than leaking once pushed back onto a
// frame (spec section 4.3: "a macro is not expanded within its own
// expansion").
func (p *Preprocessor) expandOne(tok token.Token, src tokenSource) []token.Token {
	name := tok.Raw[1:]
	def, ok := p.macros.Lookup(name)
	if !ok {
		p.errorf(tok.Location, "pp-undefined-macro", "undefined macro `%s", name)
		return []token.Token{{Kind: token.Identifier, Location: tok.Location, Raw: name, Leading: tok.Leading, Missing: true}}
	}

	var args [][]token.Token
	if def.Params != nil {
		collected, hasParens := p.collectMacroArgs(src)
		if !hasParens {
			p.errorf(tok.Location, "pp-macro-missing-args", "function-like macro `%s` used without an argument list", name)
			return []token.Token{{Kind: token.Identifier, Location: tok.Location, Raw: name, Leading: tok.Leading}}
		}
		args = collected
	}

	for _, expanding := range p.expandingStack {
		if expanding == name {
			p.errorf(tok.Location, "pp-self-recursive-macro", "macro `%s` is not expanded within its own expansion", name)
			return []token.Token{{Kind: token.Identifier, Location: tok.Location, Raw: name, Leading: tok.Leading}}
		}
	}
	if len(p.expandingStack) >= p.opts.MaxMacroDepth {
		p.errorf(tok.Location, "pp-max-macro-depth", "expansion of macro `%s` exceeded max depth %d", name, p.opts.MaxMacroDepth)
		return nil
	}

	bound := p.bindArgs(tok, def, args)

	p.expandingStack = append(p.expandingStack, name)
	body := p.substituteBody(tok, def, bound)

	var out []token.Token
	cursor := &sliceSource{toks: body}
	for {
		t := cursor.next()
		if t.Kind == token.EndOfFile {
			break
		}
		if t.Kind == token.MacroUsage {
			out = append(out, p.expandOne(t, cursor)...)
			continue
		}
		out = append(out, t)
	}
	p.expandingStack = p.expandingStack[:len(p.expandingStack)-1]

	if len(out) > 0 {
		merged := append(append([]token.Trivia{}, tok.Leading...), out[0].Leading...)
		out[0].Leading = merged
	}
	return out
}

// collectMacroArgs reads a parenthesized, comma-separated argument list
// from src, respecting nested parens. It reports (nil, false) if the next
// token is not '(' (pushing it back unconsumed), and (nil, true) for an
// empty "()" argument list.
func (p *Preprocessor) collectMacroArgs(src tokenSource) ([][]token.Token, bool) {
	first := src.next()
	if first.Kind != token.OpenParen {
		src.pushBack(first)
		return nil, false
	}

	peek := src.next()
	if peek.Kind == token.CloseParen {
		return nil, true
	}
	src.pushBack(peek)

	var args [][]token.Token
	var cur []token.Token
	depth := 1
	for {
		t := src.next()
		if t.Kind == token.EndOfFile {
			args = append(args, cur)
			return args, true
		}
		switch t.Kind {
		case token.OpenParen:
			depth++
			cur = append(cur, t)
		case token.CloseParen:
			depth--
			if depth == 0 {
				args = append(args, cur)
				return args, true
			}
			cur = append(cur, t)
		case token.Comma:
			if depth == 1 {
				args = append(args, cur)
				cur = nil
			} else {
				cur = append(cur, t)
			}
		default:
			cur = append(cur, t)
		}
	}
}

// bindArgs maps each formal parameter name to its traced argument tokens,
// falling back to a parameter's default text, if any.
func (p *Preprocessor) bindArgs(invocation token.Token, def *MacroDef, args [][]token.Token) map[string][]token.Token {
	bound := make(map[string][]token.Token, len(def.Params))
	if len(args) > len(def.Params) {
		p.errorf(invocation.Location, "pp-macro-too-many-args", "macro `%s` invoked with too many arguments", def.Name)
	}
	for i, name := range def.Params {
		if i < len(args) {
			bound[name] = p.traceArgTokens(args[i], invocation, name)
			continue
		}
		if text, ok := def.Defaults[name]; ok {
			bound[name] = p.lexDefaultText(text, def.Location.Location)
			continue
		}
		p.errorf(invocation.Location, "pp-macro-too-few-args", "macro `%s` missing argument %q", def.Name, name)
	}
	return bound
}

// traceArgTokens wraps each argument token's location in an expansion
// location pointing back at the argument site, so diagnostics raised
// against a substituted parameter still resolve into user code (spec
// section 4.3).
func (p *Preprocessor) traceArgTokens(toks []token.Token, invocation token.Token, paramName string) []token.Token {
	out := make([]token.Token, len(toks))
	for i, t := range toks {
		loc := p.mgr.CreateExpansionLoc(t.Location, source.NewRange(invocation.Location, invocation.Location), true, paramName)
		t.Location = loc
		out[i] = t
	}
	return out
}

// lexDefaultText tokenizes a macro parameter's default-value text (from a
// `define NAME(p=default)` parameter list), tagging every token with an
// expansion location back to the macro's own definition site.
func (p *Preprocessor) lexDefaultText(text string, defLoc source.SourceLocation) []token.Token {
	buf := p.mgr.AssignText("", []byte(text), source.NoLocation)
	lx := lexer.New(p.mgr, buf.ID(), p.version)
	var out []token.Token
	for {
		t := lx.Next()
		if t.Kind == token.EndOfFile {
			break
		}
		t.Location = p.mgr.CreateExpansionLoc(defLoc, source.NewRange(defLoc, defLoc), false, "")
		out = append(out, t)
	}
	return out
}

// substituteBody walks a macro's replacement token list, substituting
// bound parameters, evaluating stringification (`" ... `"), and then
// resolving token-paste (``) operators over the result.
func (p *Preprocessor) substituteBody(invocation token.Token, def *MacroDef, bound map[string][]token.Token) []token.Token {
	var out []token.Token
	body := def.Body
	for i := 0; i < len(body); i++ {
		t := body[i]

		if t.Kind == token.BacktickQuote {
			j := i + 1
			var inner []token.Token
			for j < len(body) && body[j].Kind != token.BacktickQuote {
				inner = append(inner, body[j])
				j++
			}
			text := stringifyTokens(inner, bound)
			out = append(out, token.Token{
				Kind:     token.StringLiteral,
				Location: p.expansionLocFor(t, invocation),
				Raw:      `"` + text + `"`,
				Value:    token.Value{Kind: token.StringValue, Str: text},
			})
			if j < len(body) {
				i = j
			} else {
				i = j - 1
			}
			continue
		}

		if t.Kind == token.Identifier {
			if args, isParam := bound[t.Raw]; isParam {
				out = append(out, args...)
				continue
			}
		}

		replaced := t
		replaced.Location = p.expansionLocFor(t, invocation)
		out = append(out, replaced)
	}
	return p.pasteTokens(out)
}

func (p *Preprocessor) expansionLocFor(bodyTok token.Token, invocation token.Token) source.SourceLocation {
	return p.mgr.CreateExpansionLoc(bodyTok.Location, source.NewRange(invocation.Location, invocation.Location), false, invocation.Raw[1:])
}

// stringifyTokens renders inner as the quoted string an SV `" ... `"
// stringification operator would produce: a bound parameter is replaced
// by the verbatim raw spelling of its argument tokens, everything else
// is reproduced as its own raw spelling.
func stringifyTokens(inner []token.Token, bound map[string][]token.Token) string {
	var b strings.Builder
	for _, t := range inner {
		if args, ok := bound[t.Raw]; ok && t.Kind == token.Identifier {
			for _, a := range args {
				b.WriteString(a.Raw)
			}
			continue
		}
		b.WriteString(t.Raw)
	}
	return b.String()
}

// pasteTokens resolves `` operators by concatenating the raw text of the
// tokens on either side and re-lexing the result; a paste that does not
// collapse to exactly one token is a diagnostic (spec section 4.3) and the
// operands are left unpasted.
func (p *Preprocessor) pasteTokens(toks []token.Token) []token.Token {
	var out []token.Token
	for i := 0; i < len(toks); i++ {
		if toks[i].Kind == token.BacktickBacktick {
			continue
		}
		cur := toks[i]
		for i+1 < len(toks) && toks[i+1].Kind == token.BacktickBacktick {
			if i+2 >= len(toks) {
				p.errorf(cur.Location, "pp-bad-paste", "token paste `` has no right-hand operand")
				i++
				break
			}
			rhs := toks[i+2]
			pasted, ok := p.pasteOne(cur, rhs)
			if !ok {
				p.errorf(cur.Location, "pp-bad-paste", "pasting %q and %q does not yield a single token", cur.Raw, rhs.Raw)
				out = append(out, cur)
				cur = rhs
				i += 2
				continue
			}
			cur = pasted
			i += 2
		}
		out = append(out, cur)
	}
	return out
}

func (p *Preprocessor) pasteOne(a, b token.Token) (token.Token, bool) {
	text := a.Raw + b.Raw
	buf := p.mgr.AssignText("", []byte(text), source.NoLocation)
	lx := lexer.New(p.mgr, buf.ID(), p.version)
	first := lx.Next()
	if first.Kind == token.EndOfFile {
		return token.Token{}, false
	}
	second := lx.Next()
	if second.Kind != token.EndOfFile {
		return token.Token{}, false
	}
	first.Location = a.Location
	first.Leading = a.Leading
	return first, true
}
