// Package preprocessor consumes a lexer token stream and produces the
// filtered, macro-expanded stream the parser sees (spec section 4.3):
// conditional compilation, include handling, macro expansion with
// argument-traced locations, and the semantic directives that affect
// timescale/nettype/unconnected-drive state.
package preprocessor

import (
	"context"
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/viant/svlang/lexer"
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/token"
)

// toolVersion is the svlang build version exposed through the
// `__SVLANG_VERSION__` predefined macro.
const toolVersion = "v0.1.0"

// Diagnostic mirrors lexer.Diagnostic's shape; kept separate to avoid an
// import from the diag package back into preprocessor (diag depends on
// source only). Nothing in this module converts either shape into
// diag.Diagnostic.
type Diagnostic struct {
	Code     string
	Location source.SourceLocation
	Message  string
}

// Options bounds preprocessor recursion (spec section 6.2).
type Options struct {
	MaxIncludeDepth int
	MaxMacroDepth   int
}

// DefaultOptions returns the spec's stated defaults.
func DefaultOptions() Options {
	return Options{MaxIncludeDepth: 1024, MaxMacroDepth: 32}
}

// Option configures a Preprocessor at construction time.
type Option func(*Preprocessor)

// WithMaxIncludeDepth overrides the include-recursion cap.
func WithMaxIncludeDepth(n int) Option {
	return func(p *Preprocessor) { p.opts.MaxIncludeDepth = n }
}

// WithMaxMacroDepth overrides the macro-expansion-recursion cap.
func WithMaxMacroDepth(n int) Option {
	return func(p *Preprocessor) { p.opts.MaxMacroDepth = n }
}

// WithPredefinedMacro seeds a user-supplied predefined macro (the
// `predefined_macros` compilation option of spec section 6.2), installed
// before the buffer under test is read.
func WithPredefinedMacro(name, body string) Option {
	return func(p *Preprocessor) { p.userPredefined = append(p.userPredefined, [2]string{name, body}) }
}

// WithDefaultTimescale seeds the initial timescale.
func WithDefaultTimescale(unit, precision string) Option {
	return func(p *Preprocessor) { p.state.timescale = Timescale{Unit: unit, Precision: precision} }
}

// WithDefaultNetType seeds the initial default net type.
func WithDefaultNetType(nt NetType) Option {
	return func(p *Preprocessor) { p.state.nettype = nt }
}

// frame is one entry in the include stack; the bottom frame is the
// compilation unit's root buffer.
type frame struct {
	lx         *lexer.Lexer
	buf        source.BufferID
	pushedBack []token.Token
}

func (f *frame) next() token.Token {
	if n := len(f.pushedBack); n > 0 {
		t := f.pushedBack[n-1]
		f.pushedBack = f.pushedBack[:n-1]
		return t
	}
	return f.lx.Next()
}

func (f *frame) pushBack(tok token.Token) {
	f.pushedBack = append(f.pushedBack, tok)
}

// Preprocessor drives one compilation unit's worth of macro expansion and
// conditional compilation over a source.Manager buffer.
type Preprocessor struct {
	ctx     context.Context
	mgr     *source.Manager
	version token.LanguageVersion
	opts    Options

	macros *MacroTable
	cond   conditionalStack
	state  directiveState

	diags []Diagnostic

	frames []*frame

	// expandingStack guards against a macro being expanded within its own
	// expansion (spec section 4.3): it holds the names currently being
	// substituted, innermost last.
	expandingStack []string

	pendingDisabled *token.Trivia

	disabledActive bool
	disabledStart  source.SourceLocation
	disabledBuf    source.BufferID

	userPredefined [][2]string
}

// New creates a Preprocessor reading buf from mgr as the root of a
// compilation unit.
func New(ctx context.Context, mgr *source.Manager, buf source.BufferID, version token.LanguageVersion, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		ctx:     ctx,
		mgr:     mgr,
		version: version,
		opts:    DefaultOptions(),
		macros:  NewMacroTable(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.installBuiltinPredefined()
	for _, kv := range p.userPredefined {
		p.defineFromText(kv[0], kv[1], true)
	}
	p.pushFrame(buf)
	return p
}

// installBuiltinPredefined seeds the tool-identity predefined macros (spec
// section 4.3: "built-in predefined macros expose tool name/version/source
// location"). `` `__FILE__`` and `` `__LINE__`` are not seeded here and
// nothing else in this module defines or substitutes them, so a use of
// either reports pp-undefined-macro.
func (p *Preprocessor) installBuiltinPredefined() {
	version := toolVersion
	if semver.IsValid(version) {
		version = semver.Canonical(version)
	}
	p.defineFromText("__SVLANG_TOOL__", `"svlang"`, true)
	p.defineFromText("__SVLANG_VERSION__", `"`+version+`"`, true)
}

// defineFromText installs an object-like macro from already-formed
// replacement text, used for predefined and command-line macros that never
// go through the directive lexer.
func (p *Preprocessor) defineFromText(name, bodyText string, predefined bool) {
	buf := p.mgr.AssignText("<predefined:"+name+">", []byte(bodyText), source.NoLocation)
	lx := lexer.New(p.mgr, buf.ID(), p.version)
	var body []token.Token
	for {
		t := lx.Next()
		if t.Kind == token.EndOfFile {
			break
		}
		body = append(body, t)
	}
	p.macros.Define(&MacroDef{Name: name, Body: body, IsPredefined: predefined})
}

func (p *Preprocessor) pushFrame(buf source.BufferID) {
	p.frames = append(p.frames, &frame{lx: lexer.New(p.mgr, buf, p.version), buf: buf})
}

func (p *Preprocessor) top() *frame {
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[len(p.frames)-1]
}

// Diagnostics returns preprocessor diagnostics accumulated so far.
func (p *Preprocessor) Diagnostics() []Diagnostic {
	return p.diags
}

// Snapshot returns the directive-affected semantic state visible at this
// point in the stream (spec section 4.3's closing paragraph).
func (p *Preprocessor) Snapshot() Snapshot {
	return p.state.snapshot()
}

func (p *Preprocessor) errorf(loc source.SourceLocation, code, format string, args ...interface{}) {
	p.diags = append(p.diags, Diagnostic{Code: code, Location: loc, Message: fmt.Sprintf(format, args...)})
}

// Next returns the next token of the expanded, filtered stream. It never
// returns a MacroUsage or Directive-triggering token: those are always
// consumed internally.
func (p *Preprocessor) Next() token.Token {
	for {
		frm := p.top()
		if frm == nil {
			return token.Token{Kind: token.EndOfFile}
		}
		tok := frm.next()

		// A directive trailing the last real token in a buffer is attached
		// as leading trivia of the EOF token itself, so this check must
		// run before the EOF branch below or a file-final directive (e.g.
		// a closing `include) would never be processed.
		if directive, name, ok := p.directiveTrivia(tok); ok {
			p.handleDirective(frm, directive, name)
			// A directive line consumes only its own trivium; the token
			// that carried it (and any other leading trivia) is re-injected
			// so the loop re-examines it for further directives or, once
			// none remain, processes it as a real token.
			tok.Leading = removeTrivia(tok.Leading, directive)
			frm.pushBack(tok)
			continue
		}

		if tok.Kind == token.EndOfFile {
			if len(p.frames) > 1 {
				p.frames = p.frames[:len(p.frames)-1]
				continue
			}
			if p.cond.Depth() > 0 {
				p.errorf(tok.Location, "pp-unterminated-conditional", "missing `endif at end of file")
			}
			return tok
		}

		if !p.cond.Active() {
			p.accumulateDisabled(tok)
			continue
		}

		if tok.Kind == token.MacroUsage {
			p.expandMacroUsage(tok, frm)
			continue
		}

		p.attachPendingDisabled(&tok)
		return tok
	}
}

// directiveTrivia reports the first Directive-kind trivium attached to tok,
// if any, along with the (backtick-stripped) directive keyword name.
func (p *Preprocessor) directiveTrivia(tok token.Token) (token.Trivia, string, bool) {
	for _, trivia := range tok.Leading {
		if trivia.Kind != token.Directive {
			continue
		}
		name := directiveName(trivia.Text)
		return trivia, name, true
	}
	return token.Trivia{}, "", false
}

func directiveName(text string) string {
	i := 1 // skip '`'
	for i < len(text) && isNameByte(text[i]) {
		i++
	}
	if i <= 1 {
		return ""
	}
	return text[1:i]
}

func isNameByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func removeTrivia(trivia []token.Trivia, remove token.Trivia) []token.Trivia {
	out := make([]token.Trivia, 0, len(trivia))
	removed := false
	for _, t := range trivia {
		if !removed && t.Kind == remove.Kind && t.Range == remove.Range {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out
}

func (p *Preprocessor) attachPendingDisabled(tok *token.Token) {
	if p.pendingDisabled == nil {
		return
	}
	tok.Leading = append([]token.Trivia{*p.pendingDisabled}, tok.Leading...)
	p.pendingDisabled = nil
}

// accumulateDisabled folds a token skipped inside a false conditional
// branch into the pending DisabledText trivium, so that once the branch
// becomes active again every skipped byte is still accounted for on the
// next real token (spec section 8's losslessness invariant extends to
// disabled regions via this trivia kind).
func (p *Preprocessor) accumulateDisabled(tok token.Token) {
	frm := p.top()
	if frm == nil {
		return
	}
	full := tok.FullRange()
	if !p.disabledActive {
		p.disabledActive = true
		p.disabledStart = full.Start
		p.disabledBuf = frm.buf
	}
	if frm.buf != p.disabledBuf {
		return // crossed an include boundary; best-effort, drop silently
	}
	end := full.End
	text := p.mgr.GetSourceText(p.disabledStart)
	start := p.disabledStart.Offset()
	if end.Offset() > start && end.Offset() <= len(text) {
		trivia := token.Trivia{
			Kind:  token.DisabledText,
			Range: source.SourceRange{Start: p.disabledStart, End: end},
			Text:  string(text[start:end.Offset()]),
		}
		p.pendingDisabled = &trivia
	}
}

func (p *Preprocessor) noteConditionalTransition(before bool) {
	after := p.cond.Active()
	if before && !after {
		// entering a disabled region is handled lazily by accumulateDisabled
		p.disabledActive = false
	} else if !before && after {
		// leaving one: pendingDisabled (if any) will be attached to the next token.
		p.disabledActive = false
	}
}
