package preprocessor

import (
	"strconv"
	"strings"

	"github.com/viant/svlang/lexer"
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/token"
)

// handleDirective interprets one captured Directive trivium. Conditional
// directives (ifdef/ifndef/elsif/else/endif) always run, even inside an
// inactive branch, so nesting stays balanced; every other directive is a
// no-op while the branch is inactive.
func (p *Preprocessor) handleDirective(frm *frame, trivia token.Trivia, name string) {
	switch name {
	case "ifdef", "ifndef", "elsif", "else", "endif":
		p.handleConditional(frm, trivia, name)
		return
	}

	if !p.cond.Active() {
		return
	}

	switch name {
	case "define":
		p.handleDefine(frm, trivia)
	case "undef":
		p.handleUndef(frm, trivia)
	case "undefineall":
		p.macros.UndefAll()
	case "include":
		p.handleInclude(trivia)
	case "timescale":
		p.handleTimescale(trivia)
	case "default_nettype":
		p.handleDefaultNettype(trivia)
	case "unconnected_drive":
		p.handleUnconnectedDrive(trivia)
	case "nounconnected_drive":
		p.state.unconnectedDrive = UnconnectedDriveNone
	case "celldefine":
		p.state.inCellDefine = true
	case "endcelldefine":
		p.state.inCellDefine = false
	case "resetall":
		p.state = directiveState{}
	case "line":
		p.handleLine(trivia)
	case "pragma":
		// Recognized but semantically inert at this layer.
	case "begin_keywords", "end_keywords":
		// Keyword-set versioning scopes are not modeled; the language
		// version is fixed for the whole compilation unit.
	default:
		p.errorf(trivia.Range.Start, "pp-unknown-directive", "unrecognized compiler directive `%s", name)
	}
}

// directiveLexer re-lexes a directive trivium's content (skipping the
// leading backtick) directly within its home buffer, so every token it
// produces carries a real, traceable SourceLocation.
func (p *Preprocessor) directiveLexer(buf source.BufferID, trivia token.Trivia) *lexer.Lexer {
	start := trivia.Range.Start.Offset() + 1
	end := trivia.Range.End.Offset()
	return lexer.NewRange(p.mgr, buf, p.version, start, end)
}

func (p *Preprocessor) handleConditional(frm *frame, trivia token.Trivia, name string) {
	before := p.cond.Active()
	switch name {
	case "ifdef", "ifndef":
		dl := p.directiveLexer(frm.buf, trivia)
		dl.Next() // the directive keyword itself
		nameTok := dl.Next()
		_, defined := p.macros.Lookup(nameTok.Raw)
		taken := defined
		if name == "ifndef" {
			taken = !defined
		}
		p.cond.PushIf(taken)
	case "elsif":
		dl := p.directiveLexer(frm.buf, trivia)
		dl.Next()
		nameTok := dl.Next()
		_, defined := p.macros.Lookup(nameTok.Raw)
		if ok, _ := p.cond.Elsif(defined); !ok {
			p.errorf(trivia.Range.Start, "pp-mismatched-elsif", "`elsif without matching `ifdef/`ifndef")
		}
	case "else":
		if ok, _ := p.cond.Else(); !ok {
			p.errorf(trivia.Range.Start, "pp-mismatched-else", "`else without matching `ifdef/`ifndef")
		}
	case "endif":
		if !p.cond.Endif() {
			p.errorf(trivia.Range.Start, "pp-mismatched-endif", "`endif without matching `ifdef/`ifndef")
		}
	}
	p.noteConditionalTransition(before)
}

func (p *Preprocessor) handleDefine(frm *frame, trivia token.Trivia) {
	dl := p.directiveLexer(frm.buf, trivia)
	dl.Next() // "define"
	nameTok := dl.Next()
	if nameTok.Kind != token.Identifier && !nameTok.Kind.IsKeyword() {
		p.errorf(trivia.Range.Start, "pp-bad-define", "`define requires a macro name")
		return
	}
	def := &MacroDef{Name: nameTok.Raw, Location: nameTok}

	next := dl.Next()
	if next.Kind == token.OpenParen && len(next.Leading) == 0 {
		params, defaults, ok := parseMacroParams(dl)
		if !ok {
			p.errorf(trivia.Range.Start, "pp-bad-define", "malformed macro parameter list in `define %s", def.Name)
			return
		}
		def.Params = params
		def.Defaults = defaults
		next = dl.Next()
	}

	var body []token.Token
	for next.Kind != token.EndOfFile {
		body = append(body, next)
		next = dl.Next()
	}
	def.Body = body

	replaced, sameBody := p.macros.Define(def)
	if replaced && !sameBody {
		p.errorf(nameTok.Location, "pp-macro-redefined", "macro `%s` redefined with a different body", def.Name)
	}
}

// parseMacroParams reads a function-like macro's parameter list starting
// just after the opening '(' (already consumed by the caller).
func parseMacroParams(dl *lexer.Lexer) ([]string, map[string]string, bool) {
	params := []string{}
	defaults := map[string]string{}

	tok := dl.Next()
	if tok.Kind == token.CloseParen {
		return params, defaults, true
	}

	for {
		if tok.Kind != token.Identifier && !tok.Kind.IsKeyword() {
			return nil, nil, false
		}
		name := tok.Raw
		params = append(params, name)
		tok = dl.Next()

		if tok.Kind == token.Equals {
			var defText strings.Builder
			tok = dl.Next()
			for tok.Kind != token.Comma && tok.Kind != token.CloseParen && tok.Kind != token.EndOfFile {
				defText.WriteString(tok.Text())
				tok = dl.Next()
			}
			defaults[name] = strings.TrimSpace(defText.String())
		}

		if tok.Kind == token.CloseParen {
			break
		}
		if tok.Kind != token.Comma {
			return nil, nil, false
		}
		tok = dl.Next()
	}
	return params, defaults, true
}

func (p *Preprocessor) handleUndef(frm *frame, trivia token.Trivia) {
	dl := p.directiveLexer(frm.buf, trivia)
	dl.Next()
	nameTok := dl.Next()
	if !p.macros.Undef(nameTok.Raw) {
		p.errorf(nameTok.Location, "pp-undef-not-defined", "`undef of undefined macro `%s", nameTok.Raw)
	}
}

func (p *Preprocessor) handleInclude(trivia token.Trivia) {
	path, isSystem, ok := parseIncludeTarget(trivia.Text)
	if !ok {
		p.errorf(trivia.Range.Start, "pp-bad-include", "`include requires a \"path\" or <path>")
		return
	}
	if len(p.frames) >= p.opts.MaxIncludeDepth {
		p.errorf(trivia.Range.Start, "pp-max-include-depth", "`include depth exceeded %d", p.opts.MaxIncludeDepth)
		return
	}
	buf := p.mgr.ReadHeader(p.ctx, path, trivia.Range.Start, isSystem)
	if !buf.Valid() {
		p.errorf(trivia.Range.Start, "pp-include-not-found", "cannot find include file %q", path)
		return
	}
	p.pushFrame(buf.ID())
}

// parseIncludeTarget extracts the path and system/user-quoting of an
// `` `include`` directive's raw line text.
func parseIncludeTarget(text string) (path string, isSystem bool, ok bool) {
	const prefix = "`include"
	if !strings.HasPrefix(text, prefix) {
		return "", false, false
	}
	rest := strings.TrimLeft(text[len(prefix):], " \t")
	if rest == "" {
		return "", false, false
	}
	switch rest[0] {
	case '"':
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return "", false, false
		}
		return rest[1 : 1+end], false, true
	case '<':
		end := strings.IndexByte(rest[1:], '>')
		if end < 0 {
			return "", false, false
		}
		return rest[1 : 1+end], true, true
	default:
		return "", false, false
	}
}

func (p *Preprocessor) handleTimescale(trivia token.Trivia) {
	const prefix = "`timescale"
	rest := strings.TrimSpace(strings.TrimPrefix(trivia.Text, prefix))
	parts := strings.SplitN(rest, "/", 2)
	unit := strings.TrimSpace(parts[0])
	precision := unit
	if len(parts) == 2 {
		precision = strings.TrimSpace(parts[1])
	}
	if unit == "" {
		p.errorf(trivia.Range.Start, "pp-bad-timescale", "`timescale requires a unit/precision pair")
		return
	}
	p.state.timescale = Timescale{Unit: unit, Precision: precision}
}

func (p *Preprocessor) handleDefaultNettype(trivia token.Trivia) {
	const prefix = "`default_nettype"
	name := strings.TrimSpace(strings.TrimPrefix(trivia.Text, prefix))
	switch name {
	case "":
		p.errorf(trivia.Range.Start, "pp-bad-default-nettype", "`default_nettype requires a net type or \"none\"")
	case "none":
		p.state.nettype = NetTypeNone
	default:
		p.state.nettype = NetType(name)
	}
}

func (p *Preprocessor) handleUnconnectedDrive(trivia token.Trivia) {
	const prefix = "`unconnected_drive"
	name := strings.TrimSpace(strings.TrimPrefix(trivia.Text, prefix))
	switch name {
	case "pull0":
		p.state.unconnectedDrive = UnconnectedDrivePull0
	case "pull1":
		p.state.unconnectedDrive = UnconnectedDrivePull1
	default:
		p.errorf(trivia.Range.Start, "pp-bad-unconnected-drive", "unrecognized `unconnected_drive value %q", name)
	}
}

func (p *Preprocessor) handleLine(trivia token.Trivia) {
	const prefix = "`line"
	fields := strings.Fields(strings.TrimPrefix(trivia.Text, prefix))
	if len(fields) < 2 {
		p.errorf(trivia.Range.Start, "pp-bad-line", "`line requires a line number and a filename")
		return
	}
	lineNum, err := strconv.Atoi(fields[0])
	if err != nil {
		p.errorf(trivia.Range.Start, "pp-bad-line", "`line number %q is not an integer", fields[0])
		return
	}
	name := strings.Trim(fields[1], `"`)
	level := 0
	if len(fields) >= 3 {
		level, _ = strconv.Atoi(fields[2])
	}
	p.mgr.AddLineDirective(trivia.Range.Start, lineNum, name, level)
}
