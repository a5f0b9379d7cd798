package parser

import (
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/token"
)

// designUnitSync is where a malformed top-level declaration gives up and
// resumes: the next `end*` keyword or another design-unit opener, so one
// broken module doesn't swallow the rest of the file.
var designUnitSync = []token.Kind{
	token.EndmoduleKeyword, token.EndinterfaceKeyword, token.EndprogramKeyword,
	token.EndpackageKeyword, token.EndclassKeyword, token.EndOfFile,
}

// ParseCompilationUnit parses every top-level design unit until EndOfFile
// (spec section 4.1's root of the lossless tree).
func (p *Parser) ParseCompilationUnit() *syntax.Node {
	var children []syntax.Child
	for !p.at(token.EndOfFile) {
		before := p.mark()
		children = append(children, sub(p.parseDesignUnit()))
		if p.mark() == before {
			p.advance()
		}
	}
	return p.node(syntax.CompilationUnit, children...)
}

func (p *Parser) parseDesignUnit() *syntax.Node {
	switch p.current().Kind {
	case token.ModuleKeyword:
		return p.parseModuleLike(syntax.ModuleDeclaration, token.ModuleKeyword, token.EndmoduleKeyword)
	case token.InterfaceKeyword:
		return p.parseModuleLike(syntax.InterfaceDeclaration, token.InterfaceKeyword, token.EndinterfaceKeyword)
	case token.ProgramKeyword:
		return p.parseModuleLike(syntax.ProgramDeclaration, token.ProgramKeyword, token.EndprogramKeyword)
	case token.PackageKeyword:
		return p.parsePackage()
	case token.ClassKeyword:
		return p.parseClass()
	case token.FunctionKeyword:
		return p.parseFunction()
	case token.TaskKeyword:
		return p.parseTask()
	case token.ImportKeyword:
		return p.parseImport()
	case token.ExportKeyword:
		return p.parseExport()
	case token.TypedefKeyword:
		return p.parseTypedef()
	case token.ParameterKeyword, token.LocalparamKeyword:
		return p.parseParameterDeclaration()
	default:
		if dataTypeKeywords[p.current().Kind] {
			return p.parseVarDecl()
		}
		p.errorf("unexpected-top-level-token", p.current().Kind)
		bad := p.advance()
		p.synchronize(false, designUnitSync...)
		return p.node(syntax.ErrorNode, tok(bad))
	}
}

// parseModuleLike covers module/interface/program, which share one body
// grammar (ports, then a mixed sequence of members) differing only in
// their opening/closing keyword pair.
func (p *Parser) parseModuleLike(kind syntax.Kind, openKw, closeKw token.Kind) *syntax.Node {
	start := p.advance()
	name := p.expect(token.Identifier)
	children := []syntax.Child{tok(start), sub(p.node(syntax.IdentifierName, tok(name)))}
	if p.at(token.OpenParen) {
		children = append(children, sub(p.parsePortList()))
	}
	semi := p.expect(token.Semicolon)
	children = append(children, tok(semi))
	for !p.at(closeKw, token.EndOfFile) {
		before := p.mark()
		children = append(children, sub(p.parseModuleMember()))
		if p.mark() == before {
			p.advance()
		}
	}
	end := p.expect(closeKw)
	children = append(children, tok(end))
	return p.node(kind, children...)
}

// parseModuleMember disambiguates a module/interface/program body item.
// Most items are introduced by an unambiguous keyword; the one genuinely
// ambiguous case under a bounded-lookahead grammar is a bare identifier,
// which is either a module instantiation (`name inst(...)`) or a data
// declaration using a user-defined type (`name var;`). A short
// scan-and-restore over the next two tokens resolves it: an identifier
// immediately followed by another identifier is an instantiation or a
// typed declaration, distinguished by what follows the second name.
func (p *Parser) parseModuleMember() *syntax.Node {
	switch p.current().Kind {
	case token.ParameterKeyword, token.LocalparamKeyword:
		return p.parseParameterDeclaration()
	case token.GenerateKeyword:
		return p.parseGenerateBlock()
	case token.ModportKeyword:
		return p.parseModport()
	case token.FunctionKeyword:
		return p.parseFunction()
	case token.TaskKeyword:
		return p.parseTask()
	case token.AssertKeyword, token.AssumeKeyword, token.CoverKeyword:
		return p.parseAssertion()
	case token.TypedefKeyword:
		return p.parseTypedef()
	case token.InputKeyword, token.OutputKeyword, token.InoutKeyword:
		return p.parsePortDeclaration()
	default:
		if dataTypeKeywords[p.current().Kind] {
			return p.parseVarDecl()
		}
		if p.current().Kind == token.Identifier {
			return p.parseIdentifierLedMember()
		}
		p.errorf("unexpected-module-member", p.current().Kind)
		bad := p.advance()
		p.synchronize(false, token.Semicolon, token.EndOfFile)
		return p.node(syntax.ErrorNode, tok(bad))
	}
}

// parseIdentifierLedMember scans ahead without consuming input: if a
// second identifier follows the first, this is a user-type declaration
// or instantiation (`Foo bar(...)` / `Foo bar;`); the distinguishing
// mark is whether `(` follows, which both a module instantiation's port
// connection list and nothing else in this position can start with.
func (p *Parser) parseIdentifierLedMember() *syntax.Node {
	mark := p.mark()
	typeTok := p.advance()
	if p.current().Kind != token.Identifier {
		// Not a type-led member after all; fall back to treating it as
		// a plain statement-shaped expression at module scope (e.g. a
		// bare macro-expanded call), restoring first.
		p.reset(mark)
		return p.parseExpressionStatement()
	}
	nameTok := p.advance()
	if p.at(token.OpenParen) {
		open := p.advance()
		var args []syntax.Child
		if !p.at(token.CloseParen) {
			for {
				args = append(args, sub(p.ParseExpression()))
				if p.at(token.Comma) {
					args = append(args, tok(p.advance()))
					continue
				}
				break
			}
		}
		close := p.expect(token.CloseParen)
		semi := p.expect(token.Semicolon)
		children := append([]syntax.Child{tok(typeTok), sub(p.node(syntax.IdentifierName, tok(nameTok))), tok(open)}, args...)
		children = append(children, tok(close), tok(semi))
		return p.node(syntax.ModuleInstantiation, children...)
	}
	p.reset(mark)
	return p.parseVarDecl()
}

func (p *Parser) parsePortList() *syntax.Node {
	open := p.expect(token.OpenParen)
	children := []syntax.Child{tok(open)}
	if !p.at(token.CloseParen) {
		for {
			children = append(children, sub(p.parsePortItem()))
			if p.at(token.Comma) {
				children = append(children, tok(p.advance()))
				continue
			}
			break
		}
	}
	close := p.expect(token.CloseParen)
	children = append(children, tok(close))
	return p.node(syntax.PortList, children...)
}

func (p *Parser) parsePortItem() *syntax.Node {
	var dirTok token.Token
	hasDir := false
	switch p.current().Kind {
	case token.InputKeyword, token.OutputKeyword, token.InoutKeyword:
		dirTok = p.advance()
		hasDir = true
	}
	var typeTok token.Token
	hasType := false
	if dataTypeKeywords[p.current().Kind] {
		typeTok = p.advance()
		hasType = true
	}
	name := p.expect(token.Identifier)
	children := []syntax.Child{}
	if hasDir {
		children = append(children, tok(dirTok))
	}
	if hasType {
		children = append(children, tok(typeTok))
	}
	children = append(children, sub(p.node(syntax.IdentifierName, tok(name))))
	return p.node(syntax.PortDeclaration, children...)
}

// parsePortDeclaration parses a standalone ANSI-style port redeclaration
// at module scope, which (unlike a port-list entry) is terminated by its
// own `;` rather than a comma or the list's closing `)`.
func (p *Parser) parsePortDeclaration() *syntax.Node {
	n := p.parsePortItem()
	semi := p.consumeStatementTerminator()
	n.Children = append(n.Children, tok(semi))
	return n
}

func (p *Parser) parseParameterDeclaration() *syntax.Node {
	kw := p.advance()
	children := []syntax.Child{tok(kw)}
	if dataTypeKeywords[p.current().Kind] {
		children = append(children, tok(p.advance()))
	}
	name := p.expect(token.Identifier)
	children = append(children, sub(p.node(syntax.IdentifierName, tok(name))))
	if p.at(token.Equals) {
		eq := p.advance()
		val := p.ParseExpression()
		children = append(children, tok(eq), sub(val))
	}
	semi := p.consumeStatementTerminator()
	children = append(children, tok(semi))
	return p.node(syntax.ParameterDeclaration, children...)
}

func (p *Parser) parseGenerateBlock() *syntax.Node {
	kw := p.advance()
	children := []syntax.Child{tok(kw)}
	for !p.at(token.EndgenerateKeyword, token.EndOfFile) {
		before := p.mark()
		children = append(children, sub(p.parseModuleMember()))
		if p.mark() == before {
			p.advance()
		}
	}
	end := p.expect(token.EndgenerateKeyword)
	children = append(children, tok(end))
	return p.node(syntax.GenerateBlock, children...)
}

func (p *Parser) parseModport() *syntax.Node {
	kw := p.advance()
	name := p.expect(token.Identifier)
	semi := p.consumeStatementTerminator()
	return p.node(syntax.ModportDeclaration, tok(kw), sub(p.node(syntax.IdentifierName, tok(name))), tok(semi))
}

func (p *Parser) parseAssertion() *syntax.Node {
	kw := p.advance()
	open := p.expect(token.OpenParen)
	cond := p.ParseExpression()
	close := p.expect(token.CloseParen)
	semi := p.consumeStatementTerminator()
	return p.node(syntax.AssertionStatement, tok(kw), tok(open), sub(cond), tok(close), tok(semi))
}

func (p *Parser) parseTypedef() *syntax.Node {
	kw := p.advance()
	children := []syntax.Child{tok(kw)}
	if dataTypeKeywords[p.current().Kind] {
		children = append(children, tok(p.advance()))
	}
	name := p.expect(token.Identifier)
	children = append(children, sub(p.node(syntax.IdentifierName, tok(name))))
	semi := p.consumeStatementTerminator()
	children = append(children, tok(semi))
	return p.node(syntax.TypedefDeclaration, children...)
}

func (p *Parser) parseImport() *syntax.Node {
	kw := p.advance()
	pkg := p.expect(token.Identifier)
	children := []syntax.Child{tok(kw), sub(p.node(syntax.IdentifierName, tok(pkg)))}
	if p.at(token.ColonColon) {
		children = append(children, tok(p.advance()))
		if p.at(token.Star) {
			children = append(children, tok(p.advance()))
		} else {
			item := p.expect(token.Identifier)
			children = append(children, sub(p.node(syntax.IdentifierName, tok(item))))
		}
	}
	semi := p.consumeStatementTerminator()
	children = append(children, tok(semi))
	return p.node(syntax.ImportDeclaration, children...)
}

func (p *Parser) parseExport() *syntax.Node {
	kw := p.advance()
	children := []syntax.Child{tok(kw)}
	for !p.at(token.Semicolon, token.EndOfFile) {
		children = append(children, tok(p.advance()))
	}
	semi := p.consumeStatementTerminator()
	children = append(children, tok(semi))
	return p.node(syntax.ExportDeclaration, children...)
}

func (p *Parser) parsePackage() *syntax.Node {
	kw := p.advance()
	name := p.expect(token.Identifier)
	children := []syntax.Child{tok(kw), sub(p.node(syntax.IdentifierName, tok(name)))}
	semi := p.expect(token.Semicolon)
	children = append(children, tok(semi))
	for !p.at(token.EndpackageKeyword, token.EndOfFile) {
		before := p.mark()
		children = append(children, sub(p.parseDesignUnit()))
		if p.mark() == before {
			p.advance()
		}
	}
	end := p.expect(token.EndpackageKeyword)
	children = append(children, tok(end))
	return p.node(syntax.PackageDeclaration, children...)
}

// parseClass parses a class body's member list against a fixed
// qualifier table: `local`/`protected`/`static`/`virtual`/`pure`/
// `extern`/`rand`/`randc`/`const` prefix a data or method member in any
// combination the grammar allows, then a `function`/`task` or data
// declaration follows.
func (p *Parser) parseClass() *syntax.Node {
	kw := p.advance()
	name := p.expect(token.Identifier)
	children := []syntax.Child{tok(kw), sub(p.node(syntax.IdentifierName, tok(name)))}
	if p.at(token.ExtendsKeyword) {
		children = append(children, tok(p.advance()))
		base := p.expect(token.Identifier)
		children = append(children, sub(p.node(syntax.IdentifierName, tok(base))))
	}
	semi := p.expect(token.Semicolon)
	children = append(children, tok(semi))
	for !p.at(token.EndclassKeyword, token.EndOfFile) {
		before := p.mark()
		children = append(children, sub(p.parseClassMember()))
		if p.mark() == before {
			p.advance()
		}
	}
	end := p.expect(token.EndclassKeyword)
	children = append(children, tok(end))
	return p.node(syntax.ClassDeclaration, children...)
}

var classQualifiers = map[token.Kind]bool{
	token.LocalKeyword: true, token.ProtectedKeyword: true, token.StaticKeyword: true,
	token.VirtualKeyword: true, token.PureKeyword: true, token.ExternKeyword: true,
	token.RandKeyword: true, token.RandcKeyword: true, token.ConstKeyword: true,
}

func (p *Parser) parseClassMember() *syntax.Node {
	var quals []syntax.Child
	for classQualifiers[p.current().Kind] {
		quals = append(quals, tok(p.advance()))
	}
	var n *syntax.Node
	switch p.current().Kind {
	case token.FunctionKeyword:
		n = p.parseFunction()
	case token.TaskKeyword:
		n = p.parseTask()
	default:
		if dataTypeKeywords[p.current().Kind] {
			n = p.parseVarDecl()
		} else {
			p.errorf("unexpected-class-member", p.current().Kind)
			bad := p.advance()
			p.synchronize(false, token.Semicolon, token.EndOfFile)
			n = p.node(syntax.ErrorNode, tok(bad))
		}
	}
	n.Children = append(quals, n.Children...)
	return n
}

func (p *Parser) parseFunction() *syntax.Node {
	kw := p.advance()
	children := []syntax.Child{tok(kw)}
	if dataTypeKeywords[p.current().Kind] {
		children = append(children, tok(p.advance()))
	}
	name := p.expect(token.Identifier)
	children = append(children, sub(p.node(syntax.IdentifierName, tok(name))))
	if p.at(token.OpenParen) {
		children = append(children, sub(p.parsePortList()))
	}
	semi := p.expect(token.Semicolon)
	children = append(children, tok(semi))
	for !p.at(token.EndfunctionKeyword, token.EndOfFile) {
		before := p.mark()
		children = append(children, sub(p.ParseStatement()))
		if p.mark() == before {
			p.advance()
		}
	}
	end := p.expect(token.EndfunctionKeyword)
	children = append(children, tok(end))
	return p.node(syntax.FunctionDeclaration, children...)
}

func (p *Parser) parseTask() *syntax.Node {
	kw := p.advance()
	name := p.expect(token.Identifier)
	children := []syntax.Child{tok(kw), sub(p.node(syntax.IdentifierName, tok(name)))}
	if p.at(token.OpenParen) {
		children = append(children, sub(p.parsePortList()))
	}
	semi := p.expect(token.Semicolon)
	children = append(children, tok(semi))
	for !p.at(token.EndtaskKeyword, token.EndOfFile) {
		before := p.mark()
		children = append(children, sub(p.ParseStatement()))
		if p.mark() == before {
			p.advance()
		}
	}
	end := p.expect(token.EndtaskKeyword)
	children = append(children, tok(end))
	return p.node(syntax.TaskDeclaration, children...)
}
