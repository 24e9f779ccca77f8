// Package parser builds pyast trees and entities from token streams. The
// grammar is the restricted kernel subset: decorated defs and classes,
// assignments, conditionals, bounded loops, calls, subscripts, and typed
// literals.
package parser

import (
	"strconv"

	"pkc/internal/diag"
	"pkc/internal/lexer"
	"pkc/internal/pyast"
	"pkc/internal/source"
	"pkc/internal/token"
)

type Parser struct {
	toks     []token.Token
	pos      int
	reporter diag.Reporter
}

func New(toks []token.Token, reporter diag.Reporter) *Parser {
	return &Parser{toks: toks, reporter: reporter}
}

// ParseFile tokenizes and parses one file into a module AST.
func ParseFile(file *source.File, reporter diag.Reporter) *pyast.Module {
	toks := lexer.Tokenize(file, reporter)
	return New(toks, reporter).ParseModule()
}

// ParseModule parses the token stream until EOF.
func (p *Parser) ParseModule() *pyast.Module {
	mod := &pyast.Module{}
	if len(p.toks) > 0 {
		mod.Loc = p.toks[0].Span.Cover(p.toks[len(p.toks)-1].Span)
	}
	for !p.at(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			mod.Body = append(mod.Body, stmt)
		}
	}
	return mod
}

func (p *Parser) parseStatement() pyast.Stmt {
	switch p.peek().Kind {
	case token.At:
		return p.parseDecorated()
	case token.KwDef:
		return p.parseFunctionDef(nil)
	case token.KwClass:
		return p.parseClassDef(nil)
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwImport:
		return p.parseImport()
	case token.KwPass:
		tk := p.next()
		p.expectNewline()
		return &pyast.Pass{Loc: tk.Span}
	case token.KwBreak:
		tk := p.next()
		p.expectNewline()
		return &pyast.Break{Loc: tk.Span}
	case token.KwContinue:
		tk := p.next()
		p.expectNewline()
		return &pyast.Continue{Loc: tk.Span}
	case token.Newline:
		p.next()
		return nil
	case token.Indent, token.Dedent:
		// Layout error already reported by the lexer; resynchronize.
		p.next()
		return nil
	default:
		return p.parseSimple()
	}
}

// parseDecorated parses one or more `@dotted.name` lines followed by a
// def or class.
func (p *Parser) parseDecorated() pyast.Stmt {
	var decorators []pyast.Expr
	for p.at(token.At) {
		p.next()
		dec := p.parsePostfix(p.parsePrimary())
		decorators = append(decorators, dec)
		p.expectNewline()
	}
	switch p.peek().Kind {
	case token.KwDef:
		return p.parseFunctionDef(decorators)
	case token.KwClass:
		return p.parseClassDef(decorators)
	default:
		p.errorHere(diag.SynBadDecorator, "decorator must be followed by def or class")
		p.syncLine()
		return nil
	}
}

func (p *Parser) parseFunctionDef(decorators []pyast.Expr) pyast.Stmt {
	start := p.expect(token.KwDef)
	name := p.expectIdent()
	p.expect(token.LParen)

	var params []pyast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		pname := p.expectIdent()
		param := pyast.Param{Name: pname.Text, Loc: pname.Span}
		if p.at(token.Colon) {
			p.next()
			param.Annotation = p.parseExpr()
		}
		params = append(params, param)
		if !p.at(token.Comma) {
			break
		}
		p.next()
	}
	p.expect(token.RParen)

	var returns pyast.Expr
	if p.at(token.Arrow) {
		p.next()
		returns = p.parseExpr()
	}

	body := p.parseBlock()
	return &pyast.FunctionDef{
		Name:       name.Text,
		Decorators: decorators,
		Params:     params,
		Returns:    returns,
		Body:       body,
		Loc:        start.Span.Cover(name.Span),
	}
}

func (p *Parser) parseClassDef(decorators []pyast.Expr) pyast.Stmt {
	start := p.expect(token.KwClass)
	name := p.expectIdent()
	// Base lists are not part of the subset; consume an empty () if present.
	if p.at(token.LParen) {
		p.next()
		p.expect(token.RParen)
	}
	body := p.parseBlock()
	return &pyast.ClassDef{
		Name:       name.Text,
		Decorators: decorators,
		Body:       body,
		Loc:        start.Span.Cover(name.Span),
	}
}

// parseIf handles both `if` and a continuing `elif`; the chain nests as a
// single-statement else.
func (p *Parser) parseIf() pyast.Stmt {
	start := p.next() // if or elif
	test := p.parseExpr()
	body := p.parseBlock()
	stmt := &pyast.If{Test: test, Body: body, Loc: start.Span}

	switch p.peek().Kind {
	case token.KwElif:
		stmt.Else = []pyast.Stmt{p.parseIf()}
	case token.KwElse:
		p.next()
		stmt.Else = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseFor() pyast.Stmt {
	start := p.expect(token.KwFor)
	target := p.expectIdent()
	p.expect(token.KwIn)
	iter := p.parseExpr()
	body := p.parseBlock()
	return &pyast.For{
		Target: &pyast.Name{ID: target.Text, Loc: target.Span},
		Iter:   iter,
		Body:   body,
		Loc:    start.Span,
	}
}

func (p *Parser) parseWhile() pyast.Stmt {
	start := p.expect(token.KwWhile)
	test := p.parseExpr()
	body := p.parseBlock()
	return &pyast.While{Test: test, Body: body, Loc: start.Span}
}

func (p *Parser) parseReturn() pyast.Stmt {
	start := p.expect(token.KwReturn)
	ret := &pyast.Return{Loc: start.Span}
	if !p.at(token.Newline) && !p.at(token.EOF) {
		ret.Value = p.parseExpr()
	}
	p.expectNewline()
	return ret
}

func (p *Parser) parseImport() pyast.Stmt {
	start := p.expect(token.KwImport)
	mod := p.expectIdent()
	imp := &pyast.Import{Module: mod.Text, Loc: start.Span.Cover(mod.Span)}
	if p.at(token.KwAs) {
		p.next()
		alias := p.expectIdent()
		imp.Alias = alias.Text
	}
	p.expectNewline()
	return imp
}

// parseSimple parses assignment forms and bare expression statements.
func (p *Parser) parseSimple() pyast.Stmt {
	target := p.parseExpr()
	loc := target.Span()

	switch p.peek().Kind {
	case token.Assign:
		p.next()
		value := p.parseExpr()
		p.expectNewline()
		return &pyast.Assign{Target: target, Value: value, Loc: loc}
	case token.Colon:
		p.next()
		annotation := p.parseExpr()
		stmt := &pyast.AnnAssign{Target: target, Annotation: annotation, Loc: loc}
		if p.at(token.Assign) {
			p.next()
			stmt.Value = p.parseExpr()
		}
		p.expectNewline()
		return stmt
	case token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign:
		op := pyast.OpAdd
		switch p.next().Kind {
		case token.MinusAssign:
			op = pyast.OpSub
		case token.StarAssign:
			op = pyast.OpMul
		case token.SlashAssign:
			op = pyast.OpDiv
		}
		value := p.parseExpr()
		p.expectNewline()
		return &pyast.AugAssign{Target: target, Op: op, Value: value, Loc: loc}
	default:
		p.expectNewline()
		return &pyast.ExprStmt{X: target, Loc: loc}
	}
}

// parseBlock expects `: NEWLINE INDENT stmts DEDENT`.
func (p *Parser) parseBlock() []pyast.Stmt {
	p.expect(token.Colon)
	p.expectNewline()
	if !p.at(token.Indent) {
		p.errorHere(diag.SynExpectIndent, "expected an indented block")
		return nil
	}
	p.next()

	var body []pyast.Stmt
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			body = append(body, stmt)
		}
	}
	if p.at(token.Dedent) {
		p.next()
	}
	return body
}

func (p *Parser) at(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) next() token.Token {
	tk := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tk
}

func (p *Parser) expect(kind token.Kind) token.Token {
	if p.at(kind) {
		return p.next()
	}
	p.errorHere(diag.SynUnexpectedToken,
		"expected "+kind.String()+", found "+p.peek().Kind.String())
	return token.Token{Kind: kind, Span: p.peek().Span}
}

func (p *Parser) expectIdent() token.Token {
	if p.at(token.Ident) {
		return p.next()
	}
	p.errorHere(diag.SynExpectIdentifier, "expected identifier, found "+p.peek().Kind.String())
	return token.Token{Kind: token.Ident, Span: p.peek().Span}
}

func (p *Parser) expectNewline() {
	if p.at(token.Newline) {
		p.next()
		return
	}
	if p.at(token.EOF) || p.at(token.Dedent) {
		return
	}
	p.errorHere(diag.SynUnexpectedToken, "expected end of line, found "+p.peek().Kind.String())
	p.syncLine()
}

// syncLine skips tokens up to and including the next Newline.
func (p *Parser) syncLine() {
	for !p.at(token.Newline) && !p.at(token.EOF) {
		p.next()
	}
	if p.at(token.Newline) {
		p.next()
	}
}

func (p *Parser) errorHere(code diag.Code, msg string) {
	diag.Error(p.reporter, code, p.peek().Span, msg)
}

func parseIntText(text string) int64 {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloatText(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return v
}
