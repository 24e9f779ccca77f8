// Package lexer tokenizes the annotated kernel subset. The grammar is
// indentation sensitive, so the lexer synthesizes Newline, Indent, and
// Dedent tokens from line layout the way the parser expects blocks to be
// delimited.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"pkc/internal/diag"
	"pkc/internal/source"
	"pkc/internal/token"
)

type Lexer struct {
	file     *source.File
	reporter diag.Reporter

	pos     uint32
	indents []uint32 // open indentation levels, always starts with 0
	parens  int      // bracket nesting depth; layout is off inside brackets
	atBOL   bool
	out     []token.Token
}

func New(file *source.File, reporter diag.Reporter) *Lexer {
	return &Lexer{
		file:     file,
		reporter: reporter,
		indents:  []uint32{0},
		atBOL:    true,
	}
}

// Tokenize scans the whole file and returns its token stream, ending with
// any pending Dedents and a single EOF.
func Tokenize(file *source.File, reporter diag.Reporter) []token.Token {
	return New(file, reporter).Run()
}

func (lx *Lexer) Run() []token.Token {
	for {
		if lx.atBOL && lx.parens == 0 {
			if done := lx.handleLineStart(); done {
				break
			}
			continue
		}
		if lx.eof() {
			break
		}

		ch := lx.peek()
		switch {
		case ch == '\n':
			lx.pos++
			if lx.parens == 0 {
				lx.emit(token.Newline, lx.pos-1, lx.pos, "")
				lx.atBOL = true
			}
		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.pos++
		case ch == '#':
			lx.skipComment()
		case isIdentStart(ch):
			lx.scanIdentOrKeyword()
		case isDec(ch):
			lx.scanNumber()
		case ch == '"' || ch == '\'':
			lx.scanString(ch)
		default:
			lx.scanOperatorOrPunct()
		}
	}

	lx.finish()
	return lx.out
}

// handleLineStart measures indentation and emits Indent/Dedent tokens.
// Blank and comment-only lines produce no layout tokens at all.
func (lx *Lexer) handleLineStart() (done bool) {
	lineStart := lx.pos
	width := uint32(0)
	for !lx.eof() {
		switch lx.peek() {
		case ' ':
			width++
			lx.pos++
			continue
		case '\t':
			diag.Error(lx.reporter, diag.LexTabIndent,
				lx.span(lx.pos, lx.pos+1), "tab in indentation; use spaces")
			width += 8 - width%8
			lx.pos++
			continue
		}
		break
	}
	if lx.eof() {
		return true
	}
	switch lx.peek() {
	case '\n':
		lx.pos++ // blank line
		return false
	case '#':
		lx.skipComment()
		return false
	case '\r':
		lx.pos++
		return false
	}

	lx.atBOL = false
	top := lx.indents[len(lx.indents)-1]
	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.emit(token.Indent, lineStart, lx.pos, "")
	case width < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > width {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(token.Dedent, lineStart, lx.pos, "")
		}
		if lx.indents[len(lx.indents)-1] != width {
			diag.Error(lx.reporter, diag.LexBadIndent,
				lx.span(lineStart, lx.pos), "unindent does not match any outer block")
		}
	}
	return false
}

// finish closes the final line and any open blocks.
func (lx *Lexer) finish() {
	if len(lx.out) > 0 && !lx.atBOL {
		lx.emit(token.Newline, lx.pos, lx.pos, "")
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(token.Dedent, lx.pos, lx.pos, "")
	}
	lx.emit(token.EOF, lx.pos, lx.pos, "")
}

func (lx *Lexer) scanIdentOrKeyword() {
	start := lx.pos
	for !lx.eof() {
		r, size := lx.peekRune()
		if !isIdentContinueRune(r) {
			break
		}
		lx.pos += uint32(size) // #nosec G115 -- rune size is 1..4
	}
	text := string(lx.file.Content[start:lx.pos])
	if hasNonASCII(text) {
		text = norm.NFC.String(text)
	}
	kind := token.LookupKeyword(text)
	lx.emit(kind, start, lx.pos, text)
}

func (lx *Lexer) scanNumber() {
	start := lx.pos
	isFloat := false
	for !lx.eof() && isDec(lx.peek()) {
		lx.pos++
	}
	if !lx.eof() && lx.peek() == '.' {
		isFloat = true
		lx.pos++
		for !lx.eof() && isDec(lx.peek()) {
			lx.pos++
		}
	}
	if !lx.eof() && (lx.peek() == 'e' || lx.peek() == 'E') {
		isFloat = true
		lx.pos++
		if !lx.eof() && (lx.peek() == '+' || lx.peek() == '-') {
			lx.pos++
		}
		if lx.eof() || !isDec(lx.peek()) {
			diag.Error(lx.reporter, diag.LexBadNumber,
				lx.span(start, lx.pos), "malformed exponent in numeric literal")
			lx.emit(token.Invalid, start, lx.pos, string(lx.file.Content[start:lx.pos]))
			return
		}
		for !lx.eof() && isDec(lx.peek()) {
			lx.pos++
		}
	}
	// A number must not run straight into an identifier.
	if !lx.eof() {
		if r, _ := lx.peekRune(); isIdentStartRune(r) {
			diag.Error(lx.reporter, diag.LexBadNumber,
				lx.span(start, lx.pos+1), "identifier character after numeric literal")
		}
	}

	kind := token.IntLit
	if isFloat {
		kind = token.FloatLit
	}
	lx.emit(kind, start, lx.pos, string(lx.file.Content[start:lx.pos]))
}

func (lx *Lexer) scanString(quote byte) {
	start := lx.pos
	lx.pos++ // opening quote
	for !lx.eof() {
		ch := lx.peek()
		if ch == '\n' {
			break
		}
		lx.pos++
		if ch == '\\' && !lx.eof() {
			lx.pos++
			continue
		}
		if ch == quote {
			text := string(lx.file.Content[start+1 : lx.pos-1])
			lx.emit(token.StringLit, start, lx.pos, text)
			return
		}
	}
	diag.Error(lx.reporter, diag.LexUnterminatedString,
		lx.span(start, lx.pos), "unterminated string literal")
	lx.emit(token.Invalid, start, lx.pos, string(lx.file.Content[start:lx.pos]))
}

func (lx *Lexer) scanOperatorOrPunct() {
	start := lx.pos
	ch := lx.next()

	two := func(second byte, pair, single token.Kind) token.Kind {
		if !lx.eof() && lx.peek() == second {
			lx.pos++
			return pair
		}
		return single
	}

	var kind token.Kind
	switch ch {
	case '+':
		kind = two('=', token.PlusAssign, token.Plus)
	case '-':
		if !lx.eof() && lx.peek() == '>' {
			lx.pos++
			kind = token.Arrow
		} else {
			kind = two('=', token.MinusAssign, token.Minus)
		}
	case '*':
		if !lx.eof() && lx.peek() == '*' {
			lx.pos++
			kind = token.StarStar
		} else {
			kind = two('=', token.StarAssign, token.Star)
		}
	case '/':
		if !lx.eof() && lx.peek() == '/' {
			lx.pos++
			kind = token.SlashSlash
		} else {
			kind = two('=', token.SlashAssign, token.Slash)
		}
	case '%':
		kind = token.Percent
	case '=':
		kind = two('=', token.EqEq, token.Assign)
	case '!':
		if !lx.eof() && lx.peek() == '=' {
			lx.pos++
			kind = token.BangEq
		} else {
			kind = token.Invalid
		}
	case '<':
		kind = two('=', token.LtEq, token.Lt)
	case '>':
		kind = two('=', token.GtEq, token.Gt)
	case '(':
		lx.parens++
		kind = token.LParen
	case ')':
		if lx.parens > 0 {
			lx.parens--
		}
		kind = token.RParen
	case '[':
		lx.parens++
		kind = token.LBracket
	case ']':
		if lx.parens > 0 {
			lx.parens--
		}
		kind = token.RBracket
	case ':':
		kind = token.Colon
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case '@':
		kind = token.At
	default:
		diag.Error(lx.reporter, diag.LexUnknownChar,
			lx.span(start, lx.pos), "unexpected character "+string(rune(ch)))
		kind = token.Invalid
	}
	lx.emit(kind, start, lx.pos, string(lx.file.Content[start:lx.pos]))
}

func (lx *Lexer) skipComment() {
	for !lx.eof() && lx.peek() != '\n' {
		lx.pos++
	}
}

func (lx *Lexer) emit(kind token.Kind, start, end uint32, text string) {
	lx.out = append(lx.out, token.Token{
		Kind: kind,
		Span: lx.span(start, end),
		Text: text,
	})
}

func (lx *Lexer) span(start, end uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: end}
}

func (lx *Lexer) eof() bool {
	return int(lx.pos) >= len(lx.file.Content)
}

func (lx *Lexer) peek() byte {
	return lx.file.Content[lx.pos]
}

func (lx *Lexer) peekRune() (rune, int) {
	return utf8.DecodeRune(lx.file.Content[lx.pos:])
}

func (lx *Lexer) next() byte {
	ch := lx.file.Content[lx.pos]
	lx.pos++
	return ch
}

func isDec(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= utf8.RuneSelf
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
