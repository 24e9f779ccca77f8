package token

import (
	"pkc/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNone:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwDef, KwClass, KwReturn, KwIf, KwElif, KwElse, KwFor, KwWhile, KwIn,
		KwAnd, KwOr, KwNot, KwTrue, KwFalse, KwNone, KwImport, KwFrom, KwAs,
		KwPass, KwBreak, KwContinue:
		return true
	default:
		return false
	}
}

// IsLayout reports whether the token was synthesized from line layout.
func (t Token) IsLayout() bool {
	switch t.Kind {
	case Newline, Indent, Dedent:
		return true
	default:
		return false
	}
}
