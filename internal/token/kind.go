package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline marks a logical end of line.
	Newline
	// Indent is synthesized when a line opens a deeper block.
	Indent
	// Dedent is synthesized when a line closes one block level.
	Dedent

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a floating-point literal.
	FloatLit
	// StringLit represents a string literal.
	StringLit

	// KwDef represents the 'def' keyword.
	KwDef // def
	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElif represents the 'elif' keyword.
	KwElif // elif
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwAnd represents the 'and' keyword.
	KwAnd // and
	// KwOr represents the 'or' keyword.
	KwOr // or
	// KwNot represents the 'not' keyword.
	KwNot // not
	// KwTrue represents the 'True' keyword.
	KwTrue // True
	// KwFalse represents the 'False' keyword.
	KwFalse // False
	// KwNone represents the 'None' keyword.
	KwNone // None
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwFrom represents the 'from' keyword.
	KwFrom // from
	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwPass represents the 'pass' keyword.
	KwPass // pass
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue

	// Plus represents '+'.
	Plus
	// Minus represents '-'.
	Minus
	// Star represents '*'.
	Star
	// StarStar represents '**'.
	StarStar
	// Slash represents '/'.
	Slash
	// SlashSlash represents '//' (floor division).
	SlashSlash
	// Percent represents '%'.
	Percent
	// Assign represents '='.
	Assign
	// PlusAssign represents '+='.
	PlusAssign
	// MinusAssign represents '-='.
	MinusAssign
	// StarAssign represents '*='.
	StarAssign
	// SlashAssign represents '/='.
	SlashAssign
	// EqEq represents '=='.
	EqEq
	// BangEq represents '!='.
	BangEq
	// Lt represents '<'.
	Lt
	// LtEq represents '<='.
	LtEq
	// Gt represents '>'.
	Gt
	// GtEq represents '>='.
	GtEq
	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
	// LBracket represents '['.
	LBracket
	// RBracket represents ']'.
	RBracket
	// Colon represents ':'.
	Colon
	// Comma represents ','.
	Comma
	// Dot represents '.'.
	Dot
	// At represents '@' opening a decorator.
	At
	// Arrow represents '->' in a return annotation.
	Arrow
)

var kindNames = map[Kind]string{
	Invalid:     "invalid",
	EOF:         "eof",
	Newline:     "newline",
	Indent:      "indent",
	Dedent:      "dedent",
	Ident:       "ident",
	IntLit:      "int",
	FloatLit:    "float",
	StringLit:   "string",
	KwDef:       "def",
	KwClass:     "class",
	KwReturn:    "return",
	KwIf:        "if",
	KwElif:      "elif",
	KwElse:      "else",
	KwFor:       "for",
	KwWhile:     "while",
	KwIn:        "in",
	KwAnd:       "and",
	KwOr:        "or",
	KwNot:       "not",
	KwTrue:      "True",
	KwFalse:     "False",
	KwNone:      "None",
	KwImport:    "import",
	KwFrom:      "from",
	KwAs:        "as",
	KwPass:      "pass",
	KwBreak:     "break",
	KwContinue:  "continue",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	StarStar:    "**",
	Slash:       "/",
	SlashSlash:  "//",
	Percent:     "%",
	Assign:      "=",
	PlusAssign:  "+=",
	MinusAssign: "-=",
	StarAssign:  "*=",
	SlashAssign: "/=",
	EqEq:        "==",
	BangEq:      "!=",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	LParen:      "(",
	RParen:      ")",
	LBracket:    "[",
	RBracket:    "]",
	Colon:       ":",
	Comma:       ",",
	Dot:         ".",
	At:          "@",
	Arrow:       "->",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
