package token

var keywords = map[string]Kind{
	"def":      KwDef,
	"class":    KwClass,
	"return":   KwReturn,
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"for":      KwFor,
	"while":    KwWhile,
	"in":       KwIn,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
	"True":     KwTrue,
	"False":    KwFalse,
	"None":     KwNone,
	"import":   KwImport,
	"from":     KwFrom,
	"as":       KwAs,
	"pass":     KwPass,
	"break":    KwBreak,
	"continue": KwContinue,
}

// LookupKeyword maps an identifier spelling to its keyword kind, or Ident.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}
