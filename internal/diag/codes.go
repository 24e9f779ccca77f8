package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadIndent          Code = 1004
	LexTabIndent          Code = 1005

	// Syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectColon        Code = 2003
	SynExpectIndent       Code = 2004
	SynExpectExpression   Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBracket    Code = 2007
	SynBadDecorator       Code = 2008
	SynBadAnnotation      Code = 2009
	SynUnexpectedTopLevel Code = 2010

	// Membership and symbol resolution
	SemInfo                 Code = 3000
	SemMembership           Code = 3001
	SemUnresolvedSymbol     Code = 3002
	SemAmbiguousSymbol      Code = 3003
	SemDuplicateSymbol      Code = 3004
	SemMissingEntity        Code = 3005
	SemBadWorkunitSignature Code = 3006

	// Translation
	GenInfo                 Code = 4000
	GenUnsupportedConstruct Code = 4001
	GenBadViewType          Code = 4002
	GenBadScalarType        Code = 4003
)

func (c Code) String() string {
	return fmt.Sprintf("PK%04d", uint16(c))
}
