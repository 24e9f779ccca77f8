package cppast

// DeclRef is a bare name reference.
type DeclRef struct {
	Name string
}

// Member is `base.name`.
type Member struct {
	Base Expr
	Name string
}

// CallExpr is `fn(args...)`.
type CallExpr struct {
	Fn   Expr
	Args []Expr
}

// ViewAccess renders Kokkos-style element access `base(i, j)`.
type ViewAccess struct {
	Base  Expr
	Index []Expr
}

// Binary is an infix operation.
type Binary struct {
	Op string
	L  Expr
	R  Expr
}

// Unary is a prefix operation.
type Unary struct {
	Op string
	X  Expr
}

// Cast is `static_cast<T>(x)`.
type Cast struct {
	Type Type
	X    Expr
}

// IntLit is an integer literal with an optional width suffix.
type IntLit struct {
	Value  int64
	Suffix string
}

// FloatLit keeps the source spelling; Single appends the f suffix.
type FloatLit struct {
	Text   string
	Single bool
}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
}

// StrLit is a quoted string literal.
type StrLit struct {
	Value string
}

func (DeclRef) node()    {}
func (DeclRef) expr()    {}
func (Member) node()     {}
func (Member) expr()     {}
func (CallExpr) node()   {}
func (CallExpr) expr()   {}
func (ViewAccess) node() {}
func (ViewAccess) expr() {}
func (Binary) node()     {}
func (Binary) expr()     {}
func (Unary) node()      {}
func (Unary) expr()      {}
func (Cast) node()       {}
func (Cast) expr()       {}
func (IntLit) node()     {}
func (IntLit) expr()     {}
func (FloatLit) node()   {}
func (FloatLit) expr()   {}
func (BoolLit) node()    {}
func (BoolLit) expr()    {}
func (StrLit) node()     {}
func (StrLit) expr()     {}
