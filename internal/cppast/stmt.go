package cppast

// Block is a braced statement sequence.
type Block struct {
	Stmts []Stmt
}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	X Expr
}

// DeclStmt declares one local variable with an optional initializer.
type DeclStmt struct {
	Type Type
	Name string
	Init Expr
}

// Assign is `lhs op rhs;` where Op is "=", "+=", etc.
type Assign struct {
	LHS Expr
	Op  string
	RHS Expr
}

// If is a conditional; Else may be nil.
type If struct {
	Cond Expr
	Then Block
	Else *Block
}

// RangeFor is the bounded counting loop `for (T v = from; v < to; ++v)`.
type RangeFor struct {
	Var     string
	VarType Type
	From    Expr
	To      Expr
	Body    Block
}

// While is a condition-checked loop.
type While struct {
	Cond Expr
	Body Block
}

// Return exits the enclosing function; Value may be nil.
type Return struct {
	Value Expr
}

// Break exits the nearest loop.
type Break struct{}

// Continue resumes the nearest loop.
type Continue struct{}

func (Block) node()    {}
func (Block) stmt()    {}
func (ExprStmt) node() {}
func (ExprStmt) stmt() {}
func (DeclStmt) node() {}
func (DeclStmt) stmt() {}
func (Assign) node()   {}
func (Assign) stmt()   {}
func (If) node()       {}
func (If) stmt()       {}
func (RangeFor) node() {}
func (RangeFor) stmt() {}
func (While) node()    {}
func (While) stmt()    {}
func (Return) node()   {}
func (Return) stmt()   {}
func (Break) node()    {}
func (Break) stmt()    {}
func (Continue) node() {}
func (Continue) stmt() {}
