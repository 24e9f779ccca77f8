// Package pyast models the annotated kernel subset of the host language.
// Nodes are produced once by the parser and treated as read-only by every
// later stage; upward context is carried in a side table, never written
// back into the tree.
package pyast

import (
	"pkc/internal/source"
)

// Node is implemented by every AST node.
type Node interface {
	Span() source.Span
	node()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmt()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	expr()
}

// Module is one parsed source file.
type Module struct {
	Body []Stmt
	Loc  source.Span
}

// Param is a single function parameter with an optional type annotation.
type Param struct {
	Name       string
	Annotation Expr
	Loc        source.Span
}

// FunctionDef is a (possibly decorated) def statement.
type FunctionDef struct {
	Name       string
	Decorators []Expr
	Params     []Param
	Returns    Expr
	Body       []Stmt
	Loc        source.Span
}

// ClassDef is a (possibly decorated) class statement.
type ClassDef struct {
	Name       string
	Decorators []Expr
	Body       []Stmt
	Loc        source.Span
}

// Assign is `target = value`.
type Assign struct {
	Target Expr
	Value  Expr
	Loc    source.Span
}

// AnnAssign is `target: annotation = value` (value may be nil).
type AnnAssign struct {
	Target     Expr
	Annotation Expr
	Value      Expr
	Loc        source.Span
}

// AugAssign is `target op= value`.
type AugAssign struct {
	Target Expr
	Op     BinOpKind
	Value  Expr
	Loc    source.Span
}

// If is a conditional with an optional else (elif chains nest in Else).
type If struct {
	Test Expr
	Body []Stmt
	Else []Stmt
	Loc  source.Span
}

// For is `for target in iter:` over a bounded range.
type For struct {
	Target *Name
	Iter   Expr
	Body   []Stmt
	Loc    source.Span
}

// While is a bounded while loop.
type While struct {
	Test Expr
	Body []Stmt
	Loc  source.Span
}

// Return is a return statement with an optional value.
type Return struct {
	Value Expr
	Loc   source.Span
}

// ExprStmt is a bare expression used as a statement (usually a call).
type ExprStmt struct {
	X   Expr
	Loc source.Span
}

// Pass is the no-op statement.
type Pass struct {
	Loc source.Span
}

// Break exits the nearest loop.
type Break struct {
	Loc source.Span
}

// Continue resumes the nearest loop.
type Continue struct {
	Loc source.Span
}

// Import is `import module [as alias]`.
type Import struct {
	Module string
	Alias  string
	Loc    source.Span
}

// Name is a bare identifier reference.
type Name struct {
	ID  string
	Loc source.Span
}

// Attribute is `value.attr`.
type Attribute struct {
	Value Expr
	Attr  string
	Loc   source.Span
}

// Subscript is `value[index, ...]`.
type Subscript struct {
	Value Expr
	Index []Expr
	Loc   source.Span
}

// Call is `fn(args...)`.
type Call struct {
	Func Expr
	Args []Expr
	Loc  source.Span
}

// BinOp covers arithmetic, comparison, and boolean operators.
type BinOp struct {
	Left  Expr
	Op    BinOpKind
	Right Expr
	Loc   source.Span
}

// UnaryOp is `-x` or `not x`.
type UnaryOp struct {
	Op      UnaryOpKind
	Operand Expr
	Loc     source.Span
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Loc   source.Span
}

// FloatLit is a floating-point literal; Text keeps the source spelling.
type FloatLit struct {
	Value float64
	Text  string
	Loc   source.Span
}

// StringLit is a string literal.
type StringLit struct {
	Value string
	Loc   source.Span
}

// BoolLit is True or False.
type BoolLit struct {
	Value bool
	Loc   source.Span
}

// NoneLit is None.
type NoneLit struct {
	Loc source.Span
}

// ListLit is `[a, b, ...]`.
type ListLit struct {
	Elts []Expr
	Loc  source.Span
}

func (n *Module) Span() source.Span      { return n.Loc }
func (n *FunctionDef) Span() source.Span { return n.Loc }
func (n *ClassDef) Span() source.Span    { return n.Loc }
func (n *Assign) Span() source.Span      { return n.Loc }
func (n *AnnAssign) Span() source.Span   { return n.Loc }
func (n *AugAssign) Span() source.Span   { return n.Loc }
func (n *If) Span() source.Span         { return n.Loc }
func (n *For) Span() source.Span        { return n.Loc }
func (n *While) Span() source.Span      { return n.Loc }
func (n *Return) Span() source.Span     { return n.Loc }
func (n *ExprStmt) Span() source.Span   { return n.Loc }
func (n *Pass) Span() source.Span       { return n.Loc }
func (n *Break) Span() source.Span      { return n.Loc }
func (n *Continue) Span() source.Span   { return n.Loc }
func (n *Import) Span() source.Span     { return n.Loc }
func (n *Name) Span() source.Span       { return n.Loc }
func (n *Attribute) Span() source.Span  { return n.Loc }
func (n *Subscript) Span() source.Span  { return n.Loc }
func (n *Call) Span() source.Span       { return n.Loc }
func (n *BinOp) Span() source.Span      { return n.Loc }
func (n *UnaryOp) Span() source.Span    { return n.Loc }
func (n *IntLit) Span() source.Span     { return n.Loc }
func (n *FloatLit) Span() source.Span   { return n.Loc }
func (n *StringLit) Span() source.Span  { return n.Loc }
func (n *BoolLit) Span() source.Span    { return n.Loc }
func (n *NoneLit) Span() source.Span    { return n.Loc }
func (n *ListLit) Span() source.Span    { return n.Loc }

func (*Module) node()      {}
func (*FunctionDef) node() {}
func (*ClassDef) node()    {}
func (*Assign) node()      {}
func (*AnnAssign) node()   {}
func (*AugAssign) node()   {}
func (*If) node()          {}
func (*For) node()         {}
func (*While) node()       {}
func (*Return) node()      {}
func (*ExprStmt) node()    {}
func (*Pass) node()        {}
func (*Break) node()       {}
func (*Continue) node()    {}
func (*Import) node()      {}
func (*Name) node()        {}
func (*Attribute) node()   {}
func (*Subscript) node()   {}
func (*Call) node()        {}
func (*BinOp) node()       {}
func (*UnaryOp) node()     {}
func (*IntLit) node()      {}
func (*FloatLit) node()    {}
func (*StringLit) node()   {}
func (*BoolLit) node()     {}
func (*NoneLit) node()     {}
func (*ListLit) node()     {}

func (*FunctionDef) stmt() {}
func (*ClassDef) stmt()    {}
func (*Assign) stmt()      {}
func (*AnnAssign) stmt()   {}
func (*AugAssign) stmt()   {}
func (*If) stmt()          {}
func (*For) stmt()         {}
func (*While) stmt()       {}
func (*Return) stmt()      {}
func (*ExprStmt) stmt()    {}
func (*Pass) stmt()        {}
func (*Break) stmt()       {}
func (*Continue) stmt()    {}
func (*Import) stmt()      {}

func (*Name) expr()      {}
func (*Attribute) expr() {}
func (*Subscript) expr() {}
func (*Call) expr()      {}
func (*BinOp) expr()     {}
func (*UnaryOp) expr()   {}
func (*IntLit) expr()    {}
func (*FloatLit) expr()  {}
func (*StringLit) expr() {}
func (*BoolLit) expr()   {}
func (*NoneLit) expr()   {}
func (*ListLit) expr()   {}
