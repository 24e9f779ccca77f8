// Package cppast is the typed intermediate representation of the generated
// native code, plus its renderer. Nodes are plain values: cloning a
// declaration never shares mutable state with the original, which is what
// makes forward declarations safe to derive from full definitions.
package cppast

import (
	"strings"
)

// Node is implemented by every IR node.
type Node interface {
	node()
}

// Decl is implemented by declaration nodes.
type Decl interface {
	Node
	decl()
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

// Type is a rendered C++ type. Template arguments are already baked into
// Name (e.g. "Kokkos::View<double *>").
type Type struct {
	Name  string
	Const bool
	Ref   bool
}

func (t Type) String() string {
	var b strings.Builder
	if t.Const {
		b.WriteString("const ")
	}
	b.WriteString(t.Name)
	if t.Ref {
		b.WriteString(" &")
	}
	return b.String()
}

// RecordDecl is a struct declaration. Definition distinguishes a full
// definition from a forward declaration of the same record.
type RecordDecl struct {
	Name       string
	Definition bool
	Records    []RecordDecl // nested records (dispatch tag structs)
	Fields     []FieldDecl
	Methods    []MethodDecl
}

// Forward derives the forward declaration: same name, definition flag
// flipped, members omitted. The receiver is unchanged.
func (r RecordDecl) Forward() RecordDecl {
	return RecordDecl{Name: r.Name, Definition: false}
}

// FieldDecl is a data member.
type FieldDecl struct {
	Name string
	Type Type
}

// ParamDecl is one method parameter.
type ParamDecl struct {
	Name string
	Type Type
}

// CtorInit is one member initializer in a constructor.
type CtorInit struct {
	Member string
	Value  Expr
}

// MethodDecl is a member function. Ctor methods ignore Ret and render a
// member-initializer list instead.
type MethodDecl struct {
	Name   string
	Ret    Type
	Params []ParamDecl
	Attrs  []string // e.g. KOKKOS_FUNCTION
	Const  bool
	Ctor   bool
	Inits  []CtorInit
	Body   *Block
}

func (RecordDecl) node() {}
func (RecordDecl) decl() {}
func (FieldDecl) node()  {}
func (FieldDecl) decl()  {}
func (MethodDecl) node() {}
func (MethodDecl) decl() {}
