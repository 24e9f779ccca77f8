package cppast

import (
	"strings"
	"testing"
)

func TestSerializeForwardDeclaration(t *testing.T) {
	full := RecordDecl{
		Name:       "Point",
		Definition: true,
		Fields: []FieldDecl{
			{Name: "x", Type: Type{Name: "double"}},
			{Name: "y", Type: Type{Name: "double"}},
		},
	}
	fwd := full.Forward()

	if fwd.Definition {
		t.Fatal("forward declaration still flagged as definition")
	}
	if fwd.Name != full.Name {
		t.Fatalf("name changed: %q vs %q", fwd.Name, full.Name)
	}
	// Deriving the forward declaration must not touch the original.
	if !full.Definition || len(full.Fields) != 2 {
		t.Fatal("full definition mutated by Forward()")
	}

	var s Serializer
	if got := s.Serialize(fwd); got != "struct Point;\n" {
		t.Fatalf("forward decl rendered as %q", got)
	}
	def := s.Serialize(full)
	if !strings.Contains(def, "struct Point {") || !strings.Contains(def, "double x;") {
		t.Fatalf("definition rendered as %q", def)
	}
}

func TestSerializeMethodWithTagOverload(t *testing.T) {
	m := MethodDecl{
		Name:  "operator()",
		Ret:   Type{Name: "void"},
		Attrs: []string{"KOKKOS_FUNCTION"},
		Const: true,
		Params: []ParamDecl{
			{Name: "", Type: Type{Name: "square_tag", Const: true, Ref: true}},
			{Name: "i", Type: Type{Name: "int", Const: true}},
		},
		Body: &Block{Stmts: []Stmt{
			Assign{
				LHS: ViewAccess{Base: DeclRef{Name: "view"}, Index: []Expr{DeclRef{Name: "i"}}},
				Op:  "=",
				RHS: Binary{
					Op: "*",
					L:  ViewAccess{Base: DeclRef{Name: "view"}, Index: []Expr{DeclRef{Name: "i"}}},
					R:  ViewAccess{Base: DeclRef{Name: "view"}, Index: []Expr{DeclRef{Name: "i"}}},
				},
			},
		}},
	}

	var s Serializer
	got := s.Serialize(m)
	want := "KOKKOS_FUNCTION void operator()(const square_tag &, const int i) const {\n" +
		"    view(i) = (view(i) * view(i));\n" +
		"}\n"
	if got != want {
		t.Fatalf("method rendered as:\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializeConstructorInits(t *testing.T) {
	m := MethodDecl{
		Name: "pk_functor_fill",
		Ctor: true,
		Params: []ParamDecl{
			{Name: "view_", Type: Type{Name: "Kokkos::View<double *>"}},
		},
		Inits: []CtorInit{{Member: "view", Value: DeclRef{Name: "view_"}}},
		Body:  &Block{},
	}
	var s Serializer
	got := s.Serialize(m)
	if !strings.Contains(got, ": view(view_)") {
		t.Fatalf("initializer list missing: %q", got)
	}
}

func TestSerializeControlFlow(t *testing.T) {
	var s Serializer
	loop := RangeFor{
		Var:     "j",
		VarType: Type{Name: "int"},
		From:    IntLit{Value: 0},
		To:      DeclRef{Name: "n"},
		Body: Block{Stmts: []Stmt{
			If{
				Cond: Binary{Op: ">", L: DeclRef{Name: "j"}, R: IntLit{Value: 2}},
				Then: Block{Stmts: []Stmt{Break{}}},
				Else: &Block{Stmts: []Stmt{Continue{}}},
			},
		}},
	}
	got := s.SerializeStmt(loop)
	for _, frag := range []string{"for (int j = 0; j < n; ++j) {", "if ((j > 2)) {", "} else {", "break;", "continue;"} {
		if !strings.Contains(got, frag) {
			t.Fatalf("missing %q in:\n%s", frag, got)
		}
	}
}

func TestSerializeDeterministic(t *testing.T) {
	r := RecordDecl{
		Name:       "pk_functor_x",
		Definition: true,
		Records:    []RecordDecl{{Name: "x_tag", Definition: true}},
		Fields:     []FieldDecl{{Name: "n", Type: Type{Name: "int32_t"}}},
	}
	var s Serializer
	first := s.Serialize(r)
	for i := 0; i < 4; i++ {
		if got := s.Serialize(r); got != first {
			t.Fatal("serializer output varies between calls")
		}
	}
	if !strings.Contains(first, "struct x_tag {};") {
		t.Fatalf("empty nested tag struct rendered wrong:\n%s", first)
	}
}
