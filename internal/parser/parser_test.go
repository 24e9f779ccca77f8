package parser

import (
	"testing"

	"pkc/internal/diag"
	"pkc/internal/entity"
	"pkc/internal/pyast"
	"pkc/internal/source"
)

func parseSnippet(t *testing.T, src string) (*pyast.Module, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte(src))
	bag := diag.NewBag(16)
	mod := ParseFile(fs.Get(id), &diag.BagReporter{Bag: bag})
	return mod, bag
}

func TestParseDecoratedWorkunit(t *testing.T) {
	src := `import pykokkos as pk

@pk.workunit
def square(i: int, view: pk.View1D[pk.double]):
    view[i] = view[i] * view[i]
`
	mod, bag := parseSnippet(t, src)
	if bag.Len() != 0 {
		for _, d := range bag.Items() {
			t.Logf("diag: %s %s", d.Code, d.Message)
		}
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	if len(mod.Body) != 2 {
		t.Fatalf("top-level statements = %d, want 2", len(mod.Body))
	}

	fn, ok := mod.Body[1].(*pyast.FunctionDef)
	if !ok {
		t.Fatalf("second statement is %T, want FunctionDef", mod.Body[1])
	}
	if fn.Name != "square" || len(fn.Params) != 2 || len(fn.Decorators) != 1 {
		t.Fatalf("unexpected def shape: %s params=%d decorators=%d",
			fn.Name, len(fn.Params), len(fn.Decorators))
	}
	if name, ok := pyast.DecoratorName(fn.Decorators[0], "pk"); !ok || name != "workunit" {
		t.Fatalf("decorator = %q ok=%v", name, ok)
	}

	assign, ok := fn.Body[0].(*pyast.Assign)
	if !ok {
		t.Fatalf("body[0] is %T, want Assign", fn.Body[0])
	}
	if _, ok := assign.Target.(*pyast.Subscript); !ok {
		t.Fatalf("assign target is %T, want Subscript", assign.Target)
	}
	mul, ok := assign.Value.(*pyast.BinOp)
	if !ok || mul.Op != pyast.OpMul {
		t.Fatalf("assign value is not a multiplication")
	}
}

func TestParsePrecedence(t *testing.T) {
	mod, bag := parseSnippet(t, "x = 1 + 2 * 3\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	assign := mod.Body[0].(*pyast.Assign)
	add := assign.Value.(*pyast.BinOp)
	if add.Op != pyast.OpAdd {
		t.Fatalf("top op = %v, want +", add.Op)
	}
	mul, ok := add.Right.(*pyast.BinOp)
	if !ok || mul.Op != pyast.OpMul {
		t.Fatalf("right operand should be the multiplication")
	}
}

func TestParseElifChain(t *testing.T) {
	src := `def f(x: int) -> int:
    if x > 2:
        return 2
    elif x > 1:
        return 1
    else:
        return 0
`
	mod, bag := parseSnippet(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	fn := mod.Body[0].(*pyast.FunctionDef)
	outer := fn.Body[0].(*pyast.If)
	if len(outer.Else) != 1 {
		t.Fatalf("outer else should hold nested if, got %d statements", len(outer.Else))
	}
	inner, ok := outer.Else[0].(*pyast.If)
	if !ok {
		t.Fatalf("outer else is %T, want If", outer.Else[0])
	}
	if len(inner.Else) != 1 {
		t.Fatalf("inner else length = %d, want 1", len(inner.Else))
	}
}

func TestParseForRange(t *testing.T) {
	src := `def f(n: int):
    total: pk.double = 0
    for i in range(n):
        total += 1
`
	mod, bag := parseSnippet(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	fn := mod.Body[0].(*pyast.FunctionDef)
	loop, ok := fn.Body[1].(*pyast.For)
	if !ok {
		t.Fatalf("body[1] is %T, want For", fn.Body[1])
	}
	call, ok := loop.Iter.(*pyast.Call)
	if !ok {
		t.Fatalf("iter is %T, want Call", loop.Iter)
	}
	if name, ok := call.Func.(*pyast.Name); !ok || name.ID != "range" {
		t.Fatalf("iter callee is not range")
	}
}

func TestParseAnnAssignSelfField(t *testing.T) {
	src := `class W:
    def __init__(self):
        self.n: pk.int32 = 0
        self.view: pk.View1D[pk.double] = pk.View([10], pk.double)
`
	mod, bag := parseSnippet(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	cls := mod.Body[0].(*pyast.ClassDef)
	init := cls.Body[0].(*pyast.FunctionDef)
	ann, ok := init.Body[0].(*pyast.AnnAssign)
	if !ok {
		t.Fatalf("body[0] is %T, want AnnAssign", init.Body[0])
	}
	attr, ok := ann.Target.(*pyast.Attribute)
	if !ok || attr.Attr != "n" {
		t.Fatalf("target is not self.n")
	}
	viewAnn := init.Body[1].(*pyast.AnnAssign).Annotation
	if _, ok := viewAnn.(*pyast.Subscript); !ok {
		t.Fatalf("view annotation is %T, want Subscript", viewAnn)
	}
}

func TestEntitiesWorkloadAndClasstypes(t *testing.T) {
	src := `import pykokkos as pk

@pk.classtype
class Point:
    def __init__(self):
        self.x: pk.double = 0
        self.y: pk.double = 0

@pk.workload
class Integrate:
    def __init__(self):
        self.n: pk.int32 = 0

    @pk.workunit
    def accum(self, i: int, acc: pk.Acc[pk.double]):
        acc += 1.0
`
	fs := source.NewFileSet()
	id := fs.AddVirtual("integrate.py", []byte(src))
	bag := diag.NewBag(16)
	main, classtypes := Entities(fs, id, &diag.BagReporter{Bag: bag})
	if bag.Len() != 0 {
		for _, d := range bag.Items() {
			t.Logf("diag: %s %s", d.Code, d.Message)
		}
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	if main == nil {
		t.Fatal("no main entity")
	}
	if main.Style != entity.StyleWorkload || main.Name != "Integrate" {
		t.Fatalf("main = %s %s", main.Style, main.Name)
	}
	if len(classtypes) != 1 || classtypes[0].Name != "Point" {
		t.Fatalf("classtypes = %v", classtypes)
	}
	if main.ImportAlias != "pk" {
		t.Fatalf("alias = %q", main.ImportAlias)
	}
}

func TestEntitiesFunctionGroup(t *testing.T) {
	src := `import pykokkos as pk

@pk.workunit
def square(i: int, view: pk.View1D[pk.double]):
    view[i] = view[i] * view[i]

@pk.function
def twice(x: pk.double) -> pk.double:
    return x * 2.0
`
	fs := source.NewFileSet()
	id := fs.AddVirtual("kernels.py", []byte(src))
	bag := diag.NewBag(16)
	main, classtypes := Entities(fs, id, &diag.BagReporter{Bag: bag})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	if main == nil || main.Style != entity.StyleFunctionGroup {
		t.Fatal("expected a function-group entity")
	}
	if main.Name != "kernels" {
		t.Fatalf("group name = %q", main.Name)
	}
	if len(classtypes) != 0 {
		t.Fatalf("unexpected classtypes: %d", len(classtypes))
	}
	group := main.AST.(*pyast.Module)
	if len(group.Body) != 2 {
		t.Fatalf("group defs = %d, want 2", len(group.Body))
	}
}

func TestEntitiesCustomAlias(t *testing.T) {
	src := `import pykokkos as kk

@kk.workunit
def fill(i: int, view: kk.View1D[kk.double]):
    view[i] = 1.0
`
	fs := source.NewFileSet()
	id := fs.AddVirtual("fill.py", []byte(src))
	bag := diag.NewBag(16)
	main, _ := Entities(fs, id, &diag.BagReporter{Bag: bag})
	if main == nil {
		t.Fatal("no main entity")
	}
	if main.ImportAlias != "kk" {
		t.Fatalf("alias = %q, want kk", main.ImportAlias)
	}
}
