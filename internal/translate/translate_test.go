package translate

import (
	"errors"
	"strings"
	"testing"

	"pkc/internal/cppast"
	"pkc/internal/diag"
	"pkc/internal/parser"
	"pkc/internal/pyast"
	"pkc/internal/source"
)

// compile parses src as kernel.py and runs the full pipeline.
func compile(t *testing.T, src string) (*Artifacts, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("kernel.py", []byte(src))

	parseBag := diag.NewBag(32)
	main, classtypes := parser.Entities(fs, id, &diag.BagReporter{Bag: parseBag})
	if parseBag.HasErrors() {
		t.Fatalf("parse errors: %v", parseBag.Items())
	}
	if main == nil {
		t.Fatalf("no entity found in source")
	}
	return New("test_module", "functor.hpp").Translate(main, classtypes)
}

func mustCompile(t *testing.T, src string) *Artifacts {
	t.Helper()
	artifacts, bag, err := compile(t, src)
	if err != nil {
		t.Fatalf("Translate: %v (diagnostics: %v)", err, bag.Items())
	}
	return artifacts
}

func wantContains(t *testing.T, text, sub string) {
	t.Helper()
	if !strings.Contains(text, sub) {
		t.Errorf("output does not contain %q\n%s", sub, text)
	}
}

func TestFunctionGroupParallelFor(t *testing.T) {
	artifacts := mustCompile(t, `import pykokkos as pk

@pk.workunit
def scale(i: int, a: pk.View1D[pk.double], s: pk.double):
    a[i] = a[i] * s
`)

	wantContains(t, artifacts.Functor, Stamp)
	wantContains(t, artifacts.Functor, "struct pk_functor_kernel {")
	wantContains(t, artifacts.Functor, "struct scale_tag {};")
	wantContains(t, artifacts.Functor, "Kokkos::View<double *> a;")
	wantContains(t, artifacts.Functor, "double s;")
	wantContains(t, artifacts.Functor,
		"pk_functor_kernel(Kokkos::View<double *> _a, double _s) : a(_a), s(_s)")
	wantContains(t, artifacts.Functor,
		"KOKKOS_FUNCTION void operator()(const scale_tag &, const int i) const {")
	wantContains(t, artifacts.Functor, "a(i) = (a(i) * s);")

	bindings := artifacts.BindingsSource()
	wantContains(t, bindings, Stamp)
	wantContains(t, bindings, "#include <pybind11/pybind11.h>")
	wantContains(t, bindings, "#include \"functor.hpp\"")
	wantContains(t, bindings, "void run_scale(int pk_threads, Kokkos::View<double *> a, double s) {")
	wantContains(t, bindings, "pk_functor_kernel pk_f(a, s);")
	wantContains(t, bindings,
		"Kokkos::parallel_for(Kokkos::RangePolicy<pk_functor_kernel::scale_tag>(0, pk_threads), pk_f);")
	wantContains(t, bindings, "PYBIND11_MODULE(test_module, pk_m) {")
	wantContains(t, bindings, "pk_m.def(\"run_scale\", &run_scale);")
}

func TestDispatchInference(t *testing.T) {
	// Three signatures per category: the accumulator may sit anywhere
	// after the thread index, with any data parameter arrangement.
	artifacts := mustCompile(t, `import pykokkos as pk

@pk.workunit
def fill(i: int, a: pk.View1D[pk.double]):
    a[i] = 1.0

@pk.workunit
def copy(i: int, src: pk.View1D[pk.int32], dst: pk.View1D[pk.int32]):
    dst[i] = src[i]

@pk.workunit
def relax(i: int, a: pk.View1D[pk.double], w: pk.double, n: pk.int32):
    a[i] = a[i] * w

@pk.workunit
def total(i: int, acc: pk.Acc[pk.double], a: pk.View1D[pk.double]):
    acc += a[i]

@pk.workunit
def hits(i: int, b: pk.View1D[pk.int32], acc: pk.Acc[pk.int32]):
    if b[i] > 0:
        acc += 1

@pk.workunit
def dotp(i: int, x: pk.View1D[pk.double], y: pk.View1D[pk.double], acc: pk.Acc[pk.double]):
    acc += x[i] * y[i]

@pk.workunit
def prefix(i: int, acc: pk.Acc[pk.int32], last: pk.bool, b: pk.View1D[pk.int32]):
    acc += b[i]
    if last:
        b[i] = acc

@pk.workunit
def runsum(i: int, a: pk.View1D[pk.double], acc: pk.Acc[pk.double], last: pk.bool):
    acc += a[i]
    if last:
        a[i] = acc

@pk.workunit
def offsets(i: int, counts: pk.View1D[pk.int64], acc: pk.Acc[pk.int64], last: pk.bool, out: pk.View1D[pk.int64]):
    acc += counts[i]
    if last:
        out[i] = acc - counts[i]
`)

	wantContains(t, artifacts.Functor,
		"void operator()(const fill_tag &, const int i) const")
	wantContains(t, artifacts.Functor,
		"void operator()(const copy_tag &, const int i) const")
	wantContains(t, artifacts.Functor,
		"void operator()(const relax_tag &, const int i) const")
	wantContains(t, artifacts.Functor,
		"void operator()(const total_tag &, const int i, double & acc) const")
	wantContains(t, artifacts.Functor,
		"void operator()(const hits_tag &, const int i, int32_t & acc) const")
	wantContains(t, artifacts.Functor,
		"void operator()(const dotp_tag &, const int i, double & acc) const")
	wantContains(t, artifacts.Functor,
		"void operator()(const prefix_tag &, const int i, int32_t & acc, const bool last) const")
	wantContains(t, artifacts.Functor,
		"void operator()(const runsum_tag &, const int i, double & acc, const bool last) const")
	wantContains(t, artifacts.Functor,
		"void operator()(const offsets_tag &, const int i, int64_t & acc, const bool last) const")

	bindings := artifacts.BindingsSource()
	wantContains(t, bindings, "void run_fill(int pk_threads")
	wantContains(t, bindings, "void run_copy(int pk_threads")
	wantContains(t, bindings, "void run_relax(int pk_threads")
	wantContains(t, bindings, "double run_total(int pk_threads")
	wantContains(t, bindings, "int32_t run_hits(int pk_threads")
	wantContains(t, bindings, "double run_dotp(int pk_threads")
	wantContains(t, bindings, "int32_t run_prefix(int pk_threads")
	wantContains(t, bindings, "double run_runsum(int pk_threads")
	wantContains(t, bindings, "int64_t run_offsets(int pk_threads")
	wantContains(t, bindings, "Kokkos::parallel_reduce(")
	wantContains(t, bindings, "Kokkos::parallel_scan(")
	wantContains(t, bindings, "return pk_acc;")
}

func TestWorkloadDriver(t *testing.T) {
	artifacts := mustCompile(t, `import pykokkos as pk

@pk.workload
class Sum:
    def __init__(self, n: int, a: pk.View1D[pk.double]):
        self.n: int = n
        self.a: pk.View1D[pk.double] = a
        self.total: pk.double = 0

    @pk.main
    def run(self):
        self.total = pk.parallel_reduce(self.n, self.add)

    @pk.workunit
    def add(self, i: int, acc: pk.Acc[pk.double]):
        acc += self.a[i]
`)

	wantContains(t, artifacts.Functor, "struct pk_functor_Sum {")
	wantContains(t, artifacts.Functor, "struct add_tag {};")
	wantContains(t, artifacts.Functor, "double pk_acc_add = 0;")
	wantContains(t, artifacts.Functor,
		"Kokkos::parallel_reduce(Kokkos::RangePolicy<add_tag>(0, n), *this, pk_acc_add);")
	wantContains(t, artifacts.Functor, "total = pk_acc_add;")
	wantContains(t, artifacts.Functor, "acc += a(i);")

	bindings := artifacts.BindingsSource()
	wantContains(t, bindings, "pybind11::class_<pk_functor_Sum>(pk_m, \"Sum\")")
	wantContains(t, bindings, ".def(pybind11::init<Kokkos::View<double *>, int, double>())")
	wantContains(t, bindings, ".def(\"run\", &pk_functor_Sum::run)")
}

func TestClasstypeForwardDeclarations(t *testing.T) {
	artifacts := mustCompile(t, `import pykokkos as pk

@pk.classtype
class Point:
    def __init__(self, x: pk.double):
        self.x: pk.double = x

    def norm(self) -> pk.double:
        return self.x * self.x

@pk.workload
class Apply:
    def __init__(self, a: pk.View1D[pk.double]):
        self.a: pk.View1D[pk.double] = a

    @pk.main
    def run(self):
        pk.parallel_for(10, self.squares)

    @pk.workunit
    def squares(self, i: int):
        p: Point = Point(self.a[i])
        self.a[i] = p.norm()
`)

	forward := strings.Index(artifacts.Functor, "struct Point;")
	definition := strings.Index(artifacts.Functor, "struct Point {")
	if forward < 0 || definition < 0 {
		t.Fatalf("missing classtype declarations:\n%s", artifacts.Functor)
	}
	if forward > definition {
		t.Errorf("forward declaration after definition:\n%s", artifacts.Functor)
	}
	wantContains(t, artifacts.Functor, "KOKKOS_FUNCTION Point(double x) : x(x)")
	wantContains(t, artifacts.Functor, "KOKKOS_FUNCTION double norm() const {")
	wantContains(t, artifacts.Functor, "Point p = Point(a(i));")
	wantContains(t, artifacts.Functor, "a(i) = p.norm();")
	wantContains(t, artifacts.Functor,
		"Kokkos::parallel_for(Kokkos::RangePolicy<squares_tag>(0, 10), *this);")
}

func TestSymbolErrorsAreBatched(t *testing.T) {
	artifacts, bag, err := compile(t, `import pykokkos as pk

@pk.workunit
def first(i: int, a: pk.View1D[pk.double]):
    a[i] = ghost

@pk.workunit
def second(i: int, a: pk.View1D[pk.double]):
    a[i] = phantom
`)
	if !errors.Is(err, ErrSymbols) {
		t.Fatalf("err = %v, want ErrSymbols", err)
	}
	if artifacts != nil {
		t.Fatalf("artifacts produced despite symbol errors")
	}

	var unresolved []string
	for _, d := range bag.Items() {
		if d.Code == diag.SemUnresolvedSymbol {
			unresolved = append(unresolved, d.Message)
		}
	}
	if len(unresolved) != 2 {
		t.Fatalf("unresolved count = %d, want 2: %v", len(unresolved), unresolved)
	}
	if !strings.Contains(unresolved[0], "ghost") || !strings.Contains(unresolved[0], "in first") {
		t.Errorf("first diagnostic = %q", unresolved[0])
	}
	if !strings.Contains(unresolved[1], "phantom") || !strings.Contains(unresolved[1], "in second") {
		t.Errorf("second diagnostic = %q", unresolved[1])
	}
}

func TestWorkunitFaultIsImmediate(t *testing.T) {
	artifacts, _, err := compile(t, `import pykokkos as pk

@pk.workunit
def bad(i: int, a: pk.View1D[pk.double]):
    for j in a:
        pass
`)
	if artifacts != nil {
		t.Fatalf("artifacts produced despite translation fault")
	}
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("err = %v, want *Fault", err)
	}
	if fault.Workunit != "bad" {
		t.Errorf("fault workunit = %q, want %q", fault.Workunit, "bad")
	}
	if !strings.Contains(fault.Error(), "translation of workunit bad failed") {
		t.Errorf("fault message = %q", fault.Error())
	}
}

func TestCategoryExclusivity(t *testing.T) {
	_, bag, err := compile(t, `import pykokkos as pk

@pk.workunit
def scale(i: int, scale: pk.View1D[pk.double]):
    scale[i] = scale[i] * 2.0
`)
	if !errors.Is(err, ErrSymbols) {
		t.Fatalf("err = %v, want ErrSymbols", err)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemDuplicateSymbol && strings.Contains(d.Message, "scale") {
			found = true
		}
	}
	if !found {
		t.Errorf("no duplicate-symbol diagnostic for scale: %v", bag.Items())
	}
}

func TestBranchAssignedLocalHoisted(t *testing.T) {
	artifacts := mustCompile(t, `import pykokkos as pk

@pk.workunit
def clamp(i: int, a: pk.View1D[pk.double]):
    if a[i] > 0.0:
        t = 1.0
    else:
        t = 2.0
    a[i] = t
`)

	decl := strings.Index(artifacts.Functor, "double t;")
	branch := strings.Index(artifacts.Functor, "if (")
	if decl < 0 {
		t.Fatalf("no function-scope declaration for t:\n%s", artifacts.Functor)
	}
	if branch >= 0 && decl > branch {
		t.Errorf("t declared after the branch that assigns it:\n%s", artifacts.Functor)
	}
	if strings.Contains(artifacts.Functor, "auto t") {
		t.Errorf("t declared inside a branch scope:\n%s", artifacts.Functor)
	}
	wantContains(t, artifacts.Functor, "t = 1.0;")
	wantContains(t, artifacts.Functor, "t = 2.0;")
	wantContains(t, artifacts.Functor, "a(i) = t;")
}

func TestBranchLocalTypeInference(t *testing.T) {
	artifacts := mustCompile(t, `import pykokkos as pk

@pk.workunit
def mix(i: int, a: pk.View1D[pk.double], n: pk.int32):
    if i < n:
        k = 1
        w = 1
    else:
        k = 2
        w = 2.5
    total: pk.double = 0.0
    for j in range(k):
        total += w
    a[i] = total

@pk.workunit
def mark(i: int, b: pk.View1D[pk.int32]):
    if b[i] > 0:
        flag: pk.int32 = 1
        prev = b[i]
    else:
        flag: pk.int32 = 0
        prev = 0
    b[i] = flag + prev
`)

	wantContains(t, artifacts.Functor, "int k;")
	// An int assignment in one arm and a double in the other widen.
	wantContains(t, artifacts.Functor, "double w;")
	// The view element type carries into the hoisted local.
	wantContains(t, artifacts.Functor, "int32_t prev;")
	if got := strings.Count(artifacts.Functor, "int32_t flag"); got != 1 {
		t.Errorf("flag declared %d times, want 1:\n%s", got, artifacts.Functor)
	}
	wantContains(t, artifacts.Functor, "flag = 1;")
	wantContains(t, artifacts.Functor, "flag = 0;")
	wantContains(t, artifacts.Functor, "b(i) = (flag + prev);")
}

func TestBranchDispatchAccumulatorHoisted(t *testing.T) {
	artifacts := mustCompile(t, `import pykokkos as pk

@pk.workload
class Pick:
    def __init__(self, n: int, a: pk.View1D[pk.double], dense: pk.bool):
        self.n: int = n
        self.a: pk.View1D[pk.double] = a
        self.dense: pk.bool = dense
        self.total: pk.double = 0

    @pk.main
    def run(self):
        if self.dense:
            self.total = pk.parallel_reduce(self.n, self.add)
        else:
            self.total = pk.parallel_reduce(10, self.add)

    @pk.workunit
    def add(self, i: int, acc: pk.Acc[pk.double]):
        acc += self.a[i]
`)

	decl := strings.Index(artifacts.Functor, "double pk_acc_add;")
	branch := strings.Index(artifacts.Functor, "if (dense)")
	if decl < 0 || branch < 0 {
		t.Fatalf("missing hoisted accumulator or branch:\n%s", artifacts.Functor)
	}
	if decl > branch {
		t.Errorf("accumulator declared after the dispatching branch:\n%s", artifacts.Functor)
	}
	if strings.Contains(artifacts.Functor, "double pk_acc_add = 0;") {
		t.Errorf("accumulator declared inside a branch scope:\n%s", artifacts.Functor)
	}
	if got := strings.Count(artifacts.Functor, "pk_acc_add = 0;"); got != 2 {
		t.Errorf("accumulator reset %d times, want 2:\n%s", got, artifacts.Functor)
	}
	if got := strings.Count(artifacts.Functor, "total = pk_acc_add;"); got != 2 {
		t.Errorf("result stored %d times, want 2:\n%s", got, artifacts.Functor)
	}
}

func TestClasstypeMethodNameExclusivity(t *testing.T) {
	_, bag, err := compile(t, `import pykokkos as pk

@pk.classtype
class Point:
    def __init__(self, x: pk.double):
        self.x: pk.double = x

    def scale(self) -> pk.double:
        return self.x * 2.0

@pk.workload
class Apply:
    def __init__(self, a: pk.View1D[pk.double]):
        self.a: pk.View1D[pk.double] = a

    @pk.function
    def scale(self, v: pk.double) -> pk.double:
        return v * 2.0

    @pk.main
    def run(self):
        pk.parallel_for(10, self.noop)

    @pk.workunit
    def noop(self, i: int):
        self.a[i] = self.scale(self.a[i])
`)
	if !errors.Is(err, ErrSymbols) {
		t.Fatalf("err = %v, want ErrSymbols", err)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemDuplicateSymbol && strings.Contains(d.Message, "scale") {
			found = true
		}
	}
	if !found {
		t.Errorf("no duplicate-symbol diagnostic for scale: %v", bag.Items())
	}
}

func TestRangeLoopsAndBuiltins(t *testing.T) {
	artifacts := mustCompile(t, `import pykokkos as pk

@pk.workunit
def smooth(i: int, a: pk.View1D[pk.double], n: pk.int32):
    acc: pk.double = 0
    for j in range(0, n):
        acc += pk.sqrt(a[j])
    a[i] = acc / pk.double(n)
`)

	wantContains(t, artifacts.Functor, "double acc = 0;")
	wantContains(t, artifacts.Functor, "for (int j = 0; j < n; ++j) {")
	wantContains(t, artifacts.Functor, "acc += std::sqrt(a(j));")
	wantContains(t, artifacts.Functor, "a(i) = (acc / static_cast<double>(n));")
}

func TestForwardDeclDoesNotMutateDefinition(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("point.py", []byte(`import pykokkos as pk

@pk.classtype
class Point:
    def __init__(self, x: pk.double):
        self.x: pk.double = x
`))
	bag := diag.NewBag(8)
	_, classtypes := parser.Entities(fs, id, &diag.BagReporter{Bag: bag})
	if bag.HasErrors() || len(classtypes) != 1 {
		t.Fatalf("classtypes = %d, diagnostics: %v", len(classtypes), bag.Items())
	}

	cls := classtypes[0].AST.(*pyast.ClassDef)
	members := newMembers()
	members.Classtypes = append(members.Classtypes, cls)
	record, err := TranslateClasstype(cls, members, "pk", LinkParents(cls))
	if err != nil {
		t.Fatalf("TranslateClasstype: %v", err)
	}
	var ser cppast.Serializer
	before := ser.Serialize(record)

	forward := record.Forward()
	if forward.Definition {
		t.Errorf("forward declaration still marked as definition")
	}
	if got := ser.Serialize(forward); got != "struct Point;\n" {
		t.Errorf("forward declaration = %q, want %q", got, "struct Point;\n")
	}
	if !record.Definition || len(record.Methods) == 0 || len(record.Fields) == 0 {
		t.Errorf("definition lost state after Forward: %+v", record)
	}
	if after := ser.Serialize(record); after != before {
		t.Errorf("definition changed after Forward:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}
