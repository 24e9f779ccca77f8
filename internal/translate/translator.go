package translate

import (
	"errors"
	"strings"

	"pkc/internal/cppast"
	"pkc/internal/diag"
	"pkc/internal/entity"
	"pkc/internal/pyast"
)

// Stamp opens every generated file so downstream tooling can tell
// generated sources from hand-written ones.
const Stamp = "// ******* AUTOMATICALLY GENERATED BY PKC *******"

// ErrSymbols is returned when symbol validation found errors. The bag
// accompanying it carries the full consolidated report; no artifacts are
// produced.
var ErrSymbols = errors.New("symbol validation failed")

// DefaultMaxDiagnostics caps the consolidated symbol report.
const DefaultMaxDiagnostics = 100

// Translator compiles one entity to native source artifacts. A fresh
// value per compilation; it holds no cross-compilation state.
type Translator struct {
	// ModuleName is the host-visible name of the generated module.
	ModuleName string
	// FunctorFile is the kernel filename the bindings include.
	FunctorFile string
	// MaxDiagnostics bounds the symbol report.
	MaxDiagnostics int
}

// New builds a Translator with the default diagnostic cap.
func New(moduleName, functorFile string) *Translator {
	return &Translator{
		ModuleName:     moduleName,
		FunctorFile:    functorFile,
		MaxDiagnostics: DefaultMaxDiagnostics,
	}
}

// Artifacts is the output of one successful compilation: the kernel
// source and the binding fragments in emission order.
type Artifacts struct {
	Functor  string
	Bindings []string
}

// BindingsSource joins the binding fragments into one compilable file.
func (a *Artifacts) BindingsSource() string {
	return strings.Join(a.Bindings, "\n")
}

// Translate runs the full pipeline on one entity and its classtypes.
//
// Symbol problems are batched: every body is checked and the sorted,
// deduplicated bag is returned alongside ErrSymbols. A translation fault
// inside a body is fatal immediately and surfaces as a *Fault; the two
// failure modes are deliberate and distinct.
func (t *Translator) Translate(e *entity.Entity, classtypes []entity.Entity) (*Artifacts, *diag.Bag, error) {
	maxDiag := t.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = DefaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiag)
	reporter := &diag.BagReporter{Bag: bag}

	roots := []pyast.Node{e.AST}
	for i := range classtypes {
		roots = append(roots, classtypes[i].AST)
	}
	parents := LinkParents(roots...)
	alias := e.ImportAlias

	members := ExtractMembers(e, classtypes, reporter)

	sp := NewSymbolsPass(members, alias, parents, reporter)
	for _, name := range members.FunctionOrder {
		sp.CheckFunction(members.Functions[name])
	}
	for _, name := range members.WorkunitOrder {
		sp.CheckFunction(members.Workunits[name])
	}
	for _, name := range members.MainOrder {
		sp.CheckFunction(members.Mains[name])
	}
	for _, cls := range members.Classtypes {
		sp.CheckClass(cls)
	}

	bag.Sort()
	bag.Dedup()
	if bag.HasErrors() {
		return nil, bag, ErrSymbols
	}

	var records []cppast.RecordDecl
	for _, cls := range members.Classtypes {
		record, err := TranslateClasstype(cls, members, alias, parents)
		if err != nil {
			return nil, bag, err
		}
		records = append(records, record)
	}

	var helpers []cppast.MethodDecl
	for _, name := range members.FunctionOrder {
		helper, err := TranslateFunction(members.Functions[name], members, alias, parents)
		if err != nil {
			return nil, bag, err
		}
		helpers = append(helpers, helper)
	}

	asMethod := e.Style == entity.StyleWorkload
	var workunits []WorkunitResult
	for _, name := range members.WorkunitOrder {
		wu, err := TranslateWorkunit(members.Workunits[name], members, alias, parents, asMethod)
		if err != nil {
			return nil, bag, err
		}
		workunits = append(workunits, wu)
	}

	var drivers []cppast.MethodDecl
	for _, name := range members.MainOrder {
		driver, err := TranslateMain(members.Mains[name], members, alias, parents)
		if err != nil {
			return nil, bag, err
		}
		drivers = append(drivers, driver)
	}

	functor := AssembleFunctor(e.Name, members, workunits, helpers, drivers)

	artifacts := &Artifacts{
		Functor: renderKernel(records, functor),
	}
	artifacts.Bindings = append(artifacts.Bindings, bindingsHeader(t.FunctorFile))
	artifacts.Bindings = append(artifacts.Bindings, GenerateBindings(t.ModuleName, e, members, workunits)...)
	return artifacts, bag, nil
}

// renderKernel emits the kernel source: forward declarations for every
// classtype first, then their definitions, then the functor.
func renderKernel(records []cppast.RecordDecl, functor cppast.RecordDecl) string {
	var ser cppast.Serializer
	var b strings.Builder
	b.WriteString(Stamp)
	b.WriteString("\n\n")
	for _, record := range records {
		b.WriteString(ser.Serialize(record.Forward()))
	}
	if len(records) > 0 {
		b.WriteString("\n")
	}
	for _, record := range records {
		b.WriteString(ser.Serialize(record))
		b.WriteString("\n")
	}
	b.WriteString(ser.Serialize(functor))
	return b.String()
}

// bindingsHeader is the fixed include block of the bindings file.
func bindingsHeader(functorFile string) string {
	var b strings.Builder
	b.WriteString(Stamp)
	b.WriteString("\n")
	b.WriteString("#include <pybind11/pybind11.h>\n")
	b.WriteString("#include <Kokkos_Core.hpp>\n")
	b.WriteString("#include <Kokkos_Sort.hpp>\n")
	b.WriteString("#include <fstream>\n")
	b.WriteString("#include <iostream>\n")
	b.WriteString("#include <cmath>\n")
	b.WriteString("#include \"" + functorFile + "\"\n")
	return b.String()
}
