package translate

import (
	"pkc/internal/diag"
	"pkc/internal/entity"
	"pkc/internal/parser"
	"pkc/internal/pyast"
	"pkc/internal/source"
)

// Members holds the symbol tables extracted from one entity and its
// classtypes. Each declared name lives in exactly one table; the order
// slices preserve source order so generated code is deterministic.
type Members struct {
	Views     map[string]ViewType
	Fields    map[string]Scalar
	Functions map[string]*pyast.FunctionDef
	Workunits map[string]*pyast.FunctionDef
	Mains     map[string]*pyast.FunctionDef
	// ClasstypeMethods is keyed by "Class.method".
	ClasstypeMethods map[string]*pyast.FunctionDef

	ViewOrder     []string
	FieldOrder    []string
	FunctionOrder []string
	WorkunitOrder []string
	MainOrder     []string

	Classtypes []*pyast.ClassDef
	spans      map[string]source.Span
}

func newMembers() *Members {
	return &Members{
		Views:            make(map[string]ViewType),
		Fields:           make(map[string]Scalar),
		Functions:        make(map[string]*pyast.FunctionDef),
		Workunits:        make(map[string]*pyast.FunctionDef),
		Mains:            make(map[string]*pyast.FunctionDef),
		ClasstypeMethods: make(map[string]*pyast.FunctionDef),
		spans:            make(map[string]source.Span),
	}
}

// Resolves reports how many symbol tables contain name. Zero means
// unresolved, more than one means the compilation unit is ambiguous.
func (m *Members) Resolves(name string) int {
	count := 0
	if _, ok := m.Views[name]; ok {
		count++
	}
	if _, ok := m.Fields[name]; ok {
		count++
	}
	if _, ok := m.Functions[name]; ok {
		count++
	}
	if _, ok := m.Workunits[name]; ok {
		count++
	}
	if _, ok := m.Mains[name]; ok {
		count++
	}
	return count
}

// HasClasstypeMethod reports whether any classtype declares a method with
// the given bare name.
func (m *Members) HasClasstypeMethod(name string) bool {
	for key := range m.ClasstypeMethods {
		for i := len(key) - 1; i >= 0; i-- {
			if key[i] == '.' {
				if key[i+1:] == name {
					return true
				}
				break
			}
		}
	}
	return false
}

// extractor walks entity declarations once and classifies every one of
// them. Unclassifiable declarations become membership diagnostics that
// surface with the symbol report, not immediate faults.
type extractor struct {
	members  *Members
	alias    string
	reporter diag.Reporter
}

// ExtractMembers builds the symbol tables for one compilation. Membership
// and duplicate-name problems are reported through reporter and examined
// by the caller after symbol validation.
func ExtractMembers(e *entity.Entity, classtypes []entity.Entity, reporter diag.Reporter) *Members {
	ex := &extractor{
		members:  newMembers(),
		alias:    e.ImportAlias,
		reporter: reporter,
	}

	switch ast := e.AST.(type) {
	case *pyast.ClassDef:
		ex.extractWorkload(ast)
	case *pyast.Module:
		ex.extractFunctionGroup(ast)
	}

	for i := range classtypes {
		if cls, ok := classtypes[i].AST.(*pyast.ClassDef); ok {
			ex.extractClasstype(cls)
		}
	}
	return ex.members
}

func (ex *extractor) extractWorkload(cls *pyast.ClassDef) {
	for _, stmt := range cls.Body {
		switch s := stmt.(type) {
		case *pyast.FunctionDef:
			switch defAnnotation(s, ex.alias) {
			case parser.AnnoWorkunit:
				ex.addWorkunit(s)
			case parser.AnnoMain:
				ex.addMain(s)
			case parser.AnnoFunction:
				ex.addFunction(s)
			default:
				if s.Name == "__init__" {
					ex.extractInitFields(s)
					continue
				}
				diag.Error(ex.reporter, diag.SemMembership, s.Loc,
					"method "+s.Name+" has no recognized annotation")
			}
		case *pyast.AnnAssign:
			ex.addFieldOrView(s)
		case *pyast.Pass:
			// allowed filler
		default:
			diag.Error(ex.reporter, diag.SemMembership, stmt.Span(),
				"declaration cannot be classified in workload "+cls.Name)
		}
	}
}

// extractInitFields records every annotated `self.<name>` assignment in
// the workload constructor as a view or scalar field.
func (ex *extractor) extractInitFields(init *pyast.FunctionDef) {
	for _, stmt := range init.Body {
		switch s := stmt.(type) {
		case *pyast.AnnAssign:
			if !isSelfTarget(s.Target) {
				continue // plain local in the constructor
			}
			ex.addFieldOrView(s)
		case *pyast.Assign:
			if isSelfTarget(s.Target) {
				diag.Error(ex.reporter, diag.SemMembership, s.Loc,
					"field assignment requires a type annotation")
			}
		}
	}
}

func (ex *extractor) extractFunctionGroup(mod *pyast.Module) {
	for _, stmt := range mod.Body {
		fn, ok := stmt.(*pyast.FunctionDef)
		if !ok {
			diag.Error(ex.reporter, diag.SemMembership, stmt.Span(),
				"declaration cannot be classified in function group")
			continue
		}
		switch defAnnotation(fn, ex.alias) {
		case parser.AnnoWorkunit:
			ex.addWorkunit(fn)
			ex.extractWorkunitParams(fn)
		case parser.AnnoFunction:
			ex.addFunction(fn)
		default:
			diag.Error(ex.reporter, diag.SemMembership, fn.Loc,
				"function "+fn.Name+" has no recognized annotation")
		}
	}
}

// extractWorkunitParams turns the data parameters of a free-standing
// workunit into functor members. The thread index and accumulator
// parameters stay parameters of the call operator.
func (ex *extractor) extractWorkunitParams(fn *pyast.FunctionDef) {
	sig := analyzeSignature(fn, ex.alias, false)
	for _, p := range sig.DataParams {
		if view, ok := viewFromAnnotation(p.Annotation, ex.alias); ok {
			ex.declareView(p.Name, view, p.Loc)
			continue
		}
		if scalar, ok := scalarFromAnnotation(p.Annotation, ex.alias); ok {
			ex.declareField(p.Name, scalar, p.Loc)
			continue
		}
		diag.Error(ex.reporter, diag.SemMembership, p.Loc,
			"parameter "+p.Name+" of workunit "+fn.Name+" has no recognized type")
	}
}

func (ex *extractor) extractClasstype(cls *pyast.ClassDef) {
	ex.members.Classtypes = append(ex.members.Classtypes, cls)
	for _, stmt := range cls.Body {
		switch s := stmt.(type) {
		case *pyast.FunctionDef:
			key := cls.Name + "." + s.Name
			if _, dup := ex.members.ClasstypeMethods[key]; dup {
				diag.Error(ex.reporter, diag.SemDuplicateSymbol, s.Loc,
					"duplicate classtype method "+key)
				continue
			}
			if ex.members.Resolves(s.Name) > 0 {
				ex.reportDuplicate(s.Name, s.Loc)
				continue
			}
			ex.members.ClasstypeMethods[key] = s
			ex.members.spans[key] = s.Loc
		case *pyast.Pass:
		default:
			diag.Error(ex.reporter, diag.SemMembership, stmt.Span(),
				"declaration cannot be classified in classtype "+cls.Name)
		}
	}
}

// addFieldOrView classifies one annotated declaration by its annotation.
func (ex *extractor) addFieldOrView(s *pyast.AnnAssign) {
	name, ok := targetName(s.Target)
	if !ok {
		diag.Error(ex.reporter, diag.SemMembership, s.Loc, "unsupported declaration target")
		return
	}
	if view, ok := viewFromAnnotation(s.Annotation, ex.alias); ok {
		ex.declareView(name, view, s.Loc)
		return
	}
	if scalar, ok := scalarFromAnnotation(s.Annotation, ex.alias); ok {
		ex.declareField(name, scalar, s.Loc)
		return
	}
	diag.Error(ex.reporter, diag.SemMembership, s.Loc,
		"annotation of "+name+" is neither a view nor a recognized scalar")
}

func (ex *extractor) declareView(name string, view ViewType, loc source.Span) {
	if existing, ok := ex.members.Views[name]; ok {
		if existing == view {
			return // same view named by several workunits
		}
		ex.reportDuplicate(name, loc)
		return
	}
	if ex.checkFresh(name, loc) {
		ex.members.Views[name] = view
		ex.members.ViewOrder = append(ex.members.ViewOrder, name)
		ex.members.spans[name] = loc
	}
}

func (ex *extractor) declareField(name string, scalar Scalar, loc source.Span) {
	if existing, ok := ex.members.Fields[name]; ok {
		if existing == scalar {
			return
		}
		ex.reportDuplicate(name, loc)
		return
	}
	if ex.checkFresh(name, loc) {
		ex.members.Fields[name] = scalar
		ex.members.FieldOrder = append(ex.members.FieldOrder, name)
		ex.members.spans[name] = loc
	}
}

func (ex *extractor) addWorkunit(fn *pyast.FunctionDef) {
	if ex.checkFresh(fn.Name, fn.Loc) {
		ex.members.Workunits[fn.Name] = fn
		ex.members.WorkunitOrder = append(ex.members.WorkunitOrder, fn.Name)
		ex.members.spans[fn.Name] = fn.Loc
	}
}

func (ex *extractor) addMain(fn *pyast.FunctionDef) {
	if ex.checkFresh(fn.Name, fn.Loc) {
		ex.members.Mains[fn.Name] = fn
		ex.members.MainOrder = append(ex.members.MainOrder, fn.Name)
		ex.members.spans[fn.Name] = fn.Loc
	}
}

func (ex *extractor) addFunction(fn *pyast.FunctionDef) {
	if ex.checkFresh(fn.Name, fn.Loc) {
		ex.members.Functions[fn.Name] = fn
		ex.members.FunctionOrder = append(ex.members.FunctionOrder, fn.Name)
		ex.members.spans[fn.Name] = fn.Loc
	}
}

// checkFresh enforces category exclusivity: a name may live in at most
// one of the symbol tables. Classtype methods are class scoped but their
// bare names still may not shadow an entity-level declaration.
func (ex *extractor) checkFresh(name string, loc source.Span) bool {
	if ex.members.Resolves(name) > 0 || ex.members.HasClasstypeMethod(name) {
		ex.reportDuplicate(name, loc)
		return false
	}
	return true
}

func (ex *extractor) reportDuplicate(name string, loc source.Span) {
	d := diag.NewError(diag.SemDuplicateSymbol, loc, "name "+name+" is declared more than once")
	if prev, ok := ex.members.spans[name]; ok {
		d = d.WithNote(prev, "previous declaration of "+name)
	}
	ex.reporter.Report(d)
}

func isSelfTarget(e pyast.Expr) bool {
	attr, ok := e.(*pyast.Attribute)
	if !ok {
		return false
	}
	base, ok := attr.Value.(*pyast.Name)
	return ok && base.ID == "self"
}

// targetName accepts either `name` or `self.name` declaration targets.
func targetName(e pyast.Expr) (string, bool) {
	switch e := e.(type) {
	case *pyast.Name:
		return e.ID, true
	case *pyast.Attribute:
		if isSelfTarget(e) {
			return e.Attr, true
		}
	}
	return "", false
}

func defAnnotation(fn *pyast.FunctionDef, alias string) string {
	for _, dec := range fn.Decorators {
		if name, ok := pyast.DecoratorName(dec, alias); ok {
			return name
		}
	}
	return ""
}
