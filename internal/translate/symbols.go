package translate

import (
	"pkc/internal/diag"
	"pkc/internal/pyast"
)

// SymbolsPass re-walks translated bodies and confirms that every
// referenced name resolves against the extracted tables, a local binding,
// or the builtin allow-list. It never stops at the first problem: all
// diagnostics across all bodies land in the reporter and the caller
// decides afterwards.
type SymbolsPass struct {
	members  *Members
	alias    string
	parents  Parents
	reporter diag.Reporter
}

func NewSymbolsPass(members *Members, alias string, parents Parents, reporter diag.Reporter) *SymbolsPass {
	return &SymbolsPass{
		members:  members,
		alias:    alias,
		parents:  parents,
		reporter: reporter,
	}
}

// CheckFunction validates one workunit, driver, or helper body.
func (sp *SymbolsPass) CheckFunction(fn *pyast.FunctionDef) {
	ck := &symbolChecker{
		pass:   sp,
		locals: collectLocals(fn),
	}
	ck.stmts(fn.Body)
}

// CheckClass validates every method body of a classtype. Fields assigned
// in the classtype constructor are legal self members inside the class.
func (sp *SymbolsPass) CheckClass(cls *pyast.ClassDef) {
	classFields := make(map[string]bool)
	classMethods := make(map[string]bool)
	for _, stmt := range cls.Body {
		fn, ok := stmt.(*pyast.FunctionDef)
		if !ok {
			continue
		}
		classMethods[fn.Name] = true
		if fn.Name != "__init__" {
			continue
		}
		for _, s := range fn.Body {
			if ann, ok := s.(*pyast.AnnAssign); ok {
				if name, ok := targetName(ann.Target); ok && isSelfTarget(ann.Target) {
					classFields[name] = true
				}
			}
		}
	}

	for _, stmt := range cls.Body {
		fn, ok := stmt.(*pyast.FunctionDef)
		if !ok {
			continue
		}
		ck := &symbolChecker{
			pass:         sp,
			locals:       collectLocals(fn),
			classFields:  classFields,
			classMethods: classMethods,
		}
		ck.stmts(fn.Body)
	}
}

// collectLocals gathers every binding visible in the body: parameters,
// assignment targets, and loop variables. Bindings are function scoped,
// matching the host language.
func collectLocals(fn *pyast.FunctionDef) map[string]bool {
	locals := make(map[string]bool)
	for _, p := range fn.Params {
		locals[p.Name] = true
	}
	var walkStmts func([]pyast.Stmt)
	walkStmts = func(body []pyast.Stmt) {
		for _, stmt := range body {
			switch s := stmt.(type) {
			case *pyast.Assign:
				if name, ok := s.Target.(*pyast.Name); ok {
					locals[name.ID] = true
				}
			case *pyast.AnnAssign:
				if name, ok := s.Target.(*pyast.Name); ok {
					locals[name.ID] = true
				}
			case *pyast.For:
				locals[s.Target.ID] = true
				walkStmts(s.Body)
			case *pyast.If:
				walkStmts(s.Body)
				walkStmts(s.Else)
			case *pyast.While:
				walkStmts(s.Body)
			}
		}
	}
	walkStmts(fn.Body)
	return locals
}

type symbolChecker struct {
	pass         *SymbolsPass
	locals       map[string]bool
	classFields  map[string]bool
	classMethods map[string]bool
}

func (ck *symbolChecker) stmts(body []pyast.Stmt) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *pyast.Assign:
			ck.target(s.Target)
			ck.expr(s.Value)
		case *pyast.AnnAssign:
			// Annotations are types, not value references; skip them.
			ck.target(s.Target)
			if s.Value != nil {
				ck.expr(s.Value)
			}
		case *pyast.AugAssign:
			ck.target(s.Target)
			ck.expr(s.Value)
		case *pyast.If:
			ck.expr(s.Test)
			ck.stmts(s.Body)
			ck.stmts(s.Else)
		case *pyast.For:
			ck.expr(s.Iter)
			ck.stmts(s.Body)
		case *pyast.While:
			ck.expr(s.Test)
			ck.stmts(s.Body)
		case *pyast.Return:
			if s.Value != nil {
				ck.expr(s.Value)
			}
		case *pyast.ExprStmt:
			ck.expr(s.X)
		}
	}
}

// target validates an assignment destination. Bare names are bindings;
// anything else is a normal reference.
func (ck *symbolChecker) target(e pyast.Expr) {
	if _, ok := e.(*pyast.Name); ok {
		return
	}
	ck.expr(e)
}

func (ck *symbolChecker) expr(e pyast.Expr) {
	switch e := e.(type) {
	case *pyast.Name:
		ck.name(e)
	case *pyast.Attribute:
		ck.attribute(e)
	case *pyast.Subscript:
		ck.expr(e.Value)
		for _, idx := range e.Index {
			ck.expr(idx)
		}
	case *pyast.Call:
		ck.expr(e.Func)
		for _, a := range e.Args {
			ck.expr(a)
		}
	case *pyast.BinOp:
		ck.expr(e.Left)
		ck.expr(e.Right)
	case *pyast.UnaryOp:
		ck.expr(e.Operand)
	case *pyast.ListLit:
		for _, elt := range e.Elts {
			ck.expr(elt)
		}
	}
}

func (ck *symbolChecker) name(n *pyast.Name) {
	id := n.ID
	if id == "<error>" || id == "self" || id == ck.pass.alias {
		return
	}
	if ck.locals[id] || isBuiltinName(id) {
		return
	}
	for _, cls := range ck.pass.members.Classtypes {
		if cls.Name == id {
			return
		}
	}
	switch ck.pass.members.Resolves(id) {
	case 0:
		ck.report(diag.SemUnresolvedSymbol, n, "unresolved symbol "+id)
	case 1:
		// resolved against exactly one table
	default:
		ck.report(diag.SemAmbiguousSymbol, n, "symbol "+id+" is ambiguous between symbol tables")
	}
}

func (ck *symbolChecker) attribute(a *pyast.Attribute) {
	base, ok := a.Value.(*pyast.Name)
	if !ok {
		ck.expr(a.Value)
		return
	}
	switch base.ID {
	case ck.pass.alias:
		if !isKernelAttr(a.Attr) {
			ck.report(diag.SemUnresolvedSymbol, a,
				ck.pass.alias+"."+a.Attr+" is not a recognized kernel name")
		}
	case "self":
		if ck.classFields != nil {
			if !ck.classFields[a.Attr] && !ck.classMethods[a.Attr] {
				ck.report(diag.SemUnresolvedSymbol, a,
					"self."+a.Attr+" does not name a declared classtype member")
			}
			return
		}
		if ck.pass.members.Resolves(a.Attr) == 0 {
			ck.report(diag.SemUnresolvedSymbol, a,
				"self."+a.Attr+" does not name a declared member")
		}
	default:
		// Classtype instance members are validated on the class itself.
		ck.name(base)
	}
}

func (ck *symbolChecker) report(code diag.Code, n pyast.Node, msg string) {
	if owner := ck.pass.parents.EnclosingDef(n); owner != nil {
		msg += " in " + owner.Name
	}
	diag.Error(ck.pass.reporter, code, n.Span(), msg)
}
