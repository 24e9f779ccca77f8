package translate

import (
	"pkc/internal/cppast"
	"pkc/internal/pyast"
)

// TranslateMain turns one annotated driver method into a host-side
// functor method. Dispatch calls in the body become Kokkos dispatches of
// the functor itself, selected by workunit tag.
func TranslateMain(fn *pyast.FunctionDef, members *Members, alias string, parents Parents) (cppast.MethodDecl, error) {
	v := newVisitor(members, alias, parents, roleDriver)
	for _, p := range fn.Params {
		v.declare(p.Name)
	}

	body, err := v.body(fn.Body)
	if err != nil {
		return cppast.MethodDecl{}, err
	}
	return cppast.MethodDecl{
		Name: fn.Name,
		Ret:  cppast.Type{Name: "void"},
		Body: body,
	}, nil
}

// driverDispatch recognizes a bare dispatch call statement. A plain
// parallel for dispatches directly; a reduce or scan whose result is
// discarded still needs the accumulator out-parameter.
func (v *visitor) driverDispatch(e pyast.Expr) ([]cppast.Stmt, bool, error) {
	call, attr, ok := v.dispatchCall(e)
	if !ok {
		return nil, false, nil
	}
	bound, wu, err := v.dispatchArgs(call)
	if err != nil {
		return nil, true, err
	}

	switch attr {
	case "parallel_for":
		if wu.Op != DispatchFor {
			return nil, true, faultf(call, "workunit %s expects a %s dispatch", wu.Name, wu.Op)
		}
		return []cppast.Stmt{cppast.ExprStmt{X: dispatchExpr("Kokkos::parallel_for", wu.TagName, bound, nil)}}, true, nil
	case "parallel_reduce", "parallel_scan":
		stmts, _, err := v.dispatchWithResult(call, attr, bound, wu)
		if err != nil {
			return nil, true, err
		}
		return stmts, true, nil
	}
	return nil, false, nil
}

// driverReduceAssign recognizes `target = pk.parallel_reduce(...)` and
// `target = pk.parallel_scan(...)`, routing the accumulator result into
// the assignment target.
func (v *visitor) driverReduceAssign(s *pyast.Assign) ([]cppast.Stmt, bool, error) {
	call, attr, ok := v.dispatchCall(s.Value)
	if !ok || attr == "parallel_for" {
		return nil, false, nil
	}
	bound, wu, err := v.dispatchArgs(call)
	if err != nil {
		return nil, true, err
	}
	stmts, result, err := v.dispatchWithResult(call, attr, bound, wu)
	if err != nil {
		return nil, true, err
	}

	if name, isName := s.Target.(*pyast.Name); isName && v.isFreshLocal(name.ID) {
		v.declare(name.ID)
		stmts = append(stmts, cppast.DeclStmt{
			Type: wu.AccType.Cpp(),
			Name: name.ID,
			Init: result,
		})
		return stmts, true, nil
	}
	lhs, err := v.expr(s.Target)
	if err != nil {
		return nil, true, err
	}
	stmts = append(stmts, cppast.Assign{LHS: lhs, Op: "=", RHS: result})
	return stmts, true, nil
}

// dispatchCall matches an alias-qualified parallel dispatch call.
func (v *visitor) dispatchCall(e pyast.Expr) (*pyast.Call, string, bool) {
	call, ok := e.(*pyast.Call)
	if !ok {
		return nil, "", false
	}
	attrExpr, ok := call.Func.(*pyast.Attribute)
	if !ok {
		return nil, "", false
	}
	base, ok := attrExpr.Value.(*pyast.Name)
	if !ok || base.ID != v.alias {
		return nil, "", false
	}
	switch attrExpr.Attr {
	case "parallel_for", "parallel_reduce", "parallel_scan":
		return call, attrExpr.Attr, true
	}
	return nil, "", false
}

// dispatchArgs validates `(bound, workunit)` and resolves the workunit.
func (v *visitor) dispatchArgs(call *pyast.Call) (cppast.Expr, WorkunitResult, error) {
	if len(call.Args) != 2 {
		return nil, WorkunitResult{}, faultf(call, "dispatch takes a bound and a workunit reference")
	}
	bound, err := v.expr(call.Args[0])
	if err != nil {
		return nil, WorkunitResult{}, err
	}

	name, ok := workunitRef(call.Args[1])
	if !ok {
		return nil, WorkunitResult{}, faultf(call.Args[1], "dispatch argument is not a workunit reference")
	}
	fn, ok := v.members.Workunits[name]
	if !ok {
		return nil, WorkunitResult{}, faultf(call.Args[1], "%s is not a workunit", name)
	}

	sig := analyzeSignature(fn, v.alias, true)
	return bound, WorkunitResult{
		Name:    name,
		Op:      sig.Kind,
		AccType: sig.AccType,
		TagName: name + "_tag",
	}, nil
}

// dispatchWithResult emits the accumulator declaration and the dispatch
// call for a reduce or scan, returning the result reference.
func (v *visitor) dispatchWithResult(call *pyast.Call, attr string, bound cppast.Expr, wu WorkunitResult) ([]cppast.Stmt, cppast.Expr, error) {
	switch attr {
	case "parallel_reduce":
		if wu.Op != DispatchReduce {
			return nil, nil, faultf(call, "workunit %s expects a %s dispatch", wu.Name, wu.Op)
		}
	case "parallel_scan":
		if wu.Op != DispatchScan {
			return nil, nil, faultf(call, "workunit %s expects a %s dispatch", wu.Name, wu.Op)
		}
	}

	tmp := "pk_acc_" + wu.Name
	var stmts []cppast.Stmt
	if v.declared[tmp] {
		stmts = append(stmts, cppast.Assign{
			LHS: cppast.DeclRef{Name: tmp}, Op: "=", RHS: cppast.IntLit{Value: 0},
		})
	} else {
		v.declare(tmp)
		stmts = append(stmts, cppast.DeclStmt{
			Type: wu.AccType.Cpp(),
			Name: tmp,
			Init: cppast.IntLit{Value: 0},
		})
	}

	fn := "Kokkos::parallel_reduce"
	if attr == "parallel_scan" {
		fn = "Kokkos::parallel_scan"
	}
	stmts = append(stmts, cppast.ExprStmt{
		X: dispatchExpr(fn, wu.TagName, bound, cppast.DeclRef{Name: tmp}),
	})
	return stmts, cppast.DeclRef{Name: tmp}, nil
}

// dispatchExpr builds `fn(Kokkos::RangePolicy<tag>(0, bound), *this[, out])`.
func dispatchExpr(fn, tag string, bound, out cppast.Expr) cppast.Expr {
	policy := cppast.CallExpr{
		Fn:   cppast.DeclRef{Name: "Kokkos::RangePolicy<" + tag + ">"},
		Args: []cppast.Expr{cppast.IntLit{Value: 0}, bound},
	}
	args := []cppast.Expr{policy, cppast.DeclRef{Name: "*this"}}
	if out != nil {
		args = append(args, out)
	}
	return cppast.CallExpr{Fn: cppast.DeclRef{Name: fn}, Args: args}
}

// workunitRef accepts `self.name` or a bare `name` workunit reference.
func workunitRef(e pyast.Expr) (string, bool) {
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
